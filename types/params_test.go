package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBurnPartition(t *testing.T) {
	amounts := []uint64{0, 1, 999, 1_000_000, 1 << 50, ^uint64(0)}
	for _, amount := range amounts {
		for bps := uint64(0); bps <= 1000; bps += 37 {
			burn := CalculateBurn(amount, bps)
			net := NetAmount(amount, bps)
			require.Equal(t, amount, burn+net, "amount=%d bps=%d", amount, bps)
		}
	}
}

func TestGrossAmount(t *testing.T) {
	require.Equal(t, uint64(1_001_001_001), GrossAmount(1_000_000_000, 10))

	// Gross-up then burn never yields less than the requested net, and the
	// returned gross is minimal: one unit less falls short.
	for _, net := range []uint64{1, 12345, 1_000_000_000} {
		for _, bps := range []uint64{0, 1, 10, 100, 999} {
			gross := GrossAmount(net, bps)
			require.GreaterOrEqual(t, NetAmount(gross, bps), net,
				"net=%d bps=%d gross=%d", net, bps, gross)
			require.Less(t, NetAmount(gross-1, bps), net,
				"net=%d bps=%d gross=%d", net, bps, gross)
		}
	}
}

func TestDefaultPoolParams(t *testing.T) {
	p := DefaultPoolParams()
	require.Equal(t, uint64(3_024_000), p.EpochDurationSlots)
	require.Equal(t, uint64(38_880_000), p.ExpirySlots)
	require.Equal(t, uint64(216_000), p.FinalizationDelaySlots)
	require.Equal(t, uint64(12), p.ExpiryEpochs())
	require.Equal(t, uint64(2), p.WarningEpochs)
}
