package types

import (
	"github.com/holiman/uint256"
)

// Pool-wide constants shared with the on-chain program.
const (
	// DefaultBurnRateBps is the default burn applied to withdrawals,
	// in basis points (10 = 0.1%).
	DefaultBurnRateBps uint64 = 10

	bpsDenominator uint64 = 10_000
)

// PoolParams configures the epoch clock and fee policy of a pool. The slot
// values mirror the pool's initialization arguments on-chain.
type PoolParams struct {
	EpochDurationSlots     uint64
	ExpirySlots            uint64
	FinalizationDelaySlots uint64
	BurnRateBps            uint64

	// WarningEpochs is the threshold in the expiring predicate
	// epoch < current && epoch <= current + WarningEpochs. Since the first
	// clause implies the second, every unexpired note from a past epoch is
	// reported as expiring whatever this value is. A policy knob, not a
	// protocol constant.
	WarningEpochs uint64
}

// DefaultPoolParams returns the mainnet pool defaults.
func DefaultPoolParams() PoolParams {
	return PoolParams{
		EpochDurationSlots:     3_024_000,
		ExpirySlots:            38_880_000,
		FinalizationDelaySlots: 216_000,
		BurnRateBps:            DefaultBurnRateBps,
		WarningEpochs:          2,
	}
}

// ExpiryEpochs is the number of epochs a note stays spendable after the
// epoch it was committed in.
func (p PoolParams) ExpiryEpochs() uint64 {
	if p.EpochDurationSlots == 0 {
		return 0
	}
	return p.ExpirySlots / p.EpochDurationSlots
}

// CalculateBurn returns floor(amount * bps / 10_000). The intermediate
// product exceeds 64 bits for large amounts, so the math runs on uint256.
func CalculateBurn(amount, bps uint64) uint64 {
	v := uint256.NewInt(amount)
	v.Mul(v, uint256.NewInt(bps))
	v.Div(v, uint256.NewInt(bpsDenominator))
	return v.Uint64()
}

// NetAmount returns the amount remaining after the burn.
func NetAmount(amount, bps uint64) uint64 {
	return amount - CalculateBurn(amount, bps)
}

// GrossAmount returns the smallest gross amount whose net is at least net.
// The floored quotient net * 10_000 / (10_000 - bps) is the starting
// estimate; because the burn itself floors, smaller amounts can still reach
// net, so the estimate is stepped down while one unit less suffices.
func GrossAmount(net, bps uint64) uint64 {
	num := uint256.NewInt(net)
	num.Mul(num, uint256.NewInt(bpsDenominator))
	den := uint256.NewInt(bpsDenominator - bps)

	gross := new(uint256.Int).Div(num, den).Uint64()
	if NetAmount(gross, bps) < net {
		gross++
	}
	for gross > 0 && NetAmount(gross-1, bps) >= net {
		gross--
	}
	return gross
}
