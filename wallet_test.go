package veil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/events"
	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/types"
)

func fill(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func newTestWallet(seedByte byte) *Wallet {
	return NewWallet(fill(seedByte), Config{
		Pool:   fill(0x50),
		Token:  fill(0x51),
		Params: types.DefaultPoolParams(),
		Prover: &prover.Mock{},
	})
}

// TestDepositConfirmSpendFlow drives a full session: a deposit is prepared,
// confirmed from its own event, transferred to a second wallet, and the
// spend observed back.
func TestDepositConfirmSpendFlow(t *testing.T) {
	alice := newTestWallet(0x01)
	bob := newTestWallet(0x02)
	ctx := context.Background()

	deposit, err := alice.Builder.PrepareDeposit(1_000_000, "")
	require.NoError(t, err)
	require.Equal(t, uint64(0), alice.Balance())

	// The ledger confirms the deposit.
	ev := &events.Deposit{
		Epoch:         0,
		Pool:          fill(0x50),
		Commitment:    deposit.Commitment,
		LeafIndex:     0,
		EncryptedNote: deposit.EncryptedNote,
	}
	raw := ev.Marshal()
	alice.ProcessEvent(raw)
	bob.ProcessEvent(raw)

	require.Equal(t, uint64(1_000_000), alice.Balance())
	require.Equal(t, uint64(0), bob.Balance())

	// Alice sends to Bob.
	transfer, err := alice.Builder.PrepareTransfer(ctx, 400_000, bob.Recipient(), 0, fill(0x71))
	require.NoError(t, err)

	tev := &events.Transfer{
		OutputEpoch:    0,
		Pool:           fill(0x50),
		Nullifiers:     transfer.Nullifiers[:],
		InputEpochs:    transfer.InputEpochs[:],
		Commitments:    transfer.OutputCommitments[:],
		LeafIndices:    []uint32{1, 2},
		EncryptedNotes: transfer.EncryptedOutputs[:],
	}
	raw = tev.Marshal()
	alice.ProcessEvent(raw)
	bob.ProcessEvent(raw)

	require.Equal(t, uint64(600_000), alice.Balance())
	require.Equal(t, uint64(400_000), bob.Balance())
}

func TestWalletAddressRoundTrip(t *testing.T) {
	w := newTestWallet(0x03)
	decoded, err := crypto.DecodeAddress(w.Address())
	require.NoError(t, err)
	require.Equal(t, w.Keys.Address, decoded)
}

func TestWalletDefaultsToNotIntegrated(t *testing.T) {
	w := NewWallet(fill(0x04), Config{Params: types.DefaultPoolParams()})

	// Deposits need no proof and still work.
	deposit, err := w.Builder.PrepareDeposit(10, "")
	require.NoError(t, err)

	ev := &events.Deposit{
		Commitment:    deposit.Commitment,
		EncryptedNote: deposit.EncryptedNote,
	}
	w.ProcessEvent(ev.Marshal())
	require.Equal(t, uint64(10), w.Balance())

	// Spends reach the default prover, which is not integrated.
	_, err = w.Builder.PrepareWithdraw(context.Background(), 10, fill(0x70), fill(0x71))
	require.ErrorIs(t, err, prover.ErrFrameworkNotIntegrated)
}
