package txbuilder

import (
	"fmt"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/types"
)

// PreparedDeposit carries the fields of a depositV2 instruction. Deposits
// move value transparently into the vault, so no proof is involved.
type PreparedDeposit struct {
	Commitment    [32]byte
	Amount        uint64
	EncryptedNote []byte
	Epoch         uint64
	OutputNote    *types.Note
}

// PrepareDeposit builds a fresh pending note for the wallet itself and
// seals it under the wallet's viewing key.
func (b *Builder) PrepareDeposit(amount uint64, memo string) (*PreparedDeposit, error) {
	note, err := b.store.CreateNote(amount, b.keys.Address, b.token, memo)
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.SealNote(b.keys.ViewingKey, note.Serialize())
	if err != nil {
		return nil, fmt.Errorf("txbuilder: seal deposit note: %w", err)
	}

	b.log.Debug().
		Uint64("amount", amount).
		Hex("commitment", note.Commitment[:]).
		Msg("prepared deposit")

	return &PreparedDeposit{
		Commitment:    note.Commitment,
		Amount:        amount,
		EncryptedNote: sealed,
		Epoch:         b.forest.CurrentEpoch(),
		OutputNote:    note,
	}, nil
}
