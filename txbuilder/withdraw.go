package txbuilder

import (
	"context"
	"fmt"

	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/types"
)

// PreparedWithdraw carries the fields of a withdrawV2 instruction.
type PreparedWithdraw struct {
	ProofBytes   []byte
	PublicInputs [][32]byte
	Nullifier    [32]byte
	Amount       uint64
	Epoch        uint64
	LeafIndex    uint32
	Recipient    [32]byte
	TxAnchor     [32]byte
	MerkleRoot   [32]byte
	Note         *types.Note
}

// PrepareWithdraw selects a single note covering amount and proves its
// spend to a transparent recipient.
func (b *Builder) PrepareWithdraw(ctx context.Context, amount uint64, recipient, txAnchor [32]byte) (*PreparedWithdraw, error) {
	note, err := b.oldestCovering(amount)
	if err != nil {
		return nil, err
	}
	return b.PrepareWithdrawNote(ctx, note, amount, recipient, txAnchor)
}

// PrepareWithdrawNote proves the spend of a specific note. The note must be
// confirmed and its epoch tree known.
func (b *Builder) PrepareWithdrawNote(ctx context.Context, note *types.Note, amount uint64, recipient, txAnchor [32]byte) (*PreparedWithdraw, error) {
	tree, err := b.treeFor(note)
	if err != nil {
		return nil, err
	}

	epoch := *note.Epoch
	leafIndex := *note.LeafIndex

	merkleProof, err := tree.Proof(leafIndex)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: merkle proof: %w", err)
	}
	root := tree.Root()

	nullifier, err := b.nullifierFor(note, epoch, leafIndex)
	if err != nil {
		return nil, err
	}

	b.log.Debug().
		Uint64("epoch", epoch).
		Uint32("leaf_index", leafIndex).
		Uint64("amount", amount).
		Msg("proving withdraw")

	proof, publics, err := b.prover.ProveWithdraw(ctx, &prover.WithdrawInputs{
		Note:        note,
		Keys:        b.keys,
		MerkleProof: merkleProof,
		MerkleRoot:  root,
		Recipient:   recipient,
		Amount:      amount,
		Epoch:       epoch,
		LeafIndex:   leafIndex,
	})
	if err != nil {
		return nil, fmt.Errorf("txbuilder: proof generation failed: %w", err)
	}

	return &PreparedWithdraw{
		ProofBytes:   proof.Bytes(),
		PublicInputs: publics,
		Nullifier:    nullifier,
		Amount:       amount,
		Epoch:        epoch,
		LeafIndex:    leafIndex,
		Recipient:    recipient,
		TxAnchor:     txAnchor,
		MerkleRoot:   root,
		Note:         note,
	}, nil
}
