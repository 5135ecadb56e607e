package txbuilder

import (
	"context"
	"fmt"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/types"
)

// PreparedRenew carries the fields of a renewNote instruction: the old
// note's nullifier plus a fresh commitment in the current epoch, with the
// value and owner carried over undisclosed.
type PreparedRenew struct {
	ProofBytes      []byte
	PublicInputs    [][32]byte
	OldNullifier    [32]byte
	NewCommitment   [32]byte
	EncryptedNote   []byte
	SourceEpoch     uint64
	SourceLeafIndex uint32
	TargetEpoch     uint64
	OldRoot         [32]byte
	TxAnchor        [32]byte
	NewNote         *types.Note
}

// PrepareRenew moves a note from a past epoch into the current one. The new
// note keeps the value and owner but takes fresh randomness, so the two
// commitments are unlinkable.
func (b *Builder) PrepareRenew(ctx context.Context, note *types.Note, txAnchor [32]byte) (*PreparedRenew, error) {
	tree, err := b.treeFor(note)
	if err != nil {
		return nil, err
	}

	sourceEpoch := *note.Epoch
	sourceLeaf := *note.LeafIndex
	targetEpoch := b.forest.CurrentEpoch()
	if sourceEpoch >= targetEpoch {
		return nil, ErrRenewNotNeeded
	}

	merkleProof, err := tree.Proof(sourceLeaf)
	if err != nil {
		return nil, fmt.Errorf("txbuilder: merkle proof: %w", err)
	}
	oldRoot := tree.Root()

	oldNullifier, err := b.nullifierFor(note, sourceEpoch, sourceLeaf)
	if err != nil {
		return nil, err
	}

	newNote, err := types.NewNote(note.Value, note.Owner, note.Token, note.Memo)
	if err != nil {
		return nil, err
	}

	sealed, err := crypto.SealNote(b.keys.ViewingKey, newNote.Serialize())
	if err != nil {
		return nil, fmt.Errorf("txbuilder: seal renewed note: %w", err)
	}

	b.log.Debug().
		Uint64("source_epoch", sourceEpoch).
		Uint64("target_epoch", targetEpoch).
		Msg("proving renewal")

	proof, publics, err := b.prover.ProveRenew(ctx, &prover.RenewInputs{
		OldNote:     note,
		OldProof:    merkleProof,
		OldRoot:     oldRoot,
		NewNote:     newNote,
		Keys:        b.keys,
		TargetEpoch: targetEpoch,
	})
	if err != nil {
		return nil, fmt.Errorf("txbuilder: proof generation failed: %w", err)
	}

	b.store.AddPending(newNote)

	return &PreparedRenew{
		ProofBytes:      proof.Bytes(),
		PublicInputs:    publics,
		OldNullifier:    oldNullifier,
		NewCommitment:   newNote.Commitment,
		EncryptedNote:   sealed,
		SourceEpoch:     sourceEpoch,
		SourceLeafIndex: sourceLeaf,
		TargetEpoch:     targetEpoch,
		OldRoot:         oldRoot,
		TxAnchor:        txAnchor,
		NewNote:         newNote,
	}, nil
}
