package txbuilder

import (
	"context"
	"fmt"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/types"
)

// PreparedTransfer carries the fields of a transferV2 instruction. The
// circuit is fixed at two inputs and two outputs; a missing second input is
// padded with a dummy note of value zero.
type PreparedTransfer struct {
	ProofBytes        []byte
	PublicInputs      [][32]byte
	Nullifiers        [2][32]byte
	InputEpochs       [2]uint64
	InputLeafIndices  [2]uint32
	OutputCommitments [2][32]byte
	EncryptedOutputs  [2][]byte
	OutputEpoch       uint64
	Fee               uint64
	TxAnchor          [32]byte
	MerkleRoot        [32]byte
	OutputNotes       [2]*types.Note
}

// PrepareTransfer moves amount to a shielded recipient, returning change to
// the wallet. Value conservation is validated before the prover runs.
func (b *Builder) PrepareTransfer(ctx context.Context, amount uint64, to Recipient, fee uint64, txAnchor [32]byte) (*PreparedTransfer, error) {
	selected, err := b.store.SelectNotes(amount+fee, 1)
	if err != nil {
		return nil, err
	}
	if len(selected) > 2 {
		return nil, ErrTooManyInputs
	}

	var (
		inputs   [2]prover.TransferInput
		inValues []uint64
		inSum    uint64
	)
	for i, note := range selected {
		tree, err := b.treeFor(note)
		if err != nil {
			return nil, err
		}
		merkleProof, err := tree.Proof(*note.LeafIndex)
		if err != nil {
			return nil, fmt.Errorf("txbuilder: merkle proof: %w", err)
		}
		inputs[i] = prover.TransferInput{Note: note, MerkleProof: merkleProof}
		inValues = append(inValues, note.Value)
		inSum += note.Value
	}

	// Both real inputs prove against one root, so they must share an epoch.
	if len(selected) == 2 && *selected[0].Epoch != *selected[1].Epoch {
		return nil, &EpochMismatchError{Note: *selected[1].Epoch, Tree: *selected[0].Epoch}
	}

	if len(selected) < 2 {
		dummy, err := types.NewNote(0, b.keys.Address, b.token, "")
		if err != nil {
			return nil, err
		}
		inputs[1] = prover.TransferInput{Note: dummy, Dummy: true}
		inValues = append(inValues, 0)
	}

	outputEpoch := b.forest.CurrentEpoch()

	outNote, err := types.NewNote(amount, to.Address, b.token, "")
	if err != nil {
		return nil, err
	}
	changeNote, err := types.NewNote(inSum-amount-fee, b.keys.Address, b.token, "")
	if err != nil {
		return nil, err
	}

	if err := ValidateConservation(inValues, []uint64{outNote.Value, changeNote.Value}, fee); err != nil {
		return nil, err
	}

	// Nullifiers: confirmed position for real inputs, the zero position for
	// the dummy slot.
	var nullifiers [2][32]byte
	var inputEpochs [2]uint64
	var inputLeaves [2]uint32
	for i, in := range inputs {
		epoch, leaf := uint64(0), uint32(0)
		if !in.Dummy {
			epoch, leaf = *in.Note.Epoch, *in.Note.LeafIndex
		}
		nf, err := b.nullifierFor(in.Note, epoch, leaf)
		if err != nil {
			return nil, err
		}
		nullifiers[i] = nf
		inputEpochs[i] = epoch
		inputLeaves[i] = leaf
	}

	encOut, err := crypto.SealNote(to.ViewingKey, outNote.Serialize())
	if err != nil {
		return nil, fmt.Errorf("txbuilder: seal output note: %w", err)
	}
	encChange, err := crypto.SealNote(b.keys.ViewingKey, changeNote.Serialize())
	if err != nil {
		return nil, fmt.Errorf("txbuilder: seal change note: %w", err)
	}

	root := [32]byte{}
	if tree, ok := b.forest.Tree(*selected[0].Epoch); ok {
		root = tree.Root()
	}

	b.log.Debug().
		Uint64("amount", amount).
		Uint64("fee", fee).
		Int("inputs", len(selected)).
		Uint64("output_epoch", outputEpoch).
		Msg("proving transfer")

	proof, publics, err := b.prover.ProveTransfer(ctx, &prover.TransferInputs{
		Inputs:     inputs,
		Outputs:    [2]*types.Note{outNote, changeNote},
		Keys:       b.keys,
		MerkleRoot: root,
		Fee:        fee,
	})
	if err != nil {
		return nil, fmt.Errorf("txbuilder: proof generation failed: %w", err)
	}

	// Track the change note; the recipient's note is theirs to discover.
	b.store.AddPending(changeNote)

	return &PreparedTransfer{
		ProofBytes:        proof.Bytes(),
		PublicInputs:      publics,
		Nullifiers:        nullifiers,
		InputEpochs:       inputEpochs,
		InputLeafIndices:  inputLeaves,
		OutputCommitments: [2][32]byte{outNote.Commitment, changeNote.Commitment},
		EncryptedOutputs:  [2][]byte{encOut, encChange},
		OutputEpoch:       outputEpoch,
		Fee:               fee,
		TxAnchor:          txAnchor,
		MerkleRoot:        root,
		OutputNotes:       [2]*types.Note{outNote, changeNote},
	}, nil
}
