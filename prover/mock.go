package prover

import (
	"context"
)

// Mock returns a zero proof of the correct shape and no public signals.
// The builder and instruction layouts are fully testable with it.
type Mock struct {
	// Err, when set, is returned by every call.
	Err error
}

var _ Prover = &Mock{}

func (m *Mock) prove(ctx context.Context) (*Groth16Proof, [][32]byte, error) {
	if m.Err != nil {
		return nil, nil, m.Err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	return &Groth16Proof{}, nil, nil
}

func (m *Mock) ProveWithdraw(ctx context.Context, in *WithdrawInputs) (*Groth16Proof, [][32]byte, error) {
	if in == nil || in.Note == nil || in.MerkleProof == nil {
		return nil, nil, ErrInvalidInputs
	}
	return m.prove(ctx)
}

func (m *Mock) ProveTransfer(ctx context.Context, in *TransferInputs) (*Groth16Proof, [][32]byte, error) {
	if in == nil || in.Inputs[0].Note == nil || in.Inputs[1].Note == nil ||
		in.Outputs[0] == nil || in.Outputs[1] == nil {
		return nil, nil, ErrInvalidInputs
	}
	return m.prove(ctx)
}

func (m *Mock) ProveRenew(ctx context.Context, in *RenewInputs) (*Groth16Proof, [][32]byte, error) {
	if in == nil || in.OldNote == nil || in.OldProof == nil || in.NewNote == nil {
		return nil, nil, ErrInvalidInputs
	}
	return m.prove(ctx)
}
