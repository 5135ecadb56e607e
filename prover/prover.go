// Package prover defines the proving capability the transaction builder
// depends on. The concrete Groth16 backend and its witness calculator live
// outside the core; the SDK ships only the interface, the proof record and
// a default that reports the backend as not integrated.
package prover

import (
	"context"
	"errors"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/merkle"
	"github.com/veilprotocol/veil-go/types"
)

var (
	ErrInvalidInputs          = errors.New("prover: invalid inputs")
	ErrWitnessGeneration      = errors.New("prover: witness generation failed")
	ErrProofGeneration        = errors.New("prover: proof generation failed")
	ErrFrameworkNotIntegrated = errors.New("prover: proving framework not integrated")
)

// Groth16Proof is a BN254 Groth16 proof in the on-chain wire shape.
type Groth16Proof struct {
	A [64]byte
	B [128]byte
	C [64]byte
}

// Bytes returns A ‖ B ‖ C, the 256-byte form spliced into instructions.
func (p *Groth16Proof) Bytes() []byte {
	out := make([]byte, 0, 256)
	out = append(out, p.A[:]...)
	out = append(out, p.B[:]...)
	out = append(out, p.C[:]...)
	return out
}

// WithdrawInputs is the typed input record for the withdraw circuit.
type WithdrawInputs struct {
	Note        *types.Note
	Keys        *crypto.Keys
	MerkleProof *merkle.Proof
	MerkleRoot  [32]byte
	Recipient   [32]byte
	Amount      uint64
	Epoch       uint64
	LeafIndex   uint32
}

// TransferInput is one input slot of the 2-in/2-out transfer circuit. A
// dummy slot carries a zero-value note and no Merkle proof; it exists to
// keep the circuit shape fixed.
type TransferInput struct {
	Note        *types.Note
	MerkleProof *merkle.Proof
	Dummy       bool
}

// TransferInputs is the typed input record for the transfer circuit.
type TransferInputs struct {
	Inputs     [2]TransferInput
	Outputs    [2]*types.Note
	Keys       *crypto.Keys
	MerkleRoot [32]byte
	Fee        uint64
}

// RenewInputs is the typed input record for the renewal circuit.
type RenewInputs struct {
	OldNote     *types.Note
	OldProof    *merkle.Proof
	OldRoot     [32]byte
	NewNote     *types.Note
	Keys        *crypto.Keys
	TargetEpoch uint64
}

// Prover produces Groth16 proofs and their public signals. Proving is the
// one long-running operation in the SDK; implementations respect ctx.
type Prover interface {
	ProveWithdraw(ctx context.Context, in *WithdrawInputs) (*Groth16Proof, [][32]byte, error)
	ProveTransfer(ctx context.Context, in *TransferInputs) (*Groth16Proof, [][32]byte, error)
	ProveRenew(ctx context.Context, in *RenewInputs) (*Groth16Proof, [][32]byte, error)
}

// NotIntegrated is the default Prover: every call fails with
// ErrFrameworkNotIntegrated. Hosts link a real backend before preparing
// shielded spends.
type NotIntegrated struct{}

var _ Prover = NotIntegrated{}

func (NotIntegrated) ProveWithdraw(context.Context, *WithdrawInputs) (*Groth16Proof, [][32]byte, error) {
	return nil, nil, ErrFrameworkNotIntegrated
}

func (NotIntegrated) ProveTransfer(context.Context, *TransferInputs) (*Groth16Proof, [][32]byte, error) {
	return nil, nil, ErrFrameworkNotIntegrated
}

func (NotIntegrated) ProveRenew(context.Context, *RenewInputs) (*Groth16Proof, [][32]byte, error) {
	return nil, nil, ErrFrameworkNotIntegrated
}
