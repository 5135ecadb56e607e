// Package txbuilder assembles the four shielded operations — deposit,
// withdraw, transfer, renew — into prepared records carrying exactly the
// binary fields the instruction encoder splices into a transaction.
//
// The builder never mutates the note store around a prover call: spends are
// recorded only when the scanner observes the resulting nullifier on-chain,
// so a failed or abandoned proof leaves no partial state.
package txbuilder

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/merkle"
	"github.com/veilprotocol/veil-go/prover"
	"github.com/veilprotocol/veil-go/store"
	"github.com/veilprotocol/veil-go/types"
)

var (
	ErrNoteNotConfirmed  = errors.New("txbuilder: note has no leaf index or epoch")
	ErrEpochTreeNotFound = errors.New("txbuilder: no tree for the note's epoch")
	ErrTooManyInputs     = errors.New("txbuilder: more than two inputs selected")
	ErrRenewNotNeeded    = errors.New("txbuilder: note is already in the current epoch")
)

// EpochMismatchError reports a note proven against the wrong epoch tree.
type EpochMismatchError struct {
	Note uint64
	Tree uint64
}

func (e *EpochMismatchError) Error() string {
	return fmt.Sprintf("txbuilder: note epoch %d does not match tree epoch %d", e.Note, e.Tree)
}

// ConservationViolationError reports unbalanced input and output sums.
type ConservationViolationError struct {
	In  uint64
	Out uint64
}

func (e *ConservationViolationError) Error() string {
	return fmt.Sprintf("txbuilder: value not conserved: inputs %d, outputs+fee %d", e.In, e.Out)
}

// Recipient identifies a shielded counterparty: the address owns the output
// note and the viewing key seals its ciphertext. Both travel out-of-band
// between wallets.
type Recipient struct {
	Address    [32]byte
	ViewingKey [32]byte
}

// SelfRecipient is the wallet's own address/viewing-key pair.
func SelfRecipient(keys *crypto.Keys) Recipient {
	return Recipient{Address: keys.Address, ViewingKey: keys.ViewingKey}
}

// Builder prepares operations for one wallet against one pool.
type Builder struct {
	keys   *crypto.Keys
	params types.PoolParams
	pool   [32]byte
	token  [32]byte
	store  *store.NoteStore
	forest *merkle.Forest
	prover prover.Prover
	log    zerolog.Logger
}

// New creates a builder. The note store and forest are shared handles,
// typically the same ones the scanner feeds.
func New(keys *crypto.Keys, pool, token [32]byte, params types.PoolParams,
	st *store.NoteStore, forest *merkle.Forest, pv prover.Prover) *Builder {
	return &Builder{
		keys:   keys,
		params: params,
		pool:   pool,
		token:  token,
		store:  st,
		forest: forest,
		prover: pv,
		log:    zerolog.Nop(),
	}
}

// WithLogger returns the builder with structured logging enabled.
func (b *Builder) WithLogger(log zerolog.Logger) *Builder {
	b.log = log
	return b
}

// ValidateConservation checks Σ inputs == Σ outputs + fee before a proof is
// attempted.
func ValidateConservation(inputs, outputs []uint64, fee uint64) error {
	var in, out uint64
	for _, v := range inputs {
		in += v
	}
	for _, v := range outputs {
		out += v
	}
	out += fee
	if in != out {
		return &ConservationViolationError{In: in, Out: out}
	}
	return nil
}

// treeFor resolves the epoch tree a confirmed note proves against.
func (b *Builder) treeFor(note *types.Note) (*merkle.Tree, error) {
	if !note.Confirmed() {
		return nil, ErrNoteNotConfirmed
	}
	tree, ok := b.forest.Tree(*note.Epoch)
	if !ok {
		return nil, ErrEpochTreeNotFound
	}
	if tree.Epoch() != *note.Epoch {
		return nil, &EpochMismatchError{Note: *note.Epoch, Tree: tree.Epoch()}
	}
	return tree, nil
}

// nullifierFor derives a note's nullifier at the given position with the
// wallet's nullifier key.
func (b *Builder) nullifierFor(note *types.Note, epoch uint64, leafIndex uint32) ([32]byte, error) {
	return types.ComputeNullifier(note.Commitment, b.keys.NullifierKey, epoch, leafIndex)
}

// oldestCovering returns the oldest-epoch unspent note whose value covers
// amount; largest value wins within an epoch.
func (b *Builder) oldestCovering(amount uint64) (*types.Note, error) {
	notes := b.store.UnspentNotes()
	sort.SliceStable(notes, func(i, j int) bool {
		ei, ej := epochOrMax(notes[i]), epochOrMax(notes[j])
		if ei != ej {
			return ei < ej
		}
		return notes[i].Value > notes[j].Value
	})
	var total uint64
	for _, n := range notes {
		total += n.Value
	}
	for _, n := range notes {
		if n.Value >= amount {
			return n, nil
		}
	}
	return nil, &store.InsufficientBalanceError{Have: total, Need: amount}
}

func epochOrMax(n *types.Note) uint64 {
	if n.Epoch == nil {
		return ^uint64(0)
	}
	return *n.Epoch
}
