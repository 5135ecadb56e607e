// Package store keeps a wallet's notes: confirmed notes indexed by
// commitment, pending notes awaiting confirmation, spend tracking by
// commitment or nullifier, epoch-expiry classification, coin selection and
// balance accounting.
//
// The store has no internal locks; it assumes a single logical caller and
// is shared by handle between the scanner and the transaction builder.
package store

import (
	"errors"
	"fmt"

	"github.com/veilprotocol/veil-go/types"
)

var ErrInvalidMinNotes = errors.New("store: minNotes must be at least 1")

// InsufficientBalanceError reports that the unspent balance cannot cover a
// requested amount.
type InsufficientBalanceError struct {
	Have uint64
	Need uint64
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("store: insufficient balance: have %d, need %d", e.Have, e.Need)
}

// InsufficientNotesError reports that fewer unspent notes exist than a
// selection requires.
type InsufficientNotesError struct {
	Have int
	Need int
}

func (e *InsufficientNotesError) Error() string {
	return fmt.Sprintf("store: insufficient notes: have %d, need %d", e.Have, e.Need)
}

// BalanceInfo is a derived view of the store, partitioned by spendability.
type BalanceInfo struct {
	Total     uint64
	Spendable uint64
	Pending   uint64
	Expiring  uint64
	Expired   uint64

	SpendableCount int
	ExpiringCount  int
	ExpiredCount   int
	PendingCount   int

	// EarliestExpiry is the first epoch at which an unspent note expires,
	// nil when the store holds no unspent notes.
	EarliestExpiry *uint64
}

// NoteStore owns a wallet's confirmed and pending notes.
type NoteStore struct {
	params types.PoolParams

	notes []*types.Note
	index map[[32]byte]int

	pending      []*types.Note
	pendingIndex map[[32]byte]int

	currentEpoch uint64
	nullifierKey *[32]byte
}

// NewNoteStore creates an empty store with the given pool parameters.
func NewNoteStore(params types.PoolParams) *NoteStore {
	return &NoteStore{
		params:       params,
		index:        make(map[[32]byte]int),
		pendingIndex: make(map[[32]byte]int),
	}
}

// SetNullifierKey gives the store the wallet's nullifier key so nullifiers
// are derived as soon as notes confirm.
func (s *NoteStore) SetNullifierKey(key [32]byte) {
	k := key
	s.nullifierKey = &k
	for _, n := range s.notes {
		s.deriveNullifier(n)
	}
}

// SetCurrentEpoch moves the store's epoch clock; expiry classification is
// relative to it.
func (s *NoteStore) SetCurrentEpoch(epoch uint64) {
	s.currentEpoch = epoch
}

// CurrentEpoch returns the store's epoch clock.
func (s *NoteStore) CurrentEpoch() uint64 {
	return s.currentEpoch
}

// Add inserts a confirmed note. If the commitment is already present, only
// previously-absent confirmation metadata is filled in; the value is never
// updated. A pending entry with the same commitment is consumed.
func (s *NoteStore) Add(note *types.Note) {
	if i, ok := s.index[note.Commitment]; ok {
		existing := s.notes[i]
		if note.Epoch != nil && note.LeafIndex != nil {
			existing.Confirm(*note.Epoch, *note.LeafIndex)
		}
		s.deriveNullifier(existing)
		return
	}

	if i, ok := s.pendingIndex[note.Commitment]; ok {
		// Promote the pending note so wallet-local fields (memo,
		// randomness) survive confirmation.
		pending := s.pending[i]
		if note.Epoch != nil && note.LeafIndex != nil {
			pending.Confirm(*note.Epoch, *note.LeafIndex)
		}
		s.removePending(i)
		note = pending
	}

	s.index[note.Commitment] = len(s.notes)
	s.notes = append(s.notes, note)
	s.deriveNullifier(note)
}

// AddPending records a note that has been built but not yet observed
// on-chain, deduplicated by commitment.
func (s *NoteStore) AddPending(note *types.Note) {
	if _, ok := s.index[note.Commitment]; ok {
		return
	}
	if _, ok := s.pendingIndex[note.Commitment]; ok {
		return
	}
	s.pendingIndex[note.Commitment] = len(s.pending)
	s.pending = append(s.pending, note)
}

// CreateNote builds a fresh pending note owned by owner and records it.
func (s *NoteStore) CreateNote(value uint64, owner, token [32]byte, memo string) (*types.Note, error) {
	note, err := types.NewNote(value, owner, token, memo)
	if err != nil {
		return nil, err
	}
	s.AddPending(note)
	return note, nil
}

// Get returns the confirmed note with the given commitment.
func (s *NoteStore) Get(commitment [32]byte) (*types.Note, bool) {
	i, ok := s.index[commitment]
	if !ok {
		return nil, false
	}
	return s.notes[i], true
}

// MarkSpent flips the note with the given commitment to spent. Idempotent;
// an unknown commitment is a no-op.
func (s *NoteStore) MarkSpent(commitment [32]byte) bool {
	i, ok := s.index[commitment]
	if !ok || s.notes[i].Spent {
		return false
	}
	s.notes[i].Spent = true
	return true
}

// MarkSpentByNullifier flips the first unspent note whose nullifier matches.
// The epoch hint narrows the search when supplied. Idempotent; an unknown
// nullifier is a no-op: a spend observed before its confirmation must not
// raise.
func (s *NoteStore) MarkSpentByNullifier(nullifier [32]byte, epochHint *uint64) bool {
	for _, n := range s.notes {
		if n.Spent || n.Nullifier != nullifier {
			continue
		}
		if epochHint != nil && n.Epoch != nil && *n.Epoch != *epochHint {
			continue
		}
		n.Spent = true
		return true
	}
	return false
}

// UnspentNotes returns the confirmed unspent notes in insertion order.
func (s *NoteStore) UnspentNotes() []*types.Note {
	out := make([]*types.Note, 0, len(s.notes))
	for _, n := range s.notes {
		if !n.Spent {
			out = append(out, n)
		}
	}
	return out
}

// NoteCount returns the number of confirmed unspent notes.
func (s *NoteStore) NoteCount() int {
	return len(s.UnspentNotes())
}

// PendingNotes returns the pending notes in insertion order.
func (s *NoteStore) PendingNotes() []*types.Note {
	out := make([]*types.Note, len(s.pending))
	copy(out, s.pending)
	return out
}

func (s *NoteStore) deriveNullifier(n *types.Note) {
	if s.nullifierKey == nil || !n.Confirmed() || n.Nullifier != ([32]byte{}) {
		return
	}
	// The commitment was recomputed on discovery; derivation only fails on
	// an impossible input count.
	_ = n.RecomputeNullifier(*s.nullifierKey)
}

func (s *NoteStore) removePending(i int) {
	delete(s.pendingIndex, s.pending[i].Commitment)
	s.pending = append(s.pending[:i], s.pending[i+1:]...)
	for j := i; j < len(s.pending); j++ {
		s.pendingIndex[s.pending[j].Commitment] = j
	}
}
