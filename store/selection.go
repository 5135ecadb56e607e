package store

import (
	"sort"

	"github.com/veilprotocol/veil-go/types"
)

// SelectNotes picks unspent notes to cover amount using greedy selection
// over notes sorted by (epoch ascending, value descending). Draining older
// epochs first is the renewal policy: expiry risk decreases with every
// spend. Selection stops once the accumulated value covers amount and at
// least minNotes notes are selected.
func (s *NoteStore) SelectNotes(amount uint64, minNotes int) ([]*types.Note, error) {
	if minNotes < 1 {
		return nil, ErrInvalidMinNotes
	}

	candidates := s.sortedUnspent()
	if len(candidates) < minNotes {
		return nil, &InsufficientNotesError{Have: len(candidates), Need: minNotes}
	}

	var total uint64
	for _, n := range candidates {
		total += n.Value
	}
	if total < amount {
		return nil, &InsufficientBalanceError{Have: total, Need: amount}
	}

	var selected []*types.Note
	var sum uint64
	for _, n := range candidates {
		selected = append(selected, n)
		sum += n.Value
		if sum >= amount && len(selected) >= minNotes {
			break
		}
	}
	return selected, nil
}

// SelectNotesForRenewal returns up to max expiring notes, oldest epoch
// first.
func (s *NoteStore) SelectNotesForRenewal(max int) []*types.Note {
	expiring := s.ExpiringNotes()
	sort.SliceStable(expiring, func(i, j int) bool {
		return *expiring[i].Epoch < *expiring[j].Epoch
	})
	if max >= 0 && len(expiring) > max {
		expiring = expiring[:max]
	}
	return expiring
}

// sortedUnspent deduplicates by commitment (the store invariant already
// guarantees this) and orders by (epoch ascending, value descending).
// Unconfirmed entries sort last.
func (s *NoteStore) sortedUnspent() []*types.Note {
	notes := s.UnspentNotes()
	sort.SliceStable(notes, func(i, j int) bool {
		ei, ej := noteEpochOrMax(notes[i]), noteEpochOrMax(notes[j])
		if ei != ej {
			return ei < ej
		}
		return notes[i].Value > notes[j].Value
	})
	return notes
}

func noteEpochOrMax(n *types.Note) uint64 {
	if n.Epoch == nil {
		return ^uint64(0)
	}
	return *n.Epoch
}
