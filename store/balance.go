package store

import (
	"github.com/veilprotocol/veil-go/types"
)

// isExpired reports whether the note's epoch passed the expiry horizon.
func (s *NoteStore) isExpired(n *types.Note) bool {
	if n.Epoch == nil {
		return false
	}
	horizon := s.params.ExpiryEpochs()
	return *n.Epoch+horizon < s.currentEpoch
}

// isExpiring reports whether the note sits in a past epoch and within the
// warning window, i.e. it should be renewed before it becomes unspendable.
func (s *NoteStore) isExpiring(n *types.Note) bool {
	if n.Epoch == nil || s.isExpired(n) {
		return false
	}
	return *n.Epoch < s.currentEpoch && *n.Epoch <= s.currentEpoch+s.params.WarningEpochs
}

// ExpiringNotes returns unspent notes inside the renewal warning window.
func (s *NoteStore) ExpiringNotes() []*types.Note {
	var out []*types.Note
	for _, n := range s.UnspentNotes() {
		if s.isExpiring(n) {
			out = append(out, n)
		}
	}
	return out
}

// ExpiredNotes returns unspent notes whose epoch passed the expiry horizon
// without renewal.
func (s *NoteStore) ExpiredNotes() []*types.Note {
	var out []*types.Note
	for _, n := range s.UnspentNotes() {
		if s.isExpired(n) {
			out = append(out, n)
		}
	}
	return out
}

// Balance returns the sum of confirmed unspent note values.
func (s *NoteStore) Balance() uint64 {
	var total uint64
	for _, n := range s.UnspentNotes() {
		total += n.Value
	}
	return total
}

// BalanceInfo partitions the balance into spendable, expiring, expired and
// pending, with per-class counts and the earliest expiry epoch.
func (s *NoteStore) BalanceInfo() BalanceInfo {
	var info BalanceInfo

	horizon := s.params.ExpiryEpochs()
	for _, n := range s.UnspentNotes() {
		switch {
		case s.isExpired(n):
			info.Expired += n.Value
			info.ExpiredCount++
		case s.isExpiring(n):
			info.Expiring += n.Value
			info.ExpiringCount++
		default:
			info.Spendable += n.Value
			info.SpendableCount++
		}
		info.Total += n.Value

		if n.Epoch != nil {
			expiry := *n.Epoch + horizon
			if info.EarliestExpiry == nil || expiry < *info.EarliestExpiry {
				e := expiry
				info.EarliestExpiry = &e
			}
		}
	}

	for _, n := range s.pending {
		info.Pending += n.Value
		info.PendingCount++
	}
	info.Total += info.Pending

	return info
}
