package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/veilprotocol/veil-go/crypto"
	"github.com/veilprotocol/veil-go/types"
)

func fill(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func confirmedNote(t *testing.T, value uint64, epoch uint64, leafIndex uint32) *types.Note {
	t.Helper()
	n, err := types.NewNote(value, fill(0xbb), fill(0xaa), "")
	require.NoError(t, err)
	n.Confirm(epoch, leafIndex)
	return n
}

func newStore() *NoteStore {
	return NewNoteStore(types.DefaultPoolParams())
}

func TestAddDeduplicates(t *testing.T) {
	s := newStore()
	n := confirmedNote(t, 1000, 0, 0)
	s.Add(n)
	s.Add(n)
	require.Equal(t, 1, s.NoteCount())
	require.Equal(t, uint64(1000), s.Balance())
}

func TestAddBackfillsConfirmation(t *testing.T) {
	s := newStore()
	pending, err := types.NewNote(500, fill(0x01), fill(0x02), "change")
	require.NoError(t, err)
	s.AddPending(pending)
	require.Equal(t, uint64(500), s.BalanceInfo().Pending)

	confirmed := *pending
	confirmed.Confirm(2, 7)
	s.Add(&confirmed)

	require.Empty(t, s.PendingNotes())
	got, ok := s.Get(pending.Commitment)
	require.True(t, ok)
	require.Equal(t, uint64(2), *got.Epoch)
	require.Equal(t, uint32(7), *got.LeafIndex)
	// The wallet-local memo survives confirmation.
	require.Equal(t, "change", got.Memo)

	// A duplicate add never updates the value.
	dup := *got
	dup.Value = 9999
	s.Add(&dup)
	require.Equal(t, uint64(500), s.Balance())
}

func TestMarkSpent(t *testing.T) {
	s := newStore()
	n := confirmedNote(t, 1000, 0, 0)
	s.Add(n)

	require.True(t, s.MarkSpent(n.Commitment))
	require.False(t, s.MarkSpent(n.Commitment))
	require.Equal(t, uint64(0), s.Balance())
	require.Equal(t, 0, s.NoteCount())

	require.False(t, s.MarkSpent(fill(0x77)))
}

func TestMarkSpentByNullifier(t *testing.T) {
	keys := crypto.DeriveKeys(fill(0x01))
	s := newStore()
	s.SetNullifierKey(keys.NullifierKey)

	n := confirmedNote(t, 1000, 3, 5)
	s.Add(n)
	require.NotEqual(t, [32]byte{}, n.Nullifier)

	// Unknown nullifiers are a no-op: a spend may arrive before its
	// confirmation.
	require.False(t, s.MarkSpentByNullifier(fill(0x09), nil))
	require.Equal(t, uint64(1000), s.Balance())

	wrongEpoch := uint64(4)
	require.False(t, s.MarkSpentByNullifier(n.Nullifier, &wrongEpoch))

	epoch := uint64(3)
	require.True(t, s.MarkSpentByNullifier(n.Nullifier, &epoch))
	require.False(t, s.MarkSpentByNullifier(n.Nullifier, &epoch))
	require.Equal(t, uint64(0), s.Balance())
}

func TestSelectNotesOrdering(t *testing.T) {
	s := newStore()
	n3 := confirmedNote(t, 1000, 3, 0)
	n1 := confirmedNote(t, 1000, 1, 1)
	n2 := confirmedNote(t, 1000, 2, 2)
	s.Add(n3)
	s.Add(n1)
	s.Add(n2)

	selected, err := s.SelectNotes(1000, 1)
	require.NoError(t, err)
	require.Len(t, selected, 1)
	require.Equal(t, uint64(1), *selected[0].Epoch)
}

func TestSelectNotesValueDescWithinEpoch(t *testing.T) {
	s := newStore()
	s.Add(confirmedNote(t, 100, 1, 0))
	s.Add(confirmedNote(t, 900, 1, 1))
	s.Add(confirmedNote(t, 500, 1, 2))

	selected, err := s.SelectNotes(1000, 1)
	require.NoError(t, err)
	require.Len(t, selected, 2)
	require.Equal(t, uint64(900), selected[0].Value)
	require.Equal(t, uint64(500), selected[1].Value)
}

func TestSelectNotesMinNotes(t *testing.T) {
	s := newStore()
	s.Add(confirmedNote(t, 1000, 1, 0))
	s.Add(confirmedNote(t, 50, 2, 1))

	selected, err := s.SelectNotes(500, 2)
	require.NoError(t, err)
	require.Len(t, selected, 2)

	_, err = s.SelectNotes(500, 0)
	require.ErrorIs(t, err, ErrInvalidMinNotes)

	var notesErr *InsufficientNotesError
	_, err = s.SelectNotes(500, 3)
	require.ErrorAs(t, err, &notesErr)
	require.Equal(t, 2, notesErr.Have)
	require.Equal(t, 3, notesErr.Need)
}

func TestSelectNotesInsufficientBalance(t *testing.T) {
	s := newStore()
	s.Add(confirmedNote(t, 300, 1, 0))

	var balErr *InsufficientBalanceError
	_, err := s.SelectNotes(500, 1)
	require.ErrorAs(t, err, &balErr)
	require.Equal(t, uint64(300), balErr.Have)
	require.Equal(t, uint64(500), balErr.Need)
}

func TestExpiryClassification(t *testing.T) {
	s := newStore()
	fresh := confirmedNote(t, 100, 20, 0)
	aging := confirmedNote(t, 200, 19, 1)
	dead := confirmedNote(t, 400, 7, 2)
	s.Add(fresh)
	s.Add(aging)
	s.Add(dead)

	// Default horizon is 12 epochs; at epoch 20 a note from epoch 7 is
	// past it.
	s.SetCurrentEpoch(20)

	expired := s.ExpiredNotes()
	require.Len(t, expired, 1)
	require.Equal(t, uint64(400), expired[0].Value)

	expiring := s.ExpiringNotes()
	require.Len(t, expiring, 1)
	require.Equal(t, uint64(200), expiring[0].Value)

	info := s.BalanceInfo()
	require.Equal(t, uint64(100), info.Spendable)
	require.Equal(t, uint64(200), info.Expiring)
	require.Equal(t, uint64(400), info.Expired)
	require.Equal(t, uint64(700), info.Total)
	require.Equal(t, 1, info.SpendableCount)
	require.Equal(t, 1, info.ExpiringCount)
	require.Equal(t, 1, info.ExpiredCount)
	require.NotNil(t, info.EarliestExpiry)
	require.Equal(t, uint64(7+12), *info.EarliestExpiry)
}

func TestSelectNotesForRenewal(t *testing.T) {
	s := newStore()
	s.Add(confirmedNote(t, 100, 19, 0))
	s.Add(confirmedNote(t, 200, 18, 1))
	s.Add(confirmedNote(t, 300, 17, 2))
	s.SetCurrentEpoch(20)

	renewal := s.SelectNotesForRenewal(2)
	require.Len(t, renewal, 2)
	require.Equal(t, uint64(17), *renewal[0].Epoch)
	require.Equal(t, uint64(18), *renewal[1].Epoch)
}

func TestCreateNote(t *testing.T) {
	s := newStore()
	n, err := s.CreateNote(750, fill(0xbb), fill(0xaa), "")
	require.NoError(t, err)
	require.False(t, n.Confirmed())
	require.NotEqual(t, [32]byte{}, n.Randomness)

	info := s.BalanceInfo()
	require.Equal(t, uint64(750), info.Pending)
	require.Equal(t, 1, info.PendingCount)
	// Pending value is not spendable.
	require.Equal(t, uint64(0), s.Balance())
}
