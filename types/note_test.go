package types

import (
	"bytes"
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func fill(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}

func TestNoteSerializationVector(t *testing.T) {
	n := &Note{
		Value:      1_000_000,
		Token:      fill(0xaa),
		Owner:      fill(0xbb),
		Randomness: fill(0xcc),
		Memo:       "hello",
	}
	data := n.Serialize()
	require.Equal(t, 135, len(data))

	var want bytes.Buffer
	want.Write(make([]byte, 29))
	want.Write([]byte{0x0f, 0x42, 0x40})
	want.Write(bytes.Repeat([]byte{0xaa}, 32))
	want.Write(bytes.Repeat([]byte{0xbb}, 32))
	want.Write(bytes.Repeat([]byte{0xcc}, 32))
	want.Write([]byte{0x05, 0x00})
	want.WriteString("hello")
	require.Equal(t, want.Bytes(), data, "got %s", hex.EncodeToString(data))
}

func TestNoteSerializationRoundTrip(t *testing.T) {
	n, err := NewNote(42_000, fill(0xbb), fill(0xaa), "memo text")
	require.NoError(t, err)

	back, err := DeserializeNote(n.Serialize())
	require.NoError(t, err)
	require.Equal(t, n.Value, back.Value)
	require.Equal(t, n.Token, back.Token)
	require.Equal(t, n.Owner, back.Owner)
	require.Equal(t, n.Randomness, back.Randomness)
	require.Equal(t, n.Memo, back.Memo)
	require.Equal(t, n.Commitment, back.Commitment)
}

func TestDeserializeNoteRejects(t *testing.T) {
	_, err := DeserializeNote(nil)
	require.ErrorIs(t, err, ErrInvalidNoteData)

	n, err := NewNote(1, fill(0x01), fill(0x02), "")
	require.NoError(t, err)
	data := n.Serialize()

	_, err = DeserializeNote(data[:len(data)-1])
	require.ErrorIs(t, err, ErrInvalidNoteData)

	// Trailing garbage is rejected too.
	_, err = DeserializeNote(append(data, 0x00))
	require.ErrorIs(t, err, ErrInvalidNoteData)

	// A value container with high bytes set is not a u64.
	bad := make([]byte, len(data))
	copy(bad, data)
	bad[0] = 0x01
	_, err = DeserializeNote(bad)
	require.ErrorIs(t, err, ErrInvalidNoteData)
}

func TestCommitmentDeterministicAndSensitive(t *testing.T) {
	owner := fill(0x11)
	randomness := fill(0x22)

	c1, err := ComputeCommitment(1000, owner, randomness)
	require.NoError(t, err)
	c2, err := ComputeCommitment(1000, owner, randomness)
	require.NoError(t, err)
	require.Equal(t, c1, c2)

	cv, err := ComputeCommitment(1001, owner, randomness)
	require.NoError(t, err)
	require.NotEqual(t, c1, cv)

	co, err := ComputeCommitment(1000, fill(0x12), randomness)
	require.NoError(t, err)
	require.NotEqual(t, c1, co)

	cr, err := ComputeCommitment(1000, owner, fill(0x23))
	require.NoError(t, err)
	require.NotEqual(t, c1, cr)
}

func TestNullifierSensitive(t *testing.T) {
	commitment := fill(0x31)
	key := fill(0x32)

	nf, err := ComputeNullifier(commitment, key, 7, 13)
	require.NoError(t, err)

	n2, err := ComputeNullifier(fill(0x33), key, 7, 13)
	require.NoError(t, err)
	require.NotEqual(t, nf, n2)

	n3, err := ComputeNullifier(commitment, fill(0x34), 7, 13)
	require.NoError(t, err)
	require.NotEqual(t, nf, n3)

	n4, err := ComputeNullifier(commitment, key, 8, 13)
	require.NoError(t, err)
	require.NotEqual(t, nf, n4)

	n5, err := ComputeNullifier(commitment, key, 7, 14)
	require.NoError(t, err)
	require.NotEqual(t, nf, n5)
}

func TestRecomputeNullifier(t *testing.T) {
	n, err := NewNote(500, fill(0x01), fill(0x02), "")
	require.NoError(t, err)

	key := fill(0x05)
	require.ErrorIs(t, n.RecomputeNullifier(key), ErrNotConfirmed)

	n.Confirm(3, 9)
	require.NoError(t, n.RecomputeNullifier(key))

	want, err := ComputeNullifier(n.Commitment, key, 3, 9)
	require.NoError(t, err)
	require.Equal(t, want, n.Nullifier)

	// Confirm never overwrites existing metadata.
	n.Confirm(4, 10)
	require.Equal(t, uint64(3), *n.Epoch)
	require.Equal(t, uint32(9), *n.LeafIndex)
}
