// Package types defines the note record and the derivations that bind it to
// the on-chain pool: the Poseidon commitment, the nullifier, the fixed
// binary serialization carried inside note ciphertexts, and the pool
// parameters.
package types

import (
	"bytes"
	crand "crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/veilprotocol/veil-go/codec"
	"github.com/veilprotocol/veil-go/poseidon"
)

// MaxMemoLen bounds the UTF-8 memo carried inside a note ciphertext; the
// serialized length prefix is a u16.
const MaxMemoLen = 0xffff

var (
	ErrInvalidNoteData = errors.New("types: invalid serialized note")
	ErrMemoTooLong     = errors.New("types: memo exceeds 65535 bytes")
	ErrNotConfirmed    = errors.New("types: note has no leaf index or epoch")
)

// Note is a privately-owned unit of token value in the pool. A note is
// constructed pending (no leaf index or epoch), confirmed once its
// commitment is observed on-chain, and spent once its nullifier is.
type Note struct {
	Value      uint64
	Token      [32]byte
	Owner      [32]byte
	Randomness [32]byte
	Memo       string

	Commitment [32]byte

	// Confirmation metadata, absent until the commitment is observed.
	LeafIndex *uint32
	Epoch     *uint64

	// Nullifier is derived from the confirmation metadata by
	// RecomputeNullifier and stays zero until then.
	Nullifier [32]byte

	Spent bool
}

// NewNote builds a fresh pending note with cryptographically random
// blinding and a derived commitment.
func NewNote(value uint64, owner, token [32]byte, memo string) (*Note, error) {
	if len(memo) > MaxMemoLen {
		return nil, ErrMemoTooLong
	}
	n := &Note{
		Value: value,
		Token: token,
		Owner: owner,
		Memo:  memo,
	}
	if _, err := crand.Read(n.Randomness[:]); err != nil {
		return nil, fmt.Errorf("types: randomness: %w", err)
	}
	c, err := ComputeCommitment(n.Value, n.Owner, n.Randomness)
	if err != nil {
		return nil, err
	}
	n.Commitment = c
	return n, nil
}

// Confirmed reports whether the note has on-chain position metadata.
func (n *Note) Confirmed() bool {
	return n.LeafIndex != nil && n.Epoch != nil
}

// Confirm records the on-chain position of the note. Existing metadata is
// never overwritten.
func (n *Note) Confirm(epoch uint64, leafIndex uint32) {
	if n.Epoch == nil {
		e := epoch
		n.Epoch = &e
	}
	if n.LeafIndex == nil {
		i := leafIndex
		n.LeafIndex = &i
	}
}

// RecomputeNullifier derives the nullifier from the confirmed position and
// the wallet's nullifier key. Calling it before confirmation is an error.
func (n *Note) RecomputeNullifier(nullifierKey [32]byte) error {
	if !n.Confirmed() {
		return ErrNotConfirmed
	}
	nf, err := ComputeNullifier(n.Commitment, nullifierKey, *n.Epoch, *n.LeafIndex)
	if err != nil {
		return err
	}
	n.Nullifier = nf
	return nil
}

// Serialize writes the note payload that travels inside the ciphertext:
//
//	value(32, big-endian) ‖ token(32) ‖ owner(32) ‖ randomness(32) ‖
//	memoLen(u16, little-endian) ‖ memo
func (n *Note) Serialize() []byte {
	w := codec.NewWriter()
	w.Array32(poseidon.Uint64Bytes(n.Value))
	w.Array32(n.Token)
	w.Array32(n.Owner)
	w.Array32(n.Randomness)
	w.U16(uint16(len(n.Memo)))
	w.Raw([]byte(n.Memo))
	return w.Bytes()
}

// DeserializeNote parses a serialized note payload and recomputes its
// commitment. The input must be consumed exactly.
func DeserializeNote(data []byte) (*Note, error) {
	if len(data) < 4*32+2 {
		return nil, ErrInvalidNoteData
	}
	r := codec.NewReader(data)

	valueBytes, err := r.Array32()
	if err != nil {
		return nil, ErrInvalidNoteData
	}
	// The value is a u64 in a 32-byte big-endian container.
	if !bytes.Equal(valueBytes[:24], make([]byte, 24)) {
		return nil, ErrInvalidNoteData
	}
	n := &Note{Value: binary.BigEndian.Uint64(valueBytes[24:])}

	if n.Token, err = r.Array32(); err != nil {
		return nil, ErrInvalidNoteData
	}
	if n.Owner, err = r.Array32(); err != nil {
		return nil, ErrInvalidNoteData
	}
	if n.Randomness, err = r.Array32(); err != nil {
		return nil, ErrInvalidNoteData
	}
	memoLen, err := r.U16()
	if err != nil {
		return nil, ErrInvalidNoteData
	}
	memo, err := r.Raw(int(memoLen))
	if err != nil || r.Remaining() != 0 {
		return nil, ErrInvalidNoteData
	}
	n.Memo = string(memo)

	if n.Commitment, err = ComputeCommitment(n.Value, n.Owner, n.Randomness); err != nil {
		return nil, err
	}
	return n, nil
}

// ComputeCommitment derives the note commitment
// H(value_be32, owner, randomness).
func ComputeCommitment(value uint64, owner, randomness [32]byte) ([32]byte, error) {
	v := poseidon.Uint64Bytes(value)
	return poseidon.Hash(v[:], owner[:], randomness[:])
}

// ComputeNullifier derives the nullifier
// H(commitment, nullifierKey, epoch_le32, leafIndex_le32).
//
// The integer inputs are zero-padded to 32 bytes in little-endian order to
// match the circuit, unlike the big-endian value inside the commitment. The
// asymmetry is deliberate protocol behavior.
func ComputeNullifier(commitment, nullifierKey [32]byte, epoch uint64, leafIndex uint32) ([32]byte, error) {
	var epochLE, leafLE [32]byte
	binary.LittleEndian.PutUint64(epochLE[:8], epoch)
	binary.LittleEndian.PutUint32(leafLE[:4], leafIndex)
	return poseidon.Hash(commitment[:], nullifierKey[:], epochLE[:], leafLE[:])
}
