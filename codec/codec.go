// Package codec implements the little-endian binary layout shared with the
// on-chain program: fixed-width integers, u32 length-prefixed byte strings
// and vectors. Anything inconsistent here breaks the contract, so both
// directions are written against the same layout and the reader fails with
// ErrTruncatedInput instead of panicking on short input.
package codec

import (
	"encoding/binary"
	"errors"
)

// ErrTruncatedInput is returned when a read runs past the end of the buffer.
var ErrTruncatedInput = errors.New("codec: truncated input")

// Writer accumulates a little-endian payload.
type Writer struct {
	buf []byte
}

// NewWriter returns an empty writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Bytes returns the accumulated payload.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

func (w *Writer) U8(v uint8) {
	w.buf = append(w.buf, v)
}

func (w *Writer) U16(v uint16) {
	w.buf = binary.LittleEndian.AppendUint16(w.buf, v)
}

func (w *Writer) U32(v uint32) {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
}

func (w *Writer) U64(v uint64) {
	w.buf = binary.LittleEndian.AppendUint64(w.buf, v)
}

// Raw appends b with no length prefix (fixed-width fields).
func (w *Writer) Raw(b []byte) {
	w.buf = append(w.buf, b...)
}

// Array32 appends a fixed 32-byte field.
func (w *Writer) Array32(b [32]byte) {
	w.buf = append(w.buf, b[:]...)
}

// PrefixedBytes appends a u32 length prefix followed by b.
func (w *Writer) PrefixedBytes(b []byte) {
	w.U32(uint32(len(b)))
	w.Raw(b)
}

// String appends a u32 length prefix followed by the UTF-8 bytes of s.
func (w *Writer) String(s string) {
	w.U32(uint32(len(s)))
	w.Raw([]byte(s))
}

// U64Vec appends a u32 count followed by the elements.
func (w *Writer) U64Vec(vs []uint64) {
	w.U32(uint32(len(vs)))
	for _, v := range vs {
		w.U64(v)
	}
}

// Array32Vec appends a u32 count followed by the 32-byte elements.
func (w *Writer) Array32Vec(vs [][32]byte) {
	w.U32(uint32(len(vs)))
	for _, v := range vs {
		w.Array32(v)
	}
}

// BytesVec appends a u32 count; each element carries its own u32 length.
func (w *Writer) BytesVec(vs [][]byte) {
	w.U32(uint32(len(vs)))
	for _, v := range vs {
		w.PrefixedBytes(v)
	}
}

// Reader consumes the same layout left to right with a cursor.
type Reader struct {
	data []byte
	off  int
}

// NewReader returns a reader positioned at the start of data.
func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.off
}

func (r *Reader) take(n int) ([]byte, error) {
	if n < 0 || r.Remaining() < n {
		return nil, ErrTruncatedInput
	}
	b := r.data[r.off : r.off+n]
	r.off += n
	return b, nil
}

func (r *Reader) U8() (uint8, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *Reader) U16() (uint16, error) {
	b, err := r.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (r *Reader) U32() (uint32, error) {
	b, err := r.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (r *Reader) U64() (uint64, error) {
	b, err := r.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// Raw reads n bytes with no length prefix.
func (r *Reader) Raw(n int) ([]byte, error) {
	b, err := r.take(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)
	return out, nil
}

// Array32 reads a fixed 32-byte field.
func (r *Reader) Array32() ([32]byte, error) {
	var out [32]byte
	b, err := r.take(32)
	if err != nil {
		return out, err
	}
	copy(out[:], b)
	return out, nil
}

// PrefixedBytes reads a u32 length prefix followed by that many bytes.
func (r *Reader) PrefixedBytes() ([]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	return r.Raw(int(n))
}

// String reads a u32 length prefix followed by UTF-8 bytes.
func (r *Reader) String() (string, error) {
	b, err := r.PrefixedBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// U64Vec reads a u32 count followed by the elements.
func (r *Reader) U64Vec() ([]uint64, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*8 > uint64(r.Remaining()) {
		return nil, ErrTruncatedInput
	}
	out := make([]uint64, n)
	for i := range out {
		if out[i], err = r.U64(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Array32Vec reads a u32 count followed by the 32-byte elements.
func (r *Reader) Array32Vec() ([][32]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*32 > uint64(r.Remaining()) {
		return nil, ErrTruncatedInput
	}
	out := make([][32]byte, n)
	for i := range out {
		if out[i], err = r.Array32(); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// BytesVec reads a u32 count; each element carries its own u32 length.
func (r *Reader) BytesVec() ([][]byte, error) {
	n, err := r.U32()
	if err != nil {
		return nil, err
	}
	if uint64(n)*4 > uint64(r.Remaining()) {
		return nil, ErrTruncatedInput
	}
	out := make([][]byte, n)
	for i := range out {
		if out[i], err = r.PrefixedBytes(); err != nil {
			return nil, err
		}
	}
	return out, nil
}
