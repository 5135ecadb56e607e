package codec

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestU64Encoding(t *testing.T) {
	w := NewWriter()
	w.U64(1_000_000)
	require.Equal(t, []byte{0x40, 0x42, 0x0f, 0x00, 0x00, 0x00, 0x00, 0x00}, w.Bytes())
}

func TestRoundTrip(t *testing.T) {
	var arr [32]byte
	for i := range arr {
		arr[i] = byte(i)
	}

	w := NewWriter()
	w.U8(0x7f)
	w.U16(0xbeef)
	w.U32(0xdeadbeef)
	w.U64(1 << 40)
	w.Array32(arr)
	w.PrefixedBytes([]byte{1, 2, 3})
	w.String("hello")
	w.U64Vec([]uint64{5, 6, 7})
	w.Array32Vec([][32]byte{arr, arr})
	w.BytesVec([][]byte{{0xaa}, {0xbb, 0xcc}})

	r := NewReader(w.Bytes())

	u8, err := r.U8()
	require.NoError(t, err)
	require.Equal(t, uint8(0x7f), u8)

	u16, err := r.U16()
	require.NoError(t, err)
	require.Equal(t, uint16(0xbeef), u16)

	u32, err := r.U32()
	require.NoError(t, err)
	require.Equal(t, uint32(0xdeadbeef), u32)

	u64, err := r.U64()
	require.NoError(t, err)
	require.Equal(t, uint64(1<<40), u64)

	a, err := r.Array32()
	require.NoError(t, err)
	require.Equal(t, arr, a)

	bs, err := r.PrefixedBytes()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, bs)

	s, err := r.String()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	us, err := r.U64Vec()
	require.NoError(t, err)
	require.Equal(t, []uint64{5, 6, 7}, us)

	as, err := r.Array32Vec()
	require.NoError(t, err)
	require.Equal(t, [][32]byte{arr, arr}, as)

	vs, err := r.BytesVec()
	require.NoError(t, err)
	require.Equal(t, [][]byte{{0xaa}, {0xbb, 0xcc}}, vs)

	require.Equal(t, 0, r.Remaining())
}

func TestTruncated(t *testing.T) {
	r := NewReader([]byte{1, 2, 3})
	_, err := r.U64()
	require.ErrorIs(t, err, ErrTruncatedInput)

	// A length prefix that overruns the buffer must not allocate or panic.
	w := NewWriter()
	w.U32(1 << 30)
	r = NewReader(w.Bytes())
	_, err = r.PrefixedBytes()
	require.ErrorIs(t, err, ErrTruncatedInput)

	w = NewWriter()
	w.U32(0xffffffff)
	r = NewReader(w.Bytes())
	_, err = r.Array32Vec()
	require.ErrorIs(t, err, ErrTruncatedInput)
}
