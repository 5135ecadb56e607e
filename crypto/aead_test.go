package crypto

import (
	crand "crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSealOpenRoundTrip(t *testing.T) {
	var key [KeySize]byte
	_, err := crand.Read(key[:])
	require.NoError(t, err)

	m := []byte("a note for you")
	env, err := SealNote(key, m)
	require.NoError(t, err)
	// nonce(12) + ciphertext + tag(16)
	require.Equal(t, 12+len(m)+16, len(env))

	dec, err := OpenNote(key, env)
	require.NoError(t, err)
	require.Equal(t, m, dec)
}

func TestOpenWrongKey(t *testing.T) {
	var key, other [KeySize]byte
	_, _ = crand.Read(key[:])
	_, _ = crand.Read(other[:])

	env, err := SealNote(key, []byte("secret"))
	require.NoError(t, err)

	_, err = OpenNote(other, env)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestOpenCorruptedNonce(t *testing.T) {
	var key [KeySize]byte
	_, _ = crand.Read(key[:])

	env, err := SealNote(key, []byte("secret"))
	require.NoError(t, err)

	env[0] ^= 0x01
	_, err = OpenNote(key, env)
	require.ErrorIs(t, err, ErrDecryptionFailed)
}

func TestOpenTooShort(t *testing.T) {
	var key [KeySize]byte
	_, err := OpenNote(key, make([]byte, 27))
	require.ErrorIs(t, err, ErrCiphertextTooShort)
}
