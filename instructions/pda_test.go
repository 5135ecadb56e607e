package instructions

import (
	crand "crypto/rand"
	"testing"

	"filippo.io/edwards25519"
	"github.com/stretchr/testify/require"
)

func randKey(t *testing.T) [32]byte {
	t.Helper()
	var out [32]byte
	_, err := crand.Read(out[:])
	require.NoError(t, err)
	return out
}

func TestFindProgramAddressDeterministic(t *testing.T) {
	programID := randKey(t)
	mint := randKey(t)

	addr1, bump1, err := DerivePoolConfig(mint, programID)
	require.NoError(t, err)
	addr2, bump2, err := DerivePoolConfig(mint, programID)
	require.NoError(t, err)

	require.Equal(t, addr1, addr2)
	require.Equal(t, bump1, bump2)

	// Derived addresses are off-curve: they can never sign.
	_, err = new(edwards25519.Point).SetBytes(addr1[:])
	require.Error(t, err)

	// The found bump reproduces through CreateProgramAddress.
	direct, err := CreateProgramAddress([][]byte{[]byte("pool_config"), mint[:], {bump1}}, programID)
	require.NoError(t, err)
	require.Equal(t, addr1, direct)
}

func TestDeriveSeedsDiffer(t *testing.T) {
	programID := randKey(t)
	poolConfig := randKey(t)

	tree3, _, err := DeriveEpochTree(poolConfig, 3, programID)
	require.NoError(t, err)
	tree4, _, err := DeriveEpochTree(poolConfig, 4, programID)
	require.NoError(t, err)
	require.NotEqual(t, tree3, tree4)

	chunk0, _, err := DeriveLeafChunk(poolConfig, 3, 0, programID)
	require.NoError(t, err)
	chunk1, _, err := DeriveLeafChunk(poolConfig, 3, 1, programID)
	require.NoError(t, err)
	require.NotEqual(t, chunk0, chunk1)

	vault, _, err := DeriveVault(poolConfig, programID)
	require.NoError(t, err)
	authority, _, err := DeriveVaultAuthority(poolConfig, programID)
	require.NoError(t, err)
	require.NotEqual(t, vault, authority)

	nf, _, err := DeriveNullifierMarker(poolConfig, randKey(t), programID)
	require.NoError(t, err)
	vk, _, err := DeriveVerifierConfig(poolConfig, "withdraw", programID)
	require.NoError(t, err)
	require.NotEqual(t, nf, vk)
}

func TestChunkIndex(t *testing.T) {
	require.Equal(t, uint32(0), ChunkIndex(0))
	require.Equal(t, uint32(0), ChunkIndex(255))
	require.Equal(t, uint32(1), ChunkIndex(256))
	require.Equal(t, uint32(15), ChunkIndex(4095))
}
