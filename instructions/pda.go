package instructions

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"

	"filippo.io/edwards25519"
)

// Program-derived addresses are ground deterministically from seeds: a bump
// byte is tried from 255 downward until the SHA-256 of
// seeds ‖ bump ‖ programID ‖ "ProgramDerivedAddress" is not a valid
// ed25519 curve point, so the address can never sign.

// ChunkSize is the number of leaves per on-chain leaf-chunk account.
const ChunkSize = 256

var (
	ErrNoViableBump = errors.New("instructions: no off-curve address for seeds")

	pdaMarker = []byte("ProgramDerivedAddress")
)

// ChunkIndex maps a leaf index to its chunk account.
func ChunkIndex(leafIndex uint32) uint32 {
	return leafIndex / ChunkSize
}

// CreateProgramAddress hashes the seeds with an explicit bump already
// appended and fails if the result lands on the curve.
func CreateProgramAddress(seeds [][]byte, programID [32]byte) ([32]byte, error) {
	h := sha256.New()
	for _, seed := range seeds {
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write(pdaMarker)

	var out [32]byte
	copy(out[:], h.Sum(nil))

	if _, err := new(edwards25519.Point).SetBytes(out[:]); err == nil {
		// A decompressible point could sign; reject it.
		return [32]byte{}, ErrNoViableBump
	}
	return out, nil
}

// FindProgramAddress grinds the bump from 255 down to 0 and returns the
// first off-curve address together with the bump that produced it.
func FindProgramAddress(seeds [][]byte, programID [32]byte) ([32]byte, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		trial := make([][]byte, 0, len(seeds)+1)
		trial = append(trial, seeds...)
		trial = append(trial, []byte{uint8(bump)})
		addr, err := CreateProgramAddress(trial, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
	}
	return [32]byte{}, 0, ErrNoViableBump
}

func le64(v uint64) []byte {
	out := make([]byte, 8)
	binary.LittleEndian.PutUint64(out, v)
	return out
}

func le32(v uint32) []byte {
	out := make([]byte, 4)
	binary.LittleEndian.PutUint32(out, v)
	return out
}

// DerivePoolConfig derives the pool configuration address for a mint.
func DerivePoolConfig(mint, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("pool_config"), mint[:]}, programID)
}

// DeriveEpochTree derives the tree account of an epoch.
func DeriveEpochTree(poolConfig [32]byte, epoch uint64, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("epoch_tree"), poolConfig[:], le64(epoch)}, programID)
}

// DeriveLeafChunk derives a leaf-chunk account of an epoch.
func DeriveLeafChunk(poolConfig [32]byte, epoch uint64, chunkIndex uint32, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("leaves"), poolConfig[:], le64(epoch), le32(chunkIndex)}, programID)
}

// DeriveVaultAuthority derives the vault's signing authority.
func DeriveVaultAuthority(poolConfig, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("vault_authority"), poolConfig[:]}, programID)
}

// DeriveVault derives the token vault address.
func DeriveVault(poolConfig, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("vault"), poolConfig[:]}, programID)
}

// DeriveNullifierMarker derives the per-nullifier double-spend marker.
func DeriveNullifierMarker(poolConfig, nullifier, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("nullifier"), poolConfig[:], nullifier[:]}, programID)
}

// DeriveVerifierConfig derives the verifying-key account of a circuit.
func DeriveVerifierConfig(poolConfig [32]byte, circuitName string, programID [32]byte) ([32]byte, uint8, error) {
	return FindProgramAddress([][]byte{[]byte("verifier"), poolConfig[:], []byte(circuitName)}, programID)
}
