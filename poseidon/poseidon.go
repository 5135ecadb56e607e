// Package poseidon exposes the BN254 Poseidon hash used for note
// commitments, nullifiers and Merkle nodes. The permutation and its round
// constants come from go-iden3-crypto, which is bit-compatible with the
// circomlib parameters the on-chain verifier was built against; this package
// only normalizes inputs and outputs to the 32-byte big-endian field
// encoding the rest of the SDK speaks.
package poseidon

import (
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	iden3 "github.com/iden3/go-iden3-crypto/poseidon"
)

// MaxInputs is the largest supported input count. The permutation width is
// inputs+1, so widths 2..5 are the only ones the verifier knows.
const MaxInputs = 4

// ErrInvalidInputCount is returned when the input count is outside 1..4.
var ErrInvalidInputCount = fmt.Errorf("poseidon: input count must be 1..%d", MaxInputs)

// Reduce interprets b as a big-endian integer and reduces it into the BN254
// scalar field, returning the canonical 32-byte big-endian encoding.
func Reduce(b []byte) [32]byte {
	var elem fr.Element
	elem.SetBytes(b)
	return elem.Bytes()
}

// Modulus returns the BN254 scalar field modulus p.
func Modulus() *big.Int {
	return fr.Modulus()
}

// Hash absorbs 1..4 field elements, each given as up to 32 big-endian bytes
// and reduced mod p before absorption, and returns the 32-byte big-endian
// digest.
func Hash(inputs ...[]byte) ([32]byte, error) {
	if len(inputs) == 0 || len(inputs) > MaxInputs {
		return [32]byte{}, ErrInvalidInputCount
	}

	elems := make([]*big.Int, len(inputs))
	for i, in := range inputs {
		var elem fr.Element
		elem.SetBytes(in)
		elems[i] = elem.BigInt(new(big.Int))
	}

	sum, err := iden3.Hash(elems)
	if err != nil {
		return [32]byte{}, fmt.Errorf("poseidon: %w", err)
	}

	var out [32]byte
	sum.FillBytes(out[:])
	return out, nil
}

// HashPair hashes two tree nodes with the width-3 permutation. Used on the
// Merkle path, where the input count is fixed and cannot fail.
func HashPair(left, right [32]byte) [32]byte {
	out, err := Hash(left[:], right[:])
	if err != nil {
		panic(err) // unreachable: two inputs are always valid
	}
	return out
}

// Uint64Bytes encodes v as a 32-byte big-endian integer, the form the
// commitment circuit absorbs note values in.
func Uint64Bytes(v uint64) [32]byte {
	var out [32]byte
	new(big.Int).SetUint64(v).FillBytes(out[:])
	return out
}
