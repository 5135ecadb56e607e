package crypto

import (
	"crypto/sha256"
)

// Key derivation domains. The on-chain circuit and the wallet host both
// derive from the same 32-byte seed, so the labels are fixed protocol
// constants.
const (
	domainSpending  = "spending"
	domainViewing   = "viewing"
	domainNullifier = "nullifier"
	domainAddress   = "address"
)

// KeySize is the size of the seed and every derived key.
const KeySize = 32

// Keys holds a wallet's seed and the keys derived from it. The seed is owned
// exclusively by the wallet; the sub-keys are handed read-only to the
// scanner (viewing), the note store (nullifier) and the prover (spending).
type Keys struct {
	Seed         [KeySize]byte
	SpendingKey  [KeySize]byte
	ViewingKey   [KeySize]byte
	NullifierKey [KeySize]byte
	Address      [KeySize]byte
}

// DeriveKeys derives the spending, viewing and nullifier keys and the
// shielded address from a 32-byte seed. Derivation is deterministic:
//
//	spendingKey  = SHA256("spending"  ‖ seed)
//	viewingKey   = SHA256("viewing"   ‖ seed)
//	nullifierKey = SHA256("nullifier" ‖ seed)
//	address      = SHA256("address"   ‖ spendingKey)
func DeriveKeys(seed [KeySize]byte) *Keys {
	k := &Keys{Seed: seed}
	k.SpendingKey = deriveKey(domainSpending, seed[:])
	k.ViewingKey = deriveKey(domainViewing, seed[:])
	k.NullifierKey = deriveKey(domainNullifier, seed[:])
	k.Address = deriveKey(domainAddress, k.SpendingKey[:])
	return k
}

func deriveKey(domain string, material []byte) [KeySize]byte {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write(material)
	var out [KeySize]byte
	copy(out[:], h.Sum(nil))
	return out
}
