package crypto

import (
	"errors"

	"github.com/btcsuite/btcutil/base58"
)

// Shielded addresses are displayed base58-encoded with the Bitcoin alphabet
// (no 0, O, I, l). Decoding is strict: non-alphabet characters, empty input
// and payloads that are not exactly 32 bytes are rejected.

var (
	ErrEmptyAddress   = errors.New("crypto: empty address")
	ErrInvalidAddress = errors.New("crypto: invalid base58 address")
	ErrAddressLength  = errors.New("crypto: address payload is not 32 bytes")
)

// EncodeAddress returns the base58 text form of a shielded address.
func EncodeAddress(addr [KeySize]byte) string {
	return base58.Encode(addr[:])
}

// DecodeAddress parses the base58 text form of a shielded address. Leading
// '1' characters decode to leading zero bytes, so the payload length is
// preserved exactly.
func DecodeAddress(s string) ([KeySize]byte, error) {
	var out [KeySize]byte
	if s == "" {
		return out, ErrEmptyAddress
	}
	raw := base58.Decode(s)
	if len(raw) == 0 {
		// base58.Decode reports non-alphabet characters as an empty result.
		return out, ErrInvalidAddress
	}
	if len(raw) != KeySize {
		return out, ErrAddressLength
	}
	copy(out[:], raw)
	return out, nil
}
