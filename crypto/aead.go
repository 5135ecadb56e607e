package crypto

import (
	crand "crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

// Note ciphertexts travel on-chain as a single envelope:
//
//	nonce(12) ‖ ciphertext ‖ tag(16)
//
// sealed under the recipient's 32-byte viewing key with ChaCha20-Poly1305.

// Envelope framing errors.
var (
	ErrCiphertextTooShort = errors.New("crypto: ciphertext shorter than nonce and tag")
	ErrDecryptionFailed   = errors.New("crypto: decryption failed")
)

// SealNote encrypts plaintext under key with a random 12-byte nonce and
// returns the full envelope.
func SealNote(key [KeySize]byte, plaintext []byte) ([]byte, error) {
	nonce := make([]byte, chacha20poly1305.NonceSize)
	if _, err := crand.Read(nonce); err != nil {
		return nil, fmt.Errorf("crypto: nonce: %w", err)
	}
	return sealNote(key, nonce, plaintext)
}

func sealNote(key [KeySize]byte, nonce, plaintext []byte) ([]byte, error) {
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// OpenNote splits the envelope into nonce and ciphertext and decrypts it.
// A failed open returns ErrDecryptionFailed; for a scanner doing trial
// decryption this is the common case, not a fault.
func OpenNote(key [KeySize]byte, envelope []byte) ([]byte, error) {
	if len(envelope) < chacha20poly1305.NonceSize+chacha20poly1305.Overhead {
		return nil, ErrCiphertextTooShort
	}
	aead, err := chacha20poly1305.New(key[:])
	if err != nil {
		return nil, fmt.Errorf("crypto: %w", err)
	}
	nonce := envelope[:chacha20poly1305.NonceSize]
	plaintext, err := aead.Open(nil, nonce, envelope[chacha20poly1305.NonceSize:], nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}
