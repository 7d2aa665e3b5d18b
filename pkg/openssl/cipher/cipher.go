package cipher

import (
	"errors"
	"fmt"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// AEAD algorithm names understood by the native cipher table.
const (
	AES128GCM        = "AES-128-GCM"
	AES256GCM        = "AES-256-GCM"
	ChaCha20Poly1305 = "ChaCha20-Poly1305"
)

// ErrAuth reports an Open whose tag did not authenticate. No plaintext is
// ever returned alongside it.
var ErrAuth = errors.New("cipher: message authentication failed")

// TagSize is the tag length produced by Seal and expected by Open.
const TagSize = 16

// NonceSize is the standard nonce length for the supported AEADs.
const NonceSize = 12

// keySize returns the key length the named cipher requires. The native
// init reads exactly this many bytes from the key buffer, so a short Go
// slice must never reach it.
func keySize(algorithm string) (int, bool) {
	switch algorithm {
	case AES128GCM:
		return 16, true
	case AES256GCM, ChaCha20Poly1305:
		return 32, true
	}
	return 0, false
}

func checkKey(algorithm string, key []byte) error {
	if n, ok := keySize(algorithm); ok && len(key) != n {
		return fmt.Errorf("cipher: %s needs a %d-byte key, got %d", algorithm, n, len(key))
	}
	return nil
}

// Seal encrypts and authenticates plaintext, binding additionalData, and
// returns ciphertext||tag the way crypto/cipher.AEAD does.
func Seal(algorithm string, key, nonce, plaintext, additionalData []byte) ([]byte, error) {
	if err := checkKey(algorithm, key); err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("cipher: bad nonce length %d", len(nonce))
	}
	ct, tag, err := backend.AEADSeal(algorithm, key, nonce, plaintext, additionalData)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return append(ct, tag...), nil
}

// Open authenticates and decrypts a ciphertext||tag buffer produced by
// Seal. A tag mismatch returns ErrAuth.
func Open(algorithm string, key, nonce, sealed, additionalData []byte) ([]byte, error) {
	if err := checkKey(algorithm, key); err != nil {
		return nil, err
	}
	if len(nonce) != NonceSize {
		return nil, fmt.Errorf("cipher: bad nonce length %d", len(nonce))
	}
	if len(sealed) < TagSize {
		return nil, ErrAuth
	}
	ct, tag := sealed[:len(sealed)-TagSize], sealed[len(sealed)-TagSize:]
	pt, err := backend.AEADOpen(algorithm, key, nonce, ct, tag, additionalData)
	if err != nil {
		if errors.Is(err, backend.ErrAuth) {
			return nil, ErrAuth
		}
		return nil, openssl.RemapError(err)
	}
	return pt, nil
}
