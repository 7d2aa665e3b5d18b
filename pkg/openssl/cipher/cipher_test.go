package cipher_test

import (
	"bytes"
	stdaes "crypto/aes"
	stdcipher "crypto/cipher"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/chacha20poly1305"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/cipher"
)

func testKey(n int) []byte {
	key := make([]byte, n)
	for i := range key {
		key[i] = byte(i + 1)
	}
	return key
}

func TestAESGCMRoundTrip(t *testing.T) {
	key := testKey(32)
	nonce := testKey(cipher.NonceSize)
	msg := []byte("attack at dawn")
	aad := []byte("header")

	sealed, err := cipher.Seal(cipher.AES256GCM, key, nonce, msg, aad)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	require.Len(t, sealed, len(msg)+cipher.TagSize)

	pt, err := cipher.Open(cipher.AES256GCM, key, nonce, sealed, aad)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

// The native seal must be openable by an independent implementation.
func TestAESGCMInteropWithStdlib(t *testing.T) {
	key := testKey(32)
	nonce := testKey(cipher.NonceSize)
	msg := []byte("cross-implementation payload")
	aad := []byte("aad")

	sealed, err := cipher.Seal(cipher.AES256GCM, key, nonce, msg, aad)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)

	block, err := stdaes.NewCipher(key)
	require.NoError(t, err)
	gcm, err := stdcipher.NewGCM(block)
	require.NoError(t, err)

	pt, err := gcm.Open(nil, nonce, sealed, aad)
	require.NoError(t, err)
	require.Equal(t, msg, pt)

	// And the other direction.
	stdSealed := gcm.Seal(nil, nonce, msg, aad)
	pt, err = cipher.Open(cipher.AES256GCM, key, nonce, stdSealed, aad)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestChaCha20Poly1305InteropWithXCrypto(t *testing.T) {
	key := testKey(chacha20poly1305.KeySize)
	nonce := testKey(cipher.NonceSize)
	msg := []byte("chacha payload")

	sealed, err := cipher.Seal(cipher.ChaCha20Poly1305, key, nonce, msg, nil)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)

	aead, err := chacha20poly1305.New(key)
	require.NoError(t, err)

	pt, err := aead.Open(nil, nonce, sealed, nil)
	require.NoError(t, err)
	require.Equal(t, msg, pt)
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	key := testKey(32)
	nonce := testKey(cipher.NonceSize)

	sealed, err := cipher.Seal(cipher.AES256GCM, key, nonce, []byte("payload"), nil)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)

	tampered := bytes.Clone(sealed)
	tampered[0] ^= 0x01
	_, err = cipher.Open(cipher.AES256GCM, key, nonce, tampered, nil)
	require.ErrorIs(t, err, cipher.ErrAuth)
}

func TestOpenRejectsWrongAAD(t *testing.T) {
	key := testKey(32)
	nonce := testKey(cipher.NonceSize)

	sealed, err := cipher.Seal(cipher.AES256GCM, key, nonce, []byte("payload"), []byte("right"))
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)

	_, err = cipher.Open(cipher.AES256GCM, key, nonce, sealed, []byte("wrong"))
	require.ErrorIs(t, err, cipher.ErrAuth)
}

func TestOpenRejectsShortInput(t *testing.T) {
	_, err := cipher.Open(cipher.AES256GCM, testKey(32), testKey(cipher.NonceSize), []byte("short"), nil)
	require.ErrorIs(t, err, cipher.ErrAuth)
}

func TestBadNonceLength(t *testing.T) {
	_, err := cipher.Seal(cipher.AES256GCM, testKey(32), []byte("tiny"), []byte("m"), nil)
	require.Error(t, err)
}

// A short key must be rejected before the pointer reaches the native
// init, which reads the cipher's full key length from the buffer.
func TestSealRejectsWrongKeyLength(t *testing.T) {
	nonce := testKey(cipher.NonceSize)
	for _, tc := range []struct {
		algo   string
		keyLen int
	}{
		{cipher.AES256GCM, 16},
		{cipher.AES128GCM, 32},
		{cipher.ChaCha20Poly1305, 16},
		{cipher.AES256GCM, 0},
	} {
		_, err := cipher.Seal(tc.algo, testKey(tc.keyLen), nonce, []byte("pt"), nil)
		require.Error(t, err, "%s with %d-byte key", tc.algo, tc.keyLen)
		require.NotErrorIs(t, err, cipher.ErrAuth)
	}
}

func TestOpenRejectsWrongKeyLength(t *testing.T) {
	nonce := testKey(cipher.NonceSize)
	sealed := make([]byte, cipher.TagSize+4)
	_, err := cipher.Open(cipher.AES256GCM, testKey(16), nonce, sealed, nil)
	require.Error(t, err)
	require.NotErrorIs(t, err, cipher.ErrAuth)
}
