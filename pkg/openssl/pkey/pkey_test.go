package pkey_test

import (
	"crypto/sha256"
	stdx509 "crypto/x509"
	"errors"
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/digest"
	"github.com/cryptobind/openssl-go/pkg/openssl/pkey"
)

func generateEC(t *testing.T, curve string) *pkey.Key {
	t.Helper()
	k, err := pkey.GenerateEC(curve)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = k.Close() })
	return k
}

func TestECSignVerify(t *testing.T) {
	k := generateEC(t, pkey.P256)
	msg := []byte("message to sign")

	sig, err := k.Sign(digest.SHA256, msg)
	require.NoError(t, err)
	require.NotEmpty(t, sig)

	require.NoError(t, k.Verify(digest.SHA256, msg, sig))
	require.ErrorIs(t, k.Verify(digest.SHA256, []byte("other message"), sig), openssl.ErrVerify)
}

func TestRSASignVerify(t *testing.T) {
	k, err := pkey.GenerateRSA(2048)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	defer k.Close()

	msg := []byte("rsa payload")
	sig, err := k.Sign(digest.SHA256, msg)
	require.NoError(t, err)
	require.Len(t, sig, 256)

	require.NoError(t, k.Verify(digest.SHA256, msg, sig))
	require.ErrorIs(t, k.Verify(digest.SHA256, []byte("tampered"), sig), openssl.ErrVerify)
}

func TestPrivateDERRoundTrip(t *testing.T) {
	k := generateEC(t, pkey.P256)

	der, err := k.PrivateDER()
	require.NoError(t, err)

	loaded, err := pkey.LoadPrivateDER(der)
	require.NoError(t, err)
	defer loaded.Close()

	// The reloaded key must produce signatures the original verifies.
	msg := []byte("roundtrip")
	sig, err := loaded.Sign(digest.SHA256, msg)
	require.NoError(t, err)
	require.NoError(t, k.Verify(digest.SHA256, msg, sig))
}

// Public keys serialize as SubjectPublicKeyInfo, so the standard library
// must be able to parse them.
func TestPublicDERParsesWithStdlib(t *testing.T) {
	k := generateEC(t, pkey.P256)

	der, err := k.PublicDER()
	require.NoError(t, err)

	_, err = stdx509.ParsePKIXPublicKey(der)
	require.NoError(t, err)

	loaded, err := pkey.LoadPublicDER(der)
	require.NoError(t, err)
	defer loaded.Close()

	curve, err := loaded.Curve()
	require.NoError(t, err)
	require.Equal(t, pkey.P256, curve)
}

// Cross-check secp256k1 signatures against an independent implementation.
func TestSecp256k1InteropWithBtcec(t *testing.T) {
	k := generateEC(t, pkey.Secp256k1)

	point, err := k.PublicPoint()
	require.NoError(t, err)
	require.Len(t, point, 65)
	require.Equal(t, byte(0x04), point[0])

	pub, err := btcec.ParsePubKey(point)
	require.NoError(t, err)

	msg := []byte("cross-library signature")
	sig, err := k.Sign(digest.SHA256, msg)
	require.NoError(t, err)

	parsed, err := btcecdsa.ParseDERSignature(sig)
	require.NoError(t, err)
	h := sha256.Sum256(msg)
	require.True(t, parsed.Verify(h[:], pub))
}

func TestClosedKeyRejectsUse(t *testing.T) {
	k := generateEC(t, pkey.P256)
	require.NoError(t, k.Close())
	require.NoError(t, k.Close())

	_, err := k.Sign(digest.SHA256, []byte("x"))
	require.Error(t, err)
	_, err = k.PrivateDER()
	require.Error(t, err)
}
