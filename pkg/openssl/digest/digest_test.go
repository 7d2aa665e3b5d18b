package digest_test

import (
	"crypto/sha256"
	"crypto/sha512"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/digest"
)

func newDigest(t *testing.T, algo string) *digest.Digest {
	t.Helper()
	d, err := digest.New(algo)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func TestSHA256MatchesStdlib(t *testing.T) {
	msg := []byte("the quick brown fox jumps over the lazy dog")
	d := newDigest(t, digest.SHA256)

	_, err := d.Write(msg)
	require.NoError(t, err)
	sum, err := d.Sum()
	require.NoError(t, err)

	want := sha256.Sum256(msg)
	require.Equal(t, want[:], sum)
}

func TestStreamingWritesMatchOneShot(t *testing.T) {
	d := newDigest(t, digest.SHA512)
	for _, chunk := range []string{"alpha", "", "beta", "gamma"} {
		_, err := d.Write([]byte(chunk))
		require.NoError(t, err)
	}
	sum, err := d.Sum()
	require.NoError(t, err)

	want := sha512.Sum512([]byte("alphabetagamma"))
	require.Equal(t, want[:], sum)
}

func TestSumOneShot(t *testing.T) {
	sum, err := digest.Sum(digest.SHA256, []byte("abc"))
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	want := sha256.Sum256([]byte("abc"))
	require.Equal(t, want[:], sum)
}

func TestSize(t *testing.T) {
	d := newDigest(t, digest.SHA256)
	require.Equal(t, 32, d.Size())
	require.Equal(t, digest.SHA256, d.Algorithm())
}

func TestUnknownAlgorithmSurfacesErrorStack(t *testing.T) {
	_, err := digest.New("definitely-not-a-digest")
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.Error(t, err)

	var stack *openssl.ErrorStack
	if errors.As(err, &stack) {
		require.Contains(t, stack.Op(), "EVP_get_digestbyname")
	}
}

func TestClosedDigestRejectsUse(t *testing.T) {
	d := newDigest(t, digest.SHA256)
	require.NoError(t, d.Close())
	require.NoError(t, d.Close())

	_, err := d.Write([]byte("x"))
	require.Error(t, err)
	_, err = d.Sum()
	require.Error(t, err)
	require.Zero(t, d.Size())
}
