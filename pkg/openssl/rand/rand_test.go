package rand_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/rand"
)

func TestBytes(t *testing.T) {
	buf := make([]byte, 32)
	err := rand.Bytes(buf)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	require.False(t, bytes.Equal(buf, make([]byte, 32)), "buffer should not remain zero")
}

func TestBytesEmpty(t *testing.T) {
	require.NoError(t, rand.Bytes(nil))
}

func TestBytesDistinct(t *testing.T) {
	a := make([]byte, 32)
	b := make([]byte, 32)
	err := rand.Bytes(a)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	require.NoError(t, rand.Bytes(b))
	require.False(t, bytes.Equal(a, b), "two draws should differ")
}

func TestRead(t *testing.T) {
	buf := make([]byte, 16)
	n, err := rand.Read(buf)
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
}
