package openssl

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

func TestErrorStringMatchesNativeFormat(t *testing.T) {
	e := Error{
		Code:     0x0308010C,
		Library:  "digital envelope routines",
		Function: "inner_evp_generic_fetch",
		Reason:   "unsupported",
		File:     "crypto/evp/evp_fetch.c",
		Line:     355,
		Data:     "Global default library context, Algorithm (RC2-40-CBC : 0)",
	}
	require.Equal(t,
		"error:0308010C:digital envelope routines:inner_evp_generic_fetch:unsupported:"+
			"crypto/evp/evp_fetch.c:355:Global default library context, Algorithm (RC2-40-CBC : 0)",
		e.String())
}

func TestErrorStringFallsBackToPackedComponents(t *testing.T) {
	// Strings missing from the table render as lib(n) and reason(n) from
	// the packed code, the way ERR_error_string_n does.
	e := Error{Code: (13 << 23) | 42, Line: 1}
	require.Equal(t, "error:0680002A:lib(13)::reason(42)::1:", e.String())
}

func TestRemapErrorSentinels(t *testing.T) {
	require.NoError(t, RemapError(nil))
	require.ErrorIs(t, RemapError(backend.ErrNotBuilt), ErrNotBuilt)
	require.ErrorIs(t, RemapError(backend.ErrVerify), ErrVerify)

	plain := errors.New("transport failed")
	require.Equal(t, plain, RemapError(plain))
}

func TestRemapErrorWrapsNativeQueue(t *testing.T) {
	native := &backend.NativeError{
		Op: "EVP_DigestInit_ex",
		Entries: []backend.Entry{
			{Code: 1, Function: "EVP_DigestInit_ex", Reason: "initialization error"},
		},
	}

	err := RemapError(native)
	var stack *ErrorStack
	require.ErrorAs(t, err, &stack)
	require.Equal(t, "EVP_DigestInit_ex", stack.Op())
	require.Len(t, stack.Errors(), 1)
	require.Equal(t, "initialization error", stack.Errors()[0].Reason)
	require.Contains(t, stack.Error(), "EVP_DigestInit_ex: error:00000001:")
}

func TestZeroizeBytes(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5}
	ZeroizeBytes(buf)
	require.True(t, bytes.Equal(buf, make([]byte, 5)))
	ZeroizeBytes(nil)
}

func TestVersionStrings(t *testing.T) {
	require.NotEmpty(t, WrapperVersion())
	require.NotEmpty(t, LibraryVersion())
}
