package openssl_test

import (
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
	"github.com/cryptobind/openssl-go/pkg/openssl/x509"
)

// The error queue is thread-local, so a captured stack must survive a
// put followed by a drain on the same OS thread with every field intact.
func TestErrorStackPutRestoresQueue(t *testing.T) {
	_, err := x509.ParseDER([]byte("not a certificate"))
	if errors.Is(err, openssl.ErrNotBuilt) {
		t.Skip("native bindings not built")
	}
	require.Error(t, err)

	var stack *openssl.ErrorStack
	require.ErrorAs(t, err, &stack)
	captured := stack.Errors()
	require.NotEmpty(t, captured)

	// Pin the goroutine so Put and the drain hit the same queue.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	stack.Put()
	drained := backend.DrainErrors()
	require.Len(t, drained, len(captured))
	for i, want := range captured {
		got := openssl.Error(drained[i])
		require.Equal(t, want.Code, got.Code)
		require.Equal(t, want.Library, got.Library)
		require.Equal(t, want.Function, got.Function)
		require.Equal(t, want.Reason, got.Reason)
		require.Equal(t, want.File, got.File)
		require.Equal(t, want.Line, got.Line)
		require.Equal(t, want.Data, got.Data)
	}

	// The drain emptied the queue again.
	require.Empty(t, backend.DrainErrors())
}
