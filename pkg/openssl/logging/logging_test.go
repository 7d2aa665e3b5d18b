package logging_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
	"github.com/cryptobind/openssl-go/pkg/openssl/logging"
)

func TestLoggerWritesThroughSlog(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	log := logging.New(base).With("component", "tls")
	log.Debug(context.Background(), "handshake complete", "version", "TLSv1.3")
	log.Error(context.Background(), "handshake failed")

	out := buf.String()
	require.Contains(t, out, "handshake complete")
	require.Contains(t, out, "component=tls")
	require.Contains(t, out, "version=TLSv1.3")
	require.Contains(t, out, "level=ERROR")
}

func TestRedactedAttribute(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	logging.New(base).Info(context.Background(), "key loaded", logging.Redacted("private_key"))

	require.Contains(t, buf.String(), "private_key="+logging.Placeholder())
	require.NotEmpty(t, logging.Placeholder())
}

func TestNewNilUsesDefault(t *testing.T) {
	require.NotNil(t, logging.New(nil))
}

func TestErrorAttrRedactsStackData(t *testing.T) {
	native := &backend.NativeError{
		Op: "EVP_DecryptFinal_ex",
		Entries: []backend.Entry{
			{
				Code:     0x0308010C,
				Function: "inner_evp_generic_fetch",
				Reason:   "unsupported",
				Data:     "secret key bytes",
			},
		},
	}
	err := openssl.RemapError(native)

	attr := logging.ErrorAttr("error", err)
	rendered := attr.Value.String()
	require.Contains(t, rendered, "EVP_DecryptFinal_ex")
	require.Contains(t, rendered, "unsupported")
	require.Contains(t, rendered, logging.Placeholder())
	require.NotContains(t, rendered, "secret key bytes")
}

func TestErrorAttrPlainError(t *testing.T) {
	attr := logging.ErrorAttr("error", errors.New("transport closed"))
	require.Equal(t, "transport closed", attr.Value.String())
}
