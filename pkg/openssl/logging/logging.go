package logging

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cryptobind/openssl-go/pkg/openssl"
)

const redactedPlaceholder = "[redacted]"

// Logger defines the subset of slog functionality used by the wrapper.
// The interface is intentionally small so applications can provide their
// own implementation for testing or redaction policies.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)
	With(args ...any) Logger
}

// New returns a Logger backed by the provided slog.Logger. Passing nil
// binds to slog.Default().
func New(logger *slog.Logger) Logger {
	if logger == nil {
		logger = slog.Default()
	}
	return &slogLogger{logger: logger}
}

type slogLogger struct {
	logger *slog.Logger
}

func (l *slogLogger) Debug(ctx context.Context, msg string, args ...any) {
	l.logger.DebugContext(ctx, msg, args...)
}

func (l *slogLogger) Info(ctx context.Context, msg string, args ...any) {
	l.logger.InfoContext(ctx, msg, args...)
}

func (l *slogLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.logger.WarnContext(ctx, msg, args...)
}

func (l *slogLogger) Error(ctx context.Context, msg string, args ...any) {
	l.logger.ErrorContext(ctx, msg, args...)
}

func (l *slogLogger) With(args ...any) Logger {
	return &slogLogger{logger: l.logger.With(args...)}
}

// Redacted marks attributes that contain sensitive information. Callers
// must not log raw secrets; include this attribute instead as a record
// that the value was intentionally removed.
func Redacted(key string) slog.Attr {
	return slog.String(key, redactedPlaceholder)
}

// Placeholder returns the canonical string that represents a redacted
// value.
func Placeholder() string {
	return redactedPlaceholder
}

// ErrorAttr renders err for logging. The data field of an ErrorStack
// record can echo fragments of the input that failed (key bytes, a
// plaintext prefix), so it is replaced with the redaction placeholder
// before the record is formatted. Errors that carry no native stack
// pass through unchanged.
func ErrorAttr(key string, err error) slog.Attr {
	var stack *openssl.ErrorStack
	if !errors.As(err, &stack) {
		return slog.String(key, err.Error())
	}
	records := stack.Errors()
	if len(records) == 0 {
		return slog.String(key, stack.Op()+": openssl error")
	}
	parts := make([]string, len(records))
	for i, e := range records {
		if e.Data != "" {
			e.Data = redactedPlaceholder
		}
		parts[i] = e.String()
	}
	return slog.String(key, stack.Op()+": "+strings.Join(parts, ", "))
}
