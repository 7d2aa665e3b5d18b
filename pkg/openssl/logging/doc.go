// Package logging provides the small slog-backed logger used by the
// wrapper packages. Its only policy is redaction: key material and
// plaintext never reach a log line, and the Redacted helper marks where a
// value was deliberately withheld.
package logging
