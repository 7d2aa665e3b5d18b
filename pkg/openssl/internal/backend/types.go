package backend

import (
	"errors"
	"strconv"
	"strings"
)

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary.
var ErrNotBuilt = errors.New("openssl/internal/backend: native bindings not built")

// ErrWantRead is returned by TLS operations that need more inbound bytes
// fed into the transport BIO before they can make progress.
var ErrWantRead = errors.New("tls: want read")

// ErrWantWrite is returned by TLS operations that need the outbound BIO
// flushed to the peer before they can make progress.
var ErrWantWrite = errors.New("tls: want write")

// ErrShutdown reports that the peer sent a close_notify alert and the TLS
// session is cleanly closed.
var ErrShutdown = errors.New("tls: connection shut down by peer")

// ErrAuth reports an AEAD open that failed tag authentication.
var ErrAuth = errors.New("aead: message authentication failed")

// ErrVerify reports a signature verification failure. The native library
// distinguishes a clean mismatch (return 0) from an operational failure
// (negative return with a populated error queue); only the former maps here.
var ErrVerify = errors.New("signature verification failure")

// Entry is one record drained from OpenSSL's thread-local error queue.
// Library, Function and Reason are the human-readable strings registered by
// the library that raised the error; any of them may be empty when the
// corresponding string table is not loaded.
type Entry struct {
	Code     uint64
	Library  string
	Function string
	Reason   string
	File     string
	Line     int
	Data     string
}

// String renders the entry in OpenSSL's own error format,
// error:<code>:<library>:<function>:<reason>:<file>:<line>:<data>.
func (e Entry) String() string {
	var b strings.Builder
	b.WriteString("error:")
	b.WriteString(padCode(e.Code))
	b.WriteByte(':')
	if e.Library != "" {
		b.WriteString(e.Library)
	} else {
		b.WriteString("lib(" + strconv.FormatUint(libFromCode(e.Code), 10) + ")")
	}
	b.WriteByte(':')
	b.WriteString(e.Function)
	b.WriteByte(':')
	if e.Reason != "" {
		b.WriteString(e.Reason)
	} else {
		b.WriteString("reason(" + strconv.FormatUint(reasonFromCode(e.Code), 10) + ")")
	}
	b.WriteByte(':')
	b.WriteString(e.File)
	b.WriteByte(':')
	b.WriteString(strconv.Itoa(e.Line))
	b.WriteByte(':')
	b.WriteString(e.Data)
	return b.String()
}

func padCode(code uint64) string {
	s := strings.ToUpper(strconv.FormatUint(code, 16))
	for len(s) < 8 {
		s = "0" + s
	}
	return s
}

// libFromCode and reasonFromCode unpack the ERR_PACK components the same way
// the ERR_GET_LIB and ERR_GET_REASON accessors do.
func libFromCode(code uint64) uint64 {
	return (code >> 23) & 0xff
}

func reasonFromCode(code uint64) uint64 {
	return code & 0x7fffff
}

// NativeError carries the contents of the native error queue at the moment a
// call into OpenSSL failed. Op names the wrapped native operation.
type NativeError struct {
	Op      string
	Entries []Entry
}

func (e *NativeError) Error() string {
	if len(e.Entries) == 0 {
		return e.Op + ": openssl error"
	}
	parts := make([]string, len(e.Entries))
	for i, entry := range e.Entries {
		parts[i] = entry.String()
	}
	return e.Op + ": " + strings.Join(parts, ", ")
}
