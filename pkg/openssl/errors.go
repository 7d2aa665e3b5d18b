package openssl

import (
	"errors"

	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// ErrNotBuilt reports that the native bindings were not linked into the
// current binary (built without cgo, or on Windows).
var ErrNotBuilt = errors.New("openssl: native bindings not built")

// ErrVerify reports a clean signature verification mismatch, as opposed to
// an operational failure inside the library.
var ErrVerify = errors.New("openssl: signature verification failure")

// Error is one record from OpenSSL's error queue. Code is the raw packed
// error code; the string fields are whatever the library had registered at
// the time of capture and may be empty.
type Error struct {
	Code     uint64
	Library  string
	Function string
	Reason   string
	File     string
	Line     int
	Data     string
}

// String renders the record in OpenSSL's own format,
// error:<code>:<library>:<function>:<reason>:<file>:<line>:<data>.
func (e Error) String() string {
	return backend.Entry(e).String()
}

// ErrorStack is the contents of the thread-local OpenSSL error queue at the
// moment a native call failed. It is returned by every wrapper operation
// that fails inside the library.
type ErrorStack struct {
	native *backend.NativeError
}

// Error implements the error interface. The message names the failed
// native operation followed by every queue record, oldest first.
func (e *ErrorStack) Error() string {
	return e.native.Error()
}

// Errors returns the queue records, oldest first. The slice may be empty
// when the library reported failure without queuing a reason.
func (e *ErrorStack) Errors() []Error {
	out := make([]Error, len(e.native.Entries))
	for i, entry := range e.native.Entries {
		out[i] = Error(entry)
	}
	return out
}

// Op names the native operation that failed.
func (e *ErrorStack) Op() string {
	return e.native.Op
}

// Put pushes the records back onto the calling goroutine's native error
// queue, oldest first, for code that consumes OpenSSL errors directly.
func (e *ErrorStack) Put() {
	backend.PutErrors(e.native.Entries)
}

// RemapError converts backend layer errors to public API errors. This is
// exported for use by the wrapper subpackages.
func RemapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, backend.ErrNotBuilt) {
		return ErrNotBuilt
	}
	if errors.Is(err, backend.ErrVerify) {
		return ErrVerify
	}
	var native *backend.NativeError
	if errors.As(err, &native) {
		return &ErrorStack{native: native}
	}
	return err
}
