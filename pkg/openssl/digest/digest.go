package digest

import (
	"errors"
	"runtime"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// Common algorithm names understood by EVP_get_digestbyname. Any other
// name the linked library recognizes works as well.
const (
	SHA256   = "SHA256"
	SHA384   = "SHA384"
	SHA512   = "SHA512"
	SHA3_256 = "SHA3-256"
)

// Digest is an owning wrapper around a native digest context.
//
// Memory management: call Close when done. A finalizer is set as a safety
// net, but relying on it can delay release of native memory.
type Digest struct {
	cctx backend.MDCtx
	algo string
}

// New allocates a streaming digest for the named algorithm.
func New(algorithm string) (*Digest, error) {
	cctx, err := backend.MDCtxNew(algorithm)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	d := &Digest{cctx: cctx, algo: algorithm}
	runtime.SetFinalizer(d, func(dd *Digest) {
		_ = dd.Close()
	})
	return d, nil
}

// Close releases the native context. Safe to call multiple times; the
// digest must not be used afterwards.
func (d *Digest) Close() error {
	if d == nil || d.cctx == nil {
		return nil
	}
	backend.MDCtxFree(d.cctx)
	d.cctx = nil
	runtime.SetFinalizer(d, nil)
	return nil
}

// Algorithm returns the name the digest was created with.
func (d *Digest) Algorithm() string {
	return d.algo
}

// Size returns the output length in bytes, or 0 on a closed digest.
func (d *Digest) Size() int {
	if d == nil || d.cctx == nil {
		return 0
	}
	n := backend.MDCtxSize(d.cctx)
	runtime.KeepAlive(d)
	return n
}

// Write absorbs p into the running digest. It never returns a short count
// without an error, so *Digest satisfies io.Writer.
func (d *Digest) Write(p []byte) (int, error) {
	if d == nil || d.cctx == nil {
		return 0, errors.New("nil or closed digest")
	}
	if err := backend.MDCtxUpdate(d.cctx, p); err != nil {
		return 0, openssl.RemapError(err)
	}
	runtime.KeepAlive(d)
	return len(p), nil
}

// Sum finalizes the digest and returns the hash. The digest accepts no
// further writes afterwards.
func (d *Digest) Sum() ([]byte, error) {
	if d == nil || d.cctx == nil {
		return nil, errors.New("nil or closed digest")
	}
	sum, err := backend.MDCtxFinal(d.cctx)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(d)
	return sum, nil
}

// Sum computes the one-shot hash of data with the named algorithm.
func Sum(algorithm string, data []byte) ([]byte, error) {
	d, err := New(algorithm)
	if err != nil {
		return nil, err
	}
	defer d.Close()
	if _, err := d.Write(data); err != nil {
		return nil, err
	}
	return d.Sum()
}
