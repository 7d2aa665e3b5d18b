package bn

import (
	"errors"
	"runtime"

	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// BigNum is an owning wrapper around a native BIGNUM.
//
// Memory management: call Close when the value is no longer needed. A
// finalizer is set as a safety net, but relying on it can delay release of
// native memory.
type BigNum struct {
	cbn backend.BigNum
}

func newBigNum(cbn backend.BigNum) *BigNum {
	b := &BigNum{cbn: cbn}
	runtime.SetFinalizer(b, func(bn *BigNum) {
		_ = bn.Close()
	})
	return b
}

// Close releases the native BIGNUM with secure clearing. It is safe to
// call multiple times; after Close the value must not be used.
func (b *BigNum) Close() error {
	if b == nil || b.cbn == nil {
		return nil
	}
	backend.BNFree(b.cbn)
	b.cbn = nil
	runtime.SetFinalizer(b, nil)
	return nil
}

// FromDecStr parses a decimal string. Anything but a full decimal parse is
// an error.
func FromDecStr(s string) (*BigNum, error) {
	cbn, err := backend.BNFromDec(s)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newBigNum(cbn), nil
}

// FromBytes interprets data as a big-endian unsigned integer.
func FromBytes(data []byte) (*BigNum, error) {
	cbn, err := backend.BNFromBytes(data)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	return newBigNum(cbn), nil
}

// DecStr renders the value as a decimal string.
func (b *BigNum) DecStr() (string, error) {
	if b == nil || b.cbn == nil {
		return "", errors.New("nil or closed bignum")
	}
	s, err := backend.BNToDec(b.cbn)
	if err != nil {
		return "", openssl.RemapError(err)
	}
	runtime.KeepAlive(b)
	return s, nil
}

// Bytes returns the big-endian byte encoding. Zero encodes to an empty
// slice.
func (b *BigNum) Bytes() ([]byte, error) {
	if b == nil || b.cbn == nil {
		return nil, errors.New("nil or closed bignum")
	}
	out, err := backend.BNToBytes(b.cbn)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(b)
	return out, nil
}

// Add returns b+x as a new value.
func (b *BigNum) Add(x *BigNum) (*BigNum, error) {
	return b.binop(x, backend.BNAdd)
}

// Sub returns b-x as a new value.
func (b *BigNum) Sub(x *BigNum) (*BigNum, error) {
	return b.binop(x, backend.BNSub)
}

// Mul returns b*x as a new value.
func (b *BigNum) Mul(x *BigNum) (*BigNum, error) {
	return b.binop(x, backend.BNMul)
}

// ModExp returns b^p mod m as a new value.
func (b *BigNum) ModExp(p, m *BigNum) (*BigNum, error) {
	if b == nil || b.cbn == nil || p == nil || p.cbn == nil || m == nil || m.cbn == nil {
		return nil, errors.New("nil or closed bignum")
	}
	cbn, err := backend.BNModExp(b.cbn, p.cbn, m.cbn)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(b)
	runtime.KeepAlive(p)
	runtime.KeepAlive(m)
	return newBigNum(cbn), nil
}

// Cmp returns -1, 0 or 1 as b is less than, equal to or greater than x.
func (b *BigNum) Cmp(x *BigNum) int {
	if b == nil || b.cbn == nil || x == nil || x.cbn == nil {
		return 0
	}
	r := backend.BNCmp(b.cbn, x.cbn)
	runtime.KeepAlive(b)
	runtime.KeepAlive(x)
	return r
}

func (b *BigNum) binop(x *BigNum, f func(backend.BigNum, backend.BigNum) (backend.BigNum, error)) (*BigNum, error) {
	if b == nil || b.cbn == nil || x == nil || x.cbn == nil {
		return nil, errors.New("nil or closed bignum")
	}
	cbn, err := f(b.cbn, x.cbn)
	if err != nil {
		return nil, openssl.RemapError(err)
	}
	runtime.KeepAlive(b)
	runtime.KeepAlive(x)
	return newBigNum(cbn), nil
}
