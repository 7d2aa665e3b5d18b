//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/bn.h>
#include <openssl/crypto.h>

// OPENSSL_free is a macro over CRYPTO_free.
static void go_openssl_free(void *p) { OPENSSL_free(p); }
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

// BigNum is a type alias for *C.BIGNUM.
type BigNum = *C.BIGNUM

// BNFromDec parses a decimal string into a BIGNUM. The result must be freed
// with BNFree.
func BNFromDec(s string) (BigNum, error) {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var bn BigNum
	n := C.BN_dec2bn(&bn, cs)
	// BN_dec2bn accepts a valid prefix and reports how much it consumed, so
	// a partial parse has to be rejected here as well.
	if n == 0 || int(n) != len(s) {
		if bn != nil {
			C.BN_clear_free(bn)
		}
		if entries := drainEntries(); len(entries) > 0 {
			return nil, &NativeError{Op: "BN_dec2bn", Entries: entries}
		}
		return nil, &NativeError{Op: "BN_dec2bn: invalid decimal string"}
	}
	return bn, nil
}

// BNFromBytes interprets data as a big-endian unsigned integer.
func BNFromBytes(data []byte) (BigNum, error) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	var ptr *C.uchar
	if len(data) > 0 {
		ptr = (*C.uchar)(unsafe.Pointer(&data[0]))
	}
	bn := C.BN_bin2bn(ptr, C.int(len(data)), nil)
	if bn == nil {
		return nil, nativeError("BN_bin2bn")
	}
	return bn, nil
}

// BNToDec renders the BIGNUM as a decimal string.
func BNToDec(bn BigNum) (string, error) {
	if bn == nil {
		return "", errors.New("nil bignum")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	cs := C.BN_bn2dec(bn)
	if cs == nil {
		return "", nativeError("BN_bn2dec")
	}
	s := C.GoString(cs)
	C.go_openssl_free(unsafe.Pointer(cs))
	return s, nil
}

// BNToBytes serializes the BIGNUM as big-endian bytes. Zero serializes to an
// empty slice.
func BNToBytes(bn BigNum) ([]byte, error) {
	if bn == nil {
		return nil, errors.New("nil bignum")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	// BN_num_bytes is a macro over BN_num_bits.
	n := (C.BN_num_bits(bn) + 7) / 8
	if n == 0 {
		return nil, nil
	}
	out := make([]byte, n)
	written := C.BN_bn2bin(bn, (*C.uchar)(unsafe.Pointer(&out[0])))
	if written < 0 {
		return nil, nativeError("BN_bn2bin")
	}
	return out[:written], nil
}

// BNAdd computes a+b into a fresh BIGNUM.
func BNAdd(a, b BigNum) (BigNum, error) {
	return bnBinop("BN_add", a, b, func(r, a, b BigNum) C.int {
		return C.BN_add(r, a, b)
	})
}

// BNSub computes a-b into a fresh BIGNUM.
func BNSub(a, b BigNum) (BigNum, error) {
	return bnBinop("BN_sub", a, b, func(r, a, b BigNum) C.int {
		return C.BN_sub(r, a, b)
	})
}

// BNMul computes a*b into a fresh BIGNUM.
func BNMul(a, b BigNum) (BigNum, error) {
	return bnBinop("BN_mul", a, b, func(r, a, b BigNum) C.int {
		ctx := C.BN_CTX_new()
		if ctx == nil {
			return 0
		}
		rc := C.BN_mul(r, a, b, ctx)
		C.BN_CTX_free(ctx)
		return rc
	})
}

// BNModExp computes a^p mod m into a fresh BIGNUM.
func BNModExp(a, p, m BigNum) (BigNum, error) {
	if a == nil || p == nil || m == nil {
		return nil, errors.New("nil bignum")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	r := C.BN_new()
	if r == nil {
		return nil, nativeError("BN_new")
	}
	ctx := C.BN_CTX_new()
	if ctx == nil {
		C.BN_clear_free(r)
		return nil, nativeError("BN_CTX_new")
	}
	rc := C.BN_mod_exp(r, a, p, m, ctx)
	C.BN_CTX_free(ctx)
	if rc != 1 {
		err := nativeError("BN_mod_exp")
		C.BN_clear_free(r)
		return nil, err
	}
	return r, nil
}

// BNCmp returns -1, 0 or 1 as a is less than, equal to or greater than b.
func BNCmp(a, b BigNum) int {
	return int(C.BN_cmp(a, b))
}

// BNFree securely releases a BIGNUM. Safe on nil.
func BNFree(bn BigNum) {
	if bn != nil {
		C.BN_clear_free(bn)
	}
}

func bnBinop(op string, a, b BigNum, f func(r, a, b BigNum) C.int) (BigNum, error) {
	if a == nil || b == nil {
		return nil, errors.New("nil bignum")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	r := C.BN_new()
	if r == nil {
		return nil, nativeError("BN_new")
	}
	if f(r, a, b) != 1 {
		err := nativeError(op)
		C.BN_clear_free(r)
		return nil, err
	}
	return r, nil
}
