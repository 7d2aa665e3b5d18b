//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/evp.h>
*/
import "C"

import (
	"errors"
	"runtime"
	"unsafe"
)

// MDCtx is a type alias for *C.EVP_MD_CTX.
type MDCtx = *C.EVP_MD_CTX

// MDCtxNew allocates a digest context initialized for the named algorithm
// (for example "SHA2-256"). The context must be freed with MDCtxFree.
func MDCtxNew(name string) (MDCtx, error) {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	md := C.EVP_get_digestbyname(cname)
	if md == nil {
		return nil, nativeError("EVP_get_digestbyname")
	}
	ctx := C.EVP_MD_CTX_new()
	if ctx == nil {
		return nil, nativeError("EVP_MD_CTX_new")
	}
	if C.EVP_DigestInit_ex(ctx, md, nil) != 1 {
		err := nativeError("EVP_DigestInit_ex")
		C.EVP_MD_CTX_free(ctx)
		return nil, err
	}
	return ctx, nil
}

// MDCtxUpdate absorbs data into the running digest.
func MDCtxUpdate(ctx MDCtx, data []byte) error {
	if ctx == nil {
		return errors.New("nil digest context")
	}
	if len(data) == 0 {
		return nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if C.EVP_DigestUpdate(ctx, unsafe.Pointer(&data[0]), C.size_t(len(data))) != 1 {
		return nativeError("EVP_DigestUpdate")
	}
	return nil
}

// MDCtxFinal completes the digest and returns the sum. The context is left
// finalized and must not receive further updates.
func MDCtxFinal(ctx MDCtx) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("nil digest context")
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	out := make([]byte, C.EVP_MAX_MD_SIZE)
	var outLen C.uint
	if C.EVP_DigestFinal_ex(ctx, (*C.uchar)(unsafe.Pointer(&out[0])), &outLen) != 1 {
		return nil, nativeError("EVP_DigestFinal_ex")
	}
	return out[:outLen], nil
}

// MDCtxSize returns the output size in bytes of the context's algorithm.
func MDCtxSize(ctx MDCtx) int {
	if ctx == nil {
		return 0
	}
	md := C.EVP_MD_CTX_get0_md(ctx)
	if md == nil {
		return 0
	}
	return int(C.EVP_MD_get_size(md))
}

// MDCtxFree releases the digest context. Safe on nil.
func MDCtxFree(ctx MDCtx) {
	if ctx != nil {
		C.EVP_MD_CTX_free(ctx)
	}
}
