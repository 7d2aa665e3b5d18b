//go:build cgo && !windows

package backend

/*
#include <stdlib.h>
#include <openssl/crypto.h>
#include <openssl/bio.h>
*/
import "C"

import (
	"unsafe"
)

// Version returns the version string reported by the linked library.
func Version() string {
	return C.GoString(C.OpenSSL_version(C.OPENSSL_VERSION))
}

// VersionNumber returns the packed OPENSSL_VERSION_NUMBER of the linked
// library.
func VersionNumber() uint64 {
	return uint64(C.OpenSSL_version_num())
}

// newMemBIO creates a memory BIO populated with data. The BIO copies the
// bytes, so the Go slice may be collected afterwards. Callers must free the
// BIO with C.BIO_free.
func newMemBIO(data []byte) *C.BIO {
	bio := C.BIO_new(C.BIO_s_mem())
	if bio == nil {
		return nil
	}
	if len(data) > 0 {
		if C.BIO_write(bio, unsafe.Pointer(&data[0]), C.int(len(data))) != C.int(len(data)) {
			C.BIO_free(bio)
			return nil
		}
	}
	return bio
}

// bioPending reports the number of buffered bytes readable from a memory
// BIO. BIO_pending is a macro around BIO_ctrl, so we issue the control
// request directly.
func bioPending(bio *C.BIO) int {
	return int(C.BIO_ctrl(bio, C.BIO_CTRL_PENDING, 0, nil))
}

// bioReadAll drains every buffered byte out of a memory BIO.
func bioReadAll(bio *C.BIO) []byte {
	n := bioPending(bio)
	if n <= 0 {
		return nil
	}
	out := make([]byte, n)
	read := C.BIO_read(bio, unsafe.Pointer(&out[0]), C.int(n))
	if read <= 0 {
		return nil
	}
	return out[:read]
}
