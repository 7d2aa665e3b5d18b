//go:build cgo && !windows

package backend

/*
#include <openssl/rand.h>
*/
import "C"

import (
	"runtime"
	"unsafe"
)

// RandBytes fills buf with cryptographically strong random bytes from the
// library's DRBG.
func RandBytes(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if C.RAND_bytes((*C.uchar)(unsafe.Pointer(&buf[0])), C.int(len(buf))) != 1 {
		return nativeError("RAND_bytes")
	}
	return nil
}

// KeepRandomDevicesOpen controls whether the library keeps the file
// descriptors of its random seed sources open between reseeds.
func KeepRandomDevicesOpen(keep bool) {
	v := C.int(0)
	if keep {
		v = 1
	}
	C.RAND_keep_random_devices_open(v)
}
