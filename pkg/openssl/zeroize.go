package openssl

import "runtime"

// ZeroizeBytes overwrites the provided slice with zeros and prevents
// compiler dead store elimination using runtime.KeepAlive.
//
// This follows the pattern discussed in golang/go#33325. It cannot
// guarantee complete sanitization because the garbage collector may have
// copied the slice, but it is the accepted practice for sensitive buffers
// on the Go side. Buffers inside the native library are cleansed by
// OpenSSL itself via OPENSSL_cleanse.
func ZeroizeBytes(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	// Prevent dead store elimination per golang/go#33325
	runtime.KeepAlive(buf)
}
