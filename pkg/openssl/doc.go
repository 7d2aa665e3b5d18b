// Package openssl exposes the OpenSSL libraries through safe Go wrapper
// types. Every wrapper owns exactly one native handle and releases it
// exactly once via Close; failed native calls surface the library's error
// queue as a structured ErrorStack instead of a bare return code.
//
// The package compiles without cgo so that downstream projects can build on
// every platform; in that configuration all operations return ErrNotBuilt.
// No cryptographic logic lives on the Go side of the boundary.
package openssl
