// Package backend hosts the thin cgo layer that links the Go API to the
// native OpenSSL libraries. The real implementation lives behind build tags
// so that the rest of the repository can compile without cgo; in that case
// every operation reports ErrNotBuilt.
//
// The package assumes OpenSSL 3.0 or newer (ERR_get_error_all, TLS_method,
// the EVP_CTRL_AEAD_* controls) in every build variant. The default build
// locates the library with pkg-config; the boringssl build tag switches to
// bare link flags for installations that ship no pkg-config metadata. See
// flags_boringssl.go for what the tag does and does not change.
package backend
