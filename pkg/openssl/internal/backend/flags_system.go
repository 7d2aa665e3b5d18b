//go:build cgo && !windows && !boringssl

package backend

// Link against the system OpenSSL distribution. A vendored build is picked
// up the same way by pointing PKG_CONFIG_PATH at its lib/pkgconfig dir.

// #cgo pkg-config: openssl
import "C"
