//go:build cgo && !windows && boringssl

package backend

// The boringssl tag only swaps how the libraries are located: pkg-config
// discovery is dropped in favor of plain link flags, with include and
// library paths supplied through CGO_CFLAGS/CGO_LDFLAGS by the build
// environment. The bindings still call the OpenSSL 3 API surface
// (ERR_get_error_all, EVP_PKEY_get_group_name, provider params), which
// upstream BoringSSL does not export, so the library linked under this
// tag must provide those entry points.

// #cgo LDFLAGS: -lssl -lcrypto
import "C"
