package rand

import (
	"github.com/cryptobind/openssl-go/pkg/openssl"
	"github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"
)

// Bytes fills buf with cryptographically strong pseudo-random bytes.
func Bytes(buf []byte) error {
	if err := backend.RandBytes(buf); err != nil {
		return openssl.RemapError(err)
	}
	return nil
}

// Read fills buf and returns its length, satisfying io.Reader-shaped
// call sites.
func Read(buf []byte) (int, error) {
	if err := Bytes(buf); err != nil {
		return 0, err
	}
	return len(buf), nil
}

// KeepRandomDevicesOpen controls whether the library keeps its random
// device file descriptors open between reseeds. Requires OpenSSL 1.1.1 or
// newer; a no-op when the bindings are not built.
func KeepRandomDevicesOpen(keep bool) {
	backend.KeepRandomDevicesOpen(keep)
}
