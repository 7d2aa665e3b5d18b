// Package cipher wraps the EVP AEAD interface. Seal and Open are one-shot
// operations; the native cipher context lives only for the duration of the
// call, so there is no handle for the caller to manage.
package cipher
