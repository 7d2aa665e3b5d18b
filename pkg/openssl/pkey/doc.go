// Package pkey wraps EVP_PKEY asymmetric keys. A Key owns one native
// handle covering either a full key pair or just the public half; signing
// and verification hash inside the native library.
package pkey
