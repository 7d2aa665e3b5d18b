// Package rand draws cryptographically strong random bytes from the native
// library's DRBG.
package rand
