// Package ssl wraps native TLS contexts and connections. A Context owns
// one SSL_CTX configured from a Config; a Conn owns one SSL handle bridged
// to a Go net.Conn through the library's memory BIOs, so any Go transport
// can carry the TLS records. All handshake and record-layer logic stays in
// the native library.
package ssl
