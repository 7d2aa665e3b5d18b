// Package x509 wraps native certificate handles and trust stores. Parsing,
// field extraction and chain verification all happen inside the native
// library; the wrappers only manage handle lifetimes.
package x509
