package openssl

import "github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"

// Version is the wrapper's own semantic version, populated at build time
// via ldflags. In development it defaults to v0.0.0-in-progress.
var Version = "v0.0.0-in-progress"

// WrapperVersion returns the version of this binding layer.
func WrapperVersion() string {
	return Version
}

// LibraryVersion returns the version string reported by the linked native
// library, or "not linked" when the bindings were not built.
func LibraryVersion() string {
	if v := backend.Version(); v != "" {
		return v
	}
	return "not linked"
}

// LibraryVersionNumber returns the linked library's packed version number
// (OPENSSL_VERSION_NUMBER), or zero when the bindings were not built.
func LibraryVersionNumber() uint64 {
	return backend.VersionNumber()
}
