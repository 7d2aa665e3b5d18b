package internalcheck

import (
	"fmt"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"
)

const backendPath = "github.com/cryptobind/openssl-go/pkg/openssl/internal/backend"

// TestCgoConfinedToBackend enforces the repository's safety boundary: only
// the backend package may import "C". Every other package works with the
// backend's Go-typed surface, so ownership and error translation rules are
// applied in exactly one place.
func TestCgoConfinedToBackend(t *testing.T) {
	cfg := &packages.Config{
		Mode: packages.NeedSyntax | packages.NeedFiles | packages.NeedName,
	}

	pkgs, err := packages.Load(cfg, "github.com/cryptobind/openssl-go/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}

	var findings []string

	for _, pkg := range pkgs {
		if pkg.PkgPath == backendPath {
			continue
		}
		for _, file := range pkg.Syntax {
			for _, imp := range file.Imports {
				if imp.Path.Value != `"C"` {
					continue
				}
				pos := pkg.Fset.Position(imp.Pos())
				findings = append(findings, fmt.Sprintf("%s: cgo import outside %s", pos, backendPath))
			}
		}
	}

	if len(findings) > 0 {
		t.Fatalf("cgo containment violation:\n%s", strings.Join(findings, "\n"))
	}
}
