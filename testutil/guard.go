// Package testutil provides helpers for tests that enforce the repository's
// package boundary rules.
package testutil

import (
	"bufio"
	"bytes"
	"go/parser"
	"go/token"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
)

// goListDeps resolves the transitive dependency closure of a package pattern.
// Declared as a variable so tests can substitute canned output.
var goListDeps = func(pattern string) ([]byte, error) {
	return exec.Command("go", "list", "-deps", pattern).CombinedOutput()
}

// AssertNoTransitiveDependency fails the test when any package in the
// `go list -deps` closure of pattern satisfies the forbidden predicate.
// The reason string is echoed in the failure so CI output names the rule
// being enforced.
func AssertNoTransitiveDependency(t testing.TB, pattern string, forbidden func(path string) bool, reason string) {
	t.Helper()
	out, err := goListDeps(pattern)
	if err != nil {
		t.Fatalf("go list failed: %v\n%s", err, out)
	}
	var viols []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		dep := strings.TrimSpace(sc.Text())
		if dep != "" && forbidden(dep) {
			viols = append(viols, dep)
		}
	}
	report(t, "transitive dependency", reason, viols)
}

// AssertNoDirectImports parses every non-test .go file directly inside dir
// and fails when an import path satisfies the forbidden predicate.
// Subdirectories are not descended into and build tags are not evaluated.
func AssertNoDirectImports(t testing.TB, dir string, forbidden func(importPath string) bool, reason string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	fset := token.NewFileSet()
	var viols []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".go") || strings.HasSuffix(name, "_test.go") {
			continue
		}
		f, err := parser.ParseFile(fset, filepath.Join(dir, name), nil, parser.ImportsOnly)
		if err != nil {
			t.Fatalf("parse %s: %v", name, err)
		}
		for _, imp := range f.Imports {
			ip, err := strconv.Unquote(imp.Path.Value)
			if err != nil {
				t.Fatalf("parse %s: bad import literal %s", name, imp.Path.Value)
			}
			if forbidden(ip) {
				viols = append(viols, ip+" (in "+name+")")
			}
		}
	}
	report(t, "direct imports", reason, viols)
}

// InternalImportForbidden reports whether path crosses an internal package
// boundary.
func InternalImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/")
}

// InfraImportForbidden reports whether path reaches an infra adapter package.
// Only the facades may import those directly.
func InfraImportForbidden(path string) bool {
	return strings.Contains(path, "/internal/infra/")
}

// ThirdPartyImportForbidden reports whether path resolves outside the
// standard library and this module. Module paths are distinguished from
// stdlib ones by the dot in their first segment.
func ThirdPartyImportForbidden(path string) bool {
	first, _, _ := strings.Cut(path, "/")
	return strings.Contains(first, ".")
}

func report(t testing.TB, kind, reason string, viols []string) {
	t.Helper()
	if len(viols) == 0 {
		return
	}
	t.Fatalf("forbidden %s detected (%s):\n%s", kind, reason, strings.Join(viols, "\n"))
}
