package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

const testForbiddenImport = "some/forbidden/package"

func TestInternalImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"example.com/mod/internal/x", true},
		{"example.com/some/internal/deep/path", true},
		{"example.com/mod/pkg/x", false},
		{"internal", false},
		{"example.com/internal", false},
		{"notinternal", false},
		{"", false},
	}
	for _, c := range cases {
		if got := InternalImportForbidden(c.in); got != c.want {
			t.Errorf("InternalImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestInfraImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"chemcore/internal/infra/blob/s3", true},
		{"chemcore/internal/infra/persistence/sqlite", true},
		{"chemcore/internal/blob", false},
		{"chemcore/internal/core", false},
		{"chemcore/pkg/chem", false},
		{"", false},
	}
	for _, c := range cases {
		if got := InfraImportForbidden(c.in); got != c.want {
			t.Errorf("InfraImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

func TestThirdPartyImportForbiddenPredicate(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"github.com/prometheus/client_golang/prometheus", true},
		{"modernc.org/sqlite", true},
		{"golang.org/x/tools/go/packages", true},
		{"chemcore/pkg/chem", false},
		{"encoding/json", false},
		{"fmt", false},
		{"", false},
	}
	for _, c := range cases {
		if got := ThirdPartyImportForbidden(c.in); got != c.want {
			t.Errorf("ThirdPartyImportForbidden(%q)=%v want %v", c.in, got, c.want)
		}
	}
}

// TestAssertNoDirectImports exercises the scanner against a tiny temp package.
func TestAssertNoDirectImports(t *testing.T) {
	dir := t.TempDir()
	src := []byte("package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}")
	if err := os.WriteFile(filepath.Join(dir, "x.go"), src, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	AssertNoDirectImports(t, dir, func(string) bool { return false }, "none")
}

// TestAssertNoDirectImportsIgnoresTestFiles checks that _test.go files and
// subdirectories are outside the scanned surface.
func TestAssertNoDirectImportsIgnoresTestFiles(t *testing.T) {
	dir := t.TempDir()

	src := []byte("package tmp\nimport \"fmt\"\nfunc X(){fmt.Println(1)}")
	if err := os.WriteFile(filepath.Join(dir, "main.go"), src, 0o600); err != nil {
		t.Fatalf("write main file: %v", err)
	}
	testSrc := []byte("package tmp\nimport \"testing\"\nimport \"" + testForbiddenImport + "\"\nfunc TestX(t *testing.T) {}")
	if err := os.WriteFile(filepath.Join(dir, "main_test.go"), testSrc, 0o600); err != nil {
		t.Fatalf("write test file: %v", err)
	}
	subdir := filepath.Join(dir, "subdir")
	if err := os.Mkdir(subdir, 0o750); err != nil {
		t.Fatalf("create subdir: %v", err)
	}
	subSrc := []byte("package subpkg\nimport \"" + testForbiddenImport + "\"\nfunc X() {}")
	if err := os.WriteFile(filepath.Join(subdir, "sub.go"), subSrc, 0o600); err != nil {
		t.Fatalf("write subdir file: %v", err)
	}

	AssertNoDirectImports(t, dir, func(importPath string) bool {
		return importPath == testForbiddenImport
	}, "test files and subdirectories are ignored")
}

// TestAssertNoTransitiveDependency runs `go list` against the current package
// with a predicate that matches nothing.
func TestAssertNoTransitiveDependency(t *testing.T) {
	AssertNoTransitiveDependency(t, ".", func(path string) bool {
		return path == "github.com/some/nonexistent/package"
	}, "none")
}
