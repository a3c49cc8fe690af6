package discovery

import (
	"path/filepath"
	"reflect"
	"testing"
)

func TestFindParentPackage(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"src/namespace/pkg/__init__.py",
		"src/namespace/pkg/nested/__init__.py",
	})

	packages := []string{"namespace", "namespace.pkg", "namespace.pkg.nested"}
	parent := FindParentPackage(packages, map[string]string{"": "src"}, tempDir)
	// The namespace root has no initializer; the first real package in the
	// ancestor chain wins
	if parent != "namespace.pkg" {
		t.Errorf("Expected parent 'namespace.pkg', got %q", parent)
	}
}

func TestFindParentPackage_MultipleTopLevel(t *testing.T) {
	tempDir := t.TempDir()
	packages := []string{"pkg", "pkg1", "pkg2"}
	writeTree(t, tempDir, []string{
		"src/pkg/__init__.py",
		"src/pkg1/__init__.py",
		"src/pkg2/__init__.py",
	})

	parent := FindParentPackage(packages, map[string]string{"": "src"}, tempDir)
	if parent != "" {
		t.Errorf("Expected no parent package, got %q", parent)
	}
}

func TestFindParentPackage_SinglePackage(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{"pkg/__init__.py"})

	parent := FindParentPackage([]string{"pkg"}, map[string]string{}, tempDir)
	if parent != "pkg" {
		t.Errorf("Expected parent 'pkg', got %q", parent)
	}
}

func TestFindPackagePath(t *testing.T) {
	tests := []struct {
		name       string
		pkg        string
		packageDir map[string]string
		want       string
	}{
		{"top-level root", "pkg", map[string]string{"": "src"}, "src/pkg"},
		{"no mapping", "pkg.sub", map[string]string{}, "pkg/sub"},
		{"exact prefix", "pkg", map[string]string{"pkg": "lib/pkg"}, "lib/pkg"},
		{"longest prefix wins", "pkg.sub.mod",
			map[string]string{"": "src", "pkg.sub": "other"}, "other/mod"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindPackagePath(tt.pkg, tt.packageDir, "/root")
			want := filepath.Join("/root", filepath.FromSlash(tt.want))
			if got != want {
				t.Errorf("FindPackagePath(%q, %v) = %q, want %q",
					tt.pkg, tt.packageDir, got, want)
			}
		})
	}
}

func TestRemoveNestedPackages(t *testing.T) {
	packages := []string{"pkg", "pkg.sub", "pkg.sub.nested", "other", "other.inner"}
	top := RemoveNestedPackages(packages)

	want := []string{"pkg", "other"}
	if !reflect.DeepEqual(top, want) {
		t.Errorf("Expected top-level packages %v, got %v", want, top)
	}
}

func TestRemoveStubs(t *testing.T) {
	packages := []string{"pkg", "pkg-stubs", "namespace-stubs.pkg", "other"}
	kept := RemoveStubs(packages)

	want := []string{"pkg", "other"}
	if !reflect.DeepEqual(kept, want) {
		t.Errorf("Expected packages %v, got %v", want, kept)
	}
}
