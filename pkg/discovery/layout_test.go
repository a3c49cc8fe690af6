package discovery

import (
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/charmbracelet/log"
)

func testLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestAnalyse_SrcLayout(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"src/pkg/__init__.py",
		"src/pkg/main.py",
	})

	result, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Layout != "src-layout" {
		t.Errorf("Expected src-layout, got %q", result.Layout)
	}
	if !reflect.DeepEqual(result.Packages, []string{"pkg"}) {
		t.Errorf("Expected packages [pkg], got %v", result.Packages)
	}
	if result.PackageDir[""] != "src" {
		t.Errorf("Expected package_dir {\"\": \"src\"}, got %v", result.PackageDir)
	}
}

func TestAnalyse_SrcLayoutModules(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{"src/pkg1.py"})

	result, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if !reflect.DeepEqual(result.PyModules, []string{"pkg1"}) {
		t.Errorf("Expected modules [pkg1], got %v", result.PyModules)
	}
}

func TestAnalyse_SrcVariation(t *testing.T) {
	// An explicit empty-prefix mapping moves the src root
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"lib/pkg/__init__.py",
		"lib/pkg/main.py",
	})

	opts := Options{PackageDir: map[string]string{"": "lib"}}
	result, err := Analyse(context.Background(), tempDir, opts, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Layout != "src-layout" {
		t.Errorf("Expected src-layout, got %q", result.Layout)
	}
	if !reflect.DeepEqual(result.Packages, []string{"pkg"}) {
		t.Errorf("Expected packages [pkg], got %v", result.Packages)
	}
	if result.PackageDir[""] != "lib" {
		t.Errorf("Expected package_dir {\"\": \"lib\"}, got %v", result.PackageDir)
	}
}

func TestSrcLayout_NoCandidatesDoesNotApply(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{"src/README.txt"})

	res := &Result{PackageDir: map[string]string{}}
	applied, err := NewSrcLayout(nil, testLogger()).Analyse(context.Background(), tempDir, res)
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if applied {
		t.Error("Expected src layout not to apply to a src dir without candidates")
	}
	if _, ok := res.PackageDir[""]; ok {
		t.Errorf("Expected no top-level package_dir entry, got %v", res.PackageDir)
	}
}

func TestAnalyse_FlatNamespace(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{"ns/pkg/__init__.py"})

	result, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	want := []string{"ns", "ns.pkg"}
	if !reflect.DeepEqual(result.Packages, want) {
		t.Errorf("Expected packages %v, got %v", want, result.Packages)
	}
}

func TestAnalyse_SingleModule(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"pkg.py",
		"setup.py",
	})

	result, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Packages != nil {
		t.Errorf("Expected no packages, got %v", result.Packages)
	}
	if !reflect.DeepEqual(result.PyModules, []string{"pkg"}) {
		t.Errorf("Expected modules [pkg], got %v", result.PyModules)
	}
}

func TestAnalyse_ExplicitDirLayout(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"lib/__init__.py",
		"lib/nested/__init__.py",
	})

	opts := Options{PackageDir: map[string]string{"pkg": "lib"}}
	result, err := Analyse(context.Background(), tempDir, opts, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Layout != "explicit-dir-layout" {
		t.Errorf("Expected explicit-dir-layout, got %q", result.Layout)
	}
	want := []string{"pkg", "pkg.nested"}
	if !reflect.DeepEqual(result.Packages, want) {
		t.Errorf("Expected packages %v, got %v", want, result.Packages)
	}
}

func TestAnalyse_ExplicitPackagesSuppressDiscovery(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"pkg/__init__.py",
		"mod.py",
		"other.py",
	})

	// An explicit empty list is a terminal signal: no discovery on either axis
	opts := Options{Packages: []string{}}
	result, err := Analyse(context.Background(), tempDir, opts, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Packages == nil || len(result.Packages) != 0 {
		t.Errorf("Expected explicit empty package list, got %v", result.Packages)
	}
	if result.PyModules != nil {
		t.Errorf("Expected py_modules to stay nil, got %v", result.PyModules)
	}
	if result.Layout != "explicit" {
		t.Errorf("Expected explicit layout, got %q", result.Layout)
	}
}

func TestAnalyse_ExtModulesSkipDiscovery(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"proj/file.py",
		"py/proj.cpp",
		"py/file.py",
	})

	opts := Options{HasExtModules: true}
	result, err := Analyse(context.Background(), tempDir, opts, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Packages != nil || result.PyModules != nil {
		t.Errorf("Expected no discovery for extension-only project, got packages=%v modules=%v",
			result.Packages, result.PyModules)
	}
}

func TestAnalyse_EmptyProject(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{"README.md"})

	result, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	if err != nil {
		t.Fatalf("Analyse failed: %v", err)
	}

	if result.Packages != nil || result.PyModules != nil {
		t.Errorf("Expected empty result, got packages=%v modules=%v",
			result.Packages, result.PyModules)
	}
	if result.Layout != "" {
		t.Errorf("Expected no layout, got %q", result.Layout)
	}
}

func TestAnalyse_FlatAmbiguityPropagates(t *testing.T) {
	tempDir := t.TempDir()
	writeTree(t, tempDir, []string{
		"pkg/__init__.py",
		"other/__init__.py",
	})

	_, err := Analyse(context.Background(), tempDir, Options{}, testLogger())
	var ambErr *AmbiguityError
	if !errors.As(err, &ambErr) {
		t.Fatalf("Expected AmbiguityError, got %v", err)
	}
}

func TestAnalyse_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Analyse(ctx, t.TempDir(), Options{}, testLogger())
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
