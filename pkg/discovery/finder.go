package discovery

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// PackageFinder enumerates candidate package directories below a root.
// The walk classifies each directory via Classify; directories whose name is
// not a valid identifier (or, at the top level, a stub name) halt descent
// into that subtree without error.
type PackageFinder struct {
	// exclude contains glob patterns applied to top-level directory names
	exclude []string
}

// NewNamespaceFinder creates a finder with namespace-package semantics:
// every directory with a valid name contributes a dotted name, whether or
// not it contains an initializer file. Used for src-layout and explicitly
// mapped roots, where the user has already opted in to the directory.
func NewNamespaceFinder() *PackageFinder {
	return &PackageFinder{}
}

// NewFlatPackageFinder creates a finder for flat-layout projects. It applies
// the flat-layout exclusion list at the top level so that common project
// directories (docs, tests, venv, ...) never become package candidates.
func NewFlatPackageFinder() *PackageFinder {
	return &PackageFinder{exclude: flatPackageExclude}
}

// Find returns the dotted names of all package candidates under root, in
// lexical walk order. A missing root yields an empty result.
func (f *PackageFinder) Find(root string) ([]string, error) {
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return nil, nil
	}

	var packages []string
	if err := f.walk(root, "", &packages); err != nil {
		return nil, err
	}
	return packages, nil
}

// walk recursively collects dotted names under dir. prefix is the dotted
// name accumulated so far; empty at the enumeration root.
func (f *PackageFinder) walk(dir, prefix string, out *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}

		name := entry.Name()
		if matchesAny(name, alwaysExclude) {
			continue
		}

		topLevel := prefix == ""
		if topLevel && matchesAny(name, f.exclude) {
			continue
		}

		hasInit := fileExists(filepath.Join(dir, name, initFile))
		if Classify(name, hasInit, topLevel) == NotAPackage {
			// Invalid name: skip the whole subtree
			continue
		}

		dotted := name
		if prefix != "" {
			dotted = prefix + "." + name
		}
		*out = append(*out, dotted)

		if err := f.walk(filepath.Join(dir, name), dotted, out); err != nil {
			return err
		}
	}

	return nil
}

// ModuleFinder enumerates loose .py files directly under a root whose stem
// is a valid identifier. Files with invalid stems are ignored, not flagged.
type ModuleFinder struct {
	// exclude contains glob patterns applied to module stems
	exclude []string
}

// NewModuleFinder creates a finder without an exclusion list, for roots the
// user explicitly opted in to (src-layout)
func NewModuleFinder() *ModuleFinder {
	return &ModuleFinder{}
}

// NewFlatModuleFinder creates a finder for flat-layout projects. Build and
// test machinery at the project root (setup.py, conftest.py, noxfile.py, ...)
// never becomes a module candidate.
func NewFlatModuleFinder() *ModuleFinder {
	return &ModuleFinder{exclude: flatModuleExclude}
}

// Find returns the module stems found directly under root, in lexical order
func (f *ModuleFinder) Find(root string) ([]string, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}

	var modules []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		stem, ok := strings.CutSuffix(entry.Name(), ".py")
		if !ok || !IsIdentifier(stem) {
			continue
		}
		if matchesAny(stem, f.exclude) {
			continue
		}

		modules = append(modules, stem)
	}

	return modules, nil
}

// fileExists reports whether path exists and is a regular file
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
