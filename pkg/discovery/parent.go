package discovery

import (
	"path/filepath"
	"sort"
	"strings"
)

// RemoveStubs returns the packages whose top-level segment does not carry
// the reserved stub suffix
func RemoveStubs(packages []string) []string {
	var kept []string
	for _, pkg := range packages {
		top, _, _ := strings.Cut(pkg, ".")
		if !IsStubName(top) {
			kept = append(kept, pkg)
		}
	}
	return kept
}

// RemoveNestedPackages returns only the packages that are not contained in
// another package from the same list
func RemoveNestedPackages(packages []string) []string {
	sorted := make([]string, len(packages))
	copy(sorted, packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) < len(sorted[j])
	})

	var topLevel []string
	for _, pkg := range sorted {
		nested := false
		for _, other := range topLevel {
			if strings.HasPrefix(pkg, other+".") {
				nested = true
				break
			}
		}
		if !nested {
			topLevel = append(topLevel, pkg)
		}
	}
	return topLevel
}

// FindParentPackage returns the single package that is a prefix-ancestor of
// every other package in the list and itself owns an initializer file.
// Returns "" when no such unique ancestor exists, e.g. for multiple
// unrelated top-level trees. Used only to derive a default distribution
// name; it never alters the discovered package list.
func FindParentPackage(packages []string, packageDir map[string]string, rootDir string) string {
	sorted := make([]string, len(packages))
	copy(sorted, packages)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) < len(sorted[j])
	})

	// Since the list is sorted by length, a name can only be the common
	// ancestor if every later entry nests inside it
	var ancestors []string
	for i, name := range sorted {
		isAncestor := true
		for _, other := range sorted[i+1:] {
			if !strings.HasPrefix(other, name+".") {
				isAncestor = false
				break
			}
		}
		if !isAncestor {
			break
		}
		ancestors = append(ancestors, name)
	}

	for _, name := range ancestors {
		pkgPath := FindPackagePath(name, packageDir, rootDir)
		if fileExists(filepath.Join(pkgPath, initFile)) {
			return name
		}
	}
	return ""
}

// FindPackagePath returns the filesystem directory backing the given dotted
// package name under the configured roots. The longest configured name
// prefix wins; the empty-string entry acts as the top-level root.
func FindPackagePath(name string, packageDir map[string]string, rootDir string) string {
	parts := strings.Split(name, ".")
	for i := len(parts); i > 0; i-- {
		partial := strings.Join(parts[:i], ".")
		if parent, ok := packageDir[partial]; ok {
			elems := append([]string{rootDir, filepath.FromSlash(parent)}, parts[i:]...)
			return filepath.Join(elems...)
		}
	}

	elems := append([]string{rootDir, filepath.FromSlash(packageDir[""])}, parts...)
	return filepath.Join(elems...)
}
