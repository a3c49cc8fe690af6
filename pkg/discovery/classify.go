package discovery

import (
	"path"
	"strings"
	"unicode"
)

// StubSuffix is the reserved name suffix for type-stub companion packages.
// Only the top-level segment of a dotted name is stub-sensitive; nested
// segments carrying the suffix are not treated as stubs.
const StubSuffix = "-stubs"

// initFile is the file whose presence marks a directory as a real package
const initFile = "__init__.py"

// PathKind is the classification of a candidate directory during enumeration
type PathKind int

const (
	// NotAPackage means the directory cannot contribute a package name
	NotAPackage PathKind = iota
	// RealPackage means the directory contains an initializer file
	RealPackage
	// StubPackage means a top-level directory carrying the reserved stub suffix
	StubPackage
	// NamespaceFragment means a directory without an initializer that still
	// contributes a segment to the dotted hierarchy
	NamespaceFragment
)

// String returns a human-readable name for the path kind
func (k PathKind) String() string {
	switch k {
	case RealPackage:
		return "package"
	case StubPackage:
		return "stub-package"
	case NamespaceFragment:
		return "namespace-fragment"
	default:
		return "not-a-package"
	}
}

// Classify determines what kind of package candidate a directory is.
// name is the directory's base name, hasInit reports whether it contains an
// initializer file, and topLevel reports whether the directory sits directly
// under the enumeration root. Directories matching exclusion patterns must be
// pruned before classification; Classify only validates the name itself.
func Classify(name string, hasInit bool, topLevel bool) PathKind {
	if topLevel && IsStubName(name) {
		return StubPackage
	}
	if !IsIdentifier(name) {
		return NotAPackage
	}
	if hasInit {
		return RealPackage
	}
	return NamespaceFragment
}

// IsIdentifier reports whether name is a valid Python identifier
func IsIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// IsStubName reports whether name is a valid stub-package name: a valid
// identifier followed by the reserved stub suffix
func IsStubName(name string) bool {
	base, ok := strings.CutSuffix(name, StubSuffix)
	return ok && IsIdentifier(base)
}

// ValidPackageName reports whether a dotted package name consists entirely of
// valid identifier segments. The top-level segment may carry the stub suffix.
func ValidPackageName(dotted string) bool {
	segments := strings.Split(dotted, ".")
	if !IsIdentifier(segments[0]) && !IsStubName(segments[0]) {
		return false
	}
	for _, segment := range segments[1:] {
		if !IsIdentifier(segment) {
			return false
		}
	}
	return true
}

// alwaysExclude contains directory patterns that are never considered during
// package enumeration, regardless of layout
var alwaysExclude = []string{
	"ez_setup",
	"*__pycache__",
	"*.egg-info",
}

// flatPackageExclude contains directory names that common projects keep at
// the root without intending them to be distributed. Only consulted in
// flat-layout enumeration; src-layout roots are opted-in by the user.
var flatPackageExclude = []string{
	"ci",
	"bin",
	"debian",
	"doc",
	"docs",
	"documentation",
	"manpages",
	"news",
	"newsfragments",
	"changelog",
	"test",
	"tests",
	"unit_test",
	"unit_tests",
	"example",
	"examples",
	"scripts",
	"tools",
	"util",
	"utils",
	"python",
	"build",
	"dist",
	"venv",
	"env",
	"requirements",
	"tasks",
	"fabfile",
	"site_scons",
	"benchmark",
	"benchmarks",
	"exercise",
	"exercises",
	"htmlcov",
	"[._]*",
}

// flatModuleExclude contains root-level module stems that belong to the build
// or test machinery rather than the distribution
var flatModuleExclude = []string{
	"setup",
	"conftest",
	"test",
	"tests",
	"example",
	"examples",
	"build",
	"toxfile",
	"noxfile",
	"pavement",
	"dodo",
	"flake",
	"fabfile",
	"site_scons",
	"benchmark",
	"benchmarks",
	"exercise",
	"exercises",
	"[._]*",
}

// matchesAny reports whether name matches any of the glob patterns
func matchesAny(name string, patterns []string) bool {
	for _, pattern := range patterns {
		if ok, err := path.Match(pattern, name); err == nil && ok {
			return true
		}
	}
	return false
}
