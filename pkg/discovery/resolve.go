package discovery

import (
	"fmt"
	"strings"
)

// AmbiguityError is returned when auto-discovery finds more than one
// unrelated top-level candidate and refuses to guess which files belong in
// the distribution
type AmbiguityError struct {
	// Kind is "packages", "modules", or "packages and modules"
	Kind string
	// Candidates are the conflicting top-level names
	Candidates []string
}

// Error returns a message naming the conflicting candidates and how to
// disambiguate them
func (e *AmbiguityError) Error() string {
	return fmt.Sprintf(
		"multiple %s discovered at the top level: [%s]. "+
			"Auto-discovery refuses to guess which files belong in the distribution. "+
			"Declare packages or py-modules explicitly, or set the field to an empty list to disable discovery for it.",
		e.Kind, strings.Join(e.Candidates, ", "))
}

// Resolve applies the ambiguity policy to flat-layout candidates. It returns
// the accepted package and module lists; at most one of the two is non-empty.
//
// A single top-level package is accepted together with its stub companions
// and nested sub-packages. More than one unrelated top-level package or
// module, or a package coexisting with an unrelated module, is an
// AmbiguityError rather than a guess.
func Resolve(packages, modules []string) ([]string, []string, error) {
	top := RemoveNestedPackages(RemoveStubs(packages))

	switch {
	case len(top) > 1:
		return nil, nil, &AmbiguityError{Kind: "packages", Candidates: top}
	case len(top) == 1 && len(modules) > 0:
		candidates := make([]string, 0, len(top)+len(modules))
		candidates = append(candidates, top...)
		candidates = append(candidates, modules...)
		return nil, nil, &AmbiguityError{Kind: "packages and modules", Candidates: candidates}
	case len(top) == 1:
		return packages, nil, nil
	case len(modules) > 1:
		return nil, nil, &AmbiguityError{Kind: "modules", Candidates: modules}
	case len(modules) == 1:
		return nil, modules, nil
	}

	return nil, nil, nil
}
