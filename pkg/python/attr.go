package python

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"pydist/pkg/discovery"
)

// AttrError is returned when a dotted attribute path cannot be resolved,
// identifying the path and the reason
type AttrError struct {
	// Attr is the dotted path that failed to resolve
	Attr string
	// Reason describes why resolution failed
	Reason string
}

// Error returns the failure message for this attribute path
func (e *AttrError) Error() string {
	return fmt.Sprintf("cannot resolve attribute %q: %s", e.Attr, e.Reason)
}

// assignmentRegexp matches an unindented assignment statement, with or
// without a type annotation: `version = ...`, `version: str = ...`
var assignmentRegexp = regexp.MustCompile(`^([A-Za-z_]\w*)\s*(?::[^=]+)?=\s*(.+)$`)

// ReadAttr resolves the value bound to a dotted attribute path such as
// "pkg.version" or "pkg.sub.CONST" by statically reading the defining
// module. All segments up to the last name the module; the module file is
// located under the configured package roots as either `<path>.py` or the
// package initializer. Only the first top-level literal assignment to the
// attribute is considered; project code is never executed.
func ReadAttr(attrPath string, packageDir map[string]string, rootDir string) (any, error) {
	segments := strings.Split(strings.TrimSpace(attrPath), ".")
	attrName := segments[len(segments)-1]
	moduleName := strings.Join(segments[:len(segments)-1], ".")
	if moduleName == "" {
		// A bare attribute refers to the top-level initializer
		moduleName = "__init__"
	}

	moduleFile, err := findModuleFile(moduleName, packageDir, rootDir)
	if err != nil {
		return nil, &AttrError{Attr: attrPath, Reason: err.Error()}
	}

	value, found, err := readAssignment(moduleFile, attrName)
	if err != nil {
		return nil, &AttrError{
			Attr:   attrPath,
			Reason: fmt.Sprintf("in %s: %v", moduleFile, err),
		}
	}
	if !found {
		return nil, &AttrError{
			Attr:   attrPath,
			Reason: fmt.Sprintf("no top-level assignment to %q in %s", attrName, moduleFile),
		}
	}
	return value, nil
}

// findModuleFile locates the source file defining the given dotted module
// name under the configured roots
func findModuleFile(moduleName string, packageDir map[string]string, rootDir string) (string, error) {
	base := discovery.FindPackagePath(moduleName, packageDir, rootDir)

	candidates := []string{
		base + ".py",
		filepath.Join(base, "__init__.py"),
	}
	for _, candidate := range candidates {
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("module %q not found under any configured root", moduleName)
}

// readAssignment scans a source file for the first top-level assignment to
// attrName and evaluates its right-hand side as a literal. A non-literal
// right-hand side is an error: values computed at runtime cannot be resolved
// without executing the module.
func readAssignment(path, attrName string) (any, bool, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open module file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := scanner.Text()

		// Only unindented statements bind module attributes
		if line == "" || line[0] == ' ' || line[0] == '\t' {
			continue
		}

		matches := assignmentRegexp.FindStringSubmatch(line)
		if matches == nil || matches[1] != attrName {
			continue
		}
		// A leading '=' means the line was a comparison, not an assignment
		if strings.HasPrefix(matches[2], "=") {
			continue
		}

		value, err := ParseLiteral(matches[2])
		if err != nil {
			return nil, false, fmt.Errorf("assignment to %q is not a literal: %w", attrName, err)
		}
		return value, true, nil
	}

	if err := scanner.Err(); err != nil {
		return nil, false, fmt.Errorf("failed to read module file: %w", err)
	}
	return nil, false, nil
}
