package discovery

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/charmbracelet/log"
)

// Options is the already-parsed project configuration consumed by one
// discovery pass. For the list fields, nil means "not configured" while an
// empty non-nil slice means the user explicitly disabled auto-discovery for
// that field. The two are never conflated.
type Options struct {
	// Packages is the explicitly configured package list, if any
	Packages []string
	// PyModules is the explicitly configured module list, if any
	PyModules []string
	// PackageDir maps a package-name prefix ("" = top level) to the
	// relative directory acting as its root
	PackageDir map[string]string
	// HasExtModules reports whether the configuration declares extension
	// modules. Extension-only projects skip auto-discovery entirely.
	HasExtModules bool
}

// Result is the outcome of one discovery pass. Packages and PyModules stay
// nil for any axis discovery did not run on.
type Result struct {
	// Packages contains dotted package names, in walk order
	Packages []string
	// PyModules contains top-level module names
	PyModules []string
	// PackageDir is the resolved package-name-prefix to root mapping
	PackageDir map[string]string
	// Layout names the analyser that resolved the layout, "" if none applied
	Layout string
}

// LayoutAnalyser is the strategy interface for recognizing one project
// layout convention. Analysers are tried in order; the first one that
// reports true owns the result.
type LayoutAnalyser interface {
	// Analyse inspects the project root and fills res if this layout
	// applies. Returning an error aborts discovery.
	Analyse(ctx context.Context, rootDir string, res *Result) (bool, error)

	// Name returns a short name for this layout
	Name() string
}

// Analyse runs one discovery pass over the project root. Explicit
// configuration always wins: any configured packages/py_modules list (empty
// included) or declared extension modules suppresses auto-detection.
// Otherwise the explicit-dir, src and flat layout analysers are tried in
// order. A project where no analyser applies yields an empty Result, not an
// error.
func Analyse(ctx context.Context, rootDir string, opts Options, logger *log.Logger) (*Result, error) {
	res := &Result{PackageDir: map[string]string{}}
	for prefix, dir := range opts.PackageDir {
		res.PackageDir[prefix] = dir
	}

	if opts.Packages != nil || opts.PyModules != nil || opts.HasExtModules {
		res.Packages = opts.Packages
		res.PyModules = opts.PyModules
		res.Layout = "explicit"
		logger.Debug("explicit configuration, skipping auto-discovery",
			"packages", opts.Packages != nil,
			"py_modules", opts.PyModules != nil,
			"ext_modules", opts.HasExtModules)
		return res, nil
	}

	analysers := []LayoutAnalyser{
		NewExplicitDirLayout(opts.PackageDir, logger),
		NewSrcLayout(opts.PackageDir, logger),
		NewFlatLayout(logger),
	}

	for _, analyser := range analysers {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		applied, err := analyser.Analyse(ctx, rootDir, res)
		if err != nil {
			return nil, err
		}
		if applied {
			res.Layout = analyser.Name()
			return res, nil
		}
	}

	logger.Debug("no package or module candidates found", "dir", rootDir)
	return res, nil
}

// ExplicitDirLayout resolves projects whose configuration maps package-name
// prefixes to directories. Each mapped root is enumerated for sub-packages
// of its prefix.
type ExplicitDirLayout struct {
	packageDir map[string]string
	finder     *PackageFinder
	logger     *log.Logger
}

// NewExplicitDirLayout creates an analyser for the given package-dir mapping
func NewExplicitDirLayout(packageDir map[string]string, logger *log.Logger) *ExplicitDirLayout {
	return &ExplicitDirLayout{
		packageDir: packageDir,
		finder:     NewNamespaceFinder(),
		logger:     logger,
	}
}

// Name returns the name of this layout
func (l *ExplicitDirLayout) Name() string {
	return "explicit-dir-layout"
}

// Analyse enumerates packages within every explicitly mapped root. The
// empty-string mapping falls under the src-layout umbrella and is ignored
// here.
func (l *ExplicitDirLayout) Analyse(ctx context.Context, rootDir string, res *Result) (bool, error) {
	var prefixes []string
	for prefix := range l.packageDir {
		if prefix != "" {
			prefixes = append(prefixes, prefix)
		}
	}
	if len(prefixes) == 0 {
		return false, nil
	}
	sort.Strings(prefixes)

	l.logger.Debug("explicit-dir layout detected", "package_dir", l.packageDir)

	var packages []string
	for _, prefix := range prefixes {
		parentDir := filepath.Join(rootDir, filepath.FromSlash(l.packageDir[prefix]))
		nested, err := l.finder.Find(parentDir)
		if err != nil {
			return false, err
		}

		packages = append(packages, prefix)
		for _, sub := range nested {
			packages = append(packages, prefix+"."+sub)
		}
	}

	res.Packages = packages
	return true, nil
}

// SrcLayout resolves projects that place importable code under a single
// intermediate directory, "src" by default or whatever the empty-string
// package-dir entry names
type SrcLayout struct {
	packageDir map[string]string
	logger     *log.Logger
}

// NewSrcLayout creates a src-layout analyser honoring an explicit top-level
// root from packageDir, if present
func NewSrcLayout(packageDir map[string]string, logger *log.Logger) *SrcLayout {
	return &SrcLayout{
		packageDir: packageDir,
		logger:     logger,
	}
}

// Name returns the name of this layout
func (l *SrcLayout) Name() string {
	return "src-layout"
}

// Analyse enumerates packages and modules under the src root. The layout
// applies only when the root exists and contains at least one candidate;
// otherwise detection falls through to the flat layout.
func (l *SrcLayout) Analyse(ctx context.Context, rootDir string, res *Result) (bool, error) {
	srcName := l.packageDir[""]
	if srcName == "" {
		srcName = "src"
	}

	srcDir := filepath.Join(rootDir, filepath.FromSlash(srcName))
	if info, err := os.Stat(srcDir); err != nil || !info.IsDir() {
		return false, nil
	}

	packages, err := NewNamespaceFinder().Find(srcDir)
	if err != nil {
		return false, err
	}
	modules, err := NewModuleFinder().Find(srcDir)
	if err != nil {
		return false, err
	}

	if len(packages) == 0 && len(modules) == 0 {
		return false, nil
	}

	l.logger.Debug("src layout detected", "dir", srcDir,
		"packages", len(packages), "modules", len(modules))

	res.PackageDir[""] = srcName
	res.Packages = packages
	res.PyModules = modules
	return true, nil
}

// FlatLayout resolves projects that keep packages or modules directly at the
// project root. Flat candidates are heuristic, so the ambiguity policy from
// Resolve applies: more than one unrelated top-level candidate aborts
// discovery instead of guessing.
type FlatLayout struct {
	logger *log.Logger
}

// NewFlatLayout creates a flat-layout analyser
func NewFlatLayout(logger *log.Logger) *FlatLayout {
	return &FlatLayout{logger: logger}
}

// Name returns the name of this layout
func (l *FlatLayout) Name() string {
	return "flat-layout"
}

// Analyse enumerates the project root itself and applies the ambiguity
// policy to the candidates
func (l *FlatLayout) Analyse(ctx context.Context, rootDir string, res *Result) (bool, error) {
	packages, err := NewFlatPackageFinder().Find(rootDir)
	if err != nil {
		return false, err
	}
	modules, err := NewFlatModuleFinder().Find(rootDir)
	if err != nil {
		return false, err
	}

	accepted, acceptedModules, err := Resolve(packages, modules)
	if err != nil {
		return false, err
	}

	if len(accepted) == 0 && len(acceptedModules) == 0 {
		return false, nil
	}

	l.logger.Debug("flat layout detected", "dir", rootDir,
		"packages", len(accepted), "modules", len(acceptedModules))

	res.Packages = accepted
	res.PyModules = acceptedModules
	return true, nil
}
