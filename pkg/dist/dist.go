package dist

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"

	"pydist/pkg/config"
	"pydist/pkg/discovery"
	"pydist/pkg/python"
)

// DefaultVersion is used when no version is declared and none can be resolved
const DefaultVersion = "0.0.0"

// Distribution carries the resolved build configuration for one project.
// All fields are rebuilt fresh by Finalize; nothing persists across runs.
type Distribution struct {
	// RootDir is the absolute path of the project being inspected
	RootDir string
	// Name is the distribution name, declared or derived
	Name string
	// Version is the distribution version, declared or resolved
	Version string
	// Packages contains the final dotted package names, nil when discovery
	// did not run for this axis
	Packages []string
	// PyModules contains the final top-level module names, nil when
	// discovery did not run for this axis
	PyModules []string
	// PackageDir maps package-name prefixes to their root directories
	PackageDir map[string]string
	// Layout names the layout convention that resolved the package set
	Layout string
	// ExtModules lists the configured extension modules, passed through
	// untouched
	ExtModules []config.ExtModule

	cfg    *config.Project
	logger *log.Logger
}

// New creates a Distribution for the project rooted at rootDir using the
// given parsed configuration
func New(rootDir string, cfg *config.Project, logger *log.Logger) *Distribution {
	return &Distribution{
		RootDir:    rootDir,
		Name:       cfg.Name,
		Version:    cfg.Version,
		ExtModules: cfg.ExtModules,
		cfg:        cfg,
		logger:     logger,
	}
}

// Finalize resolves the package/module lists via layout analysis and fills
// in metadata fields that were left to discovery: a default name derived
// from the discovered packages, and dynamic fields computed from source
// attributes. Discovery errors abort finalization and surface verbatim.
func (d *Distribution) Finalize(ctx context.Context) error {
	if err := d.analyseLayout(ctx); err != nil {
		return err
	}

	d.analyseName()

	if err := d.resolveDynamicVersion(); err != nil {
		return err
	}
	if d.Version == "" {
		d.Version = DefaultVersion
	}
	return nil
}

// analyseLayout runs one discovery pass and records its result
func (d *Distribution) analyseLayout(ctx context.Context) error {
	opts := discovery.Options{
		Packages:      d.cfg.Packages,
		PyModules:     d.cfg.PyModules,
		PackageDir:    d.cfg.PackageDir,
		HasExtModules: len(d.cfg.ExtModules) > 0,
	}

	result, err := discovery.Analyse(ctx, d.RootDir, opts, d.logger)
	if err != nil {
		return err
	}

	d.Packages = result.Packages
	d.PyModules = result.PyModules
	d.PackageDir = result.PackageDir
	d.Layout = result.Layout
	return nil
}

// analyseName derives a default distribution name when none is declared: a
// single discovered package or module wins outright, otherwise the first
// package that is an ancestor of all others and owns an initializer
func (d *Distribution) analyseName() {
	if d.Name != "" && !d.cfg.IsDynamic("name") {
		return
	}

	if name := d.singlePackageOrModule(); name != "" {
		d.logger.Debug("single package or module detected", "name", name)
		d.Name = name
		return
	}

	if len(d.Packages) == 0 {
		return
	}

	packages := discovery.RemoveStubs(d.Packages)
	if parent := discovery.FindParentPackage(packages, d.PackageDir, d.RootDir); parent != "" {
		d.logger.Debug("common parent package detected", "name", parent)
		d.Name = parent
		return
	}
	d.logger.Warn("no parent package detected, cannot derive a default name")
}

// singlePackageOrModule returns the sole discovered package or module name,
// "" when there is none or more than one
func (d *Distribution) singlePackageOrModule() string {
	if len(d.Packages) == 1 {
		return d.Packages[0]
	}
	if len(d.Packages) == 0 && len(d.PyModules) == 1 {
		return d.PyModules[0]
	}
	return ""
}

// resolveDynamicVersion computes the version from a source attribute when
// the configuration declares it dynamic with an attr directive
func (d *Distribution) resolveDynamicVersion() error {
	if !d.cfg.IsDynamic("version") {
		return nil
	}
	attrPath, ok := d.cfg.DynamicAttr["version"]
	if !ok {
		return nil
	}

	value, err := python.ReadAttr(attrPath, d.PackageDir, d.RootDir)
	if err != nil {
		return fmt.Errorf("failed to resolve dynamic version: %w", err)
	}

	d.Version = formatVersion(value)
	d.logger.Debug("resolved dynamic version", "attr", attrPath, "version", d.Version)
	return nil
}

// formatVersion renders an attribute value as a version string. Sequences
// follow the Python convention of dot-joined components.
func formatVersion(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case []any:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = formatVersion(elem)
		}
		return strings.Join(parts, ".")
	default:
		return fmt.Sprint(v)
	}
}
