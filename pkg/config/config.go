package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ConfigFile is the declarative configuration file read from the project root
const ConfigFile = "pyproject.toml"

// Project is the parsed project configuration consumed by discovery. For
// Packages and PyModules, nil means the key was absent while an empty
// non-nil slice means the user explicitly configured an empty list; the two
// are distinguished throughout.
type Project struct {
	// Name is the declared distribution name, "" when undeclared
	Name string
	// Version is the declared version, "" when undeclared or dynamic
	Version string
	// Dynamic lists the metadata fields declared as dynamic
	Dynamic []string
	// DynamicAttr maps a dynamic metadata field to the dotted attribute
	// path that computes it
	DynamicAttr map[string]string
	// Packages is the explicitly configured package list
	Packages []string
	// PyModules is the explicitly configured module list
	PyModules []string
	// PackageDir maps package-name prefixes to relative root directories
	PackageDir map[string]string
	// ExtModules lists the configured extension modules
	ExtModules []ExtModule
}

// ExtModule describes one configured extension module
type ExtModule struct {
	Name    string   `toml:"name"`
	Sources []string `toml:"sources"`
}

// pyproject mirrors the subset of the config file this tool understands
type pyproject struct {
	Project struct {
		Name    string   `toml:"name"`
		Version string   `toml:"version"`
		Dynamic []string `toml:"dynamic"`
	} `toml:"project"`
	Tool struct {
		Setuptools struct {
			Packages   *[]string                `toml:"packages"`
			PyModules  *[]string                `toml:"py-modules"`
			PackageDir map[string]string        `toml:"package-dir"`
			ExtModules []ExtModule              `toml:"ext-modules"`
			Dynamic    map[string]attrDirective `toml:"dynamic"`
		} `toml:"setuptools"`
	} `toml:"tool"`
}

type attrDirective struct {
	Attr string `toml:"attr"`
}

// Load reads the project configuration from rootDir. A missing config file
// is not an error: discovery then runs fully automatic on an empty Project.
func Load(rootDir string) (*Project, error) {
	data, err := os.ReadFile(filepath.Join(rootDir, ConfigFile))
	if err != nil {
		if os.IsNotExist(err) {
			return &Project{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var raw pyproject
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", ConfigFile, err)
	}

	project := &Project{
		Name:       raw.Project.Name,
		Version:    raw.Project.Version,
		Dynamic:    raw.Project.Dynamic,
		Packages:   listValue(raw.Tool.Setuptools.Packages),
		PyModules:  listValue(raw.Tool.Setuptools.PyModules),
		PackageDir: raw.Tool.Setuptools.PackageDir,
		ExtModules: raw.Tool.Setuptools.ExtModules,
	}

	if len(raw.Tool.Setuptools.Dynamic) > 0 {
		project.DynamicAttr = make(map[string]string)
		for field, directive := range raw.Tool.Setuptools.Dynamic {
			if directive.Attr != "" {
				project.DynamicAttr[field] = directive.Attr
			}
		}
	}

	return project, nil
}

// IsDynamic reports whether the given metadata field is declared dynamic
func (p *Project) IsDynamic(field string) bool {
	for _, dynamic := range p.Dynamic {
		if dynamic == field {
			return true
		}
	}
	return false
}

// listValue converts a decoded optional list into the nil-vs-empty
// convention: absent stays nil, a configured empty list becomes a non-nil
// empty slice
func listValue(ptr *[]string) []string {
	if ptr == nil {
		return nil
	}
	if *ptr == nil {
		return []string{}
	}
	return *ptr
}
