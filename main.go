package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"

	"pydist/pkg/config"
	"pydist/pkg/dist"
)

type CLI struct {
	Verbose  bool        `short:"v" help:"Enable debug logging"`
	Discover DiscoverCmd `cmd:"" help:"Discover the packages and modules of a project"`
	Name     NameCmd     `cmd:"" help:"Print the resolved distribution name"`
	Version  VersionCmd  `cmd:"" help:"Print the resolved distribution version"`
}

type DiscoverCmd struct {
	Directory string `arg:"" optional:"" help:"Project directory (defaults to current directory)"`
}

type NameCmd struct {
	Directory string `arg:"" optional:"" help:"Project directory (defaults to current directory)"`
}

type VersionCmd struct {
	Directory string `arg:"" optional:"" help:"Project directory (defaults to current directory)"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli)

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "pydist"})
	if cli.Verbose {
		logger.SetLevel(log.DebugLevel)
	}

	var err error
	switch ctx.Command() {
	case "discover <directory>", "discover":
		err = runDiscover(cli.Discover.Directory, logger)
	case "name <directory>", "name":
		err = runName(cli.Name.Directory, logger)
	case "version <directory>", "version":
		err = runVersion(cli.Version.Directory, logger)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// finalize loads the project configuration and runs discovery for the given
// directory, defaulting to the current one
func finalize(directory string, logger *log.Logger) (*dist.Distribution, error) {
	if directory == "" {
		var err error
		directory, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
	}

	absDir, err := filepath.Abs(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	cfg, err := config.Load(absDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	d := dist.New(absDir, cfg, logger)
	if err := d.Finalize(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to finalize distribution: %w", err)
	}
	return d, nil
}

func runDiscover(directory string, logger *log.Logger) error {
	d, err := finalize(directory, logger)
	if err != nil {
		return err
	}

	printDistribution(d)
	return nil
}

func runName(directory string, logger *log.Logger) error {
	d, err := finalize(directory, logger)
	if err != nil {
		return err
	}

	if d.Name == "" {
		return fmt.Errorf("no name declared and none could be derived from the discovered packages")
	}
	fmt.Println(d.Name)
	return nil
}

func runVersion(directory string, logger *log.Logger) error {
	d, err := finalize(directory, logger)
	if err != nil {
		return err
	}

	fmt.Println(d.Version)
	return nil
}

func printDistribution(d *dist.Distribution) {
	// Colors
	green := "\033[32m"
	blue := "\033[34m"
	gray := "\033[90m"
	reset := "\033[0m"

	fmt.Printf("Project Root: %s\n", d.RootDir)
	if d.Layout != "" {
		fmt.Printf("Layout: %s\n", d.Layout)
	}
	if d.Name != "" {
		fmt.Printf("Name: %s%s%s\n", green, d.Name, reset)
	}
	fmt.Printf("Version: %s\n", d.Version)

	switch {
	case d.Packages == nil:
		fmt.Printf("Packages: %snot discovered%s\n", gray, reset)
	case len(d.Packages) == 0:
		fmt.Println("Packages: []")
	default:
		fmt.Println("Packages:")
		for _, pkg := range d.Packages {
			fmt.Printf("  - %s%s%s\n", green, pkg, reset)
		}
	}

	switch {
	case d.PyModules == nil:
		fmt.Printf("Modules: %snot discovered%s\n", gray, reset)
	case len(d.PyModules) == 0:
		fmt.Println("Modules: []")
	default:
		fmt.Println("Modules:")
		for _, module := range d.PyModules {
			fmt.Printf("  - %s%s%s\n", green, module, reset)
		}
	}

	if len(d.PackageDir) > 0 {
		fmt.Println("Package Dir:")
		for prefix, dir := range d.PackageDir {
			fmt.Printf("  %q -> %s%s%s\n", prefix, blue, dir, reset)
		}
	}

	if len(d.ExtModules) > 0 {
		fmt.Println("Extension Modules:")
		for _, ext := range d.ExtModules {
			fmt.Printf("  - %s (%d sources)\n", ext.Name, len(ext.Sources))
		}
	}
}
