// FILE: lixenwraith/gs/config/discovery.go
package config

import (
	"os"
	"path/filepath"
	"strings"
)

// FileDiscoveryOptions configures automatic config file discovery
type FileDiscoveryOptions struct {
	// Base name of config file (without extension)
	Name string

	// Extensions to try (in order)
	Extensions []string

	// Custom search paths (in addition to defaults)
	Paths []string

	// Environment variable to check for explicit path
	EnvVar string

	// CLI flag to check (e.g., "--config" or "-c")
	CLIFlag string

	// Whether to search in XDG config directories
	UseXDG bool

	// Whether to search in current directory
	UseCurrentDir bool
}

// DefaultDiscoveryOptions returns sensible defaults
func DefaultDiscoveryOptions(appName string) FileDiscoveryOptions {
	return FileDiscoveryOptions{
		Name:          appName,
		Extensions:    []string{".yaml", ".yml", ".json", ".toml"},
		EnvVar:        strings.ToUpper(appName) + "_CONFIG",
		CLIFlag:       "--config",
		UseXDG:        true,
		UseCurrentDir: true,
	}
}

// DiscoverFile locates a config file. An explicit path from the CLI flag in
// args wins over the path in the environment variable, which wins over the
// search paths. ErrConfigNotFound is returned when nothing matches.
func DiscoverFile(opts FileDiscoveryOptions, args []string, env Environ) (string, error) {
	// Check CLI args first (highest priority)
	if opts.CLIFlag != "" {
		for i, arg := range args {
			if arg == opts.CLIFlag && i+1 < len(args) {
				return args[i+1], nil
			}
			if value, ok := strings.CutPrefix(arg, opts.CLIFlag+"="); ok {
				return value, nil
			}
		}
	}

	// Check environment variable
	if opts.EnvVar != "" {
		if path := env[opts.EnvVar]; path != "" {
			return path, nil
		}
	}

	// Build search paths
	var searchPaths []string

	// Custom paths first
	searchPaths = append(searchPaths, opts.Paths...)

	// Current directory
	if opts.UseCurrentDir {
		if cwd, err := os.Getwd(); err == nil {
			searchPaths = append(searchPaths, cwd)
		}
	}

	// XDG paths
	if opts.UseXDG {
		searchPaths = append(searchPaths, getXDGConfigPaths(opts.Name, env)...)
	}

	for _, dir := range searchPaths {
		for _, ext := range opts.Extensions {
			path := filepath.Join(dir, opts.Name+ext)
			if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
				return path, nil
			}
		}
	}

	return "", ErrConfigNotFound
}

// getXDGConfigPaths returns XDG-compliant config search paths
func getXDGConfigPaths(appName string, env Environ) []string {
	var paths []string

	// XDG_CONFIG_HOME
	if xdgHome := env["XDG_CONFIG_HOME"]; xdgHome != "" {
		paths = append(paths, filepath.Join(xdgHome, appName))
	} else if home := env["HOME"]; home != "" {
		paths = append(paths, filepath.Join(home, ".config", appName))
	}

	// XDG_CONFIG_DIRS
	if xdgDirs := env["XDG_CONFIG_DIRS"]; xdgDirs != "" {
		for _, dir := range filepath.SplitList(xdgDirs) {
			paths = append(paths, filepath.Join(dir, appName))
		}
	} else {
		// Default system paths
		paths = append(paths,
			filepath.Join("/etc/xdg", appName),
			filepath.Join("/etc", appName),
		)
	}

	return paths
}