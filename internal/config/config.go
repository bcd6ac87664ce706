// Package config resolves the immutable invocation configuration for a
// doccbuild run from command-line flags, an optional YAML defaults file and
// the process environment. Resolution happens exactly once, before any
// external command runs; downstream packages only ever read the result.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Configuration selects the SwiftPM build configuration.
type Configuration string

const (
	Debug   Configuration = "debug"
	Release Configuration = "release"
)

// File is the optional YAML defaults file (doccbuild.yaml). Explicit
// command-line flags always win over file values. Env entries are merged
// into child-process environments at the lowest precedence.
type File struct {
	Toolchain     string            `yaml:"toolchain,omitempty"`
	Configuration string            `yaml:"configuration,omitempty"`
	BuildDir      string            `yaml:"build_dir,omitempty"`
	InstallDir    string            `yaml:"install_dir,omitempty"`
	Prefix        string            `yaml:"prefix,omitempty"`
	Env           map[string]string `yaml:"env,omitempty"`
}

// Options carries the raw command-line values prior to resolution.
type Options struct {
	PackagePath       string
	Toolchain         string
	Prefix            string
	Configuration     string
	BuildDir          string
	MultirootDataFile string
	Update            bool
	NoLocalDeps       bool
	InstallDir        string
	RenderFrom        string
	RenderTo          string
	CrossCompileHosts string
	Verbose           bool
	ConfigFile        string
	ReportFile        string
	MetricsFile       string
	Actions           []string

	// BaseDir overrides the directory relative package paths resolve
	// against. Empty means the directory of the running executable.
	BaseDir string
}

// Invocation is the fully resolved configuration of a single run. All paths
// are absolute and all defaults are applied before construction returns; the
// value is never mutated afterwards.
type Invocation struct {
	PackagePath       string
	BuildDir          string
	Configuration     Configuration
	ToolchainPath     string
	SwiftExec         string
	Actions           ActionSet
	Prefix            string
	InstallDir        string
	RenderFrom        string
	RenderTo          string
	CrossCompileHosts string
	MultirootDataFile string
	Update            bool
	UseLocalDeps      bool
	Verbose           bool
	ReportFile        string
	MetricsFile       string
	EnvOverlay        map[string]string
}

// PackageName is the last path element of the package being built.
func (inv *Invocation) PackageName() string {
	return filepath.Base(inv.PackagePath)
}

// Resolve produces the Invocation or a usage error. Missing required install
// arguments are caught here so an install run fails before any external
// command is attempted.
func Resolve(opts Options) (*Invocation, error) {
	loadDotEnv()

	var file File
	if opts.ConfigFile != "" {
		f, err := loadFile(opts.ConfigFile)
		if err != nil {
			return nil, err
		}
		file = *f
	}

	actions, err := ParseActions(opts.Actions)
	if err != nil {
		return nil, err
	}

	toolchainPath := firstOf(opts.Toolchain, file.Toolchain)
	if toolchainPath == "" {
		return nil, fmt.Errorf("missing required '--toolchain' argument")
	}
	toolchainPath, err = filepath.Abs(toolchainPath)
	if err != nil {
		return nil, fmt.Errorf("resolve toolchain path: %w", err)
	}

	configuration := Configuration(firstOf(opts.Configuration, file.Configuration, string(Debug)))
	if configuration != Debug && configuration != Release {
		return nil, fmt.Errorf("invalid configuration %q (valid: debug, release)", configuration)
	}

	base := opts.BaseDir
	if base == "" {
		base = executableDir()
	}
	// An absolute package path stands on its own; only relative paths are
	// anchored to the base directory.
	packagePath := opts.PackagePath
	if !filepath.IsAbs(packagePath) {
		packagePath = filepath.Join(base, packagePath)
	}
	if packagePath, err = filepath.Abs(packagePath); err != nil {
		return nil, fmt.Errorf("resolve package path: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(packagePath); err == nil {
		packagePath = resolved
	}

	buildDir := firstOf(opts.BuildDir, file.BuildDir)
	if buildDir == "" {
		buildDir = filepath.Join(packagePath, ".build")
	} else if buildDir, err = filepath.Abs(buildDir); err != nil {
		return nil, fmt.Errorf("resolve build dir: %w", err)
	}

	inv := &Invocation{
		PackagePath:       packagePath,
		BuildDir:          buildDir,
		Configuration:     configuration,
		ToolchainPath:     toolchainPath,
		SwiftExec:         filepath.Join(toolchainPath, "bin", "swift"),
		Actions:           actions,
		Prefix:            firstOf(opts.Prefix, file.Prefix),
		CrossCompileHosts: opts.CrossCompileHosts,
		Update:            opts.Update,
		UseLocalDeps:      !opts.NoLocalDeps,
		Verbose:           opts.Verbose,
		EnvOverlay:        file.Env,
	}

	if installDir := firstOf(opts.InstallDir, file.InstallDir); installDir != "" {
		if inv.InstallDir, err = filepath.Abs(installDir); err != nil {
			return nil, fmt.Errorf("resolve install dir: %w", err)
		}
	}
	for _, p := range []struct {
		src string
		dst *string
	}{
		{opts.RenderFrom, &inv.RenderFrom},
		{opts.RenderTo, &inv.RenderTo},
		{opts.MultirootDataFile, &inv.MultirootDataFile},
		{opts.ReportFile, &inv.ReportFile},
		{opts.MetricsFile, &inv.MetricsFile},
	} {
		if p.src == "" {
			continue
		}
		if *p.dst, err = filepath.Abs(p.src); err != nil {
			return nil, fmt.Errorf("resolve path %q: %w", p.src, err)
		}
	}

	if actions.Has(ActionInstall) && inv.InstallDir == "" {
		return nil, fmt.Errorf("missing required '--install-dir' argument")
	}
	if inv.RenderFrom != "" && inv.RenderTo == "" {
		return nil, fmt.Errorf("missing required '--copy-doccrender-to' argument since '--copy-doccrender-from' was passed")
	}

	return inv, nil
}

// loadFile reads, env-expands and unmarshals a YAML defaults file.
func loadFile(path string) (*File, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal([]byte(os.ExpandEnv(string(data))), &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &f, nil
}

// loadDotEnv loads environment variables from the first .env file found.
// Absence is not an error.
func loadDotEnv() {
	for _, path := range []string{".env", ".env.local"} {
		if err := godotenv.Load(path); err == nil {
			fmt.Fprintf(os.Stderr, "Loaded environment variables from %s\n", path)
			return
		}
	}
}

// executableDir returns the directory holding the running binary, falling
// back to the working directory when the executable path is unavailable.
func executableDir() string {
	exe, err := os.Executable()
	if err != nil {
		wd, _ := os.Getwd()
		return wd
	}
	return filepath.Dir(exe)
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
