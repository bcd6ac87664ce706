package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"git.home.luguber.info/inful/doccbuild/internal/config"
	"git.home.luguber.info/inful/doccbuild/internal/orchestrator"
	"git.home.luguber.info/inful/doccbuild/internal/version"
	"github.com/alecthomas/kong"
)

var CLI struct {
	PackagePath        string   `help:"Path to the package to build, relative to this executable." placeholder:"PATH"`
	Toolchain          string   `required:"" help:"The toolchain to use when building this package." placeholder:"DIR"`
	Prefix             string   `help:"The install path hint."`
	Configuration      string   `help:"Build configuration: debug or release. Defaults to debug."`
	BuildDir           string   `help:"Override the build output directory." placeholder:"DIR"`
	MultirootDataFile  string   `help:"Path to a workspace data file to create a unified build with other projects." placeholder:"FILE"`
	Update             bool     `help:"Update all package dependencies before other actions."`
	NoLocalDeps        bool     `help:"Use normal remote dependencies when building."`
	InstallDir         string   `help:"The location to install the docc executable to." placeholder:"PATH"`
	CopyDoccrenderFrom string   `help:"The location to copy an existing docc-render template from." placeholder:"DIR"`
	CopyDoccrenderTo   string   `help:"The location to install the docc-render template to." placeholder:"DIR"`
	CrossCompileHosts  string   `help:"List of cross compile host targets."`
	Verbose            bool     `short:"v" help:"Log the executed commands."`
	Config             string   `short:"c" help:"Optional YAML defaults file." placeholder:"FILE"`
	ReportFile         string   `help:"Write a JSON build report to this path." placeholder:"FILE"`
	MetricsFile        string   `help:"Write Prometheus textfile metrics to this path." placeholder:"FILE"`
	Version            kong.VersionFlag `help:"Print version information and quit."`
	Actions            []string         `arg:"" optional:"" help:"Build actions to perform: all, build, test, generate-xcodeproj, install. Defaults to build."`
}

func main() {
	kong.Parse(&CLI,
		kong.Name("doccbuild"),
		kong.Description("Builds, tests and installs the docc documentation compiler using a Swift toolchain."),
		kong.Vars{"version": version.Version})

	logLevel := slog.LevelInfo
	if CLI.Verbose {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	inv, err := config.Resolve(config.Options{
		PackagePath:       CLI.PackagePath,
		Toolchain:         CLI.Toolchain,
		Prefix:            CLI.Prefix,
		Configuration:     CLI.Configuration,
		BuildDir:          CLI.BuildDir,
		MultirootDataFile: CLI.MultirootDataFile,
		Update:            CLI.Update,
		NoLocalDeps:       CLI.NoLocalDeps,
		InstallDir:        CLI.InstallDir,
		RenderFrom:        CLI.CopyDoccrenderFrom,
		RenderTo:          CLI.CopyDoccrenderTo,
		CrossCompileHosts: CLI.CrossCompileHosts,
		Verbose:           CLI.Verbose,
		ConfigFile:        CLI.Config,
		ReportFile:        CLI.ReportFile,
		MetricsFile:       CLI.MetricsFile,
		Actions:           CLI.Actions,
	})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Failure diagnostics are already printed by the orchestrator.
	if err := orchestrator.New(inv).Run(ctx); err != nil {
		os.Exit(1)
	}
}
