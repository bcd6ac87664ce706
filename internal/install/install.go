// Package install copies build artifacts into their install locations: the
// docc executable, its features.json metadata, and optionally a docc-render
// template tree.
package install

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"git.home.luguber.info/inful/doccbuild/internal/config"
)

var (
	// ErrMissingInstallDir indicates install was requested without a
	// destination for the docc executable.
	ErrMissingInstallDir = errors.New("missing required '--install-dir' argument")
	// ErrMissingRenderDestination indicates a docc-render source was given
	// without a destination.
	ErrMissingRenderDestination = errors.New("missing required '--copy-doccrender-to' argument since '--copy-doccrender-from' was passed")
)

// Runner executes a command and returns its trimmed stdout. Satisfied by
// swiftpm.Runner.
type Runner interface {
	Output(ctx context.Context, argv []string, overlay map[string]string) (string, error)
}

// Installer copies the built docc binary and its companion artifacts.
// BinPathArgv is the complete build invocation in show-bin-path mode; its
// output locates the binary produced by the preceding install build.
type Installer struct {
	Inv         *config.Invocation
	Run         Runner
	BinPathArgv []string
	// Env is merged into the lookup invocation's environment, matching the
	// build invocations that preceded it.
	Env map[string]string
}

// Install performs the copy step. It never runs unless the preceding build
// succeeded; a failure at any point aborts without rollback.
func (ins *Installer) Install(ctx context.Context) error {
	if ins.Inv.InstallDir == "" {
		return ErrMissingInstallDir
	}
	if ins.Inv.RenderFrom != "" && ins.Inv.RenderTo == "" {
		return ErrMissingRenderDestination
	}

	binDir, err := ins.Run.Output(ctx, ins.BinPathArgv, ins.Env)
	if err != nil {
		return fmt.Errorf("locate docc binary: %w", err)
	}
	src := filepath.Join(binDir, "docc")

	if err := os.MkdirAll(filepath.Dir(ins.Inv.InstallDir), 0o755); err != nil {
		return fmt.Errorf("create install directory: %w", err)
	}
	slog.Info("Installing docc executable", "from", src, "to", ins.Inv.InstallDir)
	if err := copyFile(src, ins.Inv.InstallDir); err != nil {
		return fmt.Errorf("install docc: %w", err)
	}

	// features.json lives beside the installed binary at a fixed relative
	// location: <dir>/share/docc/features.json.
	featuresSrc := filepath.Join(ins.Inv.PackagePath, "features.json")
	featuresDst := filepath.Join(filepath.Dir(ins.Inv.InstallDir), "share", "docc", "features.json")
	if err := os.MkdirAll(filepath.Dir(featuresDst), 0o755); err != nil {
		return fmt.Errorf("create features.json directory: %w", err)
	}
	slog.Info("Installing features.json", "to", featuresDst)
	if err := copyFile(featuresSrc, featuresDst); err != nil {
		return fmt.Errorf("install features.json: %w", err)
	}

	if ins.Inv.RenderFrom != "" {
		if err := os.MkdirAll(ins.Inv.RenderTo, 0o755); err != nil {
			return fmt.Errorf("create docc-render directory: %w", err)
		}
		slog.Info("Installing docc-render template", "from", ins.Inv.RenderFrom, "to", ins.Inv.RenderTo)
		if err := copyTree(ins.Inv.RenderFrom, ins.Inv.RenderTo); err != nil {
			return fmt.Errorf("install docc-render template: %w", err)
		}
	}

	return nil
}
