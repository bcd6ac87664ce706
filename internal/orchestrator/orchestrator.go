// Package orchestrator sequences the build lifecycle actions in fixed order
// and reports their outcome. Each stage is a single external invocation (or,
// for install, a build followed by the copy step); the first fatal failure
// terminates the run.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"git.home.luguber.info/inful/doccbuild/internal/config"
	"git.home.luguber.info/inful/doccbuild/internal/execenv"
	"git.home.luguber.info/inful/doccbuild/internal/install"
	"git.home.luguber.info/inful/doccbuild/internal/metrics"
	"git.home.luguber.info/inful/doccbuild/internal/provenance"
	"git.home.luguber.info/inful/doccbuild/internal/swiftpm"
	"git.home.luguber.info/inful/doccbuild/internal/toolchain"
)

// Products the orchestrator builds and tests.
const (
	DoccProduct = "docc"
	TestProduct = "SwiftDocCPackageTests"
)

// buildScriptEnv tells docc it is building inside an orchestrated
// environment so it can skip redundant rebuilds. Applied to every build,
// test and bin-path invocation.
var buildScriptEnv = map[string]string{"SWIFT_BUILD_SCRIPT_ENVIRONMENT": "1"}

// Orchestrator drives a single run from a resolved invocation configuration.
type Orchestrator struct {
	inv      *config.Invocation
	tc       *toolchain.Toolchain
	runner   *swiftpm.Runner
	recorder metrics.Recorder
	report   *Report

	platform      toolchain.Platform
	platformKnown bool
	hostOS        string

	stdout io.Writer
	stderr io.Writer
}

// New wires an orchestrator to the process streams and environment. The
// child-process environment is the process environment plus the config-file
// overlay and the local-dependency preference flag, merged once up front.
func New(inv *config.Invocation) *Orchestrator {
	overlay := map[string]string{}
	if inv.UseLocalDeps {
		// Prefer dependencies checked out next to the package.
		overlay["SWIFTCI_USE_LOCAL_DEPS"] = "1"
	}
	base := execenv.Merge(os.Environ(), inv.EnvOverlay, overlay)

	o := &Orchestrator{
		inv:      inv,
		tc:       toolchain.New(inv.ToolchainPath),
		runner:   swiftpm.NewRunner(base, inv.Verbose),
		recorder: metrics.NoopRecorder{},
		report:   newReport(inv.PackageName(), string(inv.Configuration)),
		hostOS:   runtime.GOOS,
		stdout:   os.Stdout,
		stderr:   os.Stderr,
	}
	if inv.MetricsFile != "" {
		o.recorder = metrics.NewPrometheusRecorder()
	}
	return o
}

// WithOutput redirects the orchestrator's streams (tests).
func (o *Orchestrator) WithOutput(stdout, stderr io.Writer) *Orchestrator {
	o.stdout = stdout
	o.stderr = stderr
	o.runner.Stdout = stdout
	o.runner.Stderr = stderr
	return o
}

// WithHostOS overrides the host OS used for test-discovery flag selection
// (tests).
func (o *Orchestrator) WithHostOS(goos string) *Orchestrator {
	o.hostOS = goos
	return o
}

// WithRecorder injects a metrics recorder.
func (o *Orchestrator) WithRecorder(r metrics.Recorder) *Orchestrator {
	if r != nil {
		o.recorder = r
	}
	return o
}

// Report exposes the run report (tests and callers that persist it
// themselves).
func (o *Orchestrator) Report() *Report { return o.report }

// Run executes the requested actions in fixed order and returns the first
// fatal error. The FAIL diagnostics are already printed to stderr when Run
// returns non-nil; callers only need to exit non-zero.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.report.Commit = provenance.HeadCommit(o.inv.PackagePath)

	err := o.runStages(ctx, o.plan())

	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailed
		var se *StageError
		if errors.As(err, &se) && se.Kind == StageErrorCanceled {
			outcome = OutcomeCanceled
		}
	}
	o.report.finish(outcome)
	o.recorder.IncOutcome(string(outcome))
	o.recorder.ObserveRunDuration(o.report.End.Sub(o.report.Start).Seconds())

	if o.inv.ReportFile != "" {
		if perr := o.report.Persist(o.inv.ReportFile); perr != nil {
			slog.Warn("Failed to persist build report", "path", o.inv.ReportFile, "error", perr)
		}
	}
	if o.inv.MetricsFile != "" {
		if pr, ok := o.recorder.(*metrics.PrometheusRecorder); ok {
			if merr := pr.WriteTextfile(o.inv.MetricsFile); merr != nil {
				slog.Warn("Failed to write metrics textfile", "path", o.inv.MetricsFile, "error", merr)
			}
		}
	}
	return err
}

// plan assembles the stage sequence from the requested actions. Order is
// fixed: update, build, generate-xcodeproj, test, install.
func (o *Orchestrator) plan() []stageDef {
	name := o.inv.PackageName()
	var defs []stageDef
	if o.inv.Update {
		defs = append(defs, stageDef{
			name:    StageUpdate,
			banner:  fmt.Sprintf("Updating dependencies of %s", name),
			failure: fmt.Sprintf("FAIL: Updating dependencies of %s failed", name),
			fn:      o.stageUpdate,
		})
	}
	if o.inv.Actions.Has(config.ActionBuild) {
		defs = append(defs, stageDef{
			name:    StageBuild,
			banner:  fmt.Sprintf("Building %s", name),
			failure: fmt.Sprintf("FAIL: Building %s failed", name),
			fn:      o.stageBuild,
		})
	}
	if o.inv.Actions.Has(config.ActionGenerateXcodeproj) {
		defs = append(defs, stageDef{
			name:    StageGenerateXcodeproj,
			banner:  fmt.Sprintf("Generating Xcode project for %s", name),
			failure: "FAIL: Generating the Xcode project failed",
			fn:      o.stageGenerateXcodeproj,
		})
	}
	if o.inv.Actions.Has(config.ActionTest) {
		defs = append(defs, stageDef{
			name:    StageTest,
			banner:  fmt.Sprintf("Testing %s", name),
			failure: fmt.Sprintf("FAIL: Testing %s failed", name),
			fn:      o.stageTest,
		})
	}
	if o.inv.Actions.Has(config.ActionInstall) {
		defs = append(defs, stageDef{
			name:    StageInstall,
			banner:  fmt.Sprintf("Installing %s", name),
			failure: fmt.Sprintf("FAIL: Installing %s failed", name),
			fn:      o.stageInstall,
		})
	}
	return defs
}

// runStages executes stages in order, recording timing and stopping at the
// first fatal error. No stage is retried and nothing is rolled back.
func (o *Orchestrator) runStages(ctx context.Context, stages []stageDef) error {
	for _, st := range stages {
		select {
		case <-ctx.Done():
			se := newCanceledStageError(st.name, ctx.Err())
			o.report.record(st.name, StageResultCanceled, 0, se)
			o.recorder.IncStageResult(string(st.name), metrics.ResultCanceled)
			o.fail(st, se)
			return se
		default:
		}

		fmt.Fprintf(o.stdout, "** %s **\n", st.banner)
		t0 := time.Now()
		err := st.fn(ctx)
		dur := time.Since(t0)
		o.recorder.ObserveStageDuration(string(st.name), dur.Seconds())

		if err != nil {
			var se *StageError
			if !errors.As(err, &se) {
				se = newFatalStageError(st.name, err)
			}
			result := StageResultFatal
			if se.Kind == StageErrorCanceled {
				result = StageResultCanceled
			}
			o.report.record(st.name, result, dur, se)
			o.recorder.IncStageResult(string(st.name), string(result))
			o.fail(st, se)
			return se
		}

		o.report.record(st.name, StageResultSuccess, dur, nil)
		o.recorder.IncStageResult(string(st.name), metrics.ResultSuccess)
	}
	return nil
}

// fail prints the stage failure diagnostics: the failure line, then the
// exact command line when the cause was an external command.
func (o *Orchestrator) fail(st stageDef, err error) {
	fmt.Fprintln(o.stderr, st.failure)
	var ce *swiftpm.CommandError
	if errors.As(err, &ce) {
		fmt.Fprintf(o.stderr, "Executing: %s\n", swiftpm.Quote(ce.Argv))
	}
}

// buildPlatform probes the toolchain's target triple once and caches it.
func (o *Orchestrator) buildPlatform(ctx context.Context) (toolchain.Platform, error) {
	if !o.platformKnown {
		p, err := o.tc.BuildTarget(ctx, o.runner)
		if err != nil {
			return toolchain.Platform{}, err
		}
		o.platform = p
		o.platformKnown = true
		o.report.Triple = p.Triple
		o.recorder.SetBuildInfo(p.Triple, string(o.inv.Configuration))
		slog.Debug("Resolved build target", "triple", p.Triple, "family", p.Family.String())
	}
	return o.platform, nil
}

// buildProduct runs a swift build/test invocation for a single product with
// the action-appropriate options.
func (o *Orchestrator) buildProduct(ctx context.Context, action swiftpm.Action, verb swiftpm.Verb, product string) error {
	plat, err := o.buildPlatform(ctx)
	if err != nil {
		return err
	}
	opts, warn := swiftpm.Options(action, o.inv, plat)
	if warn != "" {
		// Unsupported cross-compile pairs are reported, not fatal.
		fmt.Fprintln(o.stderr, warn)
		o.report.addWarning(warn)
	}
	argv := swiftpm.ProductCommand(verb, product, o.inv, opts, o.hostOS)
	return o.runner.Run(ctx, argv, buildScriptEnv)
}

func (o *Orchestrator) stageUpdate(ctx context.Context) error {
	argv := swiftpm.PackageCommand(o.inv,
		"--package-path", o.inv.PackagePath,
		"--scratch-path", o.inv.BuildDir,
		"update")
	return o.runner.Run(ctx, argv, nil)
}

func (o *Orchestrator) stageBuild(ctx context.Context) error {
	return o.buildProduct(ctx, swiftpm.ActionBuild, swiftpm.VerbBuild, DoccProduct)
}

func (o *Orchestrator) stageTest(ctx context.Context) error {
	return o.buildProduct(ctx, swiftpm.ActionTest, swiftpm.VerbTest, TestProduct)
}

func (o *Orchestrator) stageGenerateXcodeproj(ctx context.Context) error {
	output := filepath.Join(o.inv.PackagePath, o.inv.PackageName()+".xcodeproj")
	argv := swiftpm.PackageCommand(o.inv,
		"--package-path", o.inv.PackagePath,
		"generate-xcodeproj",
		"--output", output)
	return o.runner.Run(ctx, argv, nil)
}

// stageInstall runs an install-flavored build first; the copy step is
// skipped entirely when that build fails.
func (o *Orchestrator) stageInstall(ctx context.Context) error {
	if o.inv.InstallDir == "" {
		return install.ErrMissingInstallDir
	}
	if err := o.buildProduct(ctx, swiftpm.ActionInstall, swiftpm.VerbBuild, DoccProduct); err != nil {
		return err
	}
	plat, err := o.buildPlatform(ctx)
	if err != nil {
		return err
	}
	opts, _ := swiftpm.Options(swiftpm.ActionShowBinPath, o.inv, plat)
	binArgv := swiftpm.ProductCommand(swiftpm.VerbBuild, DoccProduct, o.inv, opts, o.hostOS)
	ins := &install.Installer{Inv: o.inv, Run: o.runner, BinPathArgv: binArgv, Env: buildScriptEnv}
	return ins.Install(ctx)
}
