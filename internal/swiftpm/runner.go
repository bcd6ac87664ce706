package swiftpm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"git.home.luguber.info/inful/doccbuild/internal/execenv"
)

// CommandError reports a failed external command together with the exact
// argv that failed, so the sequencer can surface the command line verbatim.
type CommandError struct {
	Argv []string
	Err  error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("command failed: %s: %v", Quote(e.Argv), e.Err)
}

func (e *CommandError) Unwrap() error { return e.Err }

// Runner executes external commands synchronously against a fixed base
// environment. The base is never mutated; per-call overlays are merged
// functionally via execenv.Merge. No timeouts are applied beyond context
// cancellation.
type Runner struct {
	Env     []string
	Verbose bool
	Stdout  io.Writer
	Stderr  io.Writer
}

// NewRunner wires a Runner to the process streams.
func NewRunner(env []string, verbose bool) *Runner {
	return &Runner{Env: env, Verbose: verbose, Stdout: os.Stdout, Stderr: os.Stderr}
}

// Run starts the command, streams its output and waits for completion.
// A non-zero exit surfaces as a *CommandError.
func (r *Runner) Run(ctx context.Context, argv []string, overlay map[string]string) error {
	cmd, err := r.command(ctx, argv, overlay)
	if err != nil {
		return err
	}
	cmd.Stdout = r.Stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return &CommandError{Argv: argv, Err: err}
	}
	return nil
}

// Output runs the command and returns its trimmed stdout; stderr still goes
// to the runner's stream.
func (r *Runner) Output(ctx context.Context, argv []string, overlay map[string]string) (string, error) {
	cmd, err := r.command(ctx, argv, overlay)
	if err != nil {
		return "", err
	}
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = r.Stderr
	if err := cmd.Run(); err != nil {
		return "", &CommandError{Argv: argv, Err: err}
	}
	return strings.TrimSpace(stdout.String()), nil
}

func (r *Runner) command(ctx context.Context, argv []string, overlay map[string]string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, errors.New("empty command")
	}
	if r.Verbose {
		fmt.Fprintln(r.Stdout, Quote(argv))
	}
	// #nosec G204 -- argv is assembled from resolved configuration, not raw input
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Env = execenv.Merge(r.Env, overlay)
	return cmd, nil
}

// Quote renders an argv the way a shell user would retype it: arguments
// containing spaces or double quotes are wrapped and escaped.
func Quote(argv []string) string {
	quoted := make([]string, len(argv))
	for i, arg := range argv {
		if strings.ContainsAny(arg, "\" ") {
			quoted[i] = `"` + strings.ReplaceAll(arg, `"`, `\"`) + `"`
		} else {
			quoted[i] = arg
		}
	}
	return strings.Join(quoted, " ")
}
