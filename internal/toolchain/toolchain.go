// Package toolchain locates the Swift toolchain executable and probes the
// target platform it builds for.
package toolchain

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
)

// OutputRunner executes a command and returns its trimmed stdout. Satisfied
// by swiftpm.Runner; tests substitute fakes.
type OutputRunner interface {
	Output(ctx context.Context, argv []string, overlay map[string]string) (string, error)
}

// Toolchain is a Swift toolchain root on disk.
type Toolchain struct {
	Path      string
	SwiftExec string
}

// New derives the swift executable location from a toolchain root.
func New(path string) *Toolchain {
	return &Toolchain{Path: path, SwiftExec: filepath.Join(path, "bin", "swift")}
}

// targetInfo mirrors the fields of `swift -print-target-info` output the
// orchestrator needs.
type targetInfo struct {
	Target struct {
		Triple            string `json:"triple"`
		UnversionedTriple string `json:"unversionedTriple"`
	} `json:"target"`
}

// BuildTarget probes the toolchain for the triple it builds for. Apple
// triples carry a platform version suffix, so the unversioned form is
// preferred for macOS; every other platform uses the versioned triple.
func (t *Toolchain) BuildTarget(ctx context.Context, run OutputRunner) (Platform, error) {
	out, err := run.Output(ctx, []string{t.SwiftExec, "-print-target-info"}, nil)
	if err != nil {
		return Platform{}, fmt.Errorf("probe target info: %w", err)
	}
	var info targetInfo
	if err := json.Unmarshal([]byte(out), &info); err != nil {
		return Platform{}, fmt.Errorf("parse target info: %w", err)
	}
	triple := info.Target.Triple
	if strings.Contains(info.Target.UnversionedTriple, "-apple-macosx") {
		triple = info.Target.UnversionedTriple
	}
	if triple == "" {
		return Platform{}, fmt.Errorf("target info reported no triple")
	}
	return ParseTriple(triple)
}
