package orchestrator

import (
	"context"
	"fmt"
)

// StageName identifies a build lifecycle stage. All canonical stages are
// declared here for compile-time safety.
type StageName string

const (
	StageUpdate            StageName = "update"
	StageBuild             StageName = "build"
	StageGenerateXcodeproj StageName = "generate-xcodeproj"
	StageTest              StageName = "test"
	StageInstall           StageName = "install"
)

// StageErrorKind enumerates structured stage error categories.
type StageErrorKind string

const (
	StageErrorFatal    StageErrorKind = "fatal"    // Run must abort.
	StageErrorCanceled StageErrorKind = "canceled" // Context cancellation.
)

// StageError carries the failing stage and classification alongside the
// underlying cause.
type StageError struct {
	Kind  StageErrorKind
	Stage StageName
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage %s: %v", e.Kind, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error { return e.Err }

func newFatalStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorFatal, Stage: stage, Err: err}
}

func newCanceledStageError(stage StageName, err error) *StageError {
	return &StageError{Kind: StageErrorCanceled, Stage: stage, Err: err}
}

// stageDef pairs a stage with its progress banner and failure message. The
// failure line is printed to stderr verbatim, followed by the exact command
// that failed when one is known.
type stageDef struct {
	name    StageName
	banner  string
	failure string
	fn      func(ctx context.Context) error
}
