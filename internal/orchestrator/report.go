package orchestrator

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// StageResult classifies a completed stage.
type StageResult string

const (
	StageResultSuccess  StageResult = "success"
	StageResultFatal    StageResult = "fatal"
	StageResultCanceled StageResult = "canceled"
)

// Outcome is the derived overall result of a run.
type Outcome string

const (
	OutcomeSuccess  Outcome = "success"
	OutcomeFailed   Outcome = "failed"
	OutcomeCanceled Outcome = "canceled"
)

// StageRecord is one executed stage in the report.
type StageRecord struct {
	Stage      StageName   `json:"stage"`
	Result     StageResult `json:"result"`
	DurationMS int64       `json:"duration_ms"`
	Error      string      `json:"error,omitempty"`
}

// Report captures the shape of a single orchestration run: which stages ran,
// how long they took, and how the run ended. It is written as JSON when a
// report file is configured.
type Report struct {
	RunID         string        `json:"run_id"`
	Package       string        `json:"package"`
	Configuration string        `json:"configuration"`
	Triple        string        `json:"triple,omitempty"`
	Commit        string        `json:"commit,omitempty"`
	Start         time.Time     `json:"start"`
	End           time.Time     `json:"end"`
	Stages        []StageRecord `json:"stages"`
	Warnings      []string      `json:"warnings,omitempty"`
	Outcome       Outcome       `json:"outcome"`
}

func newReport(pkg, configuration string) *Report {
	return &Report{
		RunID:         uuid.NewString(),
		Package:       pkg,
		Configuration: configuration,
		Start:         time.Now(),
	}
}

func (r *Report) record(stage StageName, result StageResult, dur time.Duration, err error) {
	rec := StageRecord{Stage: stage, Result: result, DurationMS: dur.Milliseconds()}
	if err != nil {
		rec.Error = err.Error()
	}
	r.Stages = append(r.Stages, rec)
}

func (r *Report) addWarning(msg string) {
	r.Warnings = append(r.Warnings, msg)
}

func (r *Report) finish(outcome Outcome) {
	r.End = time.Now()
	r.Outcome = outcome
}

// Persist writes the report atomically. Best effort: the caller logs the
// returned error but the run outcome is unaffected.
func (r *Report) Persist(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write temp report: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("atomic rename report: %w", err)
	}
	return nil
}
