// Package metrics records build orchestration metrics.
//
// The Null Object pattern keeps the orchestration path free of nil checks:
// components hold a Recorder and the default NoopRecorder does nothing. A
// Prometheus-backed recorder is activated only when the run is configured to
// write a textfile-format metrics snapshot.
package metrics

// Result labels for stage classification.
const (
	ResultSuccess  = "success"
	ResultFatal    = "fatal"
	ResultCanceled = "canceled"
)

// Recorder defines the metrics operations emitted by the orchestrator.
type Recorder interface {
	IncStageResult(stage, result string)
	ObserveStageDuration(stage string, seconds float64)
	SetBuildInfo(triple, configuration string)
	ObserveRunDuration(seconds float64)
	IncOutcome(outcome string)
}

// NoopRecorder is the zero-overhead default implementation.
type NoopRecorder struct{}

func (NoopRecorder) IncStageResult(stage, result string)                {}
func (NoopRecorder) ObserveStageDuration(stage string, seconds float64) {}
func (NoopRecorder) SetBuildInfo(triple, configuration string)          {}
func (NoopRecorder) ObserveRunDuration(seconds float64)                 {}
func (NoopRecorder) IncOutcome(outcome string)                          {}
