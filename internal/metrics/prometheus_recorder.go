package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder on a private registry suitable for
// one-shot batch runs: the snapshot is exported with WriteTextfile (node
// exporter textfile collector format) after the run completes.
type PrometheusRecorder struct {
	registry      *prom.Registry
	stageResults  *prom.CounterVec
	stageDuration *prom.GaugeVec
	runDuration   prom.Gauge
	runOutcome    *prom.CounterVec
	buildInfo     *prom.GaugeVec
}

// NewPrometheusRecorder builds a recorder with all collectors registered.
func NewPrometheusRecorder() *PrometheusRecorder {
	r := &PrometheusRecorder{
		registry: prom.NewRegistry(),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Name: "doccbuild_stage_result_total",
			Help: "Build stage results by classification.",
		}, []string{"stage", "result"}),
		stageDuration: prom.NewGaugeVec(prom.GaugeOpts{
			Name: "doccbuild_stage_duration_seconds",
			Help: "Wall-clock duration of each build stage.",
		}, []string{"stage"}),
		runDuration: prom.NewGauge(prom.GaugeOpts{
			Name: "doccbuild_run_duration_seconds",
			Help: "Wall-clock duration of the whole run.",
		}),
		runOutcome: prom.NewCounterVec(prom.CounterOpts{
			Name: "doccbuild_run_outcome_total",
			Help: "Overall run outcome.",
		}, []string{"outcome"}),
		buildInfo: prom.NewGaugeVec(prom.GaugeOpts{
			Name: "doccbuild_build_info",
			Help: "Resolved build target and configuration.",
		}, []string{"triple", "configuration"}),
	}
	r.registry.MustRegister(r.stageResults, r.stageDuration, r.runDuration, r.runOutcome, r.buildInfo)
	return r
}

func (r *PrometheusRecorder) IncStageResult(stage, result string) {
	r.stageResults.WithLabelValues(stage, result).Inc()
}

func (r *PrometheusRecorder) ObserveStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Set(seconds)
}

func (r *PrometheusRecorder) SetBuildInfo(triple, configuration string) {
	r.buildInfo.WithLabelValues(triple, configuration).Set(1)
}

func (r *PrometheusRecorder) ObserveRunDuration(seconds float64) {
	r.runDuration.Set(seconds)
}

func (r *PrometheusRecorder) IncOutcome(outcome string) {
	r.runOutcome.WithLabelValues(outcome).Inc()
}

// WriteTextfile exports the registry snapshot in Prometheus text format.
func (r *PrometheusRecorder) WriteTextfile(path string) error {
	return prom.WriteToTextfile(path, r.registry)
}
