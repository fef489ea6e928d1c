// Package metrics provides observability hooks for mirror runs.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so metrics can be activated (watch mode wires the Prometheus
// implementation) without nil checks or code changes at call sites.
package metrics

import "time"

// OutcomeLabel enumerates run outcome categories for counters.
type OutcomeLabel string

const (
	OutcomeSuccess  OutcomeLabel = "success"
	OutcomeFailed   OutcomeLabel = "failed"
	OutcomeCanceled OutcomeLabel = "canceled"
)

// Recorder defines observability hooks for mirror run metrics. Implementations
// may forward to Prometheus, OpenTelemetry, etc.
type Recorder interface {
	ObserveRunDuration(d time.Duration)
	ObserveModuleDuration(module string, d time.Duration)
	IncRunOutcome(outcome OutcomeLabel)
	AddFilesCopied(n int)
	AddBytesCopied(n int64)
}

// NoopRecorder is a Recorder that does nothing (default when metrics not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveRunDuration(time.Duration)            {}
func (NoopRecorder) ObserveModuleDuration(string, time.Duration) {}
func (NoopRecorder) IncRunOutcome(OutcomeLabel)                  {}
func (NoopRecorder) AddFilesCopied(int)                          {}
func (NoopRecorder) AddBytesCopied(int64)                        {}
