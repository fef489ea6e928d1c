package metrics

import (
	"sync"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	once           sync.Once
	runDuration    prom.Histogram
	moduleDuration *prom.HistogramVec
	runOutcome     *prom.CounterVec
	filesCopied    prom.Counter
	bytesCopied    prom.Counter
}

// NewPrometheusRecorder constructs and registers Prometheus metrics (idempotent).
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.runDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "coursemirror",
			Name:      "run_duration_seconds",
			Help:      "Total duration of full mirror runs",
			Buckets:   prom.DefBuckets,
		})
		pr.moduleDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "coursemirror",
			Name:      "module_duration_seconds",
			Help:      "Duration of individual module mirror operations",
			Buckets:   prom.DefBuckets,
		}, []string{"module"})
		pr.runOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "coursemirror",
			Name:      "run_outcomes_total",
			Help:      "Mirror run outcomes by final status",
		}, []string{"outcome"})
		pr.filesCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: "coursemirror",
			Name:      "files_copied_total",
			Help:      "Regular files copied into the destination tree",
		})
		pr.bytesCopied = prom.NewCounter(prom.CounterOpts{
			Namespace: "coursemirror",
			Name:      "bytes_copied_total",
			Help:      "Bytes copied into the destination tree",
		})

		reg.MustRegister(pr.runDuration, pr.moduleDuration, pr.runOutcome, pr.filesCopied, pr.bytesCopied)
	})
	return pr
}

func (pr *PrometheusRecorder) ObserveRunDuration(d time.Duration) {
	pr.runDuration.Observe(d.Seconds())
}

func (pr *PrometheusRecorder) ObserveModuleDuration(module string, d time.Duration) {
	pr.moduleDuration.WithLabelValues(module).Observe(d.Seconds())
}

func (pr *PrometheusRecorder) IncRunOutcome(outcome OutcomeLabel) {
	pr.runOutcome.WithLabelValues(string(outcome)).Inc()
}

func (pr *PrometheusRecorder) AddFilesCopied(n int) {
	pr.filesCopied.Add(float64(n))
}

func (pr *PrometheusRecorder) AddBytesCopied(n int64) {
	pr.bytesCopied.Add(float64(n))
}
