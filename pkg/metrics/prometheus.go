package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	evaluations  *prometheus.CounterVec
	errorsTotal  *prometheus.CounterVec
	alertsTotal  prometheus.Counter
	cacheTotal   *prometheus.CounterVec
	scanDuration prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		evaluations: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_evaluations_total",
				Help: "Total number of instrument evaluations by outcome",
			},
			[]string{"ticker", "outcome"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		alertsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "quantdesk_alerts_total",
				Help: "Total number of buy-alerts produced by scans",
			},
		),
		cacheTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "quantdesk_evaluation_cache_total",
				Help: "Evaluation cache lookups by result",
			},
			[]string{"result"},
		),
		scanDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "quantdesk_scan_duration_seconds",
				Help:    "Duration of universe scans in seconds",
				Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
			},
		),
	}
}

// RecordEvaluation records one evaluation outcome for a ticker.
func (r *Recorder) RecordEvaluation(ticker, outcome string) {
	r.evaluations.WithLabelValues(ticker, outcome).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordScanDuration records how long a universe scan took.
func (r *Recorder) RecordScanDuration(seconds float64) {
	r.scanDuration.Observe(seconds)
}

// RecordAlerts adds the number of alerts a scan produced.
func (r *Recorder) RecordAlerts(n int) {
	if n > 0 {
		r.alertsTotal.Add(float64(n))
	}
}

// RecordCache records an evaluation cache hit or miss.
func (r *Recorder) RecordCache(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	r.cacheTotal.WithLabelValues(result).Inc()
}
