package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "route"},
	)

	AttemptsStarted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "attempts_started_total",
			Help: "Total number of test attempts started",
		},
	)

	// AttemptsSubmitted is labelled by outcome: completed, expired or resubmitted.
	AttemptsSubmitted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "attempts_submitted_total",
			Help: "Total number of attempt submissions by outcome",
		},
		[]string{"outcome"},
	)

	// ImportRows is labelled by outcome: imported, skipped or error.
	ImportRows = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "import_rows_total",
			Help: "Spreadsheet rows processed by question imports",
		},
		[]string{"outcome"},
	)
)

const (
	OutcomeCompleted   = "completed"
	OutcomeExpired     = "expired"
	OutcomeResubmitted = "resubmitted"

	OutcomeImported = "imported"
	OutcomeSkipped  = "skipped"
	OutcomeError    = "error"
)

var registerOnce sync.Once

// Init registers the collectors with the default registry. Safe to call more than once.
func Init() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RequestCounter)
		prometheus.MustRegister(RequestDuration)
		prometheus.MustRegister(AttemptsStarted)
		prometheus.MustRegister(AttemptsSubmitted)
		prometheus.MustRegister(ImportRows)
	})
}
