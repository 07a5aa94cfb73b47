// Package observability provides Prometheus metrics for the matching
// pipeline. Structured logging lives in infrastructure/logging.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments for match runs. A nil
// *Metrics is valid and records nothing, so callers that do not care
// about metrics can pass nil.
type Metrics struct {
	// MatchRuns counts full matching runs (API or CLI).
	MatchRuns prometheus.Counter

	// MatchesFound counts accepted matches across all runs.
	MatchesFound prometheus.Counter

	// MatchDuration tracks how long a full matching run takes.
	MatchDuration prometheus.Histogram

	// MatchScores tracks the score distribution of accepted matches.
	MatchScores prometheus.Histogram
}

// New creates the metrics on the default Prometheus registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the metrics on a specific registerer. Tests use this
// with prometheus.NewRegistry to avoid duplicate registration panics.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		MatchRuns: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerline",
			Subsystem: "matcher",
			Name:      "runs_total",
			Help:      "Total matching runs executed",
		}),
		MatchesFound: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "ledgerline",
			Subsystem: "matcher",
			Name:      "matches_found_total",
			Help:      "Total accepted matches across all runs",
		}),
		MatchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledgerline",
			Subsystem: "matcher",
			Name:      "run_duration_seconds",
			Help:      "Duration of a full matching run",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		MatchScores: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ledgerline",
			Subsystem: "matcher",
			Name:      "match_scores",
			Help:      "Score distribution of accepted matches",
			Buckets:   prometheus.LinearBuckets(0, 10, 11),
		}),
	}
}

// ObserveRun records one completed matching run.
func (m *Metrics) ObserveRun(matches int, d time.Duration) {
	if m != nil {
		m.MatchRuns.Inc()
		m.MatchesFound.Add(float64(matches))
		m.MatchDuration.Observe(d.Seconds())
	}
}

// ObserveScore records the score of one accepted match.
func (m *Metrics) ObserveScore(score int) {
	if m != nil {
		m.MatchScores.Observe(float64(score))
	}
}
