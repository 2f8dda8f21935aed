package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
)

func init() {
	register(
		pollQueries,
		pollOutcomes,
		pollDuration,
	)
}

var (
	// One increment per status query issued.
	// result: pending|terminal|error
	pollQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_poll_queries_total",
			Help: "Status queries issued by the payment poller, by per-query result.",
		},
		[]string{"result"},
	)

	// Terminal resolutions of whole polling sessions.
	// outcome: success|failure|timeout|cancelled
	pollOutcomes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_poll_outcomes_total",
			Help: "Polling sessions by terminal outcome.",
		},
		[]string{"outcome"},
	)

	pollDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "payment_poll_duration_seconds",
			Help:    "Wall-clock duration of a polling session from start to resolution.",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		},
		[]string{"outcome"},
	)
)

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

func IncPollQuery(result string) {
	pollQueries.WithLabelValues(norm(result)).Inc()
}

func ObservePollOutcome(outcome string, seconds float64) {
	pollOutcomes.WithLabelValues(norm(outcome)).Inc()
	pollDuration.WithLabelValues(norm(outcome)).Observe(seconds)
}
