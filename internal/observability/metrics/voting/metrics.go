package votingmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// VotingMetrics records telemetry for the public voting module.
type VotingMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordVoteCast(ctx context.Context, numEntries int)
	RecordRateLimited(ctx context.Context)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	votesCast          prometheus.Counter
	voteEntries        prometheus.Histogram
	rateLimited        prometheus.Counter
}

// NewPrometheusMetrics registers and returns the voting metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) VotingMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "operation_attempts_total", Help: "Voting operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "operation_successes_total", Help: "Voting operation successes.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "operation_failures_total", Help: "Voting operation failures.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "operation_duration_seconds", Help: "Voting operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		votesCast: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "votes_cast_total", Help: "Public votes accepted.",
		}),
		voteEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "vote_entries", Help: "Criterion entries per vote.",
			Buckets: []float64{1, 2, 4, 8, 16},
		}),
		rateLimited: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "voting",
			Name: "rate_limited_total", Help: "Votes rejected by the per-session rate limit.",
		}),
	}
	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures,
		m.operationDuration, m.votesCast, m.voteEntries, m.rateLimited,
	)
	return m
}

func (m *prometheusMetrics) RecordOperationAttempt(_ context.Context, operation string) {
	m.operationAttempts.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationSuccess(_ context.Context, operation string) {
	m.operationSuccesses.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationFailure(_ context.Context, operation string) {
	m.operationFailures.WithLabelValues(operation).Inc()
}

func (m *prometheusMetrics) RecordOperationDuration(_ context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *prometheusMetrics) RecordVoteCast(_ context.Context, numEntries int) {
	m.votesCast.Inc()
	m.voteEntries.Observe(float64(numEntries))
}

func (m *prometheusMetrics) RecordRateLimited(_ context.Context) {
	m.rateLimited.Inc()
}

// NoOpMetrics is a no-op VotingMetrics for tests.
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (*NoOpMetrics) RecordVoteCast(context.Context, int)                            {}
func (*NoOpMetrics) RecordRateLimited(context.Context)                              {}
