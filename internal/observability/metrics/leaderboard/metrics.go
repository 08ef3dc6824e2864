package leaderboardmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// LeaderboardMetrics records telemetry for the aggregation engine.
type LeaderboardMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRecompute(ctx context.Context, numTeams int)
	RecordStaleSnapshotDiscarded(ctx context.Context)
	RecordForeignCriterionSkipped(ctx context.Context)
	RecordFinalize(ctx context.Context, numTeams int)
	RecordHandlerAttempt(handlerName string)
	RecordHandlerSuccess(handlerName string)
	RecordHandlerFailure(handlerName string)
	RecordHandlerDuration(handlerName string, seconds float64)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	recomputes         prometheus.Counter
	recomputeTeams     prometheus.Histogram
	staleDiscarded     prometheus.Counter
	foreignSkipped     prometheus.Counter
	finalizes          prometheus.Counter
	handlerAttempts    *prometheus.CounterVec
	handlerSuccesses   *prometheus.CounterVec
	handlerFailures    *prometheus.CounterVec
	handlerDuration    *prometheus.HistogramVec
}

// NewPrometheusMetrics registers and returns the leaderboard metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) LeaderboardMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "operation_attempts_total", Help: "Leaderboard operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "operation_successes_total", Help: "Leaderboard operation successes.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "operation_failures_total", Help: "Leaderboard operation failures.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "operation_duration_seconds", Help: "Leaderboard operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		recomputes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "recomputes_total", Help: "Full standings recomputations.",
		}),
		recomputeTeams: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "recompute_teams", Help: "Teams per standings recomputation.",
			Buckets: []float64{1, 5, 10, 25, 50, 100},
		}),
		staleDiscarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "stale_snapshots_discarded_total", Help: "Superseded fetch-then-aggregate cycles discarded.",
		}),
		foreignSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "foreign_criterion_rows_skipped_total", Help: "Score rows skipped for referencing a criterion outside the team's track.",
		}),
		finalizes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "finalizes_total", Help: "Track finalizations.",
		}),
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "handler_attempts_total", Help: "Message handler attempts.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "handler_successes_total", Help: "Message handler successes.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "handler_failures_total", Help: "Message handler failures.",
		}, []string{"handler"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "leaderboard",
			Name: "handler_duration_seconds", Help: "Message handler duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}
	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures, m.operationDuration,
		m.recomputes, m.recomputeTeams, m.staleDiscarded, m.foreignSkipped, m.finalizes,
		m.handlerAttempts, m.handlerSuccesses, m.handlerFailures, m.handlerDuration,
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

func (m *prometheusMetrics) RecordRecompute(_ context.Context, numTeams int) {
	m.recomputes.Inc()
	m.recomputeTeams.Observe(float64(numTeams))
}

func (m *prometheusMetrics) RecordStaleSnapshotDiscarded(_ context.Context) {
	m.staleDiscarded.Inc()
}

func (m *prometheusMetrics) RecordForeignCriterionSkipped(_ context.Context) {
	m.foreignSkipped.Inc()
}

func (m *prometheusMetrics) RecordFinalize(_ context.Context, numTeams int) {
	m.finalizes.Inc()
}

func (m *prometheusMetrics) RecordHandlerAttempt(handlerName string) {
	m.handlerAttempts.WithLabelValues(handlerName).Inc()
}

func (m *prometheusMetrics) RecordHandlerSuccess(handlerName string) {
	m.handlerSuccesses.WithLabelValues(handlerName).Inc()
}

func (m *prometheusMetrics) RecordHandlerFailure(handlerName string) {
	m.handlerFailures.WithLabelValues(handlerName).Inc()
}

func (m *prometheusMetrics) RecordHandlerDuration(handlerName string, seconds float64) {
	m.handlerDuration.WithLabelValues(handlerName).Observe(seconds)
}

// NoOpMetrics is a no-op LeaderboardMetrics for tests.
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (*NoOpMetrics) RecordRecompute(context.Context, int)                           {}
func (*NoOpMetrics) RecordStaleSnapshotDiscarded(context.Context)                   {}
func (*NoOpMetrics) RecordForeignCriterionSkipped(context.Context)                  {}
func (*NoOpMetrics) RecordFinalize(context.Context, int)                            {}
func (*NoOpMetrics) RecordHandlerAttempt(string)                                    {}
func (*NoOpMetrics) RecordHandlerSuccess(string)                                    {}
func (*NoOpMetrics) RecordHandlerFailure(string)                                    {}
func (*NoOpMetrics) RecordHandlerDuration(string, float64)                          {}
