package scoringmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ScoringMetrics records telemetry for the scoring module.
type ScoringMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordScoreSubmission(ctx context.Context, numEntries int)
	RecordLockedRoomRejection(ctx context.Context)
	RecordHandlerAttempt(handlerName string)
	RecordHandlerSuccess(handlerName string)
	RecordHandlerFailure(handlerName string)
	RecordHandlerDuration(handlerName string, seconds float64)
}

type prometheusMetrics struct {
	operationAttempts   *prometheus.CounterVec
	operationSuccesses  *prometheus.CounterVec
	operationFailures   *prometheus.CounterVec
	operationDuration   *prometheus.HistogramVec
	scoreSubmissions    prometheus.Counter
	submissionEntries   prometheus.Histogram
	lockedRejections    prometheus.Counter
	handlerAttempts     *prometheus.CounterVec
	handlerSuccesses    *prometheus.CounterVec
	handlerFailures     *prometheus.CounterVec
	handlerDuration     *prometheus.HistogramVec
}

// NewPrometheusMetrics registers and returns the scoring metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) ScoringMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "operation_attempts_total", Help: "Scoring operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "operation_successes_total", Help: "Scoring operation successes.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "operation_failures_total", Help: "Scoring operation failures.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "operation_duration_seconds", Help: "Scoring operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		scoreSubmissions: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "score_submissions_total", Help: "Judge score submissions accepted.",
		}),
		submissionEntries: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "submission_entries", Help: "Criterion entries per submission.",
			Buckets: []float64{1, 2, 4, 8, 16, 32},
		}),
		lockedRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "locked_room_rejections_total", Help: "Submissions rejected because the room was locked.",
		}),
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "handler_attempts_total", Help: "Message handler attempts.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "handler_successes_total", Help: "Message handler successes.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "handler_failures_total", Help: "Message handler failures.",
		}, []string{"handler"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "scoring",
			Name: "handler_duration_seconds", Help: "Message handler duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}
	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures, m.operationDuration,
		m.scoreSubmissions, m.submissionEntries, m.lockedRejections,
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

func (m *prometheusMetrics) RecordScoreSubmission(_ context.Context, numEntries int) {
	m.scoreSubmissions.Inc()
	m.submissionEntries.Observe(float64(numEntries))
}

func (m *prometheusMetrics) RecordLockedRoomRejection(_ context.Context) {
	m.lockedRejections.Inc()
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

// NoOpMetrics is a no-op ScoringMetrics for tests.
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordOperationAttempt(context.Context, string)                {}
func (*NoOpMetrics) RecordOperationSuccess(context.Context, string)                {}
func (*NoOpMetrics) RecordOperationFailure(context.Context, string)                {}
func (*NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (*NoOpMetrics) RecordScoreSubmission(context.Context, int)                    {}
func (*NoOpMetrics) RecordLockedRoomRejection(context.Context)                     {}
func (*NoOpMetrics) RecordHandlerAttempt(string)                                   {}
func (*NoOpMetrics) RecordHandlerSuccess(string)                                   {}
func (*NoOpMetrics) RecordHandlerFailure(string)                                   {}
func (*NoOpMetrics) RecordHandlerDuration(string, float64)                         {}
