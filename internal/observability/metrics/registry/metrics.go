package registrymetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RegistryMetrics records telemetry for the event-registry module.
type RegistryMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordRoomsLocked(ctx context.Context, numRooms int)
}

type prometheusMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	roomsLocked        prometheus.Counter
}

// NewPrometheusMetrics registers and returns the registry metrics.
func NewPrometheusMetrics(reg prometheus.Registerer) RegistryMetrics {
	m := &prometheusMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "registry",
			Name: "operation_attempts_total", Help: "Registry operation attempts.",
		}, []string{"operation"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "registry",
			Name: "operation_successes_total", Help: "Registry operation successes.",
		}, []string{"operation"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "registry",
			Name: "operation_failures_total", Help: "Registry operation failures.",
		}, []string{"operation"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hackboard", Subsystem: "registry",
			Name: "operation_duration_seconds", Help: "Registry operation duration.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		roomsLocked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "hackboard", Subsystem: "registry",
			Name: "rooms_locked_total", Help: "Rooms locked by finalize or admin action.",
		}),
	}
	reg.MustRegister(
		m.operationAttempts, m.operationSuccesses, m.operationFailures,
		m.operationDuration, m.roomsLocked,
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

func (m *prometheusMetrics) RecordRoomsLocked(_ context.Context, numRooms int) {
	m.roomsLocked.Add(float64(numRooms))
}

// NoOpMetrics is a no-op RegistryMetrics for tests.
type NoOpMetrics struct{}

func (*NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationFailure(context.Context, string)                 {}
func (*NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (*NoOpMetrics) RecordRoomsLocked(context.Context, int)                         {}
