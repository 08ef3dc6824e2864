// Package observability wires the logging, metrics, and tracing providers
// shared by every module.
package observability

import (
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	leaderboardmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/leaderboard"
	registrymetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/registry"
	scoringmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/scoring"
	votingmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/voting"
)

// Provider holds the process-wide observability primitives.
type Provider struct {
	Logger             *slog.Logger
	Tracer             trace.Tracer
	PrometheusRegistry *prometheus.Registry
}

// Registry holds the per-module metrics implementations.
type Registry struct {
	RegistryMetrics    registrymetrics.RegistryMetrics
	ScoringMetrics     scoringmetrics.ScoringMetrics
	VotingMetrics      votingmetrics.VotingMetrics
	LeaderboardMetrics leaderboardmetrics.LeaderboardMetrics
}

// Observability bundles the provider and the module metrics registry.
type Observability struct {
	Provider *Provider
	Registry *Registry
}

// Config controls provider construction.
type Config struct {
	ServiceName string
	Environment string
	LogLevel    slog.Level
}

// New builds the observability stack: a JSON slog logger, a prometheus
// registry with process/go collectors, per-module metrics, and a tracer.
// Tracing is a no-op unless an external tracer provider is installed.
func New(cfg Config) *Observability {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	})).With(
		slog.String("service", cfg.ServiceName),
		slog.String("environment", cfg.Environment),
	)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	tracer := noop.NewTracerProvider().Tracer(cfg.ServiceName)

	return &Observability{
		Provider: &Provider{
			Logger:             logger,
			Tracer:             tracer,
			PrometheusRegistry: registry,
		},
		Registry: &Registry{
			RegistryMetrics:    registrymetrics.NewPrometheusMetrics(registry),
			ScoringMetrics:     scoringmetrics.NewPrometheusMetrics(registry),
			VotingMetrics:      votingmetrics.NewPrometheusMetrics(registry),
			LeaderboardMetrics: leaderboardmetrics.NewPrometheusMetrics(registry),
		},
	}
}

// NewForTest returns an Observability with a discard logger, a fresh
// registry, noop tracer, and NoOp module metrics.
func NewForTest() *Observability {
	return &Observability{
		Provider: &Provider{
			Logger:             slog.New(slog.DiscardHandler),
			Tracer:             noop.NewTracerProvider().Tracer("test"),
			PrometheusRegistry: prometheus.NewRegistry(),
		},
		Registry: &Registry{
			RegistryMetrics:    &registrymetrics.NoOpMetrics{},
			ScoringMetrics:     &scoringmetrics.NoOpMetrics{},
			VotingMetrics:      &votingmetrics.NoOpMetrics{},
			LeaderboardMetrics: &leaderboardmetrics.NoOpMetrics{},
		},
	}
}
