package registryservice

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	registrymetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/registry"
)

// RegistryService implements the Service interface.
type RegistryService struct {
	repo    registrydb.Repository
	logger  *slog.Logger
	metrics registrymetrics.RegistryMetrics
	tracer  trace.Tracer
}

// NewRegistryService creates a new RegistryService.
func NewRegistryService(
	repo registrydb.Repository,
	logger *slog.Logger,
	metrics registrymetrics.RegistryMetrics,
	tracer trace.Tracer,
) *RegistryService {
	return &RegistryService{
		repo:    repo,
		logger:  logger,
		metrics: metrics,
		tracer:  tracer,
	}
}

// withTelemetry wraps a registry operation with tracing, metrics, and panic
// recovery.
func withTelemetry[T any](
	s *RegistryService,
	ctx context.Context,
	operationName string,
	op func(ctx context.Context) (T, error),
) (result T, err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
	))
	defer span.End()

	s.metrics.RecordOperationAttempt(ctx, operationName)
	startTime := time.Now()
	defer func() {
		s.metrics.RecordOperationDuration(ctx, operationName, time.Since(startTime))
	}()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic in %s: %v", operationName, r)
			s.logger.ErrorContext(ctx, "Critical panic recovered",
				attr.String("operation", operationName),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
		}
	}()

	result, err = op(ctx)
	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed",
			attr.String("operation", operationName),
			attr.ExtractCorrelationID(ctx),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	s.metrics.RecordOperationSuccess(ctx, operationName)
	return result, nil
}
