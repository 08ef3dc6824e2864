package scoringservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/eventbus"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	scoringmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/scoring"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// ScoringService implements the Service interface.
type ScoringService struct {
	repo     scoringdb.Repository
	registry registrydb.Repository
	EventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  scoringmetrics.ScoringMetrics
	tracer   trace.Tracer
	db       *bun.DB
}

// NewScoringService creates a new ScoringService.
func NewScoringService(
	repo scoringdb.Repository,
	registry registrydb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics scoringmetrics.ScoringMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *ScoringService {
	return &ScoringService{
		repo:     repo,
		registry: registry,
		EventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
	}
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a scoring operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any, F any](
	s *ScoringService,
	ctx context.Context,
	operationName string,
	teamID sharedtypes.TeamID,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("team_id", teamID.String()),
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
				attr.UUID("team_id", teamID),
				attr.ExtractCorrelationID(ctx),
				attr.Error(err),
			)
			s.metrics.RecordOperationFailure(ctx, operationName)
			span.RecordError(err)
			result = results.OperationResult[S, F]{}
		}
	}()

	result, err = op(ctx)

	if err != nil {
		wrappedErr := fmt.Errorf("%s: %w", operationName, err)
		s.logger.ErrorContext(ctx, "Operation failed with error",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.UUID("team_id", teamID),
			attr.Error(wrappedErr),
		)
		s.metrics.RecordOperationFailure(ctx, operationName)
		span.RecordError(wrappedErr)
		return result, wrappedErr
	}

	if result.IsFailure() {
		s.logger.WarnContext(ctx, "Operation returned failure result",
			attr.ExtractCorrelationID(ctx),
			attr.String("operation", operationName),
			attr.UUID("team_id", teamID),
			attr.Any("failure_payload", *result.Failure),
		)
	}

	if result.IsSuccess() {
		s.metrics.RecordOperationSuccess(ctx, operationName)
	}

	return result, nil
}

// runInTx runs the operation inside a bun transaction.
func runInTx[S any, F any](
	s *ScoringService,
	ctx context.Context,
	fn func(ctx context.Context, db bun.IDB) (results.OperationResult[S, F], error),
) (results.OperationResult[S, F], error) {
	if s.db == nil {
		return fn(ctx, nil)
	}

	var result results.OperationResult[S, F]
	err := s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		var txErr error
		result, txErr = fn(ctx, tx)
		return txErr
	})

	return result, err
}
