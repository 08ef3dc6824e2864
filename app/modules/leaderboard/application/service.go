package leaderboardservice

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/eventbus"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	leaderboardmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/leaderboard"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// LeaderboardService implements the Service interface.
type LeaderboardService struct {
	repo     leaderboarddb.Repository
	registry registrydb.Repository
	scoring  scoringdb.Repository
	voting   votingdb.Repository
	EventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  leaderboardmetrics.LeaderboardMetrics
	tracer   trace.Tracer
	db       *bun.DB

	genMu    sync.Mutex
	lastGens map[sharedtypes.TrackID]int64
}

// NewLeaderboardService creates a new LeaderboardService.
func NewLeaderboardService(
	repo leaderboarddb.Repository,
	registry registrydb.Repository,
	scoring scoringdb.Repository,
	voting votingdb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics leaderboardmetrics.LeaderboardMetrics,
	tracer trace.Tracer,
	db *bun.DB,
) *LeaderboardService {
	return &LeaderboardService{
		repo:     repo,
		registry: registry,
		scoring:  scoring,
		voting:   voting,
		EventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		db:       db,
		lastGens: make(map[sharedtypes.TrackID]int64),
	}
}

// nextGeneration mints a strictly increasing generation for the track. Wall
// clock nanoseconds seed it so generations stay monotonic across restarts
// even though a fresh process starts with an empty map.
func (s *LeaderboardService) nextGeneration(trackID sharedtypes.TrackID) int64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	gen := time.Now().UnixNano()
	if last := s.lastGens[trackID]; gen <= last {
		gen = last + 1
	}
	s.lastGens[trackID] = gen
	return gen
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a leaderboard operation with tracing, metrics, and
// panic recovery.
func withTelemetry[S any, F any](
	s *LeaderboardService,
	ctx context.Context,
	operationName string,
	subjectID sharedtypes.TrackID,
	op operationFunc[S, F],
) (result results.OperationResult[S, F], err error) {
	ctx, span := s.tracer.Start(ctx, operationName, trace.WithAttributes(
		attribute.String("operation", operationName),
		attribute.String("subject_id", subjectID.String()),
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
				attr.UUID("subject_id", subjectID),
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
			attr.UUID("subject_id", subjectID),
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
			attr.UUID("subject_id", subjectID),
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
	s *LeaderboardService,
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
