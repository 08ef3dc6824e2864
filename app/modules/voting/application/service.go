package votingservice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/eventbus"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	votingmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/voting"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// RateLimitConfig bounds how often a single voter session may cast votes.
type RateLimitConfig struct {
	PerMinute int
	Burst     int
}

// VotingService implements the Service interface.
type VotingService struct {
	repo     votingdb.Repository
	registry registrydb.Repository
	EventBus eventbus.EventBus
	logger   *slog.Logger
	metrics  votingmetrics.VotingMetrics
	tracer   trace.Tracer

	mu       sync.Mutex
	limiters map[sharedtypes.SessionID]*rate.Limiter
	limitCfg RateLimitConfig
}

// NewVotingService creates a new VotingService.
func NewVotingService(
	repo votingdb.Repository,
	registry registrydb.Repository,
	eventBus eventbus.EventBus,
	logger *slog.Logger,
	metrics votingmetrics.VotingMetrics,
	tracer trace.Tracer,
	limitCfg RateLimitConfig,
) *VotingService {
	return &VotingService{
		repo:     repo,
		registry: registry,
		EventBus: eventBus,
		logger:   logger,
		metrics:  metrics,
		tracer:   tracer,
		limiters: make(map[sharedtypes.SessionID]*rate.Limiter),
		limitCfg: limitCfg,
	}
}

// maxTrackedSessions bounds the limiter table. When it fills, the table is
// reset and active sessions rebuild their limiters on the next vote.
const maxTrackedSessions = 8192

// sessionLimiter returns the rate limiter for a voter session, creating it
// on first use. A PerMinute of zero or less disables limiting.
func (s *VotingService) sessionLimiter(sessionID sharedtypes.SessionID) *rate.Limiter {
	if s.limitCfg.PerMinute <= 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	limiter, ok := s.limiters[sessionID]
	if !ok {
		if len(s.limiters) >= maxTrackedSessions {
			clear(s.limiters)
		}
		limiter = rate.NewLimiter(rate.Limit(float64(s.limitCfg.PerMinute)/60.0), s.limitCfg.Burst)
		s.limiters[sessionID] = limiter
	}
	return limiter
}

// operationFunc is the generic signature for service operation functions.
type operationFunc[S any, F any] func(ctx context.Context) (results.OperationResult[S, F], error)

// withTelemetry wraps a voting operation with tracing, metrics, and panic
// recovery.
func withTelemetry[S any, F any](
	s *VotingService,
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
