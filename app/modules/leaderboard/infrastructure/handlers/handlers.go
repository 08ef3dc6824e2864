package leaderboardhandlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"go.opentelemetry.io/otel/trace"

	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	"github.com/hackboard-live/hackboard/app/shared/utils"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	leaderboardmetrics "github.com/hackboard-live/hackboard/internal/observability/metrics/leaderboard"
)

// Handlers is the contract for leaderboard event handlers.
type Handlers interface {
	HandleTeamScoresUpdated(msg *message.Message) ([]*message.Message, error)
	HandleVoteCast(msg *message.Message) ([]*message.Message, error)
}

// LeaderboardHandlers handles leaderboard-related events.
type LeaderboardHandlers struct {
	service leaderboardservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
	helpers utils.Helpers
	metrics leaderboardmetrics.LeaderboardMetrics
}

// NewLeaderboardHandlers creates a new instance of LeaderboardHandlers.
func NewLeaderboardHandlers(
	service leaderboardservice.Service,
	logger *slog.Logger,
	tracer trace.Tracer,
	helpers utils.Helpers,
	metrics leaderboardmetrics.LeaderboardMetrics,
) Handlers {
	return &LeaderboardHandlers{
		service: service,
		logger:  logger,
		tracer:  tracer,
		helpers: helpers,
		metrics: metrics,
	}
}

// handlerWrapper wraps a handler with payload unmarshalling, tracing, and
// handler metrics.
func (h *LeaderboardHandlers) handlerWrapper(
	handlerName string,
	newPayload func() any,
	handlerFunc func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error),
) message.HandlerFunc {
	return func(msg *message.Message) ([]*message.Message, error) {
		h.metrics.RecordHandlerAttempt(handlerName)
		start := time.Now()
		defer func() {
			h.metrics.RecordHandlerDuration(handlerName, time.Since(start).Seconds())
		}()

		ctx, span := h.tracer.Start(msg.Context(), handlerName)
		defer span.End()

		payload := newPayload()
		if err := h.helpers.UnmarshalPayload(msg, payload); err != nil {
			h.logger.ErrorContext(ctx, "Failed to unmarshal payload",
				attr.String("handler", handlerName),
				attr.CorrelationIDFromMsg(msg),
				attr.Error(err),
			)
			h.metrics.RecordHandlerFailure(handlerName)
			return nil, err
		}

		messages, err := handlerFunc(ctx, msg, payload)
		if err != nil {
			h.metrics.RecordHandlerFailure(handlerName)
			return nil, err
		}

		h.metrics.RecordHandlerSuccess(handlerName)
		return messages, nil
	}
}
