package leaderboardrouter

import (
	"context"
	"log/slog"

	"github.com/ThreeDotsLabs/watermill/components/metrics"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hackboard-live/hackboard/app/eventbus"
	leaderboardevents "github.com/hackboard-live/hackboard/app/modules/leaderboard/events"
	leaderboardhandlers "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/handlers"
	scoringevents "github.com/hackboard-live/hackboard/app/modules/scoring/events"
	votingevents "github.com/hackboard-live/hackboard/app/modules/voting/events"
	"github.com/hackboard-live/hackboard/app/shared/utils"
)

// LeaderboardRouter binds the score and vote event topics to the
// aggregation engine.
type LeaderboardRouter struct {
	logger           *slog.Logger
	Router           *message.Router
	subscriber       eventbus.EventBus
	publisher        eventbus.EventBus
	middlewareHelper utils.MiddlewareHelpers
	metricsBuilder   *metrics.PrometheusMetricsBuilder
}

// NewLeaderboardRouter creates a new instance of the router.
func NewLeaderboardRouter(
	logger *slog.Logger,
	router *message.Router,
	subscriber eventbus.EventBus,
	publisher eventbus.EventBus,
	prometheusRegistry *prometheus.Registry,
) *LeaderboardRouter {
	var metricsBuilder *metrics.PrometheusMetricsBuilder
	if prometheusRegistry != nil {
		builder := metrics.NewPrometheusMetricsBuilder(prometheusRegistry, "", "")
		metricsBuilder = &builder
	}

	return &LeaderboardRouter{
		logger:           logger,
		Router:           router,
		subscriber:       subscriber,
		publisher:        publisher,
		middlewareHelper: utils.NewMiddlewareHelper(),
		metricsBuilder:   metricsBuilder,
	}
}

// Configure sets up the middlewares and registers the module's event
// handlers.
func (r *LeaderboardRouter) Configure(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	if r.metricsBuilder != nil {
		r.logger.Info("Adding Prometheus router metrics middleware for Leaderboard")
		r.metricsBuilder.AddPrometheusRouterMetrics(r.Router)
	}

	r.Router.AddMiddleware(
		middleware.CorrelationID,
		r.middlewareHelper.CommonMetadataMiddleware("leaderboard"),
		middleware.Recoverer,
	)

	return r.RegisterHandlers(ctx, handlers)
}

// RegisterHandlers binds event topics to their corresponding handler logic.
// Both triggers recompute from raw rows and broadcast the new standings.
func (r *LeaderboardRouter) RegisterHandlers(ctx context.Context, handlers leaderboardhandlers.Handlers) error {
	r.logger.InfoContext(ctx, "Registering Leaderboard Event Handlers")

	r.Router.AddHandler(
		"leaderboard."+scoringevents.TeamScoresUpdatedV1,
		scoringevents.TeamScoresUpdatedV1,
		r.subscriber,
		leaderboardevents.StandingsUpdatedV1,
		r.publisher,
		handlers.HandleTeamScoresUpdated,
	)

	r.Router.AddHandler(
		"leaderboard."+votingevents.VoteCastV1,
		votingevents.VoteCastV1,
		r.subscriber,
		leaderboardevents.StandingsUpdatedV1,
		r.publisher,
		handlers.HandleVoteCast,
	)

	return nil
}

// Close stops the router and cleans up resources.
func (r *LeaderboardRouter) Close() error {
	return r.Router.Close()
}
