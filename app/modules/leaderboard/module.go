package leaderboard

import (
	"context"
	"fmt"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	"github.com/hackboard-live/hackboard/app/eventbus"
	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	leaderboardhandlers "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/handlers"
	leaderboardqueue "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/queue"
	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	leaderboardrouter "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/router"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/utils"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/internal/observability"
)

// Module represents the leaderboard module: the aggregation engine.
type Module struct {
	EventBus           eventbus.EventBus
	LeaderboardService leaderboardservice.Service
	QueueService       leaderboardqueue.QueueService
	LeaderboardRouter  *leaderboardrouter.LeaderboardRouter
	config             *config.Config
	observability      *observability.Observability
	cancelFunc         context.CancelFunc
}

// NewLeaderboardModule creates a new instance of the Leaderboard module.
func NewLeaderboardModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	registryRepo registrydb.Repository,
	scoringRepo scoringdb.Repository,
	votingRepo votingdb.Repository,
	eventBus eventbus.EventBus,
	router *message.Router,
	helpers utils.Helpers,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.LeaderboardMetrics
	tracer := obs.Provider.Tracer

	logger.InfoContext(ctx, "leaderboard.NewLeaderboardModule called")

	repo := &leaderboarddb.RepositoryImpl{DB: db}
	leaderboardService := leaderboardservice.NewLeaderboardService(
		repo, registryRepo, scoringRepo, votingRepo, eventBus, logger, metrics, tracer, db,
	)

	queueService, err := leaderboardqueue.NewService(ctx, db, logger, cfg.Postgres.DSN, leaderboardService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize leaderboard queue service: %w", err)
	}

	handlers := leaderboardhandlers.NewLeaderboardHandlers(leaderboardService, logger, tracer, helpers, metrics)

	lbRouter := leaderboardrouter.NewLeaderboardRouter(logger, router, eventBus, eventBus, obs.Provider.PrometheusRegistry)
	if err := lbRouter.Configure(ctx, handlers); err != nil {
		return nil, fmt.Errorf("failed to configure leaderboard router: %w", err)
	}

	return &Module{
		EventBus:           eventBus,
		LeaderboardService: leaderboardService,
		QueueService:       queueService,
		LeaderboardRouter:  lbRouter,
		config:             cfg,
		observability:      obs,
	}, nil
}

// Run starts the leaderboard module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting leaderboard module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	if err := m.QueueService.Start(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to start leaderboard queue service", "error", err)
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Leaderboard module goroutine stopped")
}

// Close stops the leaderboard module and cleans up resources.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping leaderboard module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	if m.QueueService != nil {
		if err := m.QueueService.Stop(context.Background()); err != nil {
			logger.Error("Failed to stop leaderboard queue service", "error", err)
		}
	}

	logger.Info("Leaderboard module stopped")
	return nil
}
