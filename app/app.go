// Package app wires the modules, the event bus, and the HTTP API into one
// process.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"

	"github.com/hackboard-live/hackboard/api"
	"github.com/hackboard-live/hackboard/app/eventbus"
	"github.com/hackboard-live/hackboard/app/modules/leaderboard"
	"github.com/hackboard-live/hackboard/app/modules/registry"
	"github.com/hackboard-live/hackboard/app/modules/scoring"
	"github.com/hackboard-live/hackboard/app/modules/voting"
	"github.com/hackboard-live/hackboard/app/shared/utils"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/db/bundb"
	"github.com/hackboard-live/hackboard/internal/observability"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	"github.com/hackboard-live/hackboard/pkg/jwt"
)

// App is the composed application.
type App struct {
	Config            *config.Config
	Observability     *observability.Observability
	DB                *bun.DB
	EventBus          eventbus.EventBus
	WatermillRouter   *message.Router
	RegistryModule    *registry.Module
	ScoringModule     *scoring.Module
	VotingModule      *voting.Module
	LeaderboardModule *leaderboard.Module
	APIServer         *api.Server

	metricsServer *http.Server
	helpers       utils.Helpers
	cancelFunc    context.CancelFunc
}

// Initialize builds every component. Nothing runs until Run is called.
func (app *App) Initialize(ctx context.Context, cfg *config.Config, obs *observability.Observability) error {
	app.Config = cfg
	app.Observability = obs
	logger := obs.Provider.Logger

	db, err := bundb.NewDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.DB = db

	eventBus, err := eventbus.NewEventBus(ctx, cfg.NATS.URL, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize event bus: %w", err)
	}
	app.EventBus = eventBus

	if err := eventbus.InitializeStreams(ctx, eventBus); err != nil {
		return fmt.Errorf("failed to initialize streams: %w", err)
	}

	watermillLogger := watermill.NewSlogLogger(logger)
	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return fmt.Errorf("failed to create watermill router: %w", err)
	}
	router.AddMiddleware(middleware.Retry{
		MaxRetries:      3,
		InitialInterval: 100 * time.Millisecond,
		Logger:          watermillLogger,
	}.Middleware)
	app.WatermillRouter = router

	app.helpers = utils.NewHelpers()

	registryModule, err := registry.NewRegistryModule(ctx, cfg, obs, db)
	if err != nil {
		return fmt.Errorf("failed to initialize registry module: %w", err)
	}
	app.RegistryModule = registryModule

	scoringModule, err := scoring.NewScoringModule(ctx, cfg, obs, db, registryModule.Repo, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize scoring module: %w", err)
	}
	app.ScoringModule = scoringModule

	votingModule, err := voting.NewVotingModule(ctx, cfg, obs, db, registryModule.Repo, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize voting module: %w", err)
	}
	app.VotingModule = votingModule

	leaderboardModule, err := leaderboard.NewLeaderboardModule(
		ctx, cfg, obs, db,
		registryModule.Repo, scoringModule.Repo, votingModule.Repo,
		eventBus, router, app.helpers,
	)
	if err != nil {
		return fmt.Errorf("failed to initialize leaderboard module: %w", err)
	}
	app.LeaderboardModule = leaderboardModule

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.DefaultTTL)
	app.APIServer = api.NewServer(
		cfg.HTTP.Addr,
		logger,
		api.NewAuth(jwtService),
		api.Handlers{
			Registry:    api.NewRegistryHandler(registryModule.RegistryService),
			Scoring:     api.NewScoringHandler(scoringModule.ScoringService),
			Voting:      api.NewVotingHandler(votingModule.VotingService),
			Leaderboard: api.NewLeaderboardHandler(leaderboardModule.LeaderboardService, leaderboardModule.QueueService),
		},
		obs.Provider.PrometheusRegistry,
	)

	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(obs.Provider.PrometheusRegistry, promhttp.HandlerOpts{}))
	app.metricsServer = &http.Server{
		Addr:              cfg.Observability.MetricsAddress,
		Handler:           metricsMux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Run starts the router, the modules, and the HTTP servers, then blocks
// until the context is canceled.
func (app *App) Run(ctx context.Context) error {
	logger := app.Observability.Provider.Logger

	ctx, cancel := context.WithCancel(ctx)
	app.cancelFunc = cancel
	defer cancel()

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.WatermillRouter.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Watermill router stopped with error", attr.Error(err))
			cancel()
		}
	}()

	select {
	case <-app.WatermillRouter.Running():
	case <-ctx.Done():
		wg.Wait()
		return ctx.Err()
	}

	for _, module := range []interface {
		Run(ctx context.Context, wg *sync.WaitGroup)
	}{
		app.RegistryModule, app.ScoringModule, app.VotingModule, app.LeaderboardModule,
	} {
		wg.Add(1)
		go module.Run(ctx, &wg)
	}

	go func() {
		if err := app.APIServer.Start(); err != nil {
			logger.Error("HTTP API server stopped with error", attr.Error(err))
			cancel()
		}
	}()

	go func() {
		logger.Info("Starting metrics server", attr.String("addr", app.metricsServer.Addr))
		if err := app.metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Metrics server stopped with error", attr.Error(err))
		}
	}()

	logger.InfoContext(ctx, "Application started")
	<-ctx.Done()

	wg.Wait()
	return nil
}

// Close shuts everything down in reverse dependency order.
func (app *App) Close() error {
	logger := app.Observability.Provider.Logger
	logger.Info("Shutting down application")

	if app.cancelFunc != nil {
		app.cancelFunc()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if app.APIServer != nil {
		if err := app.APIServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down HTTP API server", attr.Error(err))
		}
	}
	if app.metricsServer != nil {
		if err := app.metricsServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("Error shutting down metrics server", attr.Error(err))
		}
	}

	for _, closer := range []interface{ Close() error }{
		app.LeaderboardModule, app.VotingModule, app.ScoringModule, app.RegistryModule,
	} {
		if closer != nil {
			if err := closer.Close(); err != nil {
				logger.Error("Error closing module", attr.Error(err))
			}
		}
	}

	if app.WatermillRouter != nil {
		if err := app.WatermillRouter.Close(); err != nil {
			logger.Error("Error closing watermill router", attr.Error(err))
		}
	}
	if app.EventBus != nil {
		if err := app.EventBus.Close(); err != nil {
			logger.Error("Error closing event bus", attr.Error(err))
		}
	}
	if app.DB != nil {
		if err := app.DB.Close(); err != nil {
			logger.Error("Error closing database", attr.Error(err))
		}
	}

	logger.Info("Application shut down")
	return nil
}

// ParseLogLevel maps a config string to a slog level.
func ParseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
