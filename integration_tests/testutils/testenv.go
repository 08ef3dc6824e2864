// Package testutils builds a full application environment against real
// Postgres and NATS containers for integration tests.
package testutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/testcontainers/testcontainers-go/modules/nats"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"

	"github.com/hackboard-live/hackboard/app/eventbus"
	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	leaderboardmigrations "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories/migrations"
	registryservice "github.com/hackboard-live/hackboard/app/modules/registry/application"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	registrymigrations "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories/migrations"
	scoringservice "github.com/hackboard-live/hackboard/app/modules/scoring/application"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	scoringmigrations "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories/migrations"
	votingservice "github.com/hackboard-live/hackboard/app/modules/voting/application"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	votingmigrations "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories/migrations"
	"github.com/hackboard-live/hackboard/db/bundb"
	"github.com/hackboard-live/hackboard/integration_tests/containers"
	"github.com/hackboard-live/hackboard/internal/observability"
)

// TestEnvironment is a fully wired stack over throwaway containers.
type TestEnvironment struct {
	DB       *bun.DB
	EventBus eventbus.EventBus

	RegistryService    registryservice.Service
	ScoringService     scoringservice.Service
	VotingService      votingservice.Service
	LeaderboardService leaderboardservice.Service

	RegistryRepo registrydb.Repository

	pgContainer   *postgres.PostgresContainer
	natsContainer *nats.NATSContainer
}

// NewTestEnvironment starts Postgres and NATS containers, migrates the
// schema, and wires the services the way the application does.
func NewTestEnvironment(ctx context.Context) (*TestEnvironment, error) {
	env := &TestEnvironment{}

	pgContainer, dsn, err := containers.SetupPostgresContainer(ctx)
	if err != nil {
		return nil, err
	}
	env.pgContainer = pgContainer

	natsContainer, natsURL, err := containers.SetupNatsContainer(ctx)
	if err != nil {
		env.Cleanup(ctx)
		return nil, err
	}
	env.natsContainer = natsContainer

	db, err := bundb.NewDB(ctx, dsn)
	if err != nil {
		env.Cleanup(ctx)
		return nil, err
	}
	env.DB = db

	if err := runMigrations(ctx, db); err != nil {
		env.Cleanup(ctx)
		return nil, err
	}

	obs := observability.NewForTest()
	logger := obs.Provider.Logger

	bus, err := eventbus.NewEventBus(ctx, natsURL, logger)
	if err != nil {
		env.Cleanup(ctx)
		return nil, err
	}
	env.EventBus = bus

	if err := eventbus.InitializeStreams(ctx, bus); err != nil {
		env.Cleanup(ctx)
		return nil, err
	}

	registryRepo := &registrydb.RepositoryImpl{DB: db}
	scoringRepo := &scoringdb.RepositoryImpl{DB: db}
	votingRepo := &votingdb.RepositoryImpl{DB: db}
	snapshotRepo := &leaderboarddb.RepositoryImpl{DB: db}

	env.RegistryRepo = registryRepo
	env.RegistryService = registryservice.NewRegistryService(
		registryRepo, logger, obs.Registry.RegistryMetrics, obs.Provider.Tracer,
	)
	env.ScoringService = scoringservice.NewScoringService(
		scoringRepo, registryRepo, bus, logger, obs.Registry.ScoringMetrics, obs.Provider.Tracer, db,
	)
	env.VotingService = votingservice.NewVotingService(
		votingRepo, registryRepo, bus, logger, obs.Registry.VotingMetrics, obs.Provider.Tracer,
		votingservice.RateLimitConfig{},
	)
	env.LeaderboardService = leaderboardservice.NewLeaderboardService(
		snapshotRepo, registryRepo, scoringRepo, votingRepo, bus,
		logger, obs.Registry.LeaderboardMetrics, obs.Provider.Tracer, db,
	)

	return env, nil
}

func runMigrations(ctx context.Context, db *bun.DB) error {
	sets := []*migrate.Migrations{
		registrymigrations.Migrations,
		scoringmigrations.Migrations,
		votingmigrations.Migrations,
		leaderboardmigrations.Migrations,
	}
	for _, set := range sets {
		migrator := migrate.NewMigrator(db, set)
		if err := migrator.Init(ctx); err != nil {
			return fmt.Errorf("failed to init migrations: %w", err)
		}
		if _, err := migrator.Migrate(ctx); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
	}
	return nil
}

// Cleanup tears down everything the environment started.
func (env *TestEnvironment) Cleanup(ctx context.Context) {
	logger := slog.Default()
	if env.EventBus != nil {
		if err := env.EventBus.Close(); err != nil {
			logger.Warn("failed to close event bus", "error", err)
		}
	}
	if env.DB != nil {
		if err := env.DB.Close(); err != nil {
			logger.Warn("failed to close database", "error", err)
		}
	}
	if env.natsContainer != nil {
		if err := env.natsContainer.Terminate(ctx); err != nil {
			logger.Warn("failed to terminate NATS container", "error", err)
		}
	}
	if env.pgContainer != nil {
		if err := env.pgContainer.Terminate(ctx); err != nil {
			logger.Warn("failed to terminate postgres container", "error", err)
		}
	}
}
