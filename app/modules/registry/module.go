package registry

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	registryservice "github.com/hackboard-live/hackboard/app/modules/registry/application"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/internal/observability"
)

// Module represents the registry module: tracks, rooms, teams, criteria.
type Module struct {
	RegistryService registryservice.Service
	Repo            registrydb.Repository
	config          *config.Config
	observability   *observability.Observability
	cancelFunc      context.CancelFunc
}

// NewRegistryModule creates a new instance of the Registry module.
func NewRegistryModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.RegistryMetrics
	tracer := obs.Provider.Tracer

	logger.InfoContext(ctx, "registry.NewRegistryModule called")

	repo := &registrydb.RepositoryImpl{DB: db}
	registryService := registryservice.NewRegistryService(repo, logger, metrics, tracer)

	return &Module{
		RegistryService: registryService,
		Repo:            repo,
		config:          cfg,
		observability:   obs,
	}, nil
}

// Run starts the registry module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting registry module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Registry module goroutine stopped")
}

// Close stops the registry module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping registry module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Registry module stopped")
	return nil
}
