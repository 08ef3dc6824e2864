package scoring

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/hackboard-live/hackboard/app/eventbus"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringservice "github.com/hackboard-live/hackboard/app/modules/scoring/application"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/internal/observability"
)

// Module represents the scoring module: judge score submissions.
type Module struct {
	EventBus       eventbus.EventBus
	ScoringService scoringservice.Service
	Repo           scoringdb.Repository
	config         *config.Config
	observability  *observability.Observability
	cancelFunc     context.CancelFunc
}

// NewScoringModule creates a new instance of the Scoring module.
func NewScoringModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	registryRepo registrydb.Repository,
	eventBus eventbus.EventBus,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.ScoringMetrics
	tracer := obs.Provider.Tracer

	logger.InfoContext(ctx, "scoring.NewScoringModule called")

	repo := &scoringdb.RepositoryImpl{DB: db}
	scoringService := scoringservice.NewScoringService(repo, registryRepo, eventBus, logger, metrics, tracer, db)

	return &Module{
		EventBus:       eventBus,
		ScoringService: scoringService,
		Repo:           repo,
		config:         cfg,
		observability:  obs,
	}, nil
}

// Run starts the scoring module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting scoring module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Scoring module goroutine stopped")
}

// Close stops the scoring module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping scoring module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Scoring module stopped")
	return nil
}
