package voting

import (
	"context"
	"sync"

	"github.com/uptrace/bun"

	"github.com/hackboard-live/hackboard/app/eventbus"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	votingservice "github.com/hackboard-live/hackboard/app/modules/voting/application"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/internal/observability"
)

// Module represents the voting module: anonymous public votes.
type Module struct {
	EventBus      eventbus.EventBus
	VotingService votingservice.Service
	Repo          votingdb.Repository
	config        *config.Config
	observability *observability.Observability
	cancelFunc    context.CancelFunc
}

// NewVotingModule creates a new instance of the Voting module.
func NewVotingModule(
	ctx context.Context,
	cfg *config.Config,
	obs *observability.Observability,
	db *bun.DB,
	registryRepo registrydb.Repository,
	eventBus eventbus.EventBus,
) (*Module, error) {
	logger := obs.Provider.Logger
	metrics := obs.Registry.VotingMetrics
	tracer := obs.Provider.Tracer

	logger.InfoContext(ctx, "voting.NewVotingModule called")

	repo := &votingdb.RepositoryImpl{DB: db}
	votingService := votingservice.NewVotingService(
		repo,
		registryRepo,
		eventBus,
		logger,
		metrics,
		tracer,
		votingservice.RateLimitConfig{
			PerMinute: cfg.Voting.SessionRatePerMinute,
			Burst:     cfg.Voting.SessionBurst,
		},
	)

	return &Module{
		EventBus:      eventBus,
		VotingService: votingService,
		Repo:          repo,
		config:        cfg,
		observability: obs,
	}, nil
}

// Run starts the voting module.
func (m *Module) Run(ctx context.Context, wg *sync.WaitGroup) {
	logger := m.observability.Provider.Logger
	logger.InfoContext(ctx, "Starting voting module")

	ctx, cancel := context.WithCancel(ctx)
	m.cancelFunc = cancel
	defer cancel()

	if wg != nil {
		defer wg.Done()
	}

	<-ctx.Done()
	logger.InfoContext(ctx, "Voting module goroutine stopped")
}

// Close stops the voting module.
func (m *Module) Close() error {
	logger := m.observability.Provider.Logger
	logger.Info("Stopping voting module")

	if m.cancelFunc != nil {
		m.cancelFunc()
	}

	logger.Info("Voting module stopped")
	return nil
}
