package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/uptrace/bun"

	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// QueueService defines the contract for scheduled finalization jobs.
type QueueService interface {
	// ScheduleFinalize schedules a track finalization at the given time.
	// Scheduling again for the same track replaces nothing; the unique
	// constraint on args keeps a single pending job per track.
	ScheduleFinalize(ctx context.Context, trackID sharedtypes.TrackID, at time.Time) error
	// CancelTrackJobs cancels pending finalization jobs for a track.
	CancelTrackJobs(ctx context.Context, trackID sharedtypes.TrackID) error
	// GetScheduledJobs returns pending finalization jobs for a track.
	GetScheduledJobs(ctx context.Context, trackID sharedtypes.TrackID) ([]JobInfo, error)
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

var _ QueueService = (*Service)(nil)

// Service schedules finalization jobs with River.
type Service struct {
	client *river.Client[pgx.Tx]
	pool   *pgxpool.Pool
	logger *slog.Logger
	db     *bun.DB
}

// NewService creates a River-backed queue service. River requires a pgx
// pool; the bun handle is only used for job table inspection.
func NewService(
	ctx context.Context,
	bunDB *bun.DB,
	logger *slog.Logger,
	dsn string,
	leaderboardSvc leaderboardservice.Service,
) (*Service, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	workers := river.NewWorkers()
	river.AddWorker(workers, NewFinalizeTrackWorker(leaderboardSvc, logger))

	riverClient, err := river.NewClient(riverpgxv5.New(pool), &river.Config{
		Queues: map[string]river.QueueConfig{
			river.QueueDefault: {MaxWorkers: 10},
		},
		Workers: workers,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to create River client: %w", err)
	}

	logger.InfoContext(ctx, "Leaderboard queue service initialized")

	return &Service{
		client: riverClient,
		pool:   pool,
		logger: logger,
		db:     bunDB,
	}, nil
}

// Start starts the River client.
func (s *Service) Start(ctx context.Context) error {
	if err := s.client.Start(ctx); err != nil {
		return fmt.Errorf("failed to start River client: %w", err)
	}
	s.logger.InfoContext(ctx, "Leaderboard queue service started")
	return nil
}

// Stop stops the River client and closes the pool.
func (s *Service) Stop(ctx context.Context) error {
	if err := s.client.Stop(ctx); err != nil {
		return fmt.Errorf("failed to stop River client: %w", err)
	}
	s.pool.Close()
	s.logger.InfoContext(ctx, "Leaderboard queue service stopped")
	return nil
}

// ScheduleFinalize schedules a track finalization.
func (s *Service) ScheduleFinalize(ctx context.Context, trackID sharedtypes.TrackID, at time.Time) error {
	now := time.Now()
	if at.Before(now.Add(5 * time.Second)) {
		return fmt.Errorf("finalize time must be at least 5 seconds in the future")
	}

	jobResult, err := s.client.Insert(ctx, FinalizeTrackJob{TrackID: trackID}, &river.InsertOpts{
		ScheduledAt: at,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
		},
	})
	if err != nil {
		return fmt.Errorf("failed to schedule finalization: %w", err)
	}

	s.logger.InfoContext(ctx, "Track finalization scheduled",
		attr.UUID("track_id", trackID),
		attr.Time("scheduled_at", at),
		attr.Int64("job_id", jobResult.Job.ID),
	)
	return nil
}

// CancelTrackJobs cancels pending finalization jobs for a track.
func (s *Service) CancelTrackJobs(ctx context.Context, trackID sharedtypes.TrackID) error {
	type riverJobRow struct {
		ID int64 `bun:"id"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id").
		Where("kind = ?", FinalizeTrackJob{}.Kind()).
		Where("state IN (?, ?)", "available", "scheduled").
		Where("args->>'track_id' = ?", trackID.String()).
		Scan(ctx, &jobs)
	if err != nil {
		return fmt.Errorf("failed to query jobs for cancellation: %w", err)
	}

	cancelled := 0
	for _, job := range jobs {
		if _, err := s.client.JobCancel(ctx, job.ID); err != nil {
			s.logger.WarnContext(ctx, "Failed to cancel job",
				attr.Int64("job_id", job.ID),
				attr.Error(err),
			)
			continue
		}
		cancelled++
	}

	s.logger.InfoContext(ctx, "Finalization jobs cancelled",
		attr.UUID("track_id", trackID),
		attr.Int("total_found", len(jobs)),
		attr.Int("cancelled", cancelled),
	)
	return nil
}

// GetScheduledJobs returns pending finalization jobs for a track.
func (s *Service) GetScheduledJobs(ctx context.Context, trackID sharedtypes.TrackID) ([]JobInfo, error) {
	type riverJobRow struct {
		ID          int64      `bun:"id"`
		Kind        string     `bun:"kind"`
		State       string     `bun:"state"`
		ScheduledAt *time.Time `bun:"scheduled_at"`
		CreatedAt   time.Time  `bun:"created_at"`
		Attempt     int16      `bun:"attempt"`
		MaxAttempts int16      `bun:"max_attempts"`
	}

	var jobs []riverJobRow
	err := s.db.NewSelect().
		Table("river_job").
		Column("id", "kind", "state", "scheduled_at", "created_at", "attempt", "max_attempts").
		Where("kind = ?", FinalizeTrackJob{}.Kind()).
		Where("args->>'track_id' = ?", trackID.String()).
		Order("scheduled_at ASC NULLS LAST", "created_at ASC").
		Scan(ctx, &jobs)
	if err != nil {
		return nil, fmt.Errorf("failed to query scheduled jobs: %w", err)
	}

	result := make([]JobInfo, len(jobs))
	for i, job := range jobs {
		scheduledAt := ""
		if job.ScheduledAt != nil {
			scheduledAt = job.ScheduledAt.Format(time.RFC3339)
		}
		result[i] = JobInfo{
			ID:          job.ID,
			Kind:        job.Kind,
			TrackID:     trackID.String(),
			State:       job.State,
			ScheduledAt: scheduledAt,
			CreatedAt:   job.CreatedAt.Format(time.RFC3339),
			Attempt:     int(job.Attempt),
			MaxAttempts: int(job.MaxAttempts),
		}
	}
	return result, nil
}
