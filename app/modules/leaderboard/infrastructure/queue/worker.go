package leaderboardqueue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/riverqueue/river"

	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
)

// FinalizeTrackWorker executes scheduled track finalizations.
type FinalizeTrackWorker struct {
	river.WorkerDefaults[FinalizeTrackJob]
	service leaderboardservice.Service
	logger  *slog.Logger
}

// NewFinalizeTrackWorker creates a new FinalizeTrackWorker.
func NewFinalizeTrackWorker(service leaderboardservice.Service, logger *slog.Logger) *FinalizeTrackWorker {
	return &FinalizeTrackWorker{
		service: service,
		logger:  logger,
	}
}

// Work runs the finalization. Errors bubble up so River retries the job;
// finalization is idempotent, so a retry after a partial failure is safe.
func (w *FinalizeTrackWorker) Work(ctx context.Context, job *river.Job[FinalizeTrackJob]) error {
	trackID := job.Args.TrackID

	w.logger.InfoContext(ctx, "Running scheduled track finalization",
		attr.UUID("track_id", trackID),
		attr.Int64("job_id", job.ID),
	)

	result, err := w.service.FinalizeTrack(ctx, trackID)
	if err != nil {
		return fmt.Errorf("scheduled finalization failed: %w", err)
	}
	if result.Failure != nil {
		return fmt.Errorf("scheduled finalization rejected: %s", result.Failure.Reason)
	}

	w.logger.InfoContext(ctx, "Scheduled track finalization completed",
		attr.UUID("track_id", trackID),
		attr.Int("num_teams", result.Success.NumTeams),
		attr.Int("rooms_locked", result.Success.RoomsLocked),
	)
	return nil
}
