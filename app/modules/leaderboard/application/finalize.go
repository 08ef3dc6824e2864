package leaderboardservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/hackboard-live/hackboard/app/modules/leaderboard/events"
	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// FinalizeTrack computes every team's final score, writes it to the team
// record, and locks the track's rooms, all in one transaction. Running it
// again rewrites the same totals and re-locks already locked rooms, so it
// is safe to retry.
func (s *LeaderboardService) FinalizeTrack(ctx context.Context, trackID sharedtypes.TrackID) (FinalizeTrackResult, error) {
	return withTelemetry(s, ctx, "FinalizeTrack", trackID, func(ctx context.Context) (FinalizeTrackResult, error) {
		data, err := s.fetchTrackData(ctx, trackID)
		if err != nil {
			return FinalizeTrackResult{}, err
		}

		aggregates, skipped := aggregate(data)
		if skipped > 0 {
			s.logger.WarnContext(ctx, "Skipped score rows referencing foreign criteria",
				attr.UUID("track_id", trackID),
				attr.Int("skipped_rows", skipped),
			)
			for i := 0; i < skipped; i++ {
				s.metrics.RecordForeignCriterionSkipped(ctx)
			}
		}

		var roomsLocked int
		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (FinalizeTrackResult, error) {
			for _, agg := range aggregates {
				if err := s.registry.WriteTeamTotalScore(ctx, db, agg.Team.ID, agg.FinalScore); err != nil {
					return FinalizeTrackResult{}, err
				}
			}

			locked, err := s.registry.LockRoomsForTrack(ctx, db, trackID)
			if err != nil {
				return FinalizeTrackResult{}, err
			}
			roomsLocked = locked

			return results.SuccessResult[TrackFinalizedPayload, FinalizeFailedPayload](TrackFinalizedPayload{
				TrackID:     trackID,
				NumTeams:    len(aggregates),
				RoomsLocked: locked,
			}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		s.metrics.RecordFinalize(ctx, len(aggregates))

		// Persist the final standings so reads after finalization serve the
		// same numbers that were written to the team records.
		standings := leaderboarddomain.Rank(aggregates)
		if _, err := s.repo.UpsertSnapshot(ctx, nil, &leaderboarddb.Snapshot{
			TrackID:    trackID,
			Generation: s.nextGeneration(trackID),
			Standings:  standings,
			ComputedAt: time.Now().UTC(),
		}); err != nil {
			s.logger.WarnContext(ctx, "Failed to persist final standings snapshot",
				attr.UUID("track_id", trackID),
				attr.Error(err),
			)
		}

		if err := s.publishTrackFinalized(ctx, trackID, len(aggregates), roomsLocked); err != nil {
			s.logger.WarnContext(ctx, "Failed to publish track-finalized event",
				attr.UUID("track_id", trackID),
				attr.Error(err),
			)
		}

		return result, nil
	})
}

func (s *LeaderboardService) publishTrackFinalized(ctx context.Context, trackID sharedtypes.TrackID, numTeams, roomsLocked int) error {
	payload := leaderboardevents.TrackFinalizedPayloadV1{
		TrackID:     trackID,
		NumTeams:    numTeams,
		RoomsLocked: roomsLocked,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal track-finalized payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return s.EventBus.Publish(leaderboardevents.TrackFinalizedV1, msg)
}
