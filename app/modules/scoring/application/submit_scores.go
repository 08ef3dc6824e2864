package scoringservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringevents "github.com/hackboard-live/hackboard/app/modules/scoring/events"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// SubmitScores replaces the judge's score rows for a team with the given
// entries. Lock check, validation, delete, and insert all run inside one
// transaction so readers never observe a half-applied submission and the
// lock cannot be raced between check and write.
func (s *ScoringService) SubmitScores(
	ctx context.Context,
	judge JudgeIdentity,
	teamID sharedtypes.TeamID,
	entries []sharedtypes.ScoreEntry,
) (SubmitScoresResult, error) {
	return withTelemetry(s, ctx, "SubmitScores", teamID, func(ctx context.Context) (SubmitScoresResult, error) {
		if judge.Key() == "" {
			return results.FailureResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload](ScoreSubmissionRejectedPayload{
				TeamID: teamID,
				Reason: "judge identity is required",
			}), nil
		}
		if len(entries) == 0 {
			return results.FailureResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload](ScoreSubmissionRejectedPayload{
				TeamID: teamID,
				Reason: "no score entries provided",
			}), nil
		}

		var trackID sharedtypes.TrackID

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (SubmitScoresResult, error) {
			team, err := s.registry.GetTeam(ctx, db, teamID)
			if err != nil {
				return SubmitScoresResult{}, err
			}
			trackID = team.TrackID

			room, err := s.registry.GetRoom(ctx, db, team.RoomID)
			if err != nil {
				return SubmitScoresResult{}, err
			}
			if room.Locked {
				s.metrics.RecordLockedRoomRejection(ctx)
				return results.FailureResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload](ScoreSubmissionRejectedPayload{
					TeamID: teamID,
					Reason: "room is locked",
				}), nil
			}

			criteria, err := s.registry.ListCriteria(ctx, db, team.TrackID)
			if err != nil {
				return SubmitScoresResult{}, err
			}
			if reason := validateEntries(entries, criteria); reason != "" {
				return results.FailureResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload](ScoreSubmissionRejectedPayload{
					TeamID: teamID,
					Reason: reason,
				}), nil
			}

			rows := make([]scoringdb.JudgeScore, 0, len(entries))
			now := time.Now().UTC()
			for _, entry := range entries {
				rows = append(rows, scoringdb.JudgeScore{
					ID:          uuid.New(),
					TeamID:      teamID,
					JudgeID:     judge.ID,
					JudgeName:   judge.Name,
					CriterionID: entry.CriterionID,
					Score:       entry.Score,
					Comment:     entry.Comment,
					CreatedAt:   now,
				})
			}

			if err := s.repo.ReplaceJudgeScores(ctx, db, teamID, judge.Key(), rows); err != nil {
				return SubmitScoresResult{}, err
			}

			return results.SuccessResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload](ScoresSubmittedPayload{
				TeamID:     teamID,
				JudgeKey:   judge.Key(),
				NumEntries: len(entries),
			}), nil
		})
		if err != nil || !result.IsSuccess() {
			return result, err
		}

		s.metrics.RecordScoreSubmission(ctx, len(entries))

		if err := s.publishScoresUpdated(ctx, trackID, teamID, judge.Key(), len(entries)); err != nil {
			// The submission committed; a lost notification is recovered by
			// the next recompute trigger.
			s.logger.WarnContext(ctx, "Failed to publish scores-updated event",
				attr.UUID("team_id", teamID),
				attr.Error(err),
			)
		}

		return result, nil
	})
}

// GetTeamScores returns the raw score rows for a team.
func (s *ScoringService) GetTeamScores(ctx context.Context, teamID sharedtypes.TeamID) ([]sharedtypes.ScoreRow, error) {
	scores, err := s.repo.GetScoresForTeam(ctx, nil, teamID)
	if err != nil {
		return nil, fmt.Errorf("GetTeamScores: %w", err)
	}
	rows := make([]sharedtypes.ScoreRow, 0, len(scores))
	for i := range scores {
		rows = append(rows, scores[i].Row())
	}
	return rows, nil
}

// validateEntries checks each entry against the track's criteria. Returns a
// rejection reason, or "" when all entries are valid.
func validateEntries(entries []sharedtypes.ScoreEntry, criteria []registrydb.Criterion) string {
	byID := make(map[sharedtypes.CriterionID]registrydb.Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	seen := make(map[sharedtypes.CriterionID]bool, len(entries))
	for _, entry := range entries {
		criterion, ok := byID[entry.CriterionID]
		if !ok {
			return fmt.Sprintf("criterion %s does not belong to the team's track", entry.CriterionID)
		}
		if seen[entry.CriterionID] {
			return fmt.Sprintf("duplicate entry for criterion %s", entry.CriterionID)
		}
		seen[entry.CriterionID] = true

		if len(criterion.Options) > 0 {
			if !optionScore(criterion.Options, entry.Score) {
				return fmt.Sprintf("score %v is not an option of criterion %q", entry.Score, criterion.Title)
			}
			continue
		}
		if entry.Score < 0 || entry.Score > criterion.MaxScore {
			return fmt.Sprintf("score %v out of range [0, %v] for criterion %q", entry.Score, criterion.MaxScore, criterion.Title)
		}
	}
	return ""
}

func optionScore(options []sharedtypes.CriterionOption, score sharedtypes.Score) bool {
	for _, opt := range options {
		if opt.Score == score {
			return true
		}
	}
	return false
}

func (s *ScoringService) publishScoresUpdated(ctx context.Context, trackID sharedtypes.TrackID, teamID sharedtypes.TeamID, judgeKey string, numEntries int) error {
	payload := scoringevents.TeamScoresUpdatedPayloadV1{
		TrackID:    trackID,
		TeamID:     teamID,
		JudgeKey:   judgeKey,
		NumEntries: numEntries,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal scores-updated payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return s.EventBus.Publish(scoringevents.TeamScoresUpdatedV1, msg)
}
