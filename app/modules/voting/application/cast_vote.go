package votingservice

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	votingevents "github.com/hackboard-live/hackboard/app/modules/voting/events"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// CastVote appends one vote row per entry for the team. Votes are
// append-only; a session voting again simply adds rows, and the public
// score is a flat mean over all rows.
func (s *VotingService) CastVote(
	ctx context.Context,
	session VoterSession,
	teamID sharedtypes.TeamID,
	entries []sharedtypes.VoteEntry,
) (CastVoteResult, error) {
	return withTelemetry(s, ctx, "CastVote", teamID, func(ctx context.Context) (CastVoteResult, error) {
		if session.SessionID == "" {
			return results.FailureResult[VoteCastPayload, VoteRejectedPayload](VoteRejectedPayload{
				TeamID: teamID,
				Reason: "voter session is required",
			}), nil
		}
		if len(entries) == 0 {
			return results.FailureResult[VoteCastPayload, VoteRejectedPayload](VoteRejectedPayload{
				TeamID: teamID,
				Reason: "no vote entries provided",
			}), nil
		}

		if limiter := s.sessionLimiter(session.SessionID); limiter != nil && !limiter.Allow() {
			s.metrics.RecordRateLimited(ctx)
			return results.FailureResult[VoteCastPayload, VoteRejectedPayload](VoteRejectedPayload{
				TeamID: teamID,
				Reason: RateLimitedReason,
			}), nil
		}

		team, err := s.registry.GetTeam(ctx, nil, teamID)
		if err != nil {
			return CastVoteResult{}, err
		}

		criteria, err := s.registry.ListCriteria(ctx, nil, team.TrackID)
		if err != nil {
			return CastVoteResult{}, err
		}
		if reason := validateVoteEntries(entries, criteria); reason != "" {
			return results.FailureResult[VoteCastPayload, VoteRejectedPayload](VoteRejectedPayload{
				TeamID: teamID,
				Reason: reason,
			}), nil
		}

		rows := make([]votingdb.PublicVote, 0, len(entries))
		now := time.Now().UTC()
		for _, entry := range entries {
			rows = append(rows, votingdb.PublicVote{
				ID:          uuid.New(),
				TeamID:      teamID,
				SessionID:   session.SessionID,
				CriterionID: entry.CriterionID,
				Score:       entry.Score,
				VotedAt:     now,
			})
		}

		if err := s.repo.InsertVotes(ctx, rows); err != nil {
			return CastVoteResult{}, err
		}

		s.metrics.RecordVoteCast(ctx, len(entries))

		if err := s.publishVoteCast(ctx, team.TrackID, teamID, len(entries)); err != nil {
			// The votes committed; a lost notification is recovered by the
			// next recompute trigger.
			s.logger.WarnContext(ctx, "Failed to publish vote-cast event",
				attr.UUID("team_id", teamID),
				attr.Error(err),
			)
		}

		return results.SuccessResult[VoteCastPayload, VoteRejectedPayload](VoteCastPayload{
			TeamID:    teamID,
			SessionID: session.SessionID,
			NumVotes:  len(entries),
		}), nil
	})
}

// GetTeamVotes returns the raw vote rows for a team.
func (s *VotingService) GetTeamVotes(ctx context.Context, teamID sharedtypes.TeamID) ([]sharedtypes.VoteRow, error) {
	votes, err := s.repo.GetVotesForTeam(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("GetTeamVotes: %w", err)
	}
	rows := make([]sharedtypes.VoteRow, 0, len(votes))
	for i := range votes {
		rows = append(rows, votes[i].Row())
	}
	return rows, nil
}

// validateVoteEntries checks each entry against the track's criteria.
// Returns a rejection reason, or "" when all entries are valid.
func validateVoteEntries(entries []sharedtypes.VoteEntry, criteria []registrydb.Criterion) string {
	byID := make(map[sharedtypes.CriterionID]registrydb.Criterion, len(criteria))
	for _, c := range criteria {
		byID[c.ID] = c
	}

	for _, entry := range entries {
		criterion, ok := byID[entry.CriterionID]
		if !ok {
			return fmt.Sprintf("criterion %s does not belong to the team's track", entry.CriterionID)
		}
		if entry.Score < 0 || entry.Score > criterion.MaxScore {
			return fmt.Sprintf("score %v out of range [0, %v] for criterion %q", entry.Score, criterion.MaxScore, criterion.Title)
		}
	}
	return ""
}

func (s *VotingService) publishVoteCast(ctx context.Context, trackID sharedtypes.TrackID, teamID sharedtypes.TeamID, numVotes int) error {
	payload := votingevents.VoteCastPayloadV1{
		TrackID:  trackID,
		TeamID:   teamID,
		NumVotes: numVotes,
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal vote-cast payload: %w", err)
	}
	msg := message.NewMessage(watermill.NewUUID(), data)
	msg.SetContext(ctx)
	return s.EventBus.Publish(votingevents.VoteCastV1, msg)
}
