package leaderboardhandlers

import (
	"context"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/message"

	leaderboardevents "github.com/hackboard-live/hackboard/app/modules/leaderboard/events"
	scoringevents "github.com/hackboard-live/hackboard/app/modules/scoring/events"
	votingevents "github.com/hackboard-live/hackboard/app/modules/voting/events"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// HandleTeamScoresUpdated recomputes standings after a judge submission.
func (h *LeaderboardHandlers) HandleTeamScoresUpdated(msg *message.Message) ([]*message.Message, error) {
	wrapped := h.handlerWrapper("HandleTeamScoresUpdated",
		func() any { return &scoringevents.TeamScoresUpdatedPayloadV1{} },
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			p := payload.(*scoringevents.TeamScoresUpdatedPayloadV1)

			h.logger.InfoContext(ctx, "Received TeamScoresUpdated event",
				attr.CorrelationIDFromMsg(msg),
				attr.UUID("track_id", p.TrackID),
				attr.UUID("team_id", p.TeamID),
				attr.String("judge_key", p.JudgeKey),
			)

			return h.recomputeAndBroadcast(ctx, msg, p.TrackID)
		},
	)
	return wrapped(msg)
}

// HandleVoteCast recomputes standings after a public vote batch.
func (h *LeaderboardHandlers) HandleVoteCast(msg *message.Message) ([]*message.Message, error) {
	wrapped := h.handlerWrapper("HandleVoteCast",
		func() any { return &votingevents.VoteCastPayloadV1{} },
		func(ctx context.Context, msg *message.Message, payload any) ([]*message.Message, error) {
			p := payload.(*votingevents.VoteCastPayloadV1)

			h.logger.InfoContext(ctx, "Received VoteCast event",
				attr.CorrelationIDFromMsg(msg),
				attr.UUID("track_id", p.TrackID),
				attr.UUID("team_id", p.TeamID),
				attr.Int("num_votes", p.NumVotes),
			)

			return h.recomputeAndBroadcast(ctx, msg, p.TrackID)
		},
	)
	return wrapped(msg)
}

// recomputeAndBroadcast runs a recomputation and, if it produced the newest
// snapshot, emits a StandingsUpdated message. A superseded recomputation is
// dropped quietly; the newer one already broadcast fresher standings.
func (h *LeaderboardHandlers) recomputeAndBroadcast(ctx context.Context, msg *message.Message, trackID sharedtypes.TrackID) ([]*message.Message, error) {
	result, err := h.service.RecomputeStandings(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to recompute standings: %w", err)
	}

	if result.Failure != nil {
		h.logger.InfoContext(ctx, "Recomputation superseded, not broadcasting",
			attr.CorrelationIDFromMsg(msg),
			attr.UUID("track_id", trackID),
		)
		return nil, nil
	}

	if result.Success == nil {
		return nil, fmt.Errorf("unexpected empty result from RecomputeStandings")
	}

	outMsg, err := h.helpers.CreateResultMessage(msg, leaderboardevents.StandingsUpdatedPayloadV1{
		TrackID:    result.Success.TrackID,
		Generation: result.Success.Generation,
		Standings:  result.Success.Standings,
		ComputedAt: result.Success.ComputedAt,
	}, leaderboardevents.StandingsUpdatedV1)
	if err != nil {
		return nil, fmt.Errorf("failed to create standings-updated message: %w", err)
	}

	return []*message.Message{outMsg}, nil
}
