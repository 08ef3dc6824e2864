package leaderboardservice

import (
	"context"
	"time"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	"github.com/hackboard-live/hackboard/app/shared/results"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// StandingsPayload is a computed leaderboard for one track.
type StandingsPayload struct {
	TrackID    sharedtypes.TrackID          `json:"track_id"`
	Generation int64                        `json:"generation"`
	Standings  []leaderboarddomain.Standing `json:"standings"`
	ComputedAt time.Time                    `json:"computed_at"`
}

// StandingsUnavailablePayload reports that standings could not be produced.
// A partial read never degrades into zero scores; it degrades into this.
type StandingsUnavailablePayload struct {
	TrackID sharedtypes.TrackID `json:"track_id"`
	Reason  string              `json:"reason"`
}

// GetLeaderboardResult is the envelope for leaderboard reads and recomputes.
type GetLeaderboardResult = results.OperationResult[StandingsPayload, StandingsUnavailablePayload]

// TeamBreakdownPayload explains how one team's final score was derived.
type TeamBreakdownPayload struct {
	TeamID         sharedtypes.TeamID                `json:"team_id"`
	TeamName       string                            `json:"team_name"`
	TeamNumber     sharedtypes.TeamNumber            `json:"team_number"`
	JudgeSubtotals []leaderboarddomain.JudgeSubtotal `json:"judge_subtotals"`
	JudgeScore     sharedtypes.Score                 `json:"judge_score"`
	PublicScore    sharedtypes.Score                 `json:"public_score"`
	NumVotes       int                               `json:"num_votes"`
	VoterSessions  int                               `json:"voter_sessions"`
	FinalScore     sharedtypes.Score                 `json:"final_score"`
}

// BreakdownUnavailablePayload reports that a breakdown could not be produced.
type BreakdownUnavailablePayload struct {
	TeamID sharedtypes.TeamID `json:"team_id"`
	Reason string             `json:"reason"`
}

// GetTeamBreakdownResult is the envelope for GetTeamBreakdown.
type GetTeamBreakdownResult = results.OperationResult[TeamBreakdownPayload, BreakdownUnavailablePayload]

// TrackFinalizedPayload reports a completed finalization.
type TrackFinalizedPayload struct {
	TrackID     sharedtypes.TrackID `json:"track_id"`
	NumTeams    int                 `json:"num_teams"`
	RoomsLocked int                 `json:"rooms_locked"`
}

// FinalizeFailedPayload reports a rejected finalization.
type FinalizeFailedPayload struct {
	TrackID sharedtypes.TrackID `json:"track_id"`
	Reason  string              `json:"reason"`
}

// FinalizeTrackResult is the envelope for FinalizeTrack.
type FinalizeTrackResult = results.OperationResult[TrackFinalizedPayload, FinalizeFailedPayload]

// Service defines the contract for the aggregation engine.
type Service interface {
	// RecomputeStandings recomputes a track's standings from raw rows and
	// persists the snapshot, unless a newer recomputation already landed.
	RecomputeStandings(ctx context.Context, trackID sharedtypes.TrackID) (GetLeaderboardResult, error)

	// GetLeaderboard returns the current standings, computing them on demand
	// when no snapshot exists yet.
	GetLeaderboard(ctx context.Context, trackID sharedtypes.TrackID) (GetLeaderboardResult, error)

	// GetTeamBreakdown explains one team's score derivation.
	GetTeamBreakdown(ctx context.Context, teamID sharedtypes.TeamID) (GetTeamBreakdownResult, error)

	// FinalizeTrack writes every team's total score and locks the track's
	// rooms, atomically. Safe to call repeatedly.
	FinalizeTrack(ctx context.Context, trackID sharedtypes.TrackID) (FinalizeTrackResult, error)
}
