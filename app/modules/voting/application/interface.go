package votingservice

import (
	"context"

	"github.com/hackboard-live/hackboard/app/shared/results"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// VoterSession identifies an anonymous audience member. Session IDs are
// minted client-side and carry no authentication; the same person voting
// from two browsers counts as two sessions.
type VoterSession struct {
	SessionID sharedtypes.SessionID
}

// VoteCastPayload reports an accepted vote batch.
type VoteCastPayload struct {
	TeamID    sharedtypes.TeamID    `json:"team_id"`
	SessionID sharedtypes.SessionID `json:"session_id"`
	NumVotes  int                   `json:"num_votes"`
}

// RateLimitedReason is the rejection reason for throttled sessions. The API
// layer maps it to 429.
const RateLimitedReason = "too many votes, slow down"

// VoteRejectedPayload reports a rejected vote batch.
type VoteRejectedPayload struct {
	TeamID sharedtypes.TeamID `json:"team_id"`
	Reason string             `json:"reason"`
}

// CastVoteResult is the envelope for CastVote.
type CastVoteResult = results.OperationResult[VoteCastPayload, VoteRejectedPayload]

// Service defines the contract for public voting operations.
type Service interface {
	// CastVote appends one vote row per entry for the team. Repeat votes
	// from the same session are accepted; rate limiting, unknown criteria,
	// and out-of-range scores are failure payloads.
	CastVote(ctx context.Context, session VoterSession, teamID sharedtypes.TeamID, entries []sharedtypes.VoteEntry) (CastVoteResult, error)

	// GetTeamVotes returns the raw vote rows for a team.
	GetTeamVotes(ctx context.Context, teamID sharedtypes.TeamID) ([]sharedtypes.VoteRow, error)
}
