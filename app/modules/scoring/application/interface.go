package scoringservice

import (
	"context"

	"github.com/hackboard-live/hackboard/app/shared/results"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// JudgeIdentity is the current judge as consumed from the auth layer: an
// account ID when authenticated, otherwise the free-text name a walk-up
// judge entered with the room passcode.
type JudgeIdentity struct {
	ID   *sharedtypes.JudgeID
	Name string
}

// Key returns the grouping key for this judge.
func (j JudgeIdentity) Key() string {
	if j.ID != nil && *j.ID != "" {
		return string(*j.ID)
	}
	return j.Name
}

// ScoresSubmittedPayload reports an accepted replace-all submission.
type ScoresSubmittedPayload struct {
	TeamID     sharedtypes.TeamID `json:"team_id"`
	JudgeKey   string             `json:"judge_key"`
	NumEntries int                `json:"num_entries"`
}

// ScoreSubmissionRejectedPayload reports a rejected submission.
type ScoreSubmissionRejectedPayload struct {
	TeamID sharedtypes.TeamID `json:"team_id"`
	Reason string             `json:"reason"`
}

// SubmitScoresResult is the envelope for SubmitScores.
type SubmitScoresResult = results.OperationResult[ScoresSubmittedPayload, ScoreSubmissionRejectedPayload]

// Service defines the contract for judge scoring operations.
type Service interface {
	// SubmitScores replaces the judge's score rows for a team with the given
	// entries, atomically. Rejections (locked room, invalid criterion or
	// score) are failure payloads; infrastructure errors are Go errors.
	SubmitScores(ctx context.Context, judge JudgeIdentity, teamID sharedtypes.TeamID, entries []sharedtypes.ScoreEntry) (SubmitScoresResult, error)

	// GetTeamScores returns the raw score rows for a team.
	GetTeamScores(ctx context.Context, teamID sharedtypes.TeamID) ([]sharedtypes.ScoreRow, error)
}
