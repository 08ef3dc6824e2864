package scoringevents

import sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"

// Topics published by the scoring module.
const (
	// TeamScoresUpdatedV1 is emitted after a judge's replace-all submission
	// commits. Delivery is at-least-once; consumers recompute from raw rows
	// and are therefore idempotent.
	TeamScoresUpdatedV1 = "scoring.team.scores.updated.v1"
)

// TeamScoresUpdatedPayloadV1 notifies consumers that a team's judge score
// rows changed.
type TeamScoresUpdatedPayloadV1 struct {
	TrackID    sharedtypes.TrackID `json:"track_id"`
	TeamID     sharedtypes.TeamID  `json:"team_id"`
	JudgeKey   string              `json:"judge_key"`
	NumEntries int                 `json:"num_entries"`
}
