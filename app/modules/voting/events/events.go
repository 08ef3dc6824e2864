package votingevents

import sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"

// Topics published by the voting module.
const (
	// VoteCastV1 is emitted after a public vote batch is persisted. Delivery
	// is at-least-once; consumers recompute from raw rows and are therefore
	// idempotent.
	VoteCastV1 = "voting.vote.cast.v1"
)

// VoteCastPayloadV1 notifies consumers that a team received new public votes.
type VoteCastPayloadV1 struct {
	TrackID  sharedtypes.TrackID `json:"track_id"`
	TeamID   sharedtypes.TeamID  `json:"team_id"`
	NumVotes int                 `json:"num_votes"`
}
