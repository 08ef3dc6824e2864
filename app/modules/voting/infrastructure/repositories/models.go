package votingdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// PublicVote is one public vote for one criterion of a team. No uniqueness
// is enforced across (team, session, criterion); a session may vote again.
// "Unique voters" is approximated by counting distinct session IDs.
type PublicVote struct {
	bun.BaseModel `bun:"table:public_votes,alias:pv"`

	ID          uuid.UUID               `bun:"id,pk,type:uuid"`
	TeamID      sharedtypes.TeamID      `bun:"team_id,notnull,type:uuid"`
	SessionID   sharedtypes.SessionID   `bun:"session_id,notnull"`
	CriterionID sharedtypes.CriterionID `bun:"criterion_id,notnull,type:uuid"`
	Score       sharedtypes.Score       `bun:"score,notnull"`
	VotedAt     time.Time               `bun:"voted_at,notnull,default:current_timestamp"`
}

// Row converts a PublicVote to the shape the aggregation engine consumes.
func (v *PublicVote) Row() sharedtypes.VoteRow {
	return sharedtypes.VoteRow{
		TeamID:      v.TeamID,
		SessionID:   v.SessionID,
		CriterionID: v.CriterionID,
		Score:       v.Score,
		VotedAt:     v.VotedAt,
	}
}
