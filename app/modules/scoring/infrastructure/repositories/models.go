package scoringdb

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// JudgeScore is one judge's score for one criterion of a team. At most one
// row exists per (team, effective judge key, criterion); the replace-all
// submission path maintains this without a storage-level constraint because
// walk-up judges are keyed by free-text name.
type JudgeScore struct {
	bun.BaseModel `bun:"table:judge_scores,alias:js"`

	ID          uuid.UUID               `bun:"id,pk,type:uuid"`
	TeamID      sharedtypes.TeamID      `bun:"team_id,notnull,type:uuid"`
	JudgeID     *sharedtypes.JudgeID    `bun:"judge_id,nullzero"`
	JudgeName   string                  `bun:"judge_name,notnull"`
	CriterionID sharedtypes.CriterionID `bun:"criterion_id,notnull,type:uuid"`
	Score       sharedtypes.Score       `bun:"score,notnull"`
	Comment     string                  `bun:"comment"`
	CreatedAt   time.Time               `bun:"created_at,notnull,default:current_timestamp"`
}

// Row converts a JudgeScore to the shape the aggregation engine consumes.
func (s *JudgeScore) Row() sharedtypes.ScoreRow {
	return sharedtypes.ScoreRow{
		TeamID:      s.TeamID,
		JudgeID:     s.JudgeID,
		JudgeName:   s.JudgeName,
		CriterionID: s.CriterionID,
		Score:       s.Score,
		Comment:     s.Comment,
	}
}
