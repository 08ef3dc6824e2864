package sharedtypes

import (
	"time"

	"github.com/google/uuid"
)

// TrackID identifies a hackathon track.
type TrackID = uuid.UUID

// RoomID identifies a judging room within a track.
type RoomID = uuid.UUID

// TeamID identifies a team.
type TeamID = uuid.UUID

// CriterionID identifies a judging criterion.
type CriterionID = uuid.UUID

// JudgeID identifies an authenticated judge account.
type JudgeID string

// SessionID identifies a public voter session.
type SessionID string

// Score is a single score value, either one judge's entry for one
// criterion or one public vote.
type Score float64

// TeamNumber is the per-track ordinal assigned to a team at creation.
// It is the deterministic tie-break key for rankings.
type TeamNumber int

// ScoreEntry is one judge's score for one criterion of a team.
type ScoreEntry struct {
	CriterionID CriterionID `json:"criterion_id"`
	Score       Score       `json:"score"`
	Comment     string      `json:"comment,omitempty"`
}

// ScoreRow is a persisted judge score row as consumed by the
// aggregation engine.
type ScoreRow struct {
	TeamID      TeamID      `json:"team_id"`
	JudgeID     *JudgeID    `json:"judge_id,omitempty"`
	JudgeName   string      `json:"judge_name"`
	CriterionID CriterionID `json:"criterion_id"`
	Score       Score       `json:"score"`
	Comment     string      `json:"comment,omitempty"`
}

// EffectiveJudgeKey returns the grouping key for a score row: the judge ID
// when the judge is authenticated, otherwise the free-text judge name.
// Walk-up judges sharing a display name merge; accepted approximation.
func (r ScoreRow) EffectiveJudgeKey() string {
	if r.JudgeID != nil && *r.JudgeID != "" {
		return string(*r.JudgeID)
	}
	return r.JudgeName
}

// VoteEntry is one public vote for one criterion of a team.
type VoteEntry struct {
	CriterionID CriterionID `json:"criterion_id"`
	Score       Score       `json:"score"`
}

// VoteRow is a persisted public vote row.
type VoteRow struct {
	TeamID      TeamID      `json:"team_id"`
	SessionID   SessionID   `json:"session_id"`
	CriterionID CriterionID `json:"criterion_id"`
	Score       Score       `json:"score"`
	VotedAt     time.Time   `json:"voted_at"`
}

// CriterionOption is one selectable entry of a dropdown-type criterion.
type CriterionOption struct {
	Label string `json:"label"`
	Score Score  `json:"score"`
}

// CriterionInfo is the criteria metadata the aggregation engine consumes.
type CriterionInfo struct {
	ID        CriterionID       `json:"id"`
	TrackID   TrackID           `json:"track_id"`
	Title     string            `json:"title"`
	MaxScore  Score             `json:"max_score"`
	Weightage float64           `json:"weightage"`
	Options   []CriterionOption `json:"options,omitempty"`
}

// TeamInfo is the team metadata the aggregation engine consumes.
type TeamInfo struct {
	ID         TeamID     `json:"id"`
	TrackID    TrackID    `json:"track_id"`
	RoomID     RoomID     `json:"room_id"`
	Name       string     `json:"name"`
	TeamNumber TeamNumber `json:"team_number"`
	TotalScore Score      `json:"total_score"`
}
