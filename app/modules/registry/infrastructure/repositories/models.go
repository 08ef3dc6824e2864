package registrydb

import (
	"time"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Track is a judged track of the event.
type Track struct {
	bun.BaseModel `bun:"table:tracks,alias:tr"`

	ID        sharedtypes.TrackID `bun:"id,pk,type:uuid"`
	Name      string              `bun:"name,notnull"`
	CreatedAt time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

// Room is a judging room within a track. Locked rooms reject score writes.
type Room struct {
	bun.BaseModel `bun:"table:rooms,alias:rm"`

	ID        sharedtypes.RoomID  `bun:"id,pk,type:uuid"`
	TrackID   sharedtypes.TrackID `bun:"track_id,notnull,type:uuid"`
	Name      string              `bun:"name,notnull"`
	Locked    bool                `bun:"locked,notnull,default:false"`
	CreatedAt time.Time           `bun:"created_at,notnull,default:current_timestamp"`
}

// Team belongs to exactly one track and one room. TotalScore is written only
// by track finalization; every live view recomputes from raw rows.
type Team struct {
	bun.BaseModel `bun:"table:teams,alias:tm"`

	ID         sharedtypes.TeamID     `bun:"id,pk,type:uuid"`
	TrackID    sharedtypes.TrackID    `bun:"track_id,notnull,type:uuid"`
	RoomID     sharedtypes.RoomID     `bun:"room_id,notnull,type:uuid"`
	Name       string                 `bun:"name,notnull"`
	TeamNumber sharedtypes.TeamNumber `bun:"team_number,notnull"`
	TotalScore sharedtypes.Score      `bun:"total_score,notnull,default:0"`
	CreatedAt  time.Time              `bun:"created_at,notnull,default:current_timestamp"`
}

// Criterion is a per-track judging criterion: either a manual-entry score
// capped at MaxScore, or a dropdown with fixed options.
type Criterion struct {
	bun.BaseModel `bun:"table:criteria,alias:cr"`

	ID        sharedtypes.CriterionID       `bun:"id,pk,type:uuid"`
	TrackID   sharedtypes.TrackID           `bun:"track_id,notnull,type:uuid"`
	Title     string                        `bun:"title,notnull"`
	MaxScore  sharedtypes.Score             `bun:"max_score,notnull"`
	Weightage float64                       `bun:"weightage,notnull,default:1"`
	Options   []sharedtypes.CriterionOption `bun:"options,type:jsonb,nullzero"`
	CreatedAt time.Time                     `bun:"created_at,notnull,default:current_timestamp"`
}

// Info converts a Criterion row to the shape the aggregation engine consumes.
func (c *Criterion) Info() sharedtypes.CriterionInfo {
	return sharedtypes.CriterionInfo{
		ID:        c.ID,
		TrackID:   c.TrackID,
		Title:     c.Title,
		MaxScore:  c.MaxScore,
		Weightage: c.Weightage,
		Options:   c.Options,
	}
}

// Info converts a Team row to the shape the aggregation engine consumes.
func (t *Team) Info() sharedtypes.TeamInfo {
	return sharedtypes.TeamInfo{
		ID:         t.ID,
		TrackID:    t.TrackID,
		RoomID:     t.RoomID,
		Name:       t.Name,
		TeamNumber: t.TeamNumber,
		TotalScore: t.TotalScore,
	}
}
