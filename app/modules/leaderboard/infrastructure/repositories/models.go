package leaderboarddb

import (
	"time"

	"github.com/uptrace/bun"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Snapshot is the last computed standings of a track. Generation is a
// monotonic counter minted when a recomputation starts; a snapshot row is
// only replaced by a higher generation, so a slow recomputation that
// finishes after a newer one can never clobber fresher standings.
type Snapshot struct {
	bun.BaseModel `bun:"table:leaderboard_snapshots,alias:ls"`

	TrackID    sharedtypes.TrackID          `bun:"track_id,pk,type:uuid"`
	Generation int64                        `bun:"generation,notnull"`
	Standings  []leaderboarddomain.Standing `bun:"standings,type:jsonb"`
	ComputedAt time.Time                    `bun:"computed_at,notnull"`
}
