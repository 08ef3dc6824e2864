package leaderboardevents

import (
	"time"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Topics published by the leaderboard module.
const (
	// StandingsUpdatedV1 is emitted after a standings recomputation commits
	// its snapshot. Stale recomputations are discarded silently and do not
	// emit this event.
	StandingsUpdatedV1 = "leaderboard.standings.updated.v1"

	// TrackFinalizedV1 is emitted after a track's totals are written and its
	// rooms locked.
	TrackFinalizedV1 = "leaderboard.track.finalized.v1"
)

// StandingsUpdatedPayloadV1 carries the freshly computed standings.
type StandingsUpdatedPayloadV1 struct {
	TrackID    sharedtypes.TrackID          `json:"track_id"`
	Generation int64                        `json:"generation"`
	Standings  []leaderboarddomain.Standing `json:"standings"`
	ComputedAt time.Time                    `json:"computed_at"`
}

// TrackFinalizedPayloadV1 reports a completed finalization.
type TrackFinalizedPayloadV1 struct {
	TrackID     sharedtypes.TrackID `json:"track_id"`
	NumTeams    int                 `json:"num_teams"`
	RoomsLocked int                 `json:"rooms_locked"`
}
