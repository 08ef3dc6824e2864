package leaderboarddb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Repository is the data access contract for leaderboard snapshots. A nil
// bun.IDB means the pool connection.
type Repository interface {
	// UpsertSnapshot writes the snapshot unless a row with an equal or
	// higher generation already exists. Returns whether the write applied.
	UpsertSnapshot(ctx context.Context, db bun.IDB, snapshot *Snapshot) (bool, error)
	GetSnapshot(ctx context.Context, trackID sharedtypes.TrackID) (*Snapshot, error)
}
