package leaderboarddb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// RepositoryImpl handles database operations for leaderboard snapshots.
type RepositoryImpl struct {
	DB *bun.DB
}

var _ Repository = (*RepositoryImpl)(nil)

func (r *RepositoryImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

// UpsertSnapshot writes the snapshot guarded by its generation. The WHERE on
// the conflict update makes a stale write a no-op instead of an error.
func (r *RepositoryImpl) UpsertSnapshot(ctx context.Context, db bun.IDB, snapshot *Snapshot) (bool, error) {
	res, err := r.idb(db).NewInsert().
		Model(snapshot).
		On("CONFLICT (track_id) DO UPDATE").
		Set("generation = EXCLUDED.generation").
		Set("standings = EXCLUDED.standings").
		Set("computed_at = EXCLUDED.computed_at").
		Where("ls.generation < EXCLUDED.generation").
		Exec(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to upsert leaderboard snapshot: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read upsert result: %w", err)
	}
	return affected > 0, nil
}

// GetSnapshot returns the last computed standings for a track.
func (r *RepositoryImpl) GetSnapshot(ctx context.Context, trackID sharedtypes.TrackID) (*Snapshot, error) {
	snapshot := new(Snapshot)
	err := r.DB.NewSelect().
		Model(snapshot).
		Where("track_id = ?", trackID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("failed to get leaderboard snapshot: %w", err)
	}
	return snapshot, nil
}
