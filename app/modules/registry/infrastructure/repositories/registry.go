package registrydb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// RepositoryImpl handles database operations for the event registry.
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

// CreateTrack inserts a new track.
func (r *RepositoryImpl) CreateTrack(ctx context.Context, track *Track) error {
	if _, err := r.DB.NewInsert().Model(track).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create track: %w", err)
	}
	return nil
}

// GetTrack retrieves a track by ID.
func (r *RepositoryImpl) GetTrack(ctx context.Context, trackID sharedtypes.TrackID) (*Track, error) {
	track := new(Track)
	err := r.DB.NewSelect().Model(track).Where("id = ?", trackID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTrackNotFound
		}
		return nil, fmt.Errorf("failed to get track: %w", err)
	}
	return track, nil
}

// ListTracks returns all tracks ordered by creation time.
func (r *RepositoryImpl) ListTracks(ctx context.Context) ([]Track, error) {
	var tracks []Track
	if err := r.DB.NewSelect().Model(&tracks).Order("created_at ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("failed to list tracks: %w", err)
	}
	return tracks, nil
}

// CreateRoom inserts a new room.
func (r *RepositoryImpl) CreateRoom(ctx context.Context, room *Room) error {
	if _, err := r.DB.NewInsert().Model(room).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	return nil
}

// GetRoom retrieves a room by ID, optionally inside a transaction.
func (r *RepositoryImpl) GetRoom(ctx context.Context, db bun.IDB, roomID sharedtypes.RoomID) (*Room, error) {
	room := new(Room)
	err := r.idb(db).NewSelect().Model(room).Where("id = ?", roomID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRoomNotFound
		}
		return nil, fmt.Errorf("failed to get room: %w", err)
	}
	return room, nil
}

// ListRooms returns the rooms of a track.
func (r *RepositoryImpl) ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]Room, error) {
	var rooms []Room
	err := r.DB.NewSelect().Model(&rooms).Where("track_id = ?", trackID).Order("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	return rooms, nil
}

// LockRoomsForTrack sets the locked flag on every unlocked room of a track
// and returns the number of newly locked rooms. Idempotent: already locked
// rooms are not touched and not counted.
func (r *RepositoryImpl) LockRoomsForTrack(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error) {
	res, err := r.idb(db).NewUpdate().
		Model((*Room)(nil)).
		Set("locked = ?", true).
		Where("track_id = ?", trackID).
		Where("locked = ?", false).
		Exec(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to lock rooms for track: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to read locked room count: %w", err)
	}
	return int(affected), nil
}

// CreateTeam inserts a new team.
func (r *RepositoryImpl) CreateTeam(ctx context.Context, team *Team) error {
	if _, err := r.DB.NewInsert().Model(team).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

// GetTeam retrieves a team by ID, optionally inside a transaction.
func (r *RepositoryImpl) GetTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) (*Team, error) {
	team := new(Team)
	err := r.idb(db).NewSelect().Model(team).Where("id = ?", teamID).Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTeamNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ListTeams returns the teams of a track ordered by team number.
func (r *RepositoryImpl) ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]Team, error) {
	var teams []Team
	err := r.DB.NewSelect().Model(&teams).Where("track_id = ?", trackID).Order("team_number ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	return teams, nil
}

// NextTeamNumber returns the next per-track team number.
func (r *RepositoryImpl) NextTeamNumber(ctx context.Context, trackID sharedtypes.TrackID) (sharedtypes.TeamNumber, error) {
	var maxNumber int
	err := r.DB.NewSelect().
		Model((*Team)(nil)).
		ColumnExpr("COALESCE(MAX(team_number), 0)").
		Where("track_id = ?", trackID).
		Scan(ctx, &maxNumber)
	if err != nil {
		return 0, fmt.Errorf("failed to compute next team number: %w", err)
	}
	return sharedtypes.TeamNumber(maxNumber + 1), nil
}

// WriteTeamTotalScore persists a finalized total score for a team. This is
// the only write of aggregation output.
func (r *RepositoryImpl) WriteTeamTotalScore(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error {
	res, err := r.idb(db).NewUpdate().
		Model((*Team)(nil)).
		Set("total_score = ?", value).
		Where("id = ?", teamID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to write team total score: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrTeamNotFound
	}
	return nil
}

// CreateCriterion inserts a new criterion.
func (r *RepositoryImpl) CreateCriterion(ctx context.Context, criterion *Criterion) error {
	if _, err := r.DB.NewInsert().Model(criterion).Exec(ctx); err != nil {
		return fmt.Errorf("failed to create criterion: %w", err)
	}
	return nil
}

// ListCriteria returns the criteria of a track, optionally inside a
// transaction.
func (r *RepositoryImpl) ListCriteria(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]Criterion, error) {
	var criteria []Criterion
	err := r.idb(db).NewSelect().Model(&criteria).Where("track_id = ?", trackID).Order("created_at ASC").Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list criteria: %w", err)
	}
	return criteria, nil
}
