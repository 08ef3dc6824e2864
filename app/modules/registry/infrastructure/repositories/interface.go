package registrydb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Repository is the data access contract for tracks, rooms, teams, and
// criteria. Methods taking a bun.IDB participate in the caller's
// transaction when one is passed; a nil IDB means the pool connection.
type Repository interface {
	CreateTrack(ctx context.Context, track *Track) error
	GetTrack(ctx context.Context, trackID sharedtypes.TrackID) (*Track, error)
	ListTracks(ctx context.Context) ([]Track, error)

	CreateRoom(ctx context.Context, room *Room) error
	GetRoom(ctx context.Context, db bun.IDB, roomID sharedtypes.RoomID) (*Room, error)
	ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]Room, error)
	LockRoomsForTrack(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error)

	CreateTeam(ctx context.Context, team *Team) error
	GetTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) (*Team, error)
	ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]Team, error)
	NextTeamNumber(ctx context.Context, trackID sharedtypes.TrackID) (sharedtypes.TeamNumber, error)
	WriteTeamTotalScore(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error

	CreateCriterion(ctx context.Context, criterion *Criterion) error
	ListCriteria(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]Criterion, error)
}
