package registryservice

import (
	"context"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Service defines the contract for event-registry operations.
type Service interface {
	CreateTrack(ctx context.Context, name string) (*registrydb.Track, error)
	ListTracks(ctx context.Context) ([]registrydb.Track, error)

	CreateRoom(ctx context.Context, trackID sharedtypes.TrackID, name string) (*registrydb.Room, error)
	ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Room, error)

	CreateTeam(ctx context.Context, trackID sharedtypes.TrackID, roomID sharedtypes.RoomID, name string) (*registrydb.Team, error)
	GetTeam(ctx context.Context, teamID sharedtypes.TeamID) (*registrydb.Team, error)
	ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error)

	CreateCriterion(ctx context.Context, input CreateCriterionInput) (*registrydb.Criterion, error)
	ListCriteria(ctx context.Context, trackID sharedtypes.TrackID) ([]sharedtypes.CriterionInfo, error)
}

// CreateCriterionInput carries the fields of a new criterion.
type CreateCriterionInput struct {
	TrackID   sharedtypes.TrackID
	Title     string
	MaxScore  sharedtypes.Score
	Weightage float64
	Options   []sharedtypes.CriterionOption
}
