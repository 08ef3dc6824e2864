package registryservice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// FakeRegistryRepo is an in-memory Repository for service tests.
type FakeRegistryRepo struct {
	Tracks   []registrydb.Track
	Rooms    []registrydb.Room
	Teams    []registrydb.Team
	Criteria []registrydb.Criterion

	CreateTrackFunc func(ctx context.Context, track *registrydb.Track) error
}

func (f *FakeRegistryRepo) CreateTrack(ctx context.Context, track *registrydb.Track) error {
	if f.CreateTrackFunc != nil {
		return f.CreateTrackFunc(ctx, track)
	}
	f.Tracks = append(f.Tracks, *track)
	return nil
}

func (f *FakeRegistryRepo) GetTrack(ctx context.Context, trackID sharedtypes.TrackID) (*registrydb.Track, error) {
	for i := range f.Tracks {
		if f.Tracks[i].ID == trackID {
			track := f.Tracks[i]
			return &track, nil
		}
	}
	return nil, registrydb.ErrTrackNotFound
}

func (f *FakeRegistryRepo) ListTracks(ctx context.Context) ([]registrydb.Track, error) {
	return f.Tracks, nil
}

func (f *FakeRegistryRepo) CreateRoom(ctx context.Context, room *registrydb.Room) error {
	f.Rooms = append(f.Rooms, *room)
	return nil
}

func (f *FakeRegistryRepo) GetRoom(ctx context.Context, db bun.IDB, roomID sharedtypes.RoomID) (*registrydb.Room, error) {
	for i := range f.Rooms {
		if f.Rooms[i].ID == roomID {
			room := f.Rooms[i]
			return &room, nil
		}
	}
	return nil, registrydb.ErrRoomNotFound
}

func (f *FakeRegistryRepo) ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Room, error) {
	var rooms []registrydb.Room
	for _, room := range f.Rooms {
		if room.TrackID == trackID {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (f *FakeRegistryRepo) LockRoomsForTrack(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error) {
	locked := 0
	for i := range f.Rooms {
		if f.Rooms[i].TrackID == trackID && !f.Rooms[i].Locked {
			f.Rooms[i].Locked = true
			locked++
		}
	}
	return locked, nil
}

func (f *FakeRegistryRepo) CreateTeam(ctx context.Context, team *registrydb.Team) error {
	f.Teams = append(f.Teams, *team)
	return nil
}

func (f *FakeRegistryRepo) GetTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) (*registrydb.Team, error) {
	for i := range f.Teams {
		if f.Teams[i].ID == teamID {
			team := f.Teams[i]
			return &team, nil
		}
	}
	return nil, registrydb.ErrTeamNotFound
}

func (f *FakeRegistryRepo) ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error) {
	var teams []registrydb.Team
	for _, team := range f.Teams {
		if team.TrackID == trackID {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (f *FakeRegistryRepo) NextTeamNumber(ctx context.Context, trackID sharedtypes.TrackID) (sharedtypes.TeamNumber, error) {
	max := sharedtypes.TeamNumber(0)
	for _, team := range f.Teams {
		if team.TrackID == trackID && team.TeamNumber > max {
			max = team.TeamNumber
		}
	}
	return max + 1, nil
}

func (f *FakeRegistryRepo) WriteTeamTotalScore(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error {
	for i := range f.Teams {
		if f.Teams[i].ID == teamID {
			f.Teams[i].TotalScore = value
			return nil
		}
	}
	return errors.New("team not found")
}

func (f *FakeRegistryRepo) CreateCriterion(ctx context.Context, criterion *registrydb.Criterion) error {
	f.Criteria = append(f.Criteria, *criterion)
	return nil
}

func (f *FakeRegistryRepo) ListCriteria(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]registrydb.Criterion, error) {
	var criteria []registrydb.Criterion
	for _, c := range f.Criteria {
		if c.TrackID == trackID {
			criteria = append(criteria, c)
		}
	}
	return criteria, nil
}

var _ registrydb.Repository = (*FakeRegistryRepo)(nil)
