package votingservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// ------------------------
// Fake Registry Repo
// ------------------------

type FakeRegistryRepo struct {
	Tracks   []registrydb.Track
	Rooms    []registrydb.Room
	Teams    []registrydb.Team
	Criteria []registrydb.Criterion
}

func (f *FakeRegistryRepo) CreateTrack(ctx context.Context, track *registrydb.Track) error {
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
	return f.Rooms, nil
}

func (f *FakeRegistryRepo) LockRoomsForTrack(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error) {
	return 0, nil
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
	return f.Teams, nil
}

func (f *FakeRegistryRepo) NextTeamNumber(ctx context.Context, trackID sharedtypes.TrackID) (sharedtypes.TeamNumber, error) {
	return sharedtypes.TeamNumber(len(f.Teams) + 1), nil
}

func (f *FakeRegistryRepo) WriteTeamTotalScore(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error {
	return nil
}

func (f *FakeRegistryRepo) CreateCriterion(ctx context.Context, criterion *registrydb.Criterion) error {
	f.Criteria = append(f.Criteria, *criterion)
	return nil
}

func (f *FakeRegistryRepo) ListCriteria(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]registrydb.Criterion, error) {
	return f.Criteria, nil
}

var _ registrydb.Repository = (*FakeRegistryRepo)(nil)

// ------------------------
// Fake Vote Repo
// ------------------------

type FakeVoteRepo struct {
	mu    sync.Mutex
	Votes []votingdb.PublicVote

	InsertVotesFunc func(ctx context.Context, votes []votingdb.PublicVote) error
}

func (f *FakeVoteRepo) InsertVotes(ctx context.Context, votes []votingdb.PublicVote) error {
	if f.InsertVotesFunc != nil {
		return f.InsertVotesFunc(ctx, votes)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Votes = append(f.Votes, votes...)
	return nil
}

func (f *FakeVoteRepo) GetVotesForTeam(ctx context.Context, teamID sharedtypes.TeamID) ([]votingdb.PublicVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var votes []votingdb.PublicVote
	for _, v := range f.Votes {
		if v.TeamID == teamID {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

func (f *FakeVoteRepo) GetVotesForTeams(ctx context.Context, teamIDs []sharedtypes.TeamID) ([]votingdb.PublicVote, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Votes, nil
}

var _ votingdb.Repository = (*FakeVoteRepo)(nil)

// ------------------------
// Fake Event Bus
// ------------------------

type FakeEventBus struct {
	mu        sync.Mutex
	Published map[string][]*message.Message
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{Published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Published[topic] = append(f.Published[topic], messages...)
	return nil
}

func (f *FakeEventBus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	ch := make(chan *message.Message)
	close(ch)
	return ch, nil
}

func (f *FakeEventBus) CreateStream(ctx context.Context, streamName string, subjects ...string) error {
	return nil
}

func (f *FakeEventBus) Close() error { return nil }

func (f *FakeEventBus) PublishedTo(topic string) []*message.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*message.Message(nil), f.Published[topic]...)
}
