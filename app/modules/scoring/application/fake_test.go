package scoringservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
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

	GetRoomFunc      func(ctx context.Context, db bun.IDB, roomID sharedtypes.RoomID) (*registrydb.Room, error)
	ListCriteriaFunc func(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]registrydb.Criterion, error)
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
	if f.GetRoomFunc != nil {
		return f.GetRoomFunc(ctx, db, roomID)
	}
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
	if f.ListCriteriaFunc != nil {
		return f.ListCriteriaFunc(ctx, db, trackID)
	}
	return f.Criteria, nil
}

var _ registrydb.Repository = (*FakeRegistryRepo)(nil)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	mu     sync.Mutex
	Scores []scoringdb.JudgeScore
	trace  []string

	ReplaceJudgeScoresFunc func(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, judgeKey string, rows []scoringdb.JudgeScore) error
}

func (f *FakeScoreRepo) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeScoreRepo) ReplaceJudgeScores(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, judgeKey string, rows []scoringdb.JudgeScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ReplaceJudgeScores")
	if f.ReplaceJudgeScoresFunc != nil {
		return f.ReplaceJudgeScoresFunc(ctx, db, teamID, judgeKey, rows)
	}
	kept := make([]scoringdb.JudgeScore, 0, len(f.Scores))
	for _, s := range f.Scores {
		if s.TeamID == teamID && s.Row().EffectiveJudgeKey() == judgeKey {
			continue
		}
		kept = append(kept, s)
	}
	f.Scores = append(kept, rows...)
	return nil
}

func (f *FakeScoreRepo) GetScoresForTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) ([]scoringdb.JudgeScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var scores []scoringdb.JudgeScore
	for _, s := range f.Scores {
		if s.TeamID == teamID {
			scores = append(scores, s)
		}
	}
	return scores, nil
}

func (f *FakeScoreRepo) GetScoresForTeams(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]scoringdb.JudgeScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Scores, nil
}

func (f *FakeScoreRepo) Trace() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.trace...)
}

var _ scoringdb.Repository = (*FakeScoreRepo)(nil)

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
