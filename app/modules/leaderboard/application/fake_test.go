package leaderboardservice

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/uptrace/bun"

	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// ------------------------
// Fake Snapshot Repo
// ------------------------

type FakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[sharedtypes.TrackID]*leaderboarddb.Snapshot

	UpsertSnapshotFunc func(ctx context.Context, db bun.IDB, snapshot *leaderboarddb.Snapshot) (bool, error)
	GetSnapshotFunc    func(ctx context.Context, trackID sharedtypes.TrackID) (*leaderboarddb.Snapshot, error)
}

func NewFakeSnapshotRepo() *FakeSnapshotRepo {
	return &FakeSnapshotRepo{
		snapshots: make(map[sharedtypes.TrackID]*leaderboarddb.Snapshot),
	}
}

func (f *FakeSnapshotRepo) UpsertSnapshot(ctx context.Context, db bun.IDB, snapshot *leaderboarddb.Snapshot) (bool, error) {
	if f.UpsertSnapshotFunc != nil {
		return f.UpsertSnapshotFunc(ctx, db, snapshot)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.snapshots[snapshot.TrackID]; ok && existing.Generation >= snapshot.Generation {
		return false, nil
	}
	copied := *snapshot
	f.snapshots[snapshot.TrackID] = &copied
	return true, nil
}

func (f *FakeSnapshotRepo) GetSnapshot(ctx context.Context, trackID sharedtypes.TrackID) (*leaderboarddb.Snapshot, error) {
	if f.GetSnapshotFunc != nil {
		return f.GetSnapshotFunc(ctx, trackID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.snapshots[trackID]
	if !ok {
		return nil, leaderboarddb.ErrSnapshotNotFound
	}
	copied := *snapshot
	return &copied, nil
}

var _ leaderboarddb.Repository = (*FakeSnapshotRepo)(nil)

// ------------------------
// Fake Registry Repo
// ------------------------

type FakeRegistryRepo struct {
	mu          sync.Mutex
	Tracks      []registrydb.Track
	Rooms       []registrydb.Room
	Teams       []registrydb.Team
	Criteria    []registrydb.Criterion
	TotalScores map[sharedtypes.TeamID]sharedtypes.Score

	ListTeamsFunc           func(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error)
	ListCriteriaFunc        func(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]registrydb.Criterion, error)
	GetTeamFunc             func(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) (*registrydb.Team, error)
	WriteTeamTotalScoreFunc func(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error
	LockRoomsForTrackFunc   func(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error)
}

func NewFakeRegistryRepo() *FakeRegistryRepo {
	return &FakeRegistryRepo{
		TotalScores: make(map[sharedtypes.TeamID]sharedtypes.Score),
	}
}

func (f *FakeRegistryRepo) CreateTrack(ctx context.Context, track *registrydb.Track) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Tracks = append(f.Tracks, *track)
	return nil
}

func (f *FakeRegistryRepo) GetTrack(ctx context.Context, trackID sharedtypes.TrackID) (*registrydb.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Tracks {
		if f.Tracks[i].ID == trackID {
			track := f.Tracks[i]
			return &track, nil
		}
	}
	return nil, registrydb.ErrTrackNotFound
}

func (f *FakeRegistryRepo) ListTracks(ctx context.Context) ([]registrydb.Track, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]registrydb.Track(nil), f.Tracks...), nil
}

func (f *FakeRegistryRepo) CreateRoom(ctx context.Context, room *registrydb.Room) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Rooms = append(f.Rooms, *room)
	return nil
}

func (f *FakeRegistryRepo) GetRoom(ctx context.Context, db bun.IDB, roomID sharedtypes.RoomID) (*registrydb.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Rooms {
		if f.Rooms[i].ID == roomID {
			room := f.Rooms[i]
			return &room, nil
		}
	}
	return nil, registrydb.ErrRoomNotFound
}

func (f *FakeRegistryRepo) ListRooms(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rooms []registrydb.Room
	for _, room := range f.Rooms {
		if room.TrackID == trackID {
			rooms = append(rooms, room)
		}
	}
	return rooms, nil
}

func (f *FakeRegistryRepo) LockRoomsForTrack(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) (int, error) {
	if f.LockRoomsForTrackFunc != nil {
		return f.LockRoomsForTrackFunc(ctx, db, trackID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
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
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Teams = append(f.Teams, *team)
	return nil
}

func (f *FakeRegistryRepo) GetTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) (*registrydb.Team, error) {
	if f.GetTeamFunc != nil {
		return f.GetTeamFunc(ctx, db, teamID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.Teams {
		if f.Teams[i].ID == teamID {
			team := f.Teams[i]
			return &team, nil
		}
	}
	return nil, registrydb.ErrTeamNotFound
}

func (f *FakeRegistryRepo) ListTeams(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error) {
	if f.ListTeamsFunc != nil {
		return f.ListTeamsFunc(ctx, trackID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var teams []registrydb.Team
	for _, team := range f.Teams {
		if team.TrackID == trackID {
			teams = append(teams, team)
		}
	}
	return teams, nil
}

func (f *FakeRegistryRepo) NextTeamNumber(ctx context.Context, trackID sharedtypes.TrackID) (sharedtypes.TeamNumber, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	max := sharedtypes.TeamNumber(0)
	for _, team := range f.Teams {
		if team.TrackID == trackID && team.TeamNumber > max {
			max = team.TeamNumber
		}
	}
	return max + 1, nil
}

func (f *FakeRegistryRepo) WriteTeamTotalScore(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, value sharedtypes.Score) error {
	if f.WriteTeamTotalScoreFunc != nil {
		return f.WriteTeamTotalScoreFunc(ctx, db, teamID, value)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.TotalScores[teamID] = value
	return nil
}

func (f *FakeRegistryRepo) CreateCriterion(ctx context.Context, criterion *registrydb.Criterion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Criteria = append(f.Criteria, *criterion)
	return nil
}

func (f *FakeRegistryRepo) ListCriteria(ctx context.Context, db bun.IDB, trackID sharedtypes.TrackID) ([]registrydb.Criterion, error) {
	if f.ListCriteriaFunc != nil {
		return f.ListCriteriaFunc(ctx, db, trackID)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	var criteria []registrydb.Criterion
	for _, c := range f.Criteria {
		if c.TrackID == trackID {
			criteria = append(criteria, c)
		}
	}
	return criteria, nil
}

var _ registrydb.Repository = (*FakeRegistryRepo)(nil)

// ------------------------
// Fake Score Repo
// ------------------------

type FakeScoreRepo struct {
	mu     sync.Mutex
	Scores []scoringdb.JudgeScore

	GetScoresForTeamsFunc func(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]scoringdb.JudgeScore, error)
}

func (f *FakeScoreRepo) ReplaceJudgeScores(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, judgeKey string, rows []scoringdb.JudgeScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	kept := f.Scores[:0]
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
	return f.GetScoresForTeams(ctx, db, []sharedtypes.TeamID{teamID})
}

func (f *FakeScoreRepo) GetScoresForTeams(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]scoringdb.JudgeScore, error) {
	if f.GetScoresForTeamsFunc != nil {
		return f.GetScoresForTeamsFunc(ctx, db, teamIDs)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[sharedtypes.TeamID]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var scores []scoringdb.JudgeScore
	for _, s := range f.Scores {
		if wanted[s.TeamID] {
			scores = append(scores, s)
		}
	}
	return scores, nil
}

var _ scoringdb.Repository = (*FakeScoreRepo)(nil)

// ------------------------
// Fake Vote Repo
// ------------------------

type FakeVoteRepo struct {
	mu    sync.Mutex
	Votes []votingdb.PublicVote

	GetVotesForTeamsFunc func(ctx context.Context, teamIDs []sharedtypes.TeamID) ([]votingdb.PublicVote, error)
}

func (f *FakeVoteRepo) InsertVotes(ctx context.Context, votes []votingdb.PublicVote) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Votes = append(f.Votes, votes...)
	return nil
}

func (f *FakeVoteRepo) GetVotesForTeam(ctx context.Context, teamID sharedtypes.TeamID) ([]votingdb.PublicVote, error) {
	return f.GetVotesForTeams(ctx, []sharedtypes.TeamID{teamID})
}

func (f *FakeVoteRepo) GetVotesForTeams(ctx context.Context, teamIDs []sharedtypes.TeamID) ([]votingdb.PublicVote, error) {
	if f.GetVotesForTeamsFunc != nil {
		return f.GetVotesForTeamsFunc(ctx, teamIDs)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	wanted := make(map[sharedtypes.TeamID]bool, len(teamIDs))
	for _, id := range teamIDs {
		wanted[id] = true
	}
	var votes []votingdb.PublicVote
	for _, v := range f.Votes {
		if wanted[v.TeamID] {
			votes = append(votes, v)
		}
	}
	return votes, nil
}

var _ votingdb.Repository = (*FakeVoteRepo)(nil)

// ------------------------
// Fake Event Bus
// ------------------------

type FakeEventBus struct {
	mu        sync.Mutex
	Published map[string][]*message.Message

	PublishFunc func(topic string, messages ...*message.Message) error
}

func NewFakeEventBus() *FakeEventBus {
	return &FakeEventBus{Published: make(map[string][]*message.Message)}
}

func (f *FakeEventBus) Publish(topic string, messages ...*message.Message) error {
	if f.PublishFunc != nil {
		return f.PublishFunc(topic, messages...)
	}
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
