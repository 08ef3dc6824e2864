package leaderboardservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
	"github.com/hackboard-live/hackboard/internal/observability"
)

type serviceFixture struct {
	service  *LeaderboardService
	repo     *FakeSnapshotRepo
	registry *FakeRegistryRepo
	scoring  *FakeScoreRepo
	voting   *FakeVoteRepo
	bus      *FakeEventBus

	trackID   sharedtypes.TrackID
	roomID    sharedtypes.RoomID
	teamIDs   []sharedtypes.TeamID
	criterion sharedtypes.CriterionID
}

func judgeID(id string) *sharedtypes.JudgeID {
	j := sharedtypes.JudgeID(id)
	return &j
}

// newServiceFixture seeds one track with a room, three teams, and one
// criterion, then builds a service over in-memory fakes.
func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()

	f := &serviceFixture{
		repo:     NewFakeSnapshotRepo(),
		registry: NewFakeRegistryRepo(),
		scoring:  &FakeScoreRepo{},
		voting:   &FakeVoteRepo{},
		bus:      NewFakeEventBus(),
		trackID:  uuid.New(),
		roomID:   uuid.New(),
	}

	f.registry.Tracks = []registrydb.Track{{ID: f.trackID, Name: "AI"}}
	f.registry.Rooms = []registrydb.Room{{ID: f.roomID, TrackID: f.trackID, Name: "Room 1"}}
	for i := 1; i <= 3; i++ {
		team := registrydb.Team{
			ID:         uuid.New(),
			TrackID:    f.trackID,
			RoomID:     f.roomID,
			Name:       "Team",
			TeamNumber: sharedtypes.TeamNumber(i),
		}
		f.registry.Teams = append(f.registry.Teams, team)
		f.teamIDs = append(f.teamIDs, team.ID)
	}
	f.criterion = uuid.New()
	f.registry.Criteria = []registrydb.Criterion{
		{ID: f.criterion, TrackID: f.trackID, Title: "Impact", MaxScore: 10},
	}

	obs := observability.NewForTest()
	f.service = NewLeaderboardService(
		f.repo, f.registry, f.scoring, f.voting, f.bus,
		obs.Provider.Logger,
		obs.Registry.LeaderboardMetrics,
		obs.Provider.Tracer,
		nil,
	)
	return f
}

func (f *serviceFixture) addScore(teamID sharedtypes.TeamID, judge *sharedtypes.JudgeID, judgeName string, criterionID sharedtypes.CriterionID, score sharedtypes.Score) {
	f.scoring.Scores = append(f.scoring.Scores, scoringdb.JudgeScore{
		ID:          uuid.New(),
		TeamID:      teamID,
		JudgeID:     judge,
		JudgeName:   judgeName,
		CriterionID: criterionID,
		Score:       score,
	})
}

func (f *serviceFixture) addVote(teamID sharedtypes.TeamID, session sharedtypes.SessionID, score sharedtypes.Score) {
	f.voting.Votes = append(f.voting.Votes, votingdb.PublicVote{
		ID:          uuid.New(),
		TeamID:      teamID,
		SessionID:   session,
		CriterionID: f.criterion,
		Score:       score,
	})
}

func TestRecomputeStandings_RanksAndPersists(t *testing.T) {
	f := newServiceFixture(t)

	f.addScore(f.teamIDs[0], judgeID("j1"), "Alice", f.criterion, 8)
	f.addScore(f.teamIDs[1], judgeID("j1"), "Alice", f.criterion, 4)
	f.addVote(f.teamIDs[1], "s1", 10)

	result, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)

	standings := result.Success.Standings
	require.Len(t, standings, 3)

	// Team 1: 8*0.9 = 7.2, team 2: 4*0.9 + 10*0.1 = 4.6, team 3: 0.
	assert.Equal(t, f.teamIDs[0], standings[0].TeamID)
	assert.Equal(t, 1, standings[0].Rank)
	assert.InDelta(t, 7.2, float64(standings[0].FinalScore), 1e-9)
	assert.Equal(t, f.teamIDs[1], standings[1].TeamID)
	assert.InDelta(t, 4.6, float64(standings[1].FinalScore), 1e-9)
	assert.Equal(t, f.teamIDs[2], standings[2].TeamID)
	assert.Equal(t, 3, standings[2].Rank)

	snapshot, err := f.repo.GetSnapshot(context.Background(), f.trackID)
	require.NoError(t, err)
	assert.Equal(t, result.Success.Generation, snapshot.Generation)
	assert.Equal(t, standings, snapshot.Standings)
}

func TestRecomputeStandings_SupersededResultIsNotReported(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.UpsertSnapshotFunc = func(ctx context.Context, db bun.IDB, snapshot *leaderboarddb.Snapshot) (bool, error) {
		return false, nil
	}

	result, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "superseded by a newer recomputation", result.Failure.Reason)
	assert.Nil(t, result.Success)
}

func TestRecomputeStandings_GenerationsIncrease(t *testing.T) {
	f := newServiceFixture(t)

	first, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.NoError(t, err)
	second, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.NoError(t, err)

	require.NotNil(t, first.Success)
	require.NotNil(t, second.Success)
	assert.Greater(t, second.Success.Generation, first.Success.Generation)
}

func TestRecomputeStandings_FetchErrorSurfacesAsError(t *testing.T) {
	f := newServiceFixture(t)
	f.registry.ListTeamsFunc = func(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error) {
		return nil, errors.New("connection refused")
	}

	_, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to fetch teams")
}

func TestGetLeaderboard_ServesStoredSnapshot(t *testing.T) {
	f := newServiceFixture(t)

	computed, err := f.service.RecomputeStandings(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, computed.Success)

	// Break the raw stores; the snapshot alone must serve the read.
	f.registry.ListTeamsFunc = func(ctx context.Context, trackID sharedtypes.TrackID) ([]registrydb.Team, error) {
		return nil, errors.New("down")
	}

	result, err := f.service.GetLeaderboard(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)
	assert.Equal(t, computed.Success.Generation, result.Success.Generation)
	assert.Equal(t, computed.Success.Standings, result.Success.Standings)
}

func TestGetLeaderboard_ComputesOnDemandWhenNoSnapshot(t *testing.T) {
	f := newServiceFixture(t)
	f.addScore(f.teamIDs[0], judgeID("j1"), "Alice", f.criterion, 6)

	result, err := f.service.GetLeaderboard(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)
	require.Len(t, result.Success.Standings, 3)
	assert.InDelta(t, 5.4, float64(result.Success.Standings[0].FinalScore), 1e-9)

	// The on-demand computation persisted a snapshot.
	_, err = f.repo.GetSnapshot(context.Background(), f.trackID)
	require.NoError(t, err)
}

func TestGetLeaderboard_UnavailableInsteadOfZeros(t *testing.T) {
	f := newServiceFixture(t)
	f.scoring.GetScoresForTeamsFunc = func(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]scoringdb.JudgeScore, error) {
		return nil, errors.New("score store down")
	}

	result, err := f.service.GetLeaderboard(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "standings unavailable", result.Failure.Reason)
	assert.Nil(t, result.Success)
}

func TestGetLeaderboard_SnapshotReadErrorIsUnavailable(t *testing.T) {
	f := newServiceFixture(t)
	f.repo.GetSnapshotFunc = func(ctx context.Context, trackID sharedtypes.TrackID) (*leaderboarddb.Snapshot, error) {
		return nil, errors.New("snapshot store down")
	}

	result, err := f.service.GetLeaderboard(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "standings unavailable", result.Failure.Reason)
}

func TestGetLeaderboard_PrefersFresherSnapshotWhenSuperseded(t *testing.T) {
	f := newServiceFixture(t)

	fresher := &leaderboarddb.Snapshot{
		TrackID:    f.trackID,
		Generation: 1 << 62,
		Standings:  nil,
	}
	calls := 0
	f.repo.GetSnapshotFunc = func(ctx context.Context, trackID sharedtypes.TrackID) (*leaderboarddb.Snapshot, error) {
		calls++
		if calls == 1 {
			// First read misses so the on-demand path runs.
			return nil, leaderboarddb.ErrSnapshotNotFound
		}
		return fresher, nil
	}
	f.repo.UpsertSnapshotFunc = func(ctx context.Context, db bun.IDB, snapshot *leaderboarddb.Snapshot) (bool, error) {
		return false, nil
	}

	result, err := f.service.GetLeaderboard(context.Background(), f.trackID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)
	assert.Equal(t, fresher.Generation, result.Success.Generation)
}
