package registryservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
	"github.com/hackboard-live/hackboard/internal/observability"
)

func newRegistryService(repo *FakeRegistryRepo) *RegistryService {
	obs := observability.NewForTest()
	return NewRegistryService(
		repo,
		obs.Provider.Logger,
		obs.Registry.RegistryMetrics,
		obs.Provider.Tracer,
	)
}

func TestCreateTrack(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	track, err := service.CreateTrack(context.Background(), "FinTech")
	require.NoError(t, err)
	assert.Equal(t, "FinTech", track.Name)
	assert.NotEqual(t, uuid.Nil, track.ID)
	require.Len(t, repo.Tracks, 1)
}

func TestCreateTrack_EmptyName(t *testing.T) {
	service := newRegistryService(&FakeRegistryRepo{})

	_, err := service.CreateTrack(context.Background(), "   ")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyName)
}

func TestCreateTrack_RepoErrorSurfaces(t *testing.T) {
	repo := &FakeRegistryRepo{
		CreateTrackFunc: func(ctx context.Context, track *registrydb.Track) error {
			return errors.New("insert failed")
		},
	}
	service := newRegistryService(repo)

	_, err := service.CreateTrack(context.Background(), "FinTech")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert failed")
}

func TestCreateRoom(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	track, err := service.CreateTrack(context.Background(), "AI")
	require.NoError(t, err)

	room, err := service.CreateRoom(context.Background(), track.ID, "Room 1")
	require.NoError(t, err)
	assert.Equal(t, track.ID, room.TrackID)
	assert.False(t, room.Locked)
}

func TestCreateRoom_UnknownTrack(t *testing.T) {
	service := newRegistryService(&FakeRegistryRepo{})

	_, err := service.CreateRoom(context.Background(), uuid.New(), "Room 1")
	require.Error(t, err)
	assert.ErrorIs(t, err, registrydb.ErrTrackNotFound)
}

func TestCreateTeam_AssignsAscendingTeamNumbers(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	track, err := service.CreateTrack(context.Background(), "AI")
	require.NoError(t, err)
	room, err := service.CreateRoom(context.Background(), track.ID, "Room 1")
	require.NoError(t, err)

	for i := 1; i <= 3; i++ {
		team, err := service.CreateTeam(context.Background(), track.ID, room.ID, "Team")
		require.NoError(t, err)
		assert.Equal(t, sharedtypes.TeamNumber(i), team.TeamNumber)
	}
}

func TestCreateTeam_RoomTrackMismatch(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	trackA, err := service.CreateTrack(context.Background(), "AI")
	require.NoError(t, err)
	trackB, err := service.CreateTrack(context.Background(), "FinTech")
	require.NoError(t, err)
	roomB, err := service.CreateRoom(context.Background(), trackB.ID, "Room 1")
	require.NoError(t, err)

	_, err = service.CreateTeam(context.Background(), trackA.ID, roomB.ID, "Team")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoomTrackMismatch)
}

func TestCreateCriterion(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	track, err := service.CreateTrack(context.Background(), "AI")
	require.NoError(t, err)

	t.Run("weightage defaults to one", func(t *testing.T) {
		criterion, err := service.CreateCriterion(context.Background(), CreateCriterionInput{
			TrackID:  track.ID,
			Title:    "Impact",
			MaxScore: 10,
		})
		require.NoError(t, err)
		assert.Equal(t, float64(1), criterion.Weightage)
	})

	t.Run("dropdown options are kept", func(t *testing.T) {
		criterion, err := service.CreateCriterion(context.Background(), CreateCriterionInput{
			TrackID:  track.ID,
			Title:    "Demo",
			MaxScore: 5,
			Options: []sharedtypes.CriterionOption{
				{Label: "Weak", Score: 1},
				{Label: "Outstanding", Score: 5},
			},
		})
		require.NoError(t, err)
		require.Len(t, criterion.Options, 2)
	})

	t.Run("max score must be positive", func(t *testing.T) {
		_, err := service.CreateCriterion(context.Background(), CreateCriterionInput{
			TrackID:  track.ID,
			Title:    "Broken",
			MaxScore: 0,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidMaxScore)
	})

	t.Run("empty title", func(t *testing.T) {
		_, err := service.CreateCriterion(context.Background(), CreateCriterionInput{
			TrackID:  track.ID,
			Title:    "",
			MaxScore: 10,
		})
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrEmptyName)
	})
}

func TestListCriteria_ReturnsAggregationShape(t *testing.T) {
	repo := &FakeRegistryRepo{}
	service := newRegistryService(repo)

	track, err := service.CreateTrack(context.Background(), "AI")
	require.NoError(t, err)
	criterion, err := service.CreateCriterion(context.Background(), CreateCriterionInput{
		TrackID:  track.ID,
		Title:    "Impact",
		MaxScore: 10,
	})
	require.NoError(t, err)

	infos, err := service.ListCriteria(context.Background(), track.ID)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, criterion.ID, infos[0].ID)
	assert.Equal(t, sharedtypes.Score(10), infos[0].MaxScore)
}
