package leaderboardhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	leaderboardservice "github.com/hackboard-live/hackboard/app/modules/leaderboard/application"
	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	leaderboardevents "github.com/hackboard-live/hackboard/app/modules/leaderboard/events"
	scoringevents "github.com/hackboard-live/hackboard/app/modules/scoring/events"
	votingevents "github.com/hackboard-live/hackboard/app/modules/voting/events"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/app/shared/utils"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
	"github.com/hackboard-live/hackboard/internal/observability"
)

type fakeService struct {
	RecomputeStandingsFunc func(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error)
}

func (f *fakeService) RecomputeStandings(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
	return f.RecomputeStandingsFunc(ctx, trackID)
}

func (f *fakeService) GetLeaderboard(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
	return leaderboardservice.GetLeaderboardResult{}, nil
}

func (f *fakeService) GetTeamBreakdown(ctx context.Context, teamID sharedtypes.TeamID) (leaderboardservice.GetTeamBreakdownResult, error) {
	return leaderboardservice.GetTeamBreakdownResult{}, nil
}

func (f *fakeService) FinalizeTrack(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.FinalizeTrackResult, error) {
	return leaderboardservice.FinalizeTrackResult{}, nil
}

var _ leaderboardservice.Service = (*fakeService)(nil)

func newHandlers(service leaderboardservice.Service) Handlers {
	obs := observability.NewForTest()
	return NewLeaderboardHandlers(
		service,
		obs.Provider.Logger,
		obs.Provider.Tracer,
		utils.NewHelpers(),
		obs.Registry.LeaderboardMetrics,
	)
}

func scoresUpdatedMessage(t *testing.T, trackID sharedtypes.TrackID) *message.Message {
	t.Helper()
	data, err := json.Marshal(scoringevents.TeamScoresUpdatedPayloadV1{
		TrackID:    trackID,
		TeamID:     uuid.New(),
		JudgeKey:   "j1",
		NumEntries: 2,
	})
	require.NoError(t, err)
	msg := message.NewMessage(watermill.NewUUID(), data)
	middleware.SetCorrelationID("corr-1", msg)
	return msg
}

func TestHandleTeamScoresUpdated_BroadcastsStandings(t *testing.T) {
	trackID := uuid.New()
	payload := leaderboardservice.StandingsPayload{
		TrackID:    trackID,
		Generation: 42,
		Standings:  []leaderboarddomain.Standing{{Rank: 1, TeamID: uuid.New()}},
		ComputedAt: time.Now().UTC(),
	}

	service := &fakeService{
		RecomputeStandingsFunc: func(ctx context.Context, gotTrackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
			assert.Equal(t, trackID, gotTrackID)
			return results.SuccessResult[leaderboardservice.StandingsPayload, leaderboardservice.StandingsUnavailablePayload](payload), nil
		},
	}

	out, err := newHandlers(service).HandleTeamScoresUpdated(scoresUpdatedMessage(t, trackID))
	require.NoError(t, err)
	require.Len(t, out, 1)

	assert.Equal(t, leaderboardevents.StandingsUpdatedV1, out[0].Metadata.Get("topic"))
	assert.Equal(t, "corr-1", middleware.MessageCorrelationID(out[0]))

	var broadcast leaderboardevents.StandingsUpdatedPayloadV1
	require.NoError(t, json.Unmarshal(out[0].Payload, &broadcast))
	assert.Equal(t, trackID, broadcast.TrackID)
	assert.Equal(t, int64(42), broadcast.Generation)
	require.Len(t, broadcast.Standings, 1)
}

func TestHandleTeamScoresUpdated_SupersededIsDroppedQuietly(t *testing.T) {
	trackID := uuid.New()
	service := &fakeService{
		RecomputeStandingsFunc: func(ctx context.Context, gotTrackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
			return results.FailureResult[leaderboardservice.StandingsPayload, leaderboardservice.StandingsUnavailablePayload](leaderboardservice.StandingsUnavailablePayload{
				TrackID: gotTrackID,
				Reason:  "superseded by a newer recomputation",
			}), nil
		},
	}

	out, err := newHandlers(service).HandleTeamScoresUpdated(scoresUpdatedMessage(t, trackID))
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestHandleTeamScoresUpdated_ServiceErrorPropagatesForRetry(t *testing.T) {
	service := &fakeService{
		RecomputeStandingsFunc: func(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
			return leaderboardservice.GetLeaderboardResult{}, errors.New("store down")
		},
	}

	_, err := newHandlers(service).HandleTeamScoresUpdated(scoresUpdatedMessage(t, uuid.New()))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to recompute standings")
}

func TestHandleTeamScoresUpdated_BadPayload(t *testing.T) {
	service := &fakeService{
		RecomputeStandingsFunc: func(ctx context.Context, trackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
			t.Fatal("service must not be called for an unparseable payload")
			return leaderboardservice.GetLeaderboardResult{}, nil
		},
	}

	msg := message.NewMessage(watermill.NewUUID(), []byte("not json"))
	_, err := newHandlers(service).HandleTeamScoresUpdated(msg)
	require.Error(t, err)
}

func TestHandleVoteCast_BroadcastsStandings(t *testing.T) {
	trackID := uuid.New()
	service := &fakeService{
		RecomputeStandingsFunc: func(ctx context.Context, gotTrackID sharedtypes.TrackID) (leaderboardservice.GetLeaderboardResult, error) {
			assert.Equal(t, trackID, gotTrackID)
			return results.SuccessResult[leaderboardservice.StandingsPayload, leaderboardservice.StandingsUnavailablePayload](leaderboardservice.StandingsPayload{
				TrackID: trackID,
			}), nil
		},
	}

	data, err := json.Marshal(votingevents.VoteCastPayloadV1{
		TrackID:  trackID,
		TeamID:   uuid.New(),
		NumVotes: 3,
	})
	require.NoError(t, err)

	out, err := newHandlers(service).HandleVoteCast(message.NewMessage(watermill.NewUUID(), data))
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, leaderboardevents.StandingsUpdatedV1, out[0].Metadata.Get("topic"))
}
