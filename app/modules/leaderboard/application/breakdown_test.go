package leaderboardservice

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

func TestGetTeamBreakdown_ExplainsTheFinalScore(t *testing.T) {
	f := newServiceFixture(t)
	teamID := f.teamIDs[0]

	f.addScore(teamID, judgeID("j1"), "Alice", f.criterion, 9)
	f.addScore(teamID, nil, "Walk-up Bob", f.criterion, 5)
	f.addVote(teamID, "s1", 8)
	f.addVote(teamID, "s1", 4)
	f.addVote(teamID, "s2", 6)

	result, err := f.service.GetTeamBreakdown(context.Background(), teamID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)

	payload := result.Success
	assert.Equal(t, teamID, payload.TeamID)
	assert.Equal(t, sharedtypes.TeamNumber(1), payload.TeamNumber)

	require.Len(t, payload.JudgeSubtotals, 2)
	assert.Equal(t, "Walk-up Bob", payload.JudgeSubtotals[0].JudgeKey)
	assert.Equal(t, sharedtypes.Score(5), payload.JudgeSubtotals[0].Subtotal)
	assert.Equal(t, "j1", payload.JudgeSubtotals[1].JudgeKey)
	assert.Equal(t, sharedtypes.Score(9), payload.JudgeSubtotals[1].Subtotal)

	assert.Equal(t, sharedtypes.Score(7), payload.JudgeScore)
	assert.Equal(t, sharedtypes.Score(6), payload.PublicScore)
	assert.Equal(t, 3, payload.NumVotes)
	assert.Equal(t, 2, payload.VoterSessions)
	assert.InDelta(t, 7*0.9+6*0.1, float64(payload.FinalScore), 1e-9)
}

func TestGetTeamBreakdown_UnknownTeam(t *testing.T) {
	f := newServiceFixture(t)

	result, err := f.service.GetTeamBreakdown(context.Background(), uuid.New())
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "team not found", result.Failure.Reason)
}

func TestGetTeamBreakdown_UnavailableInsteadOfZeros(t *testing.T) {
	f := newServiceFixture(t)
	f.scoring.GetScoresForTeamsFunc = func(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]scoringdb.JudgeScore, error) {
		return nil, errors.New("score store down")
	}

	result, err := f.service.GetTeamBreakdown(context.Background(), f.teamIDs[0])
	require.NoError(t, err)
	require.NotNil(t, result.Failure)
	assert.Equal(t, "score data unavailable", result.Failure.Reason)
	assert.Nil(t, result.Success)
}

func TestGetTeamBreakdown_ForeignRowsAreExcluded(t *testing.T) {
	f := newServiceFixture(t)
	teamID := f.teamIDs[0]

	f.addScore(teamID, judgeID("j1"), "Alice", f.criterion, 6)
	f.addScore(teamID, judgeID("j1"), "Alice", uuid.New(), 100)

	result, err := f.service.GetTeamBreakdown(context.Background(), teamID)
	require.NoError(t, err)
	require.NotNil(t, result.Success)

	require.Len(t, result.Success.JudgeSubtotals, 1)
	assert.Equal(t, sharedtypes.Score(6), result.Success.JudgeSubtotals[0].Subtotal)
}
