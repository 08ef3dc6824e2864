package leaderboardservice

import (
	"context"
	"errors"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// GetTeamBreakdown explains how one team's final score is derived: the
// per-judge subtotals, the two channel scores, and the weighted total.
func (s *LeaderboardService) GetTeamBreakdown(ctx context.Context, teamID sharedtypes.TeamID) (GetTeamBreakdownResult, error) {
	return withTelemetry(s, ctx, "GetTeamBreakdown", teamID, func(ctx context.Context) (GetTeamBreakdownResult, error) {
		team, err := s.registry.GetTeam(ctx, nil, teamID)
		if err != nil {
			if errors.Is(err, registrydb.ErrTeamNotFound) {
				return results.FailureResult[TeamBreakdownPayload, BreakdownUnavailablePayload](BreakdownUnavailablePayload{
					TeamID: teamID,
					Reason: "team not found",
				}), nil
			}
			return GetTeamBreakdownResult{}, err
		}

		criteria, err := s.registry.ListCriteria(ctx, nil, team.TrackID)
		if err != nil {
			return s.breakdownUnavailable(ctx, teamID, err), nil
		}
		infos := make([]sharedtypes.CriterionInfo, 0, len(criteria))
		for i := range criteria {
			infos = append(infos, criteria[i].Info())
		}
		criterionSet := leaderboarddomain.NewCriterionSet(infos)

		scores, err := s.scoring.GetScoresForTeam(ctx, nil, teamID)
		if err != nil {
			return s.breakdownUnavailable(ctx, teamID, err), nil
		}
		scoreRows := make([]sharedtypes.ScoreRow, 0, len(scores))
		for i := range scores {
			scoreRows = append(scoreRows, scores[i].Row())
		}

		votes, err := s.voting.GetVotesForTeam(ctx, teamID)
		if err != nil {
			return s.breakdownUnavailable(ctx, teamID, err), nil
		}
		voteRows := make([]sharedtypes.VoteRow, 0, len(votes))
		for i := range votes {
			voteRows = append(voteRows, votes[i].Row())
		}

		subtotals, skipped := leaderboarddomain.JudgeSubtotals(scoreRows, criterionSet)
		if skipped > 0 {
			s.logger.WarnContext(ctx, "Skipped score rows referencing foreign criteria",
				attr.UUID("team_id", teamID),
				attr.Int("skipped_rows", skipped),
			)
			for i := 0; i < skipped; i++ {
				s.metrics.RecordForeignCriterionSkipped(ctx)
			}
		}
		judgeScore := leaderboarddomain.TeamJudgeScore(subtotals)
		publicScore, numVotes, sessions := leaderboarddomain.PublicVoteScore(voteRows, criterionSet)

		return results.SuccessResult[TeamBreakdownPayload, BreakdownUnavailablePayload](TeamBreakdownPayload{
			TeamID:         team.ID,
			TeamName:       team.Name,
			TeamNumber:     team.TeamNumber,
			JudgeSubtotals: subtotals,
			JudgeScore:     judgeScore,
			PublicScore:    publicScore,
			NumVotes:       numVotes,
			VoterSessions:  sessions,
			FinalScore:     leaderboarddomain.FinalScore(judgeScore, publicScore),
		}), nil
	})
}

func (s *LeaderboardService) breakdownUnavailable(ctx context.Context, teamID sharedtypes.TeamID, err error) GetTeamBreakdownResult {
	s.logger.ErrorContext(ctx, "Failed to fetch rows for team breakdown",
		attr.UUID("team_id", teamID),
		attr.Error(err),
	)
	return results.FailureResult[TeamBreakdownPayload, BreakdownUnavailablePayload](BreakdownUnavailablePayload{
		TeamID: teamID,
		Reason: "score data unavailable",
	})
}
