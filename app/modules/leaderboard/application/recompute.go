package leaderboardservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	leaderboarddomain "github.com/hackboard-live/hackboard/app/modules/leaderboard/domain"
	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
	"github.com/hackboard-live/hackboard/app/shared/results"
	"github.com/hackboard-live/hackboard/internal/observability/attr"
	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// trackData is everything a standings computation reads. It is fetched as a
// unit; if any part is missing the computation is abandoned rather than
// rendered with zeros in place of the missing rows.
type trackData struct {
	teams        []sharedtypes.TeamInfo
	criteria     leaderboarddomain.CriterionSet
	scoresByTeam map[sharedtypes.TeamID][]sharedtypes.ScoreRow
	votesByTeam  map[sharedtypes.TeamID][]sharedtypes.VoteRow
}

func (s *LeaderboardService) fetchTrackData(ctx context.Context, trackID sharedtypes.TrackID) (*trackData, error) {
	teams, err := s.registry.ListTeams(ctx, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch teams: %w", err)
	}

	criteria, err := s.registry.ListCriteria(ctx, nil, trackID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch criteria: %w", err)
	}

	data := &trackData{
		teams:        make([]sharedtypes.TeamInfo, 0, len(teams)),
		scoresByTeam: make(map[sharedtypes.TeamID][]sharedtypes.ScoreRow),
		votesByTeam:  make(map[sharedtypes.TeamID][]sharedtypes.VoteRow),
	}

	infos := make([]sharedtypes.CriterionInfo, 0, len(criteria))
	for i := range criteria {
		infos = append(infos, criteria[i].Info())
	}
	data.criteria = leaderboarddomain.NewCriterionSet(infos)

	teamIDs := make([]sharedtypes.TeamID, 0, len(teams))
	for i := range teams {
		data.teams = append(data.teams, teams[i].Info())
		teamIDs = append(teamIDs, teams[i].ID)
	}

	scores, err := s.scoring.GetScoresForTeams(ctx, nil, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch judge scores: %w", err)
	}
	for i := range scores {
		row := scores[i].Row()
		data.scoresByTeam[row.TeamID] = append(data.scoresByTeam[row.TeamID], row)
	}

	votes, err := s.voting.GetVotesForTeams(ctx, teamIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch public votes: %w", err)
	}
	for i := range votes {
		row := votes[i].Row()
		data.votesByTeam[row.TeamID] = append(data.votesByTeam[row.TeamID], row)
	}

	return data, nil
}

// aggregate computes every team's score state from the fetched rows.
// Returns the aggregates and the total count of skipped foreign rows.
func aggregate(data *trackData) ([]leaderboarddomain.TeamAggregate, int) {
	aggregates := make([]leaderboarddomain.TeamAggregate, 0, len(data.teams))
	skipped := 0
	for _, team := range data.teams {
		agg := leaderboarddomain.ComputeTeamAggregate(
			team,
			data.scoresByTeam[team.ID],
			data.votesByTeam[team.ID],
			data.criteria,
		)
		skipped += agg.SkippedRows
		aggregates = append(aggregates, agg)
	}
	return aggregates, skipped
}

// recompute fetches, aggregates, ranks, and persists a track's standings.
// Returns the payload and whether the snapshot write applied; false means a
// newer generation landed first and this result was discarded.
func (s *LeaderboardService) recompute(ctx context.Context, trackID sharedtypes.TrackID) (StandingsPayload, bool, error) {
	generation := s.nextGeneration(trackID)

	data, err := s.fetchTrackData(ctx, trackID)
	if err != nil {
		return StandingsPayload{}, false, err
	}

	aggregates, skipped := aggregate(data)
	if skipped > 0 {
		s.logger.WarnContext(ctx, "Skipped score rows referencing foreign criteria",
			attr.UUID("track_id", trackID),
			attr.Int("skipped_rows", skipped),
		)
		for i := 0; i < skipped; i++ {
			s.metrics.RecordForeignCriterionSkipped(ctx)
		}
	}

	standings := leaderboarddomain.Rank(aggregates)
	computedAt := time.Now().UTC()

	applied, err := s.repo.UpsertSnapshot(ctx, nil, &leaderboarddb.Snapshot{
		TrackID:    trackID,
		Generation: generation,
		Standings:  standings,
		ComputedAt: computedAt,
	})
	if err != nil {
		return StandingsPayload{}, false, err
	}

	payload := StandingsPayload{
		TrackID:    trackID,
		Generation: generation,
		Standings:  standings,
		ComputedAt: computedAt,
	}

	if !applied {
		s.metrics.RecordStaleSnapshotDiscarded(ctx)
		return payload, false, nil
	}

	s.metrics.RecordRecompute(ctx, len(standings))
	return payload, true, nil
}

// RecomputeStandings recomputes a track's standings from raw rows. A result
// superseded by a newer recomputation is reported as a failure payload so
// callers do not broadcast stale standings.
func (s *LeaderboardService) RecomputeStandings(ctx context.Context, trackID sharedtypes.TrackID) (GetLeaderboardResult, error) {
	return withTelemetry(s, ctx, "RecomputeStandings", trackID, func(ctx context.Context) (GetLeaderboardResult, error) {
		payload, applied, err := s.recompute(ctx, trackID)
		if err != nil {
			return GetLeaderboardResult{}, err
		}
		if !applied {
			return results.FailureResult[StandingsPayload, StandingsUnavailablePayload](StandingsUnavailablePayload{
				TrackID: trackID,
				Reason:  "superseded by a newer recomputation",
			}), nil
		}
		return results.SuccessResult[StandingsPayload, StandingsUnavailablePayload](payload), nil
	})
}

// GetLeaderboard returns the current standings, computing them on demand
// when no snapshot exists yet. When the raw rows cannot be fetched, the
// result is an explicit unavailable failure, never a board of zeros.
func (s *LeaderboardService) GetLeaderboard(ctx context.Context, trackID sharedtypes.TrackID) (GetLeaderboardResult, error) {
	return withTelemetry(s, ctx, "GetLeaderboard", trackID, func(ctx context.Context) (GetLeaderboardResult, error) {
		snapshot, err := s.repo.GetSnapshot(ctx, trackID)
		if err == nil {
			return results.SuccessResult[StandingsPayload, StandingsUnavailablePayload](StandingsPayload{
				TrackID:    snapshot.TrackID,
				Generation: snapshot.Generation,
				Standings:  snapshot.Standings,
				ComputedAt: snapshot.ComputedAt,
			}), nil
		}
		if !errors.Is(err, leaderboarddb.ErrSnapshotNotFound) {
			s.logger.ErrorContext(ctx, "Failed to read leaderboard snapshot",
				attr.UUID("track_id", trackID),
				attr.Error(err),
			)
			return results.FailureResult[StandingsPayload, StandingsUnavailablePayload](StandingsUnavailablePayload{
				TrackID: trackID,
				Reason:  "standings unavailable",
			}), nil
		}

		payload, applied, err := s.recompute(ctx, trackID)
		if err != nil {
			s.logger.ErrorContext(ctx, "Failed to compute standings on demand",
				attr.UUID("track_id", trackID),
				attr.Error(err),
			)
			return results.FailureResult[StandingsPayload, StandingsUnavailablePayload](StandingsUnavailablePayload{
				TrackID: trackID,
				Reason:  "standings unavailable",
			}), nil
		}
		if !applied {
			// A newer snapshot landed while we computed; prefer it.
			if fresher, rerr := s.repo.GetSnapshot(ctx, trackID); rerr == nil {
				payload = StandingsPayload{
					TrackID:    fresher.TrackID,
					Generation: fresher.Generation,
					Standings:  fresher.Standings,
					ComputedAt: fresher.ComputedAt,
				}
			}
		}
		return results.SuccessResult[StandingsPayload, StandingsUnavailablePayload](payload), nil
	})
}
