package votingdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Repository is the data access contract for public votes.
type Repository interface {
	InsertVotes(ctx context.Context, votes []PublicVote) error
	GetVotesForTeam(ctx context.Context, teamID sharedtypes.TeamID) ([]PublicVote, error)
	GetVotesForTeams(ctx context.Context, teamIDs []sharedtypes.TeamID) ([]PublicVote, error)
}

// RepositoryImpl handles database operations for public votes.
type RepositoryImpl struct {
	DB *bun.DB
}

var _ Repository = (*RepositoryImpl)(nil)

// InsertVotes appends vote rows. Votes are never updated or deleted.
func (r *RepositoryImpl) InsertVotes(ctx context.Context, votes []PublicVote) error {
	if len(votes) == 0 {
		return nil
	}
	if _, err := r.DB.NewInsert().Model(&votes).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert votes: %w", err)
	}
	return nil
}

// GetVotesForTeam returns all vote rows for one team.
func (r *RepositoryImpl) GetVotesForTeam(ctx context.Context, teamID sharedtypes.TeamID) ([]PublicVote, error) {
	var votes []PublicVote
	err := r.DB.NewSelect().
		Model(&votes).
		Where("team_id = ?", teamID).
		Order("voted_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes for team: %w", err)
	}
	return votes, nil
}

// GetVotesForTeams returns all vote rows for a set of teams.
func (r *RepositoryImpl) GetVotesForTeams(ctx context.Context, teamIDs []sharedtypes.TeamID) ([]PublicVote, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var votes []PublicVote
	err := r.DB.NewSelect().
		Model(&votes).
		Where("team_id IN (?)", bun.In(teamIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get votes for teams: %w", err)
	}
	return votes, nil
}
