package scoringdb

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// RepositoryImpl handles database operations for judge scores.
type RepositoryImpl struct {
	DB *bun.DB
}

var _ Repository = (*RepositoryImpl)(nil)

func (r *RepositoryImpl) idb(db bun.IDB) bun.IDB {
	if db != nil {
		return db
	}
	return r.DB
}

// ReplaceJudgeScores deletes the judge's rows for the team and inserts the
// new set. The caller supplies the transaction; running delete and insert in
// one transaction closes the transient window where a concurrent reader
// would observe zero rows for the judge.
func (r *RepositoryImpl) ReplaceJudgeScores(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, judgeKey string, rows []JudgeScore) error {
	idb := r.idb(db)

	_, err := idb.NewDelete().
		Model((*JudgeScore)(nil)).
		Where("team_id = ?", teamID).
		Where("COALESCE(judge_id, judge_name) = ?", judgeKey).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete existing judge scores: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	if _, err := idb.NewInsert().Model(&rows).Exec(ctx); err != nil {
		return fmt.Errorf("failed to insert judge scores: %w", err)
	}
	return nil
}

// GetScoresForTeam returns all judge score rows for one team.
func (r *RepositoryImpl) GetScoresForTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) ([]JudgeScore, error) {
	var scores []JudgeScore
	err := r.idb(db).NewSelect().
		Model(&scores).
		Where("team_id = ?", teamID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores for team: %w", err)
	}
	return scores, nil
}

// GetScoresForTeams returns all judge score rows for a set of teams.
func (r *RepositoryImpl) GetScoresForTeams(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]JudgeScore, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}
	var scores []JudgeScore
	err := r.idb(db).NewSelect().
		Model(&scores).
		Where("team_id IN (?)", bun.In(teamIDs)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get scores for teams: %w", err)
	}
	return scores, nil
}
