package scoringdb

import (
	"context"

	"github.com/uptrace/bun"

	sharedtypes "github.com/hackboard-live/hackboard/app/shared/types"
)

// Repository is the data access contract for judge scores. A nil bun.IDB
// means the pool connection; passing a transaction makes the replace-all
// submission atomic against concurrent readers.
type Repository interface {
	// ReplaceJudgeScores deletes the judge's existing rows for the team and
	// inserts the new set. Must be called inside a transaction.
	ReplaceJudgeScores(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID, judgeKey string, rows []JudgeScore) error
	GetScoresForTeam(ctx context.Context, db bun.IDB, teamID sharedtypes.TeamID) ([]JudgeScore, error)
	GetScoresForTeams(ctx context.Context, db bun.IDB, teamIDs []sharedtypes.TeamID) ([]JudgeScore, error)
}
