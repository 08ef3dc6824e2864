package scoringmigrations

import (
	"context"

	"github.com/uptrace/bun"

	scoringdb "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*scoringdb.JudgeScore)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*scoringdb.JudgeScore)(nil)).
			Index("judge_scores_team_idx").
			Column("team_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().Model((*scoringdb.JudgeScore)(nil)).IfExists().Exec(ctx)
		return err
	})
}
