package leaderboardmigrations

import (
	"context"

	"github.com/uptrace/bun"

	leaderboarddb "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewCreateTable().Model((*leaderboarddb.Snapshot)(nil)).IfNotExists().Exec(ctx)
		return err
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().Model((*leaderboarddb.Snapshot)(nil)).IfExists().Exec(ctx)
		return err
	})
}
