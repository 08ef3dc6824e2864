package votingmigrations

import (
	"context"

	"github.com/uptrace/bun"

	votingdb "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		if _, err := db.NewCreateTable().Model((*votingdb.PublicVote)(nil)).IfNotExists().Exec(ctx); err != nil {
			return err
		}
		if _, err := db.NewCreateIndex().
			Model((*votingdb.PublicVote)(nil)).
			Index("public_votes_team_idx").
			Column("team_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}
		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		_, err := db.NewDropTable().Model((*votingdb.PublicVote)(nil)).IfExists().Exec(ctx)
		return err
	})
}
