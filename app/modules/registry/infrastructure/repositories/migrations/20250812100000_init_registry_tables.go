package registrymigrations

import (
	"context"

	"github.com/uptrace/bun"

	registrydb "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		for _, model := range []any{
			(*registrydb.Track)(nil),
			(*registrydb.Room)(nil),
			(*registrydb.Team)(nil),
			(*registrydb.Criterion)(nil),
		} {
			if _, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
				return err
			}
		}

		if _, err := db.NewCreateIndex().
			Model((*registrydb.Team)(nil)).
			Index("teams_track_number_uq").
			Unique().
			Column("track_id", "team_number").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		if _, err := db.NewCreateIndex().
			Model((*registrydb.Criterion)(nil)).
			Index("criteria_track_idx").
			Column("track_id").
			IfNotExists().
			Exec(ctx); err != nil {
			return err
		}

		return nil
	}, func(ctx context.Context, db *bun.DB) error {
		for _, model := range []any{
			(*registrydb.Criterion)(nil),
			(*registrydb.Team)(nil),
			(*registrydb.Room)(nil),
			(*registrydb.Track)(nil),
		} {
			if _, err := db.NewDropTable().Model(model).IfExists().Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}
