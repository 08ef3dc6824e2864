package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
	"github.com/urfave/cli/v2"

	leaderboardmigrations "github.com/hackboard-live/hackboard/app/modules/leaderboard/infrastructure/repositories/migrations"
	registrymigrations "github.com/hackboard-live/hackboard/app/modules/registry/infrastructure/repositories/migrations"
	scoringmigrations "github.com/hackboard-live/hackboard/app/modules/scoring/infrastructure/repositories/migrations"
	votingmigrations "github.com/hackboard-live/hackboard/app/modules/voting/infrastructure/repositories/migrations"
	"github.com/hackboard-live/hackboard/config"
	"github.com/hackboard-live/hackboard/db/bundb"
)

// moduleSet pairs a module name with its migration set. Order matters:
// registry tables must exist before the modules that reference them.
type moduleSet struct {
	name       string
	migrations *migrate.Migrations
}

var moduleSets = []moduleSet{
	{"registry", registrymigrations.Migrations},
	{"scoring", scoringmigrations.Migrations},
	{"voting", votingmigrations.Migrations},
	{"leaderboard", leaderboardmigrations.Migrations},
}

func main() {
	configFile := flag.String("config", "config.yaml", "Path to the configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx := context.Background()
	db, err := bundb.NewDB(ctx, cfg.Postgres.DSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	cliApp := &cli.App{
		Name:  "bun",
		Usage: "schema migrations for the judging backend",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "module",
				Usage: "restrict to a single module's migration set",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "init",
				Usage: "create migration bookkeeping tables",
				Action: func(c *cli.Context) error {
					return forEachModule(c, db, func(ctx context.Context, set moduleSet, m *migrate.Migrator) error {
						fmt.Printf("initializing %s migrations\n", set.name)
						return m.Init(ctx)
					})
				},
			},
			{
				Name:  "migrate",
				Usage: "apply pending migrations",
				Action: func(c *cli.Context) error {
					return forEachModule(c, db, func(ctx context.Context, set moduleSet, m *migrate.Migrator) error {
						group, err := m.Migrate(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: up to date\n", set.name)
						} else {
							fmt.Printf("%s: migrated to %s\n", set.name, group)
						}
						return nil
					})
				},
			},
			{
				Name:  "rollback",
				Usage: "roll back the last migration group",
				Action: func(c *cli.Context) error {
					return forEachModule(c, db, func(ctx context.Context, set moduleSet, m *migrate.Migrator) error {
						group, err := m.Rollback(ctx)
						if err != nil {
							return err
						}
						if group.IsZero() {
							fmt.Printf("%s: nothing to roll back\n", set.name)
						} else {
							fmt.Printf("%s: rolled back %s\n", set.name, group)
						}
						return nil
					})
				},
			},
			{
				Name:      "create_go",
				Usage:     "create a Go migration in the named module",
				ArgsUsage: "<module> <name...>",
				Action: func(c *cli.Context) error {
					set, err := findModule(c.Args().First())
					if err != nil {
						return err
					}
					name := strings.Join(c.Args().Tail(), "_")
					mf, err := migrate.NewMigrator(db, set.migrations).CreateGoMigration(c.Context, name)
					if err != nil {
						return err
					}
					fmt.Printf("%s: created %s (%s)\n", set.name, mf.Name, mf.Path)
					return nil
				},
			},
			{
				Name:  "status",
				Usage: "print migration status per module",
				Action: func(c *cli.Context) error {
					return forEachModule(c, db, func(ctx context.Context, set moduleSet, m *migrate.Migrator) error {
						ms, err := m.MigrationsWithStatus(ctx)
						if err != nil {
							return err
						}
						fmt.Printf("%s:\n  applied: %s\n  pending: %s\n", set.name, ms.Applied(), ms.Unapplied())
						return nil
					})
				},
			},
		},
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// forEachModule runs fn over every module set in dependency order, or just
// the one named by --module.
func forEachModule(c *cli.Context, db *bun.DB, fn func(context.Context, moduleSet, *migrate.Migrator) error) error {
	only := c.String("module")
	for _, set := range moduleSets {
		if only != "" && set.name != only {
			continue
		}
		if err := fn(c.Context, set, migrate.NewMigrator(db, set.migrations)); err != nil {
			return fmt.Errorf("%s migrations: %w", set.name, err)
		}
	}
	if only != "" {
		if _, err := findModule(only); err != nil {
			return err
		}
	}
	return nil
}

func findModule(name string) (moduleSet, error) {
	for _, set := range moduleSets {
		if set.name == name {
			return set, nil
		}
	}
	return moduleSet{}, fmt.Errorf("unknown module: %q", name)
}
