package registrymigrations

import "github.com/uptrace/bun/migrate"

var Migrations = migrate.NewMigrations()

func init() {
	// Derive stable migration IDs from the file names of the MustRegister
	// callers in this package.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
