package postgres

import "embed"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations returns the embedded goose migration files. Pass it to
// goose.SetBaseFS and run goose against the "migrations" directory.
func Migrations() embed.FS {
	return migrationsFS
}
