package database

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
)

const createMigrationsTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
  version VARCHAR(255) NOT NULL PRIMARY KEY,
  applied_at DATETIME(6) NOT NULL
)`

// Migrate applies every *.sql file under migrations/ in migrations that has
// not been recorded in schema_migrations yet, in file name order.
// It returns the versions applied by this call.
func Migrate(ctx context.Context, db *sqlx.DB, migrations fs.FS) ([]string, error) {
	if _, err := db.ExecContext(ctx, createMigrationsTable); err != nil {
		return nil, fmt.Errorf("db.ExecContext(create schema_migrations) > %w", err)
	}

	var versions []string
	if err := db.SelectContext(ctx, &versions, "SELECT version FROM schema_migrations"); err != nil {
		return nil, fmt.Errorf("db.SelectContext(schema_migrations) > %w", err)
	}
	applied := make(map[string]bool, len(versions))
	for _, version := range versions {
		applied[version] = true
	}

	files, err := fs.Glob(migrations, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("fs.Glob() > %w", err)
	}
	sort.Strings(files)

	newlyApplied := []string{}
	for _, file := range files {
		version := path.Base(file)
		if applied[version] {
			slog.Debug("Skip applied migration", "version", version)
			continue
		}

		content, err := fs.ReadFile(migrations, file)
		if err != nil {
			return newlyApplied, fmt.Errorf("fs.ReadFile(%s) > %w", file, err)
		}
		if _, err := db.ExecContext(ctx, string(content)); err != nil {
			return newlyApplied, fmt.Errorf("db.ExecContext(%s) > %w", version, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations (version, applied_at) VALUES (?, ?)",
			version, time.Now().UTC(),
		); err != nil {
			return newlyApplied, fmt.Errorf("db.ExecContext(record %s) > %w", version, err)
		}

		slog.Info("Applied migration", "version", version)
		newlyApplied = append(newlyApplied, version)
	}
	return newlyApplied, nil
}
