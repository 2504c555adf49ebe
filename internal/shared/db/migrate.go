package db_conn

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/explorer2005/skycab-booking-system/internal/shared/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed migrations/*.sql
var MigrationsFS embed.FS

// Migrate applies all *.sql files in internal/shared/db/migrations in lexicographic order.
// Each file runs in its own transaction. SQL files themselves MUST NOT contain BEGIN/COMMIT.
func Migrate(ctx context.Context, pool *pgxpool.Pool, log *logger.Logger) error {
	entries, err := MigrationsFS.ReadDir("migrations")
	if err != nil {
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	for _, name := range names {
		sqlb, err := MigrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return err
		}
		tx, err := pool.Begin(ctx)
		if err != nil {
			return fmt.Errorf("begin tx for %s: %w", name, err)
		}
		if _, err := tx.Exec(ctx, string(sqlb)); err != nil {
			_ = tx.Rollback(ctx)
			return fmt.Errorf("migration %s failed: %w", name, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return fmt.Errorf("commit %s failed: %w", name, err)
		}
		log.Debug(logger.Entry{Action: "migration_applied", Message: name})
	}
	return nil
}
