package migrations

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"helios-dashboard/internal/storage/postgres"
)

// RunPostgresMigrations applies all embedded SQL files in lexical order and
// returns the names of the files applied. Migrations are idempotent.
func RunPostgresMigrations(ctx context.Context, pool *postgres.Pool, logger *slog.Logger) ([]string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	files, err := migrationFiles(PostgresFS, "postgres")
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, file := range files {
		data, err := fs.ReadFile(PostgresFS, "postgres/"+file)
		if err != nil {
			return applied, fmt.Errorf("read migration %s: %w", file, err)
		}
		if strings.TrimSpace(string(data)) == "" {
			continue
		}
		if _, err := pool.Exec(ctx, string(data)); err != nil {
			return applied, fmt.Errorf("apply migration %s: %w", file, err)
		}
		logger.Info("applied migration", "database", "postgres", "file", file)
		applied = append(applied, file)
	}

	return applied, nil
}
