// Package migration applies the SQL schema with golang-migrate, retrying
// while Postgres comes up.
package migration

import (
	"context"
	"errors"
	"fmt"
	"time"

	"school-bus/internal/general/config"
	"school-bus/internal/general/logger"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

const (
	connectAttempts = 10
	connectBackoff  = 3 * time.Second
)

// Up applies all pending migrations from migrationsPath (a directory on
// disk). It retries connecting while the database is still starting.
func Up(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string) error {
	return run(ctx, cfg, log, migrationsPath, func(m *migrate.Migrate) error { return m.Up() })
}

// Down rolls back every applied migration. Used by the dbtool binary only.
func Down(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string) error {
	return run(ctx, cfg, log, migrationsPath, func(m *migrate.Migrate) error { return m.Down() })
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger, migrationsPath string, apply func(*migrate.Migrate) error) error {
	dbURL := fmt.Sprintf("pgx5://%s:%s@%s:%d/%s?sslmode=disable",
		cfg.Database.User, cfg.Database.Password, cfg.Database.Host, cfg.Database.Port, cfg.Database.Name)
	sourceURL := "file://" + migrationsPath

	var m *migrate.Migrate
	var err error
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		m, err = migrate.New(sourceURL, dbURL)
		if err == nil {
			break
		}

		log.Info(ctx, "migration_db_wait", "Waiting for the database to be ready", map[string]any{
			"attempt": attempt,
		})

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(connectBackoff):
		}
	}
	if err != nil {
		return fmt.Errorf("could not connect to the database: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if srcErr != nil {
			log.Error(ctx, "migration_close_failed", "Failed to close migration source", srcErr, nil)
		}
		if dbErr != nil {
			log.Error(ctx, "migration_close_failed", "Failed to close migration database", dbErr, nil)
		}
	}()

	if err := apply(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			log.Info(ctx, "migration_no_change", "Schema already up to date", nil)
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}

	log.Info(ctx, "migration_applied", "Migrations applied successfully", nil)
	return nil
}
