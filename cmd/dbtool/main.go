// dbtool applies or rolls back the SQL schema without starting the service.
package main

import (
	"context"
	"flag"
	"os"

	"school-bus/internal/general/config"
	"school-bus/internal/general/logger"
	"school-bus/internal/migration"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	migrationsPath := flag.String("migrations", "migrations", "path to the SQL migrations directory")
	down := flag.Bool("down", false, "roll back all migrations instead of applying them")
	flag.Parse()

	ctx := context.Background()
	log := logger.New("dbtool")

	cfg, err := config.LoadFromFile(*configPath)
	if err != nil {
		log.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		os.Exit(1)
	}

	if *down {
		err = migration.Down(ctx, cfg, log, *migrationsPath)
	} else {
		err = migration.Up(ctx, cfg, log, *migrationsPath)
	}
	if err != nil {
		log.Error(ctx, "migration_failed", "Migration run failed", err, nil)
		os.Exit(1)
	}
}
