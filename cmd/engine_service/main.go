package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the YAML config file")
	migrationsPath := flag.String("migrations", "migrations", "path to the SQL migrations directory")
	maxConcurrent := flag.Int("max-concurrent", 64, "maximum in-flight HTTP requests")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// cancel the root context on SIGINT/SIGTERM
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-stop
		cancel()
	}()

	if err := Run(ctx, *configPath, *migrationsPath, *maxConcurrent); err != nil {
		os.Exit(1)
	}
}
