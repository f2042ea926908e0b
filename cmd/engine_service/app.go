package main

import (
	"context"
	"fmt"
	"math/rand"
	"net"
	"net/http"
	"time"

	"school-bus/internal/general/config"
	"school-bus/internal/general/logger"
	"school-bus/internal/general/postgres"
	"school-bus/internal/general/rabbitmq"
	"school-bus/internal/general/redis"
	"school-bus/internal/migration"
	"school-bus/internal/software/engine/handler"
	"school-bus/internal/software/engine/service"
)

// Run wires the engine service and blocks until ctx is cancelled.
func Run(ctx context.Context, configPath, migrationsPath string, maxConcurrent int) error {
	// set up a new logger and context with a static request ID for startup logs
	logger := logger.New("engine-service")
	ctx = logger.WithRequestID(ctx, "startup-001")

	// load a config from file
	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		logger.Error(ctx, "config_load_failed", "Failed to load configuration", err, nil)
		return err
	}

	// apply schema migrations before anything touches the database
	if err := migration.Up(ctx, cfg, logger, migrationsPath); err != nil {
		logger.Error(ctx, "migration_failed", "Failed to apply database migrations", err, nil)
		return err
	}

	// set up a Postgres connection pool
	pool, err := postgres.NewPool(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "db_connection_failed", "Failed to initialize Postgres pool", err, nil)
		return err
	}
	defer pool.Close()

	// connect to RabbitMQ
	rmq, err := rabbitmq.ConnectRabbitMQ(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "rabbitmq_connection_failed", "Failed to connect to RabbitMQ", err, nil)
		return err
	}
	defer rmq.Close()

	// set up the RabbitMQ publisher
	pub := rabbitmq.NewMQPublisher(rmq)

	// connect to Redis for the daily generation lock
	rdb, err := redis.Connect(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "redis_connection_failed", "Failed to connect to Redis", err, nil)
		return err
	}
	defer rdb.Close()

	// set up the necessary repos
	uow := postgres.NewUnitOfWork(pool)
	schoolRepo := postgres.NewSchoolRepo()
	childRepo := postgres.NewChildRepo()
	busRepo := postgres.NewBusRepo()
	routeRepo := postgres.NewRouteRepo()
	scheduleRepo := postgres.NewScheduledRouteRepo()
	tripRepo := postgres.NewTripRepo()
	historyRepo := postgres.NewTripHistoryRepo()
	attRepo := postgres.NewAttendanceRepo()
	exemptRepo := postgres.NewExemptionRepo()

	// set up the engine service
	svc := service.NewEngineService(
		logger,
		uow,
		schoolRepo,
		childRepo,
		busRepo,
		routeRepo,
		scheduleRepo,
		tripRepo,
		historyRepo,
		attRepo,
		exemptRepo,
		pub,
		redis.NewDayLock(rdb),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		cfg.Engine.GeofenceThresholdDegrees,
	)

	// set up the HTTP handler and its routes
	httpHandler := handler.NewEngineHTTPHandler(svc, logger)

	// concurrency limiter (global) - blocks when capacity is full
	limitedHandler := withConcurrencyLimit(maxConcurrent, httpHandler.Router())

	// set up the server configurations
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTP.Port),                 // listen on the specified port
		Handler:           limitedHandler,                                    // apply the concurrency limiter to the HTTP handler
		ReadHeaderTimeout: 5 * time.Second,                                   // time to read headers
		ReadTimeout:       10 * time.Second,                                  // time to read full request body
		WriteTimeout:      90 * time.Second,                                  // generation endpoints are slow writers
		IdleTimeout:       60 * time.Second,                                  // keep-alive window
		BaseContext:       func(net.Listener) context.Context { return ctx }, // pass base ctx to all handlers
	}

	// log service start
	logger.Info(ctx, "service_started",
		fmt.Sprintf("Engine Service started on port %d", cfg.HTTP.Port),
		map[string]any{"port": cfg.HTTP.Port, "max_concurrent": maxConcurrent},
	)

	// start the server in a background goroutine
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	// wait for context cancellation or server error
	select {
	case <-ctx.Done():
		// graceful HTTP shutdown on context cancel
		shCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info(ctx, "shutdown_started", "Engine Service shutting down", nil)
		if err := srv.Shutdown(shCtx); err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_shutdown_failed", "Failed to gracefully shut down HTTP server", err, nil)
		}
	case err := <-errCh:
		// server returned a terminal error at startup or during run
		if err != nil && err != http.ErrServerClosed {
			logger.Error(ctx, "http_server_error", "HTTP server terminated with error", err, map[string]any{"port": cfg.HTTP.Port})
			return err
		}
		return nil
	}

	return nil
}

// withConcurrencyLimit wraps an http.Handler with a semaphore-based limiter.
// It controls how many HTTP requests can be in-progress at the same time.
func withConcurrencyLimit(n int, next http.Handler) http.Handler {
	if n <= 0 {
		return next
	}
	sem := make(chan struct{}, n)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case sem <- struct{}{}: // acquire
			defer func() { <-sem }() // release
			next.ServeHTTP(w, r)
		case <-r.Context().Done():
			// client canceled or server is shutting down
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		}
	})
}
