// main is the entry point of the students server: the REST API, the record
// query service the dashboard reads from, the form button endpoints, and
// the public student pages.
//
// STARTUP SEQUENCE:
//  1. Load configuration from a YAML file
//  2. Initialise the logger
//  3. Open the SQLite database and apply migrations
//  4. Build the router
//  5. Serve in a goroutine until SIGINT/SIGTERM
//  6. Shut down gracefully
//
// RUNNING THE SERVER:
//
//	go run ./cmd/students-api --config=config/local.yaml
//
// or
//
//	CONFIG_PATH=config/local.yaml go run ./cmd/students-api
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aanand-mishra/students-dashboard/internal/config"
	"github.com/aanand-mishra/students-dashboard/internal/dashboard"
	"github.com/aanand-mishra/students-dashboard/internal/form"
	"github.com/aanand-mishra/students-dashboard/internal/http/router"
	"github.com/aanand-mishra/students-dashboard/internal/storage/sqlite"
	"github.com/aanand-mishra/students-dashboard/internal/utils/logging"
)

// shutdownTimeout bounds how long in-flight requests get to finish.
const shutdownTimeout = 5 * time.Second

func main() {
	// ── 1. Config ─────────────────────────────────────────────────────────
	cfg := config.MustLoad()

	// ── 2. Logger ─────────────────────────────────────────────────────────
	// Set as the default so packages can log through slog directly.
	log := logging.New(cfg.Env, os.Stdout)
	slog.SetDefault(log)

	log.Info("starting students-api",
		slog.String("env", cfg.Env),
		slog.String("version", "1.1.0"),
	)

	// ── 3. Storage ────────────────────────────────────────────────────────
	store, err := sqlite.New(cfg)
	if err != nil {
		log.Error("failed to initialise storage",
			slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	log.Info("storage initialised",
		slog.String("path", cfg.StoragePath),
		slog.Bool("legacy_count_key", cfg.QueryService.LegacyCountKey))

	// ── 4. Routes ─────────────────────────────────────────────────────────
	loader := dashboard.NewLoader(store, cfg.Dashboard.RecentLimit)
	handler := router.New(store, loader, form.ServerActions{})

	server := &http.Server{
		Addr:         cfg.HTTPServer.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	// ── 5. Serve ──────────────────────────────────────────────────────────
	go func() {
		log.Info("server started", slog.String("address", cfg.HTTPServer.Addr))

		if err := server.ListenAndServe(); err != nil &&
			!errors.Is(err, http.ErrServerClosed) {
			log.Error("server encountered an error",
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutdown signal received, stopping server...")

	// ── 6. Graceful Shutdown ──────────────────────────────────────────────
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("failed to shutdown server gracefully",
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	log.Info("server stopped gracefully")
}
