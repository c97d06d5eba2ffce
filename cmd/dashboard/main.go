package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"BioDash/internal/config"
	"BioDash/internal/dataset"
	"BioDash/internal/ingest"
	"BioDash/internal/refresh"
	"BioDash/internal/server"
	"BioDash/internal/store"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	log.Info().Msg("BioDash starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	if level, err := zerolog.ParseLevel(cfg.Logging.Level); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	// Init loader
	loader := ingest.NewCSVLoader(cfg.Source.Path)
	log.Info().Str("source", loader.Name()).Str("path", cfg.Source.Path).Msg("source configured")

	// Init store
	var st store.Store
	if cfg.Database.SQLitePath != "" {
		ss, err := store.NewSQLiteStore(cfg.Database.SQLitePath)
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite store failed, using noop")
			st = store.NewNoopStore()
		} else {
			st = ss
			defer ss.Close()
		}
	} else {
		st = store.NewNoopStore()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initial load; the service is useless without a snapshot.
	manager := dataset.NewManager(loader, st)
	if _, err := manager.Reload(ctx); err != nil {
		log.Fatal().Err(err).Msg("initial dataset load")
	}

	// Scheduled refresh
	sched := refresh.NewScheduler(ctx, manager)
	if err := sched.Register(cfg.Schedule.RefreshCron); err != nil {
		log.Fatal().Err(err).Msg("register refresh task")
	}
	sched.Start()
	defer sched.Stop()

	// HTTP API
	srv := server.New(cfg.Server.Addr, manager)
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	log.Info().Msg("BioDash is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal or server failure
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case err := <-errCh:
		if err != nil {
			log.Error().Err(err).Msg("http server failed")
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	cancel()
	log.Info().Msg("BioDash stopped")
}
