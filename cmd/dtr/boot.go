package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/smolrome/DailyTimeRecord/internal/cli"
	"github.com/smolrome/DailyTimeRecord/internal/config"
	"github.com/smolrome/DailyTimeRecord/internal/db"
	"github.com/smolrome/DailyTimeRecord/internal/notify"
	"github.com/smolrome/DailyTimeRecord/internal/repository"
	"github.com/smolrome/DailyTimeRecord/internal/service"
	"gopkg.in/natefinch/lumberjack.v2"
)

// boot loads configuration, opens the log file and the configured storage
// backend, and logs the configured user in.
func boot(ctx context.Context, opts config.Options) (*cli.Env, error) {
	cfg, err := config.Load(opts)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}

	repo, closeRepo, err := openRepo(cfg, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}
	closeAll := func() error {
		return errors.Join(closeRepo(), logFile.Close())
	}

	tracker := service.NewTrackerService(repo, cfg.Aggregation(),
		service.WithObserver(service.NewSlogUseCaseObserver(logger)))
	if err := tracker.Login(ctx, cfg.User); err != nil {
		closeAll()
		return nil, fmt.Errorf("loading records for %s: %w", cfg.User, err)
	}

	return &cli.Env{
		Config:   cfg,
		Tracker:  tracker,
		Notifier: notify.New(cfg.Notifications),
		Close:    closeAll,
	}, nil
}

func newLogger(cfg *config.Config) (*slog.Logger, *lumberjack.Logger, error) {
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath()), 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating log directory: %w", err)
	}
	out := &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		MaxSize:    5, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: level})), out, nil
}

func openRepo(cfg *config.Config, logger *slog.Logger) (repository.RecordRepo, func() error, error) {
	switch cfg.Storage.Backend {
	case config.BackendFile:
		repo := repository.NewFileRecordRepo(cfg.Storage.Dir).WithLogger(logger)
		return repo, func() error { return nil }, nil
	case config.BackendSQLite:
		database, err := db.OpenDB(cfg.DBPath())
		if err != nil {
			return nil, nil, fmt.Errorf("opening database: %w", err)
		}
		return repository.NewSQLiteRecordRepo(database), database.Close, nil
	}
	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
