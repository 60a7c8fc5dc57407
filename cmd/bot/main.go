package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"jobtracker/internal/bot"
	"jobtracker/internal/config"
	"jobtracker/internal/dataset"
	"jobtracker/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	log := newLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	jobs, err := dataset.Load(cfg.JobsPath)
	if err != nil {
		log.Error("load dataset", "path", cfg.JobsPath, "error", err)
		os.Exit(1)
	}
	log.Info("dataset loaded", "path", cfg.JobsPath, "jobs", len(jobs))

	store, err := openStore(ctx, cfg)
	if err != nil {
		log.Error("open store", "backend", cfg.StoreBackend, "error", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	b, err := bot.New(cfg.TelegramBotToken, storage.NewOverlay(store), jobs, cfg, log)
	if err != nil {
		log.Error("create bot", "error", err)
		os.Exit(1)
	}

	log.Info("starting bot", "backend", cfg.StoreBackend)

	b.Run(ctx)

	log.Info("bot stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.StoreBackend {
	case config.BackendRedis:
		return storage.NewRedis(ctx, cfg.RedisURL)
	case config.BackendMemory:
		return storage.NewMemory(cfg.StoreQuota), nil
	case config.BackendSQLite:
		if dir := filepath.Dir(cfg.DatabasePath); dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("create data directory %s: %w", dir, err)
			}
		}
		return storage.NewSQLite(ctx, cfg.DatabasePath, cfg.StoreQuota)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
