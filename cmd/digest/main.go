package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"jobtracker/internal/dataset"
	"jobtracker/internal/digest"
	"jobtracker/internal/prefs"
	"jobtracker/internal/storage"
)

func main() {
	_ = godotenv.Load()

	dbPath := flag.String("db", envOrDefault("DATABASE_PATH", "./data/jobtracker.db"), "path to sqlite database")
	jobsPath := flag.String("jobs", envOrDefault("JOBS_PATH", "./data/jobs.json"), "path to the job dataset")
	mail := flag.Bool("mail", false, "print a mailto link instead of the text")
	regen := flag.Bool("regen", false, "regenerate today's digest even if one is cached")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))

	if err := run(*dbPath, *jobsPath, *mail, *regen, log); err != nil {
		log.Error("digest", "error", err)
		os.Exit(1)
	}
}

func run(dbPath, jobsPath string, mail, regen bool, log *slog.Logger) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	jobs, err := dataset.Load(jobsPath)
	if err != nil {
		return err
	}

	store, err := storage.NewSQLite(ctx, dbPath, storage.DefaultQuota)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	p := prefs.New(store, log).Load(ctx)
	svc := digest.New(store, log)

	var res digest.Result
	if regen {
		if !prefs.IsValid(p) {
			return digest.ErrNoPreferences
		}
		res = svc.Regenerate(ctx, jobs, p)
	} else {
		res, err = svc.Today(ctx, jobs, p)
		if errors.Is(err, digest.ErrNoPreferences) {
			return fmt.Errorf("%w: set them in the bot with /setprefs", err)
		}
		if err != nil {
			return err
		}
	}

	label := digest.DateLabel(res.Date)
	if mail {
		fmt.Println(digest.MailLink(res.Jobs, label))
		return nil
	}
	fmt.Println(digest.FormatText(res.Jobs, label))
	return nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
