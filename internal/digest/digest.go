// Package digest builds the daily top-matches digest, caches it per calendar
// day and renders it as plain text or a mail link.
package digest

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sort"
	"time"

	"jobtracker/internal/filter"
	"jobtracker/internal/match"
	"jobtracker/internal/model"
	"jobtracker/internal/prefs"
	"jobtracker/internal/storage"
)

// KeyPrefix is prepended to the local date (YYYY-MM-DD) to form the cache key.
const KeyPrefix = "jobTrackerDigest_"

// Size is the maximum number of jobs in a digest.
const Size = 10

// ErrNoPreferences is returned by Today when no digest is cached and the
// preferences lack role keywords.
var ErrNoPreferences = errors.New("preferences with role keywords are required")

// Generate scores every job, drops those scoring zero and returns the top
// Size by descending score, most recent first on ties.
func Generate(jobs []model.Job, p *model.Preferences) []model.ScoredJob {
	if p == nil || len(jobs) == 0 {
		return nil
	}

	var scored []model.ScoredJob
	for _, job := range jobs {
		score := match.Score(&job, p)
		if score <= 0 {
			continue
		}
		scored = append(scored, model.ScoredJob{Job: job, MatchScore: score, Scored: true})
	}

	sort.SliceStable(scored, func(i, j int) bool { return filter.ByScore(scored[i], scored[j]) })
	if len(scored) > Size {
		scored = scored[:Size]
	}
	return scored
}

// Result is the outcome of Today.
type Result struct {
	Jobs   []model.ScoredJob
	Date   time.Time
	Cached bool
}

// Service caches digests per local calendar day in a key-value store.
type Service struct {
	kv  storage.Store
	log *slog.Logger
	now func() time.Time
}

// New creates a Service backed by kv.
func New(kv storage.Store, log *slog.Logger) *Service {
	return &Service{kv: kv, log: log, now: time.Now}
}

// SetClock overrides the time source that decides the current day.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Key returns the cache key for the local calendar date of t.
func Key(t time.Time) string {
	return KeyPrefix + t.Format("2006-01-02")
}

// Cached returns today's digest if one was stored.
func (s *Service) Cached(ctx context.Context) ([]model.ScoredJob, bool) {
	key := Key(s.now())
	raw, ok, err := s.kv.Get(ctx, key)
	if err != nil {
		s.log.Error("read digest", "key", key, "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var jobs []model.ScoredJob
	if err := json.Unmarshal([]byte(raw), &jobs); err != nil {
		s.log.Warn("malformed digest", "key", key, "error", err)
		return nil, false
	}
	for i := range jobs {
		jobs[i].Scored = true
	}
	return jobs, true
}

// Store overwrites today's digest.
func (s *Service) Store(ctx context.Context, jobs []model.ScoredJob) {
	if jobs == nil {
		jobs = []model.ScoredJob{}
	}
	key := Key(s.now())
	data, err := json.Marshal(jobs)
	if err != nil {
		s.log.Error("encode digest", "error", err)
		return
	}
	if err := s.kv.Set(ctx, key, string(data)); err != nil {
		s.log.Error("write digest", "key", key, "error", err)
	}
}

// Today returns the cached digest for the current day, generating and caching
// it first if needed. Generation requires valid preferences.
func (s *Service) Today(ctx context.Context, jobs []model.Job, p *model.Preferences) (Result, error) {
	now := s.now()
	if cached, ok := s.Cached(ctx); ok {
		return Result{Jobs: cached, Date: now, Cached: true}, nil
	}
	if !prefs.IsValid(p) {
		return Result{Date: now}, ErrNoPreferences
	}
	return s.Regenerate(ctx, jobs, p), nil
}

// Regenerate builds a fresh digest and overwrites today's cache entry.
func (s *Service) Regenerate(ctx context.Context, jobs []model.Job, p *model.Preferences) Result {
	d := Generate(jobs, p)
	s.Store(ctx, d)
	s.log.Info("generated digest", "jobs", len(d), "key", Key(s.now()))
	return Result{Jobs: d, Date: s.now()}
}
