package digest

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

func newTestService(t *testing.T, now time.Time) (*Service, storage.Store) {
	t.Helper()
	kv := storage.NewMemory(0)
	s := New(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	s.SetClock(func() time.Time { return now })
	return s, kv
}

func goPrefs() *model.Preferences {
	return &model.Preferences{RoleKeywords: "go", MinMatchScore: 40}
}

// manyJobs returns n jobs; job i has "Go" in its title when i is even and is
// posted i days ago.
func manyJobs(n int) []model.Job {
	var jobs []model.Job
	for i := 1; i <= n; i++ {
		title := fmt.Sprintf("Engineer %d", i)
		if i%2 == 0 {
			title = fmt.Sprintf("Go Engineer %d", i)
		}
		jobs = append(jobs, model.Job{ID: i, Title: title, PostedDaysAgo: i + 2})
	}
	return jobs
}

func scoredIDs(jobs []model.ScoredJob) []int {
	out := make([]int, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name  string
		jobs  []model.Job
		prefs *model.Preferences
		want  []int
	}{
		{name: "nil preferences", jobs: manyJobs(4), prefs: nil, want: []int{}},
		{name: "no jobs", jobs: nil, prefs: goPrefs(), want: []int{}},
		{name: "zero scores dropped", jobs: manyJobs(5), prefs: goPrefs(), want: []int{2, 4}},
		{name: "capped at ten", jobs: manyJobs(30), prefs: goPrefs(), want: []int{2, 4, 6, 8, 10, 12, 14, 16, 18, 20}},
		{
			name: "score first, then most recent",
			jobs: []model.Job{
				{ID: 1, Title: "Go", PostedDaysAgo: 9},
				{ID: 2, Title: "Go", Source: "LinkedIn", PostedDaysAgo: 9},
				{ID: 3, Title: "Go", PostedDaysAgo: 5},
			},
			prefs: goPrefs(),
			want:  []int{2, 3, 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Generate(tt.jobs, tt.prefs)
			if diff := cmp.Diff(tt.want, scoredIDs(got)); diff != "" {
				t.Errorf("Generate() mismatch (-want +got):\n%s", diff)
			}
			for _, j := range got {
				if j.MatchScore <= 0 || !j.Scored {
					t.Errorf("job %d has score %d, scored=%v", j.ID, j.MatchScore, j.Scored)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	jobs := manyJobs(30)
	first := Generate(jobs, goPrefs())
	for i := 0; i < 5; i++ {
		if diff := cmp.Diff(first, Generate(jobs, goPrefs())); diff != "" {
			t.Fatalf("run %d differs (-first +got):\n%s", i, diff)
		}
	}
}

func TestTodayCaching(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2026, time.February, 26, 9, 0, 0, 0, time.Local)
	s, kv := newTestService(t, day)

	if _, ok := s.Cached(ctx); ok {
		t.Fatal("expected empty cache")
	}

	_, err := s.Today(ctx, manyJobs(4), &model.Preferences{Skills: "go"})
	if !errors.Is(err, ErrNoPreferences) {
		t.Fatalf("Today() error = %v, want ErrNoPreferences", err)
	}

	res, err := s.Today(ctx, manyJobs(4), goPrefs())
	if err != nil {
		t.Fatalf("Today(): %v", err)
	}
	if res.Cached {
		t.Error("first call must generate")
	}
	if diff := cmp.Diff([]int{2, 4}, scoredIDs(res.Jobs)); diff != "" {
		t.Errorf("digest mismatch (-want +got):\n%s", diff)
	}
	if _, ok, _ := kv.Get(ctx, "jobTrackerDigest_2026-02-26"); !ok {
		t.Error("digest not stored under the dated key")
	}

	// The cached digest wins even when the inputs change.
	res, err = s.Today(ctx, manyJobs(30), nil)
	if err != nil {
		t.Fatalf("Today() cached: %v", err)
	}
	if !res.Cached {
		t.Error("second call must come from the cache")
	}
	if diff := cmp.Diff([]int{2, 4}, scoredIDs(res.Jobs)); diff != "" {
		t.Errorf("cached digest mismatch (-want +got):\n%s", diff)
	}
	for _, j := range res.Jobs {
		if !j.Scored || j.MatchScore == 0 {
			t.Errorf("cached job %d lost its score", j.ID)
		}
	}

	// A new day is a cache miss; the old entry stays.
	s.SetClock(func() time.Time { return day.AddDate(0, 0, 1) })
	if _, ok := s.Cached(ctx); ok {
		t.Error("next day must not see the previous digest")
	}
	if _, ok, _ := kv.Get(ctx, "jobTrackerDigest_2026-02-26"); !ok {
		t.Error("previous day's digest must not be removed")
	}
}

func TestRegenerateOverwrites(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))

	s.Regenerate(ctx, manyJobs(4), goPrefs())
	s.Regenerate(ctx, manyJobs(2), goPrefs())

	got, ok := s.Cached(ctx)
	if !ok {
		t.Fatal("expected cached digest")
	}
	if diff := cmp.Diff([]int{2}, scoredIDs(got)); diff != "" {
		t.Errorf("cached digest mismatch (-want +got):\n%s", diff)
	}
}

func TestCachedEmptyDigest(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestService(t, time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local))

	s.Regenerate(ctx, manyJobs(1), goPrefs())
	got, ok := s.Cached(ctx)
	if !ok {
		t.Fatal("an empty digest is still a cache hit")
	}
	if len(got) != 0 {
		t.Errorf("expected empty digest, got %d jobs", len(got))
	}
}

func TestCachedMalformed(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, time.March, 1, 8, 0, 0, 0, time.Local)
	s, kv := newTestService(t, now)
	_ = kv.Set(ctx, Key(now), "{oops")
	if _, ok := s.Cached(ctx); ok {
		t.Error("malformed digest must read as absent")
	}
}
