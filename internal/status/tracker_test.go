package status

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

var fixedNow = time.Date(2026, time.February, 26, 9, 0, 0, 0, time.UTC)

func newTestTracker(t *testing.T) (*Tracker, storage.Store) {
	t.Helper()
	kv := storage.NewMemory(0)
	tr := New(kv, slog.New(slog.NewTextHandler(io.Discard, nil)))
	tr.SetClock(func() time.Time { return fixedNow })
	return tr, kv
}

func TestStatusDefault(t *testing.T) {
	tr, _ := newTestTracker(t)
	if diff := cmp.Diff(model.StatusNotApplied, tr.Status(context.Background(), 42)); diff != "" {
		t.Errorf("Status() mismatch (-want +got):\n%s", diff)
	}
}

func TestEveryTransitionAllowed(t *testing.T) {
	ctx := context.Background()
	for _, from := range model.Statuses {
		for _, to := range model.Statuses {
			tr, _ := newTestTracker(t)
			if err := tr.SetStatus(ctx, 1, from); err != nil {
				t.Fatalf("set %s: %v", from, err)
			}
			if err := tr.SetStatus(ctx, 1, to); err != nil {
				t.Fatalf("%s -> %s: %v", from, to, err)
			}
			if got := tr.Status(ctx, 1); got != to {
				t.Errorf("%s -> %s: Status() = %s", from, to, got)
			}
			if got := len(tr.History(ctx)); got != 2 {
				t.Errorf("%s -> %s: history length = %d, want 2", from, to, got)
			}
		}
	}
}

func TestSetStatusInvalid(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)
	err := tr.SetStatus(ctx, 1, "interview")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("SetStatus() error = %v, want ErrInvalidStatus", err)
	}
	if got := tr.History(ctx); len(got) != 0 {
		t.Errorf("invalid status recorded in history: %+v", got)
	}
}

func TestHistory(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	_ = tr.SetStatus(ctx, 7, model.StatusApplied)
	_ = tr.SetStatus(ctx, 3, model.StatusRejected)

	want := []model.StatusUpdate{
		{JobID: 3, Status: model.StatusRejected, Timestamp: fixedNow, Date: "Feb 26, 2026"},
		{JobID: 7, Status: model.StatusApplied, Timestamp: fixedNow, Date: "Feb 26, 2026"},
	}
	if diff := cmp.Diff(want, tr.History(ctx)); diff != "" {
		t.Errorf("History() mismatch (-want +got):\n%s", diff)
	}

	tr.ClearHistory(ctx)
	if got := tr.History(ctx); len(got) != 0 {
		t.Errorf("History() after clear = %+v", got)
	}
}

func TestHistoryCapped(t *testing.T) {
	ctx := context.Background()
	tr, _ := newTestTracker(t)

	for i := 1; i <= 25; i++ {
		_ = tr.SetStatus(ctx, i, model.StatusApplied)
	}

	history := tr.History(ctx)
	if diff := cmp.Diff(MaxHistory, len(history)); diff != "" {
		t.Fatalf("history length mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(25, history[0].JobID); diff != "" {
		t.Errorf("newest entry mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(6, history[len(history)-1].JobID); diff != "" {
		t.Errorf("oldest kept entry mismatch (-want +got):\n%s", diff)
	}
}

func TestAllAndClearAll(t *testing.T) {
	ctx := context.Background()
	tr, kv := newTestTracker(t)

	_ = tr.SetStatus(ctx, 1, model.StatusApplied)
	_ = tr.SetStatus(ctx, 12, model.StatusSelected)
	_ = tr.SetStatus(ctx, 5, model.StatusNotApplied)
	_ = kv.Set(ctx, KeyPrefix+"junk", "applied")

	want := map[int]model.Status{
		1:  model.StatusApplied,
		5:  model.StatusNotApplied,
		12: model.StatusSelected,
	}
	if diff := cmp.Diff(want, tr.All(ctx)); diff != "" {
		t.Errorf("All() mismatch (-want +got):\n%s", diff)
	}

	tr.ClearAll(ctx)
	if got := tr.All(ctx); len(got) != 0 {
		t.Errorf("All() after ClearAll = %v", got)
	}
	if diff := cmp.Diff(model.StatusNotApplied, tr.Status(ctx, 12)); diff != "" {
		t.Errorf("Status() after ClearAll mismatch (-want +got):\n%s", diff)
	}
	if got := len(tr.History(ctx)); got != 3 {
		t.Errorf("ClearAll must keep history, got %d entries", got)
	}
}

func TestMalformedValuesFallBack(t *testing.T) {
	ctx := context.Background()
	tr, kv := newTestTracker(t)

	_ = kv.Set(ctx, KeyPrefix+"9", "hired")
	_ = kv.Set(ctx, HistoryKey, "not json")

	if diff := cmp.Diff(model.StatusNotApplied, tr.Status(ctx, 9)); diff != "" {
		t.Errorf("Status() mismatch (-want +got):\n%s", diff)
	}
	if got := tr.History(ctx); got != nil {
		t.Errorf("History() = %+v, want nil", got)
	}

	// A broken history is replaced on the next change.
	_ = tr.SetStatus(ctx, 9, model.StatusApplied)
	if got := len(tr.History(ctx)); got != 1 {
		t.Errorf("history length = %d, want 1", got)
	}
}
