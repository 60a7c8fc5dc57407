// Package status tracks the application status of each job.
//
// Every status can move to every other status, including itself. Each change
// is recorded in a history log that keeps the 20 most recent entries, newest
// first.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

// Store keys.
const (
	KeyPrefix  = "jobTrackerStatus_"
	HistoryKey = "jobTrackerStatusUpdates"
)

// MaxHistory is the number of status changes kept in the history log.
const MaxHistory = 20

const dateLayout = "Jan 2, 2006"

// ErrInvalidStatus is returned by SetStatus for a status outside the
// vocabulary.
var ErrInvalidStatus = errors.New("invalid status")

// Tracker reads and writes per-job statuses. Store failures are logged and
// replaced by defaults; they are never returned.
type Tracker struct {
	kv  storage.Store
	log *slog.Logger
	now func() time.Time
}

// New creates a Tracker backed by kv.
func New(kv storage.Store, log *slog.Logger) *Tracker {
	return &Tracker{kv: kv, log: log, now: time.Now}
}

// SetClock overrides the time source used for history entries.
func (t *Tracker) SetClock(now func() time.Time) {
	t.now = now
}

// Status returns the job's status, not-applied if none was set.
func (t *Tracker) Status(ctx context.Context, jobID int) model.Status {
	raw, ok, err := t.kv.Get(ctx, key(jobID))
	if err != nil {
		t.log.Error("read status", "job_id", jobID, "error", err)
		return model.StatusNotApplied
	}
	if !ok {
		return model.StatusNotApplied
	}
	st, err := model.ParseStatus(raw)
	if err != nil {
		t.log.Warn("malformed status", "job_id", jobID, "value", raw)
		return model.StatusNotApplied
	}
	return st
}

// SetStatus overwrites the job's status and records the change in the history.
func (t *Tracker) SetStatus(ctx context.Context, jobID int, st model.Status) error {
	if _, err := model.ParseStatus(string(st)); err != nil {
		return ErrInvalidStatus
	}
	if err := t.kv.Set(ctx, key(jobID), string(st)); err != nil {
		t.log.Error("write status", "job_id", jobID, "status", st, "error", err)
	}
	t.record(ctx, jobID, st)
	return nil
}

// All returns every explicitly set status keyed by job id.
func (t *Tracker) All(ctx context.Context) map[int]model.Status {
	out := make(map[int]model.Status)
	keys, err := t.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		t.log.Error("list statuses", "error", err)
	}
	for _, k := range keys {
		id, err := strconv.Atoi(strings.TrimPrefix(k, KeyPrefix))
		if err != nil {
			continue
		}
		out[id] = t.Status(ctx, id)
	}
	return out
}

// ClearAll resets every job to not-applied. The history is kept.
func (t *Tracker) ClearAll(ctx context.Context) {
	keys, err := t.kv.Keys(ctx, KeyPrefix)
	if err != nil {
		t.log.Error("list statuses", "error", err)
	}
	for _, k := range keys {
		if err := t.kv.Remove(ctx, k); err != nil {
			t.log.Error("remove status", "key", k, "error", err)
		}
	}
}

// History returns the recorded status changes, newest first.
func (t *Tracker) History(ctx context.Context) []model.StatusUpdate {
	raw, ok, err := t.kv.Get(ctx, HistoryKey)
	if err != nil {
		t.log.Error("read status history", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var history []model.StatusUpdate
	if err := json.Unmarshal([]byte(raw), &history); err != nil {
		t.log.Warn("malformed status history", "error", err)
		return nil
	}
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}
	return history
}

// ClearHistory deletes the status change history.
func (t *Tracker) ClearHistory(ctx context.Context) {
	if err := t.kv.Remove(ctx, HistoryKey); err != nil {
		t.log.Error("clear status history", "error", err)
	}
}

func (t *Tracker) record(ctx context.Context, jobID int, st model.Status) {
	now := t.now()
	entry := model.StatusUpdate{
		JobID:     jobID,
		Status:    st,
		Timestamp: now.UTC(),
		Date:      now.Format(dateLayout),
	}

	history := append([]model.StatusUpdate{entry}, t.History(ctx)...)
	if len(history) > MaxHistory {
		history = history[:MaxHistory]
	}

	data, err := json.Marshal(history)
	if err != nil {
		t.log.Error("encode status history", "error", err)
		return
	}
	if err := t.kv.Set(ctx, HistoryKey, string(data)); err != nil {
		t.log.Error("write status history", "error", err)
	}
}

func key(jobID int) string {
	return KeyPrefix + strconv.Itoa(jobID)
}
