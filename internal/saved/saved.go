// Package saved manages the set of bookmarked job ids.
package saved

import (
	"context"
	"encoding/json"
	"log/slog"
	"slices"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

// Key is the store key holding the JSON array of saved ids.
const Key = "saved_jobs"

// Set is the persisted saved-job set. Store failures are logged and the set
// is treated as empty.
type Set struct {
	kv  storage.Store
	log *slog.Logger
}

// New creates a Set backed by kv.
func New(kv storage.Store, log *slog.Logger) *Set {
	return &Set{kv: kv, log: log}
}

// IDs returns the saved ids in the order they were saved, without duplicates.
func (s *Set) IDs(ctx context.Context) []int {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		s.log.Error("read saved jobs", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	var ids []int
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		s.log.Warn("malformed saved jobs", "error", err)
		return nil
	}
	return dedupe(ids)
}

// Save adds id to the set. Saving a member again is a no-op.
func (s *Set) Save(ctx context.Context, id int) {
	ids := s.IDs(ctx)
	if slices.Contains(ids, id) {
		return
	}
	s.write(ctx, append(ids, id))
}

// Unsave removes id from the set. Removing a non-member is a no-op.
func (s *Set) Unsave(ctx context.Context, id int) {
	ids := s.IDs(ctx)
	i := slices.Index(ids, id)
	if i < 0 {
		return
	}
	s.write(ctx, slices.Delete(ids, i, i+1))
}

// IsSaved reports whether id is in the set.
func (s *Set) IsSaved(ctx context.Context, id int) bool {
	return slices.Contains(s.IDs(ctx), id)
}

// Jobs resolves the saved ids against the dataset.
func (s *Set) Jobs(ctx context.Context, all []model.Job) []model.Job {
	return Resolve(s.IDs(ctx), all)
}

// Resolve returns the jobs whose id is in ids, in dataset order. Ids without
// a matching job are ignored.
func Resolve(ids []int, all []model.Job) []model.Job {
	want := make(map[int]bool, len(ids))
	for _, id := range ids {
		want[id] = true
	}
	var out []model.Job
	for _, j := range all {
		if want[j.ID] {
			out = append(out, j)
		}
	}
	return out
}

func (s *Set) write(ctx context.Context, ids []int) {
	if ids == nil {
		ids = []int{}
	}
	data, err := json.Marshal(ids)
	if err != nil {
		s.log.Error("encode saved jobs", "error", err)
		return
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		s.log.Error("write saved jobs", "error", err)
	}
}

func dedupe(ids []int) []int {
	seen := make(map[int]bool, len(ids))
	out := ids[:0]
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
