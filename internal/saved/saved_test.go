package saved

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

func newTestSet(t *testing.T) (*Set, storage.Store) {
	t.Helper()
	kv := storage.NewMemory(0)
	return New(kv, slog.New(slog.NewTextHandler(io.Discard, nil))), kv
}

func TestSaveIdempotent(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestSet(t)

	s.Save(ctx, 3)
	s.Save(ctx, 3)
	s.Save(ctx, 1)

	if diff := cmp.Diff([]int{3, 1}, s.IDs(ctx)); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}
	raw, _, _ := kv.Get(ctx, Key)
	if diff := cmp.Diff("[3,1]", raw); diff != "" {
		t.Errorf("stored value mismatch (-want +got):\n%s", diff)
	}
	if !s.IsSaved(ctx, 3) || s.IsSaved(ctx, 2) {
		t.Error("IsSaved() reports wrong membership")
	}
}

func TestUnsave(t *testing.T) {
	ctx := context.Background()
	s, kv := newTestSet(t)

	s.Unsave(ctx, 9)
	if _, ok, _ := kv.Get(ctx, Key); ok {
		t.Error("unsave of a non-member must not write")
	}

	s.Save(ctx, 1)
	s.Save(ctx, 2)
	s.Unsave(ctx, 1)
	s.Unsave(ctx, 1)
	if diff := cmp.Diff([]int{2}, s.IDs(ctx)); diff != "" {
		t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
	}

	s.Unsave(ctx, 2)
	raw, _, _ := kv.Get(ctx, Key)
	if diff := cmp.Diff("[]", raw); diff != "" {
		t.Errorf("stored value mismatch (-want +got):\n%s", diff)
	}
}

func TestIDsRepairsStoredData(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name string
		raw  string
		want []int
	}{
		{name: "duplicates dropped", raw: "[4,2,4,2,7]", want: []int{4, 2, 7}},
		{name: "malformed", raw: "[4,", want: nil},
		{name: "wrong type", raw: `{"a":1}`, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, kv := newTestSet(t)
			_ = kv.Set(ctx, Key, tt.raw)
			if diff := cmp.Diff(tt.want, s.IDs(ctx)); diff != "" {
				t.Errorf("IDs() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestResolveKeepsDatasetOrder(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSet(t)
	all := []model.Job{{ID: 1, Title: "a"}, {ID: 2, Title: "b"}, {ID: 3, Title: "c"}, {ID: 4, Title: "d"}}

	s.Save(ctx, 4)
	s.Save(ctx, 2)
	s.Save(ctx, 99)

	want := []model.Job{{ID: 2, Title: "b"}, {ID: 4, Title: "d"}}
	if diff := cmp.Diff(want, s.Jobs(ctx, all)); diff != "" {
		t.Errorf("Jobs() mismatch (-want +got):\n%s", diff)
	}
}
