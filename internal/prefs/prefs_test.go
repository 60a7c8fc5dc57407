package prefs

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	kv := storage.NewMemory(0)
	return New(kv, slog.New(slog.NewTextHandler(io.Discard, nil))), kv
}

func TestLoadAbsent(t *testing.T) {
	s, _ := newTestStore(t)
	if got := s.Load(context.Background()); got != nil {
		t.Errorf("Load() = %+v, want nil", got)
	}
	if s.HasValid(context.Background()) {
		t.Error("HasValid() = true without preferences")
	}
}

func TestSaveLoadClear(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestStore(t)

	s.Save(ctx, model.Preferences{
		RoleKeywords:       "  backend, go ",
		PreferredLocations: "Remote",
		PreferredMode:      []string{"remote", "HYBRID", "remote", "moon"},
		ExperienceLevel:    " 3-5 ",
		Skills:             "go",
		MinMatchScore:      150,
	})

	want := &model.Preferences{
		RoleKeywords:       "backend, go",
		PreferredLocations: "Remote",
		PreferredMode:      []string{"Remote", "Hybrid"},
		ExperienceLevel:    "3-5",
		Skills:             "go",
		MinMatchScore:      100,
	}
	if diff := cmp.Diff(want, s.Load(ctx)); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
	if !s.HasValid(ctx) {
		t.Error("HasValid() = false, want true")
	}

	s.Save(ctx, model.Preferences{Skills: "rust"})
	want = &model.Preferences{Skills: "rust"}
	if diff := cmp.Diff(want, s.Load(ctx)); diff != "" {
		t.Errorf("Save must replace wholesale (-want +got):\n%s", diff)
	}
	if s.HasValid(ctx) {
		t.Error("HasValid() = true with blank role keywords")
	}

	s.Clear(ctx)
	if got := s.Load(ctx); got != nil {
		t.Errorf("Load() after Clear = %+v, want nil", got)
	}
}

func TestLoadStoredShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *model.Preferences
	}{
		{
			name: "missing min score gets default",
			raw:  `{"roleKeywords":"go"}`,
			want: &model.Preferences{RoleKeywords: "go", MinMatchScore: 40},
		},
		{
			name: "explicit zero min score is kept",
			raw:  `{"roleKeywords":"go","minMatchScore":0}`,
			want: &model.Preferences{RoleKeywords: "go", MinMatchScore: 0},
		},
		{
			name: "mode as comma string",
			raw:  `{"preferredMode":"remote, onsite","minMatchScore":-5}`,
			want: &model.Preferences{PreferredMode: []string{"Remote", "Onsite"}, MinMatchScore: 0},
		},
		{
			name: "malformed json",
			raw:  `{"roleKeywords":`,
			want: nil,
		},
		{
			name: "wrong mode type",
			raw:  `{"preferredMode":42}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			s, kv := newTestStore(t)
			if err := kv.Set(ctx, Key, tt.raw); err != nil {
				t.Fatalf("seed: %v", err)
			}
			if diff := cmp.Diff(tt.want, s.Load(ctx)); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSaveSurvivesQuotaForSession(t *testing.T) {
	ctx := context.Background()
	inner := storage.NewMemory(16)
	s := New(storage.NewOverlay(inner), slog.New(slog.NewTextHandler(io.Discard, nil)))

	s.Save(ctx, model.Preferences{RoleKeywords: "backend"})

	if _, ok, _ := inner.Get(ctx, Key); ok {
		t.Fatal("expected write to be rejected by quota")
	}
	got := s.Load(ctx)
	if got == nil || got.RoleKeywords != "backend" {
		t.Errorf("Load() = %+v, want session copy with role keywords", got)
	}
}
