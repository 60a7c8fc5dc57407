// Package prefs persists the user's matching preferences.
package prefs

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"jobtracker/internal/model"
	"jobtracker/internal/storage"
)

// Key is the store key holding the preferences JSON object.
const Key = "jobTrackerPreferences"

// Store reads and writes preferences in a key-value store. Store failures and
// malformed data are logged and treated as "not configured".
type Store struct {
	kv  storage.Store
	log *slog.Logger
}

// New creates a Store backed by kv.
func New(kv storage.Store, log *slog.Logger) *Store {
	return &Store{kv: kv, log: log}
}

// Load returns the saved preferences, or nil when none are configured.
func (s *Store) Load(ctx context.Context) *model.Preferences {
	raw, ok, err := s.kv.Get(ctx, Key)
	if err != nil {
		s.log.Error("read preferences", "error", err)
		return nil
	}
	if !ok {
		return nil
	}
	p, err := Decode(raw)
	if err != nil {
		s.log.Warn("malformed preferences", "error", err)
		return nil
	}
	return p
}

// Save replaces the stored preferences with a normalized copy of p.
func (s *Store) Save(ctx context.Context, p model.Preferences) {
	p = Normalize(p)
	data, err := json.Marshal(p)
	if err != nil {
		s.log.Error("encode preferences", "error", err)
		return
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		s.log.Error("write preferences", "error", err)
	}
}

// Clear deletes the stored preferences.
func (s *Store) Clear(ctx context.Context) {
	if err := s.kv.Remove(ctx, Key); err != nil {
		s.log.Error("clear preferences", "error", err)
	}
}

// HasValid reports whether preferences exist with at least one role keyword.
// Digest generation requires it.
func (s *Store) HasValid(ctx context.Context) bool {
	return IsValid(s.Load(ctx))
}

// IsValid reports whether p is non-nil and has non-blank role keywords.
func IsValid(p *model.Preferences) bool {
	return p != nil && strings.TrimSpace(p.RoleKeywords) != ""
}
