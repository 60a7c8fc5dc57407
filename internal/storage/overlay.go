package storage

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// Overlay wraps a Store and remembers writes that the underlying store
// rejected. Later reads in the same process see the intended value even
// though it was never persisted. The failed write's error is still returned.
type Overlay struct {
	Store

	mu      sync.Mutex
	pending map[string]*string // nil marks a failed removal
}

// NewOverlay wraps s.
func NewOverlay(s Store) *Overlay {
	return &Overlay{Store: s, pending: make(map[string]*string)}
}

// Get returns the pending value for key if a write failed, otherwise the
// stored one.
func (o *Overlay) Get(ctx context.Context, key string) (string, bool, error) {
	o.mu.Lock()
	v, ok := o.pending[key]
	o.mu.Unlock()
	if ok {
		if v == nil {
			return "", false, nil
		}
		return *v, true, nil
	}
	return o.Store.Get(ctx, key)
}

// Set writes through to the store and keeps value in memory if that fails.
func (o *Overlay) Set(ctx context.Context, key, value string) error {
	err := o.Store.Set(ctx, key, value)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.pending[key] = &value
		return err
	}
	delete(o.pending, key)
	return nil
}

// Remove deletes key from the store and hides it in memory if that fails.
func (o *Overlay) Remove(ctx context.Context, key string) error {
	err := o.Store.Remove(ctx, key)

	o.mu.Lock()
	defer o.mu.Unlock()
	if err != nil {
		o.pending[key] = nil
		return err
	}
	delete(o.pending, key)
	return nil
}

// Keys merges the stored keys with pending writes.
func (o *Overlay) Keys(ctx context.Context, prefix string) ([]string, error) {
	stored, err := o.Store.Keys(ctx, prefix)

	o.mu.Lock()
	defer o.mu.Unlock()

	set := make(map[string]bool, len(stored))
	for _, k := range stored {
		set[k] = true
	}
	for k, v := range o.pending {
		if !strings.HasPrefix(k, prefix) {
			continue
		}
		set[k] = v != nil
	}

	keys := make([]string, 0, len(set))
	for k, present := range set {
		if present {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, err
}
