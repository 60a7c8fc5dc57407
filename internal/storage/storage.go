// Package storage defines the key-value persistence interface and its implementations.
package storage

import (
	"context"
	"errors"
)

// DefaultQuota is the write ceiling applied to a store, counted as the sum of
// key and value bytes.
const DefaultQuota = 5 << 20

// ErrQuotaExceeded is returned by Set when the write would grow the store past
// its quota. The store is left unchanged.
var ErrQuotaExceeded = errors.New("storage quota exceeded")

// Store is a synchronous string key-value store. Get reports ok=false for a
// missing key; a missing key is not an error.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	// Keys returns every key starting with prefix, sorted.
	Keys(ctx context.Context, prefix string) ([]string, error)

	Close() error
}
