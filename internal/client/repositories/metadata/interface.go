// Package metadata is the local key-value store behind participant identity.
//
// Two implementations exist: SQLiteRepository persists across runs,
// MemoryRepository lives as long as the process (the equivalent of browser
// session storage).
package metadata

import (
	"context"
)

// Repository is a flat string-keyed byte store.
//
// Get returns (nil, nil) for an absent key. Delete and DeletePrefix are
// idempotent.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
	List(ctx context.Context, prefix string) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
