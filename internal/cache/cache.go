// Package cache provides the pool cache backends.
package cache

import (
	"context"
	"time"

	"github.com/tubeten/playlist-trivia-go/internal/models"
)

// schemaVersion namespaces cache keys by pool payload shape. Bump it when
// models.PoolEntry changes so stale payloads miss instead of deserializing
// into an incompatible struct.
const schemaVersion = "v2"

// DefaultTTL is the pool retention window.
const DefaultTTL = 48 * time.Hour

// Key returns the cache key for a playlist's pool.
func Key(playlistID string) string {
	return "pool:" + schemaVersion + ":" + playlistID
}

// PoolStore is a key-value store for playlist pools with per-write expiry.
// GetPool reports a miss (false) for absent and expired entries alike.
type PoolStore interface {
	GetPool(ctx context.Context, playlistID string) ([]models.PoolEntry, bool, error)
	PutPool(ctx context.Context, playlistID string, entries []models.PoolEntry, ttl time.Duration) error
}
