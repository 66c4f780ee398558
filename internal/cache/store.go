// Package cache provides the advisory snapshot cache over the book
// collection. The cache is never authoritative: every operation is fail-open
// and a broken backend behaves exactly like a cold cache.
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrMiss is returned by a Store when a key is not present.
var ErrMiss = errors.New("cache: key not found")

// Store is the low-level key/value backend underneath the book cache.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Name() string
}
