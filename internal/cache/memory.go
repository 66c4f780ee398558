package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// MemoryStore backs the book cache with an in-process bigcache instance.
// Useful for single-instance deployments and tests; entries expire on the
// life window configured at construction, so the per-call TTL is ignored.
type MemoryStore struct {
	cache *bigcache.BigCache
}

func NewMemoryStore(ttl time.Duration) (*MemoryStore, error) {
	bc, err := bigcache.New(context.Background(), bigcache.DefaultConfig(ttl))
	if err != nil {
		return nil, fmt.Errorf("create bigcache: %w", err)
	}
	return &MemoryStore{cache: bc}, nil
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.cache.Get(key)
	if err != nil {
		if errors.Is(err, bigcache.ErrEntryNotFound) {
			return nil, ErrMiss
		}
		return nil, err
	}
	return data, nil
}

func (s *MemoryStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return s.cache.Set(key, value)
}

func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	err := s.cache.Delete(key)
	if err != nil && !errors.Is(err, bigcache.ErrEntryNotFound) {
		return err
	}
	return nil
}

func (s *MemoryStore) Close() error {
	return s.cache.Close()
}

var _ Store = (*MemoryStore)(nil)
