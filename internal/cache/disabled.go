package cache

import (
	"context"
	"time"
)

// DisabledStore is the backend used when no cache is configured. Every read
// is a miss and every write is discarded.
type DisabledStore struct{}

func NewDisabledStore() *DisabledStore { return &DisabledStore{} }

func (DisabledStore) Name() string { return "disabled" }

func (DisabledStore) Get(ctx context.Context, key string) ([]byte, error) {
	return nil, ErrMiss
}

func (DisabledStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return nil
}

func (DisabledStore) Delete(ctx context.Context, key string) error {
	return nil
}

var _ Store = DisabledStore{}
