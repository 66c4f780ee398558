package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"libraryapi/internal/book"
	"libraryapi/internal/metrics"
)

// snapshotKey is the single well-known key holding the full book collection.
const snapshotKey = "books:all"

// BookCache is a fail-open snapshot cache over the full book collection.
// No method ever returns an error: a failing backend degrades to a cold
// cache and the caller proceeds against the record store. Every backend
// call runs under a bounded timeout so a slow cache cannot stall a request.
type BookCache struct {
	store     Store
	ttl       time.Duration
	opTimeout time.Duration
	logger    *slog.Logger
	metrics   metrics.Recorder
}

func NewBookCache(store Store, ttl, opTimeout time.Duration, logger *slog.Logger, recorder metrics.Recorder) *BookCache {
	if logger == nil {
		logger = slog.Default()
	}
	if recorder == nil {
		recorder = metrics.NoOp{}
	}
	return &BookCache{
		store:     store,
		ttl:       ttl,
		opTimeout: opTimeout,
		logger:    logger.With("component", "book-cache", "backend", store.Name()),
		metrics:   recorder,
	}
}

func (c *BookCache) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.opTimeout)
}

// Get returns the cached snapshot, or ok=false on a miss or any failure.
func (c *BookCache) Get(ctx context.Context) ([]book.Book, bool) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.store.Get(opCtx, snapshotKey)
	if err != nil {
		if !errors.Is(err, ErrMiss) {
			c.logger.Warn("cache get failed, degrading to store read", "error", err)
			c.metrics.Incr("cache.error", "op:get")
		}
		c.metrics.Incr("cache.miss")
		return nil, false
	}

	var books []book.Book
	if err := unmarshalSnapshot(data, &books); err != nil {
		c.logger.Warn("cache snapshot corrupt, invalidating", "error", err)
		c.metrics.Incr("cache.error", "op:decode")
		c.Invalidate(ctx)
		return nil, false
	}

	c.metrics.Incr("cache.hit")
	return books, true
}

// Set stores a fresh snapshot best-effort.
func (c *BookCache) Set(ctx context.Context, books []book.Book) {
	data, err := marshalSnapshot(books)
	if err != nil {
		c.logger.Warn("cache snapshot encode failed", "error", err)
		c.metrics.Incr("cache.error", "op:encode")
		return
	}

	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Set(opCtx, snapshotKey, data, c.ttl); err != nil {
		c.logger.Warn("cache set failed", "error", err)
		c.metrics.Incr("cache.error", "op:set")
		return
	}
	c.metrics.Incr("cache.set")
}

// PatchOne rewrites a single book's status inside the cached snapshot,
// preserving every other field. On a cold cache it does nothing; the
// snapshot repopulates on the next miss. If the patch cannot be applied
// safely the whole snapshot is invalidated so stale data is never served.
// The rewrite resets the TTL, trading a little extra staleness headroom
// for avoiding a full miss.
func (c *BookCache) PatchOne(ctx context.Context, bookID, status string) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	data, err := c.store.Get(opCtx, snapshotKey)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			return
		}
		c.logger.Warn("cache fetch for patch failed, invalidating", "error", err)
		c.metrics.Incr("cache.error", "op:patch")
		c.Invalidate(ctx)
		return
	}

	var books []book.Book
	if err := unmarshalSnapshot(data, &books); err != nil {
		c.logger.Warn("cache snapshot decode for patch failed, invalidating", "error", err)
		c.metrics.Incr("cache.error", "op:patch")
		c.Invalidate(ctx)
		return
	}

	patched := false
	for i := range books {
		if books[i].ID == bookID {
			books[i].Status = status
			patched = true
			break
		}
	}
	if !patched {
		// Snapshot predates this book; it cannot be trusted.
		c.Invalidate(ctx)
		return
	}

	updated, err := marshalSnapshot(books)
	if err != nil {
		c.logger.Warn("cache snapshot encode for patch failed, invalidating", "error", err)
		c.metrics.Incr("cache.error", "op:patch")
		c.Invalidate(ctx)
		return
	}

	setCtx, cancelSet := c.withTimeout(ctx)
	defer cancelSet()
	if err := c.store.Set(setCtx, snapshotKey, updated, c.ttl); err != nil {
		c.logger.Warn("cache patch write failed, invalidating", "error", err)
		c.metrics.Incr("cache.error", "op:patch")
		c.Invalidate(ctx)
		return
	}
	c.metrics.Incr("cache.patch")
}

// Invalidate drops the snapshot best-effort.
func (c *BookCache) Invalidate(ctx context.Context) {
	opCtx, cancel := c.withTimeout(ctx)
	defer cancel()

	if err := c.store.Delete(opCtx, snapshotKey); err != nil {
		// Nothing left to do: the entry will age out on its TTL.
		c.logger.Warn("cache invalidate failed", "error", err)
		c.metrics.Incr("cache.error", "op:invalidate")
		return
	}
	c.metrics.Incr("cache.invalidate")
}

var _ book.Cache = (*BookCache)(nil)
