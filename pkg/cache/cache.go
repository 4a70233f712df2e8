package cache

import (
	"context"
	"sync"
	"time"

	"github.com/aquamarinepk/aqm"
)

// Fetcher loads a whole collection from the service.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Snapshot is a consistent view of a cache at one instant.
type Snapshot[T any] struct {
	Items      []T
	Refreshing bool
	Stale      bool
	FetchedAt  time.Time
	Err        error
}

// Cache holds the last good copy of one collection, keyed by id and kept in
// server order. Refreshes may overlap; only the latest-started one applies.
type Cache[T any] struct {
	name   Collection
	fetch  Fetcher[T]
	key    func(T) string
	logger aqm.Logger
	now    func() time.Time

	mu        sync.RWMutex
	items     []T
	index     map[string]int
	fetchedAt time.Time
	inflight  int
	started   uint64
	applied   uint64
	stale     bool
	err       error
}

func New[T any](name Collection, fetch Fetcher[T], key func(T) string, logger aqm.Logger) *Cache[T] {
	if logger == nil {
		logger = aqm.NewNoopLogger()
	}
	return &Cache[T]{
		name:   name,
		fetch:  fetch,
		key:    key,
		logger: logger,
		now:    time.Now,
		index:  make(map[string]int),
	}
}

func (c *Cache[T]) Name() Collection {
	return c.name
}

// Refresh refetches the collection. A result is dropped when ctx is done by
// the time it arrives, or when a later refresh has already been applied.
// On failure the previous items are kept and the error is recorded.
func (c *Cache[T]) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.started++
	seq := c.started
	c.inflight++
	c.mu.Unlock()

	items, err := c.fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight--

	if ctxErr := ctx.Err(); ctxErr != nil {
		c.logger.Debug("discarding refresh after cancellation", "collection", c.name)
		return ctxErr
	}
	if seq < c.applied {
		c.logger.Debug("discarding superseded refresh", "collection", c.name, "seq", seq)
		return err
	}
	c.applied = seq

	if err != nil {
		c.err = err
		c.stale = true
		c.logger.Error("refresh failed", "collection", c.name, "error", err)
		return err
	}

	c.items = items
	c.index = make(map[string]int, len(items))
	for i, it := range items {
		c.index[c.key(it)] = i
	}
	c.fetchedAt = c.now()
	c.stale = false
	c.err = nil
	return nil
}

// RefreshIfOlder refreshes when the cache was never loaded, is marked stale,
// or was fetched more than maxAge ago.
func (c *Cache[T]) RefreshIfOlder(ctx context.Context, maxAge time.Duration) error {
	c.mu.RLock()
	fresh := !c.fetchedAt.IsZero() && !c.stale && c.now().Sub(c.fetchedAt) < maxAge
	c.mu.RUnlock()

	if fresh {
		return nil
	}
	return c.Refresh(ctx)
}

// MarkStale flags the cached items as outdated without dropping them.
func (c *Cache[T]) MarkStale() {
	c.mu.Lock()
	c.stale = true
	c.mu.Unlock()
}

func (c *Cache[T]) Snapshot() Snapshot[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()

	items := make([]T, len(c.items))
	copy(items, c.items)
	return Snapshot[T]{
		Items:      items,
		Refreshing: c.inflight > 0,
		Stale:      c.stale,
		FetchedAt:  c.fetchedAt,
		Err:        c.err,
	}
}

func (c *Cache[T]) Items() []T {
	return c.Snapshot().Items
}

func (c *Cache[T]) Get(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	i, ok := c.index[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[i], true
}

func (c *Cache[T]) IsRefreshing() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.inflight > 0
}

func (c *Cache[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return !c.fetchedAt.IsZero()
}
