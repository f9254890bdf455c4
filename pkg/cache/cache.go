// Package cache keeps entities by id and list results by query string,
// both expiring after a TTL. Items stay the same objects while fresh, so a
// query result and a single-item read share their entities.
package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/logging"
)

type Cache[T domain.Entity] struct {
	mu      sync.RWMutex
	items   map[string]*Item[T]
	queries *queryLRU[T]
	ttl     time.Duration
	now     func() time.Time
	logger  logrus.FieldLogger
}

func New[T domain.Entity](opts ...Option) *Cache[T] {
	o := &options{
		ttl: DefaultTTL,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Cache[T]{
		items:   make(map[string]*Item[T]),
		queries: newQueryLRU[T](o.maxQueries),
		ttl:     o.ttl,
		now:     o.now,
	}
	if o.logger != nil {
		c.logger = o.logger.WithField(logging.ComponentKey, "cache")
	} else {
		c.logger = logging.WithComponent("cache")
	}
	c.queries.onEvict = func(key string) {
		c.logger.WithField("query", key).Debug("evicted cached query")
	}

	if len(o.initial) > 0 {
		seed := make([]T, 0, len(o.initial))
		for _, e := range o.initial {
			item, ok := e.(T)
			if !ok {
				c.logger.WithField("type", fmt.Sprintf("%T", e)).Warn("ignoring initial item of unexpected type")
				continue
			}
			seed = append(seed, item)
		}
		c.Seed(seed)
	}
	return c
}

// Seed stores items before first use and returns the cache.
func (c *Cache[T]) Seed(items []T) *Cache[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now()
	for _, item := range items {
		c.setLocked(item, now)
	}
	return c
}

func (c *Cache[T]) TTL() time.Duration {
	return c.ttl
}

// Now reads the cache clock.
func (c *Cache[T]) Now() time.Time {
	return c.now()
}

// Set stores item. A fresh entry with the same id is updated in place and
// returned; a missing or stale one is replaced by a new entry.
func (c *Cache[T]) Set(item T) *Item[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.setLocked(item, c.now())
}

// Save is Set followed by InvalidateQueries, unless false is passed.
func (c *Cache[T]) Save(item T, invalidateQueries ...bool) *Item[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	entry := c.setLocked(item, c.now())
	if len(invalidateQueries) == 0 || invalidateQueries[0] {
		c.queries.Clear()
	}
	return entry
}

func (c *Cache[T]) setLocked(item T, now time.Time) *Item[T] {
	key := domain.KeyOf(item.GetID())
	if existing, ok := c.items[key]; ok && !existing.IsStale(now) {
		if _, err := existing.update(item, now); err != nil {
			c.logger.WithError(err).WithField("id", key).Warn("failed to merge cached item, replacing data")
		}
		return existing
	}
	entry := newItem(item, now, c.ttl)
	c.items[key] = entry
	return entry
}

// Get returns the entry for id, stale or not.
func (c *Cache[T]) Get(id domain.ID) (*Item[T], bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.items[domain.KeyOf(id)]
	return entry, ok
}

// ReadOne returns the entity for id when its entry is fresh.
func (c *Cache[T]) ReadOne(id domain.ID) (T, bool) {
	var zero T
	entry, ok := c.Get(id)
	if !ok || entry.IsStale(c.now()) {
		return zero, false
	}
	return entry.Data(), true
}

// SaveQuery caches a list result. Every entity goes through Set, so the
// query references the shared item entries.
func (c *Cache[T]) SaveQuery(key string, data []T, meta domain.Meta) *Query[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	items := make([]*Item[T], 0, len(data))
	for _, d := range data {
		items = append(items, c.setLocked(d, now))
	}
	query := &Query[T]{
		Key:        key,
		Items:      items,
		CachedAt:   now,
		TTL:        c.ttl,
		PrevCursor: meta.PrevPageCursor,
		NextCursor: meta.NextPageCursor,
		TotalCount: meta.TotalCount,
	}
	c.queries.Put(key, query)
	return query
}

// GetQuery returns the cached query for key, stale or not.
func (c *Cache[T]) GetQuery(key string) (*Query[T], bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.queries.Get(key)
}

func (c *Cache[T]) Delete(id domain.ID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, domain.KeyOf(id))
}

// InvalidateQueries drops every cached query and keeps the items.
func (c *Cache[T]) InvalidateQueries() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queries.Clear()
}

func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*Item[T])
	c.queries.Clear()
}

// Data returns every cached entity, stale ones included, in no order.
func (c *Cache[T]) Data() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	data := make([]T, 0, len(c.items))
	for _, entry := range c.items {
		data = append(data, entry.Data())
	}
	return data
}

func (c *Cache[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[T]) QueryLen() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.queries.Len()
}
