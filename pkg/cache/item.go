package cache

import (
	"sync"
	"time"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Item is a cached entity. The same *Item is kept across updates while it
// is fresh, so holders of it observe newer data.
type Item[T domain.Entity] struct {
	mu       sync.RWMutex
	id       string
	data     T
	cachedAt time.Time
	ttl      time.Duration
}

func newItem[T domain.Entity](data T, now time.Time, ttl time.Duration) *Item[T] {
	return &Item[T]{
		id:       domain.KeyOf(data.GetID()),
		data:     data,
		cachedAt: now,
		ttl:      ttl,
	}
}

// ID returns the canonical id key.
func (i *Item[T]) ID() string {
	return i.id
}

func (i *Item[T]) Data() T {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.data
}

func (i *Item[T]) CachedAt() time.Time {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.cachedAt
}

// IsStale reports whether more than the TTL has elapsed since caching.
func (i *Item[T]) IsStale(now time.Time) bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return isStale(i.cachedAt, i.ttl, now)
}

func (i *Item[T]) update(data T, now time.Time) (T, error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	merged, err := domain.Assign(i.data, data, domain.MergeReplace)
	if err != nil {
		merged = data
	}
	i.data = merged
	i.cachedAt = now
	return merged, err
}

func isStale(cachedAt time.Time, ttl time.Duration, now time.Time) bool {
	return now.Sub(cachedAt) > ttl
}
