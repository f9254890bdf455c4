package cache

import (
	"time"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Query is a cached list result keyed by its canonical query string.
type Query[T domain.Entity] struct {
	Key        string
	Items      []*Item[T]
	CachedAt   time.Time
	TTL        time.Duration
	PrevCursor string
	NextCursor string
	TotalCount *int
}

// Data returns the cached entities in result order.
func (q *Query[T]) Data() []T {
	data := make([]T, 0, len(q.Items))
	for _, item := range q.Items {
		data = append(data, item.Data())
	}
	return data
}

// IsStale reports whether more than the TTL has elapsed since caching.
func (q *Query[T]) IsStale(now time.Time) bool {
	return isStale(q.CachedAt, q.TTL, now)
}

// Meta returns the paging metadata stored with the query.
func (q *Query[T]) Meta() domain.Meta {
	return domain.Meta{
		TotalCount:     q.TotalCount,
		NextPageCursor: q.NextCursor,
		PrevPageCursor: q.PrevCursor,
	}
}
