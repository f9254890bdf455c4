package collection

import (
	"context"
	"slices"
	"time"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
)

// FetchOne loads a single entity. With opts.UseCache a fresh cached entity
// is returned without a network call. Found entities are cached and, when
// asked, appended or prepended to the data; an entity already present is
// replaced in place instead.
func (c *Collection[T]) FetchOne(ctx context.Context, id domain.ID, opts FetchOneOptions) (T, bool, error) {
	var zero T

	if c.cache != nil && opts.UseCache {
		if item, ok := c.cache.ReadOne(id); ok {
			c.metrics.CacheLookup(metrics.CacheHit)
			return item, true, nil
		}
		c.metrics.CacheLookup(metrics.CacheMiss)
	}

	if c.fetchOneFn == nil {
		return zero, false, nil
	}

	start := time.Now()
	item, found, err := c.fetchOneFn(ctx, id)
	c.metrics.ObserveRequest(metrics.OpFetchOne, start, err)
	if err != nil {
		err = domain.WrapNetwork("fetch one", err)
		c.handleError("fetch one", err)
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	if c.cache != nil {
		item = c.cache.Set(item).Data()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := domain.IndexOf(c.data, item.GetID()); idx >= 0 {
		c.data[idx] = item
	} else if opts.Append {
		c.data = append(c.data, item)
	} else if opts.Prepend {
		c.data = slices.Insert(c.data, 0, item)
	}
	return item, true, nil
}

// Edit sends updates through the EditFunc. The returned entity replaces
// the matching data entry and is saved to the cache, invalidating cached
// queries. found is false without an EditFunc or when the entity does not
// exist.
func (c *Collection[T]) Edit(ctx context.Context, id domain.ID, updates domain.Updates) (T, bool, error) {
	var zero T
	if c.editFn == nil {
		return zero, false, nil
	}

	start := time.Now()
	item, found, err := c.editFn(ctx, id, updates)
	c.metrics.ObserveRequest(metrics.OpEdit, start, err)
	if err != nil {
		err = domain.WrapNetwork("edit", err)
		c.handleError("edit", err)
		return zero, false, err
	}
	if !found {
		return zero, false, nil
	}

	if c.cache != nil {
		item = c.cache.Save(item).Data()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if idx := domain.IndexOf(c.data, id); idx >= 0 {
		c.data[idx] = item
	}
	return item, true, nil
}

// AddItem adds item locally. An entity with the same id is merged with
// item's non-empty fields; otherwise item is appended and known totals
// grow by one. The result is saved to the cache.
func (c *Collection[T]) AddItem(item T) {
	c.mu.Lock()
	idx := domain.IndexOf(c.data, item.GetID())
	if idx >= 0 {
		merged, err := domain.Assign(c.data[idx], item, domain.MergeOverride)
		if err != nil {
			c.logger.WithError(err).Warn("failed to merge item, replacing it")
			merged = item
		}
		c.data[idx] = merged
		item = merged
	}
	c.mu.Unlock()

	if c.cache != nil {
		item = c.cache.Save(item).Data()
	}

	c.mu.Lock()
	if i := domain.IndexOf(c.data, item.GetID()); i >= 0 {
		c.data[i] = item
		c.mu.Unlock()
		return
	}
	c.data = append(c.data, item)
	c.mu.Unlock()

	if idx >= 0 {
		return
	}
	if total, ok := c.pagination.TotalCount(); ok {
		c.pagination.SetTotalCount(total + 1)
	}
	if total, ok := c.cursorPagination.TotalCount(); ok {
		c.cursorPagination.SetTotalCount(total + 1)
	}
}

// MoveItem moves the entity at from to index to. Out of range indexes
// are ignored.
func (c *Collection[T]) MoveItem(from, to int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return domain.Move(c.data, from, to)
}

// RemoveItem removes item locally. Known totals shrink by one, its cache
// entry is deleted and cached queries are invalidated. When the page ends
// up empty the active pagination steps back, which refetches.
func (c *Collection[T]) RemoveItem(item T) bool {
	id := item.GetID()

	c.mu.Lock()
	idx := domain.IndexOf(c.data, id)
	if idx < 0 {
		c.mu.Unlock()
		return false
	}
	c.data = slices.Delete(c.data, idx, idx+1)
	empty := len(c.data) == 0
	c.mu.Unlock()

	if c.cache != nil {
		c.cache.Delete(id)
		c.cache.InvalidateQueries()
	}

	if total, ok := c.pagination.TotalCount(); ok && total > 0 {
		c.pagination.SetTotalCount(total - 1)
	}
	if total, ok := c.cursorPagination.TotalCount(); ok && total > 0 {
		c.cursorPagination.SetTotalCount(total - 1)
	}

	if empty {
		switch c.kind {
		case pagination.KindCursor:
			c.cursorPagination.GoToPrev()
		case pagination.KindOffset, pagination.None:
			c.pagination.GoToPrev()
		}
	}
	return true
}
