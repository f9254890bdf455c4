package collection

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/adfharrison1/go-listquery/pkg/debounce"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
)

// Search sets the search query and runs a debounced search. Calls within
// the debounce window collapse into one request carrying the latest query,
// and every caller of the burst receives its results. Without a
// SearchFunc only the query is updated.
func (c *Collection[T]) Search(ctx context.Context, query string, opts SearchOptions) ([]T, error) {
	c.mu.Lock()
	c.searchQuery = query
	preserve := c.preserveSelected
	c.mu.Unlock()

	if !preserve {
		c.selection.Reset()
	}
	if c.searchFn == nil {
		return nil, nil
	}

	results, err := c.searcher.Call(ctx, opts)
	if err != nil {
		if errors.Is(err, debounce.ErrCanceled) || !opts.ShouldThrowError {
			return nil, nil
		}
		return nil, err
	}
	return results, nil
}

// handleSearch is the debounced body of Search. It reads the query at
// fire time, so the latest Search wins.
func (c *Collection[T]) handleSearch(ctx context.Context, opts SearchOptions) ([]T, error) {
	c.mu.Lock()
	c.searching = true
	query := c.searchQuery
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.searching = false
		c.mu.Unlock()
	}()

	if opts.ClearFilters {
		c.holdSync()
		c.filters.ClearSilently()
		c.pagination.Reset()
		c.cursorPagination.Reset()
		c.sorting.Reset()
		c.applyPageSize()
		c.releaseSync()
		c.SyncURL()
	}

	start := time.Now()
	results, err := c.searchFn(ctx, query, c.filters.Params())
	c.metrics.ObserveRequest(metrics.OpSearch, start, err)
	if err != nil {
		err = domain.WrapNetwork("search", err)
		c.mu.Lock()
		c.searchErr = err
		c.mu.Unlock()
		c.handleError("search", err)
		return nil, err
	}

	c.mu.Lock()
	c.searchErr = nil
	switch {
	case opts.Append:
		c.data = append(slices.Clone(c.data), results...)
	case c.preserveSelected:
		c.data = withSelectedFirst(c.selection.Selected(), results)
	default:
		c.data = slices.Clone(results)
	}
	c.mu.Unlock()

	c.pagination.SetTotalCount(len(results))
	c.cursorPagination.SetTotalCount(len(results))

	return results, nil
}

// withSelectedFirst puts the selected entities ahead of the results,
// dropping results that are already selected.
func withSelectedFirst[T domain.Entity](selected, results []T) []T {
	out := make([]T, 0, len(selected)+len(results))
	out = append(out, selected...)
	seen := make(map[string]struct{}, len(selected))
	for _, item := range selected {
		seen[domain.KeyOf(item.GetID())] = struct{}{}
	}
	for _, item := range results {
		if _, ok := seen[domain.KeyOf(item.GetID())]; !ok {
			out = append(out, item)
		}
	}
	return out
}
