package collection

import (
	"context"
	"maps"
	"time"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
	"github.com/adfharrison1/go-listquery/pkg/querystring"
)

// Init fetches once. It does nothing when the collection is already
// initialized or fetching, so it is safe to call on every mount. Sort,
// paging and filter keys found in opts.Query seed the fetch; explicit
// options win over parsed ones.
func (c *Collection[T]) Init(ctx context.Context, opts FetchOptions) error {
	c.mu.RLock()
	skip := c.initialized || c.fetching
	c.mu.RUnlock()
	if skip {
		return nil
	}

	if opts.Query != "" {
		parsed, err := querystring.Parse(opts.Query)
		if err != nil {
			c.logger.WithError(err).WithField("query", opts.Query).Warn("ignoring unparseable init query")
		} else {
			opts = seedFromQuery(opts, parsed)
		}
	}

	_, err := c.Fetch(ctx, opts)
	return err
}

func seedFromQuery(opts FetchOptions, parsed *querystring.Parsed) FetchOptions {
	if opts.SortBy == "" {
		opts.SortBy = parsed.SortBy
	}
	if opts.SortAscending == nil {
		opts.SortAscending = parsed.SortAscending
	}
	if opts.Page == 0 {
		opts.Page = parsed.Page
	}
	if opts.PageSize == 0 {
		opts.PageSize = parsed.PageSize
	}
	if opts.PageCursor == "" {
		opts.PageCursor = parsed.PageCursor
	}
	merged := make(map[string]any, len(parsed.Filters)+len(opts.Filters))
	maps.Copy(merged, parsed.Filters)
	maps.Copy(merged, opts.Filters)
	opts.Filters = merged
	return opts
}

// Fetch applies opts to the sub-modules and loads the resulting query,
// from the cache when a fresh entry exists. A failed fetch stores its
// error in FetchErr and returns it only with opts.ShouldThrowError.
func (c *Collection[T]) Fetch(ctx context.Context, opts FetchOptions) (*domain.FetchResult[T], error) {
	c.applyFetchOptions(opts)
	return c.handleFetch(ctx, opts.Append, opts.ShouldThrowError)
}

func (c *Collection[T]) applyFetchOptions(opts FetchOptions) {
	c.holdSync()
	defer c.releaseSync()

	if opts.ClearFilters {
		c.filters.ClearSilently()
		c.pagination.Reset()
		c.cursorPagination.Reset()
		c.sorting.Reset()
		c.applyPageSize()
	}

	if opts.SortBy != "" {
		c.sorting.SetKey(opts.SortBy)
	}
	if opts.SortAscending != nil {
		c.sorting.SetAscending(*opts.SortAscending)
	}

	filters := opts.Filters
	if filters == nil && opts.Query != "" {
		parsed, err := querystring.Parse(opts.Query)
		if err != nil {
			c.logger.WithError(err).WithField("query", opts.Query).Warn("ignoring unparseable query")
		} else {
			filters = parsed.Filters
		}
	}
	if len(filters) > 0 {
		c.filters.Apply(filters, opts.ClearFilters)
	}

	if opts.Page > 0 {
		c.pagination.SetPage(opts.Page)
	}
	if opts.PageSize > 0 {
		c.pagination.SetPageSize(opts.PageSize)
		c.cursorPagination.SetPageSize(opts.PageSize)
	}
	if opts.PageCursor != "" {
		if c.kind != pagination.KindCursor {
			c.logger.WithField("pageCursor", opts.PageCursor).
				Warn("pageCursor passed to a collection without cursor pagination, ignoring it")
		} else {
			c.cursorPagination.SetCurrent(opts.PageCursor)
		}
	}
}

func (c *Collection[T]) handleFetch(ctx context.Context, appendItems, shouldThrow bool) (*domain.FetchResult[T], error) {
	c.mu.Lock()
	c.fetching = true
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.fetching = false
		c.initialized = true
		c.mu.Unlock()
	}()

	params := c.QueryParams()
	key := querystring.Encode(params)
	c.syncURL(key)

	if c.cache != nil {
		if cached, ok := c.cache.GetQuery(key); ok && !cached.IsStale(c.cache.Now()) {
			c.metrics.CacheLookup(metrics.CacheHit)
			data := cached.Data()
			meta := cached.Meta()

			c.mu.Lock()
			c.fetchErr = nil
			c.setDataLocked(data, appendItems)
			c.mu.Unlock()
			c.savePaginationState(meta)

			return resultOf(data, meta), nil
		} else if ok {
			c.metrics.CacheLookup(metrics.CacheStale)
		} else {
			c.metrics.CacheLookup(metrics.CacheMiss)
		}
	}

	if c.fetchFn == nil {
		return c.failFetch(ErrNoFetchFunc, shouldThrow)
	}

	start := time.Now()
	res, err := c.fetchFn(ctx, params.Clone())
	c.metrics.ObserveRequest(metrics.OpFetch, start, err)
	if err != nil {
		return c.failFetch(domain.WrapNetwork("fetch", err), shouldThrow)
	}
	if res == nil {
		res = &domain.FetchResult[T]{}
	}

	data := res.Data
	meta := res.Meta()
	if c.cache != nil {
		data = c.cache.SaveQuery(key, res.Data, meta).Data()
	}

	c.mu.Lock()
	c.fetchErr = nil
	c.setDataLocked(data, appendItems)
	c.mu.Unlock()
	c.savePaginationState(meta)

	return resultOf(data, meta), nil
}

func (c *Collection[T]) failFetch(err error, shouldThrow bool) (*domain.FetchResult[T], error) {
	c.mu.Lock()
	c.fetchErr = err
	c.mu.Unlock()
	c.handleError("fetch", err)

	if shouldThrow {
		return nil, err
	}
	return &domain.FetchResult[T]{Data: []T{}, TotalCount: domain.Count(0)}, nil
}

// savePaginationState writes response metadata into the active module.
// In cursor mode the next token is always overwritten, an absent one
// meaning the last page; prev is only updated when the server sends one.
func (c *Collection[T]) savePaginationState(meta domain.Meta) {
	switch c.kind {
	case pagination.KindOffset:
		if meta.TotalCount != nil {
			c.pagination.SetTotalCount(*meta.TotalCount)
		}
	case pagination.KindCursor:
		if meta.TotalCount != nil {
			c.cursorPagination.SetTotalCount(*meta.TotalCount)
		}
		c.cursorPagination.SetNext(meta.NextPageCursor)
		if meta.PrevPageCursor != "" {
			c.cursorPagination.SetPrev(meta.PrevPageCursor)
		}
	case pagination.None:
	}
}

func resultOf[T domain.Entity](data []T, meta domain.Meta) *domain.FetchResult[T] {
	return &domain.FetchResult[T]{
		Data:           data,
		TotalCount:     meta.TotalCount,
		NextPageCursor: meta.NextPageCursor,
		PrevPageCursor: meta.PrevPageCursor,
	}
}
