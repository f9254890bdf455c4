// Package collection orchestrates a remotely fetched list: filters,
// sorting, pagination, selection, search and caching, around injected
// network functions.
//
// Sub-module mutators that fire OnChange (Filters().Set, Sorting().Sort,
// Pagination().GoToNext, ...) refetch synchronously through the same path
// as Fetch. Errors of such refetches are stored on the collection and
// passed to the error handler, never returned.
package collection

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/cache"
	"github.com/adfharrison1/go-listquery/pkg/debounce"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/filters"
	"github.com/adfharrison1/go-listquery/pkg/logging"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
	"github.com/adfharrison1/go-listquery/pkg/querystring"
	"github.com/adfharrison1/go-listquery/pkg/selection"
	"github.com/adfharrison1/go-listquery/pkg/sorting"
)

// ErrNoFetchFunc is stored as the fetch error when New got a nil FetchFunc.
var ErrNoFetchFunc = errors.New("no fetch function configured")

// Collection is the list-query controller for entities of type T.
type Collection[T domain.Entity] struct {
	mu          sync.RWMutex
	data        []T
	initialized bool
	fetching    bool
	fetchErr    error
	searchQuery string
	searching   bool
	searchErr   error
	lastQuery   string
	syncHold    atomic.Int32

	filters          *filters.Filters
	sorting          *sorting.Sorting
	pagination       *pagination.Offset
	cursorPagination *pagination.Cursor
	selection        *selection.Selection[T]
	cache            *cache.Cache[T]

	kind             pagination.Kind
	pageSize         int
	preserveSelected bool

	fetchFn      FetchFunc[T]
	searchFn     SearchFunc[T]
	fetchOneFn   FetchOneFunc[T]
	editFn       EditFunc[T]
	errorHandler ErrorHandler
	urlWriter    URLWriter
	searcher     *debounce.Debouncer[SearchOptions, []T]

	logger  logrus.FieldLogger
	metrics *metrics.Metrics
}

// New creates a collection around fetchFn.
func New[T domain.Entity](fetchFn FetchFunc[T], opts ...Option) *Collection[T] {
	s := defaultSettings()
	for _, opt := range opts {
		opt(s)
	}

	c := &Collection[T]{
		kind:             s.kind,
		pageSize:         s.pageSize,
		preserveSelected: s.preserveSelected,
		fetchFn:          fetchFn,
		errorHandler:     s.errorHandler,
		urlWriter:        s.urlWriter,
		metrics:          s.metrics,
		selection:        selection.New[T](),
	}
	if s.logger != nil {
		c.logger = s.logger.WithField(logging.ComponentKey, "collection")
	} else {
		c.logger = logging.WithComponent("collection")
	}

	c.filters = filters.New(
		filters.WithInitial(s.initialFilters),
		filters.WithOnChange(func(domain.Params) { c.refetch() }),
		filters.WithOnParamsChange(c.paramsChanged),
	)
	c.sorting = sorting.New(
		sorting.WithKey(s.sortBy),
		sorting.WithAscending(s.sortAscending),
		sorting.WithOnChange(c.refetch),
		sorting.WithOnParamsChange(c.paramsChanged),
	)
	c.pagination = pagination.NewOffset(
		pagination.WithPageSize(s.pageSize),
		pagination.WithOnChange(func(domain.Params) { c.refetch() }),
		pagination.WithOnParamsChange(c.paramsChanged),
	)
	c.cursorPagination = pagination.NewCursor(
		pagination.WithCursorPageSize(s.pageSize),
		pagination.WithCursorOnChange(func(string) { c.refetch() }),
		pagination.WithCursorOnParamsChange(c.paramsChanged),
	)
	c.searcher = debounce.New(s.searchDebounce, c.handleSearch)

	c.bindTyped(s)
	return c
}

func (c *Collection[T]) bindTyped(s *settings) {
	mismatch := func(option string) {
		c.logger.WithField("option", option).Warn("option entity type does not match the collection, ignoring it")
	}
	if s.cache != nil {
		if cc, ok := s.cache.(*cache.Cache[T]); ok {
			c.cache = cc
		} else {
			mismatch("cache")
		}
	}
	if s.search != nil {
		if fn, ok := s.search.(SearchFunc[T]); ok {
			c.searchFn = fn
		} else {
			mismatch("search")
		}
	}
	if s.fetchOne != nil {
		if fn, ok := s.fetchOne.(FetchOneFunc[T]); ok {
			c.fetchOneFn = fn
		} else {
			mismatch("fetchOne")
		}
	}
	if s.edit != nil {
		if fn, ok := s.edit.(EditFunc[T]); ok {
			c.editFn = fn
		} else {
			mismatch("edit")
		}
	}
}

// State is a consistent snapshot of the collection's observable fields.
type State[T domain.Entity] struct {
	Data        []T
	Initialized bool
	Fetching    bool
	FetchErr    error
	SearchQuery string
	Searching   bool
	SearchErr   error
}

// Snapshot reads every state field under one lock.
func (c *Collection[T]) Snapshot() State[T] {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return State[T]{
		Data:        slices.Clone(c.data),
		Initialized: c.initialized,
		Fetching:    c.fetching,
		FetchErr:    c.fetchErr,
		SearchQuery: c.searchQuery,
		Searching:   c.searching,
		SearchErr:   c.searchErr,
	}
}

// Data returns a copy of the visible entities in server order.
func (c *Collection[T]) Data() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.data)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Map indexes the visible entities by id key.
func (c *Collection[T]) Map() map[string]T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make(map[string]T, len(c.data))
	for _, item := range c.data {
		out[domain.KeyOf(item.GetID())] = item
	}
	return out
}

// Initialized reports whether a fetch has completed, successfully or not.
func (c *Collection[T]) Initialized() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.initialized
}

func (c *Collection[T]) Fetching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetching
}

// FetchErr is the error of the last failed fetch, cleared by a successful
// one or ResetState.
func (c *Collection[T]) FetchErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fetchErr
}

func (c *Collection[T]) SearchQuery() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchQuery
}

func (c *Collection[T]) Searching() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searching
}

func (c *Collection[T]) SearchErr() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.searchErr
}

func (c *Collection[T]) Filters() *filters.Filters {
	return c.filters
}

func (c *Collection[T]) Sorting() *sorting.Sorting {
	return c.sorting
}

// Pagination is the offset pagination module. It only feeds the query
// params when the collection uses offset pagination.
func (c *Collection[T]) Pagination() *pagination.Offset {
	return c.pagination
}

// CursorPagination is the cursor pagination module. It only feeds the
// query params when the collection uses cursor pagination.
func (c *Collection[T]) CursorPagination() *pagination.Cursor {
	return c.cursorPagination
}

func (c *Collection[T]) Selection() *selection.Selection[T] {
	return c.selection
}

// Cache returns the configured cache, or nil.
func (c *Collection[T]) Cache() *cache.Cache[T] {
	return c.cache
}

// PaginationKind reports which pagination module is active.
func (c *Collection[T]) PaginationKind() pagination.Kind {
	return c.kind
}

func (c *Collection[T]) PreserveSelectedOnSearch() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.preserveSelected
}

// SetPreserveSelectedOnSearch reconfigures selection handling for
// subsequent searches.
func (c *Collection[T]) SetPreserveSelectedOnSearch(preserve bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.preserveSelected = preserve
}

// QueryParamsWithoutPagination is the union of filter and sort params.
func (c *Collection[T]) QueryParamsWithoutPagination() domain.Params {
	return c.filters.Params().Merge(c.sorting.Params())
}

// QueryParams adds the params of the active pagination module.
func (c *Collection[T]) QueryParams() domain.Params {
	params := c.QueryParamsWithoutPagination()
	switch c.kind {
	case pagination.KindOffset:
		params.Merge(c.pagination.Params())
	case pagination.KindCursor:
		params.Merge(c.cursorPagination.Params())
	case pagination.None:
	}
	return params
}

// QueryString is the canonical, key-sorted encoding of QueryParams. It
// is the cache key of the current query.
func (c *Collection[T]) QueryString() string {
	return querystring.Encode(c.QueryParams())
}

// ResetState clears data, flags and errors, cancels a pending search and
// resets every sub-module.
func (c *Collection[T]) ResetState() {
	c.searcher.Cancel()

	c.holdSync()
	c.cursorPagination.Reset()
	c.filters.ResetSilently()
	c.pagination.Reset()
	c.selection.Reset()
	c.sorting.Reset()
	c.applyPageSize()
	c.releaseSync()

	c.mu.Lock()
	c.data = nil
	c.initialized = false
	c.fetching = false
	c.fetchErr = nil
	c.searchQuery = ""
	c.searching = false
	c.searchErr = nil
	c.mu.Unlock()

	c.SyncURL()
}

// applyPageSize re-applies the configured page size after a module reset.
func (c *Collection[T]) applyPageSize() {
	c.pagination.SetPageSize(c.pageSize)
	c.cursorPagination.SetPageSize(c.pageSize)
}

func (c *Collection[T]) refetch() {
	if _, err := c.handleFetch(context.Background(), false, false); err != nil {
		c.logger.WithError(err).Debug("refetch failed")
	}
}

func (c *Collection[T]) handleError(op string, err error) {
	c.logger.WithError(err).WithField("op", op).Warn("request failed")
	if c.errorHandler != nil {
		c.errorHandler(err)
	}
}

// setDataLocked replaces or extends data; callers hold c.mu.
func (c *Collection[T]) setDataLocked(items []T, appendItems bool) {
	if appendItems {
		c.data = append(slices.Clone(c.data), items...)
		return
	}
	c.data = slices.Clone(items)
}
