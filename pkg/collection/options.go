package collection

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/cache"
	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/metrics"
	"github.com/adfharrison1/go-listquery/pkg/pagination"
)

// DefaultSearchDebounce is the quiet period before a search is sent.
const DefaultSearchDebounce = 500 * time.Millisecond

// FetchFunc loads one page of entities for the given query params.
type FetchFunc[T domain.Entity] func(ctx context.Context, params domain.Params) (*domain.FetchResult[T], error)

// SearchFunc runs a free-text search narrowed by the active filters.
type SearchFunc[T domain.Entity] func(ctx context.Context, query string, filters domain.Params) ([]T, error)

// FetchOneFunc loads a single entity. found is false when it does not exist.
type FetchOneFunc[T domain.Entity] func(ctx context.Context, id domain.ID) (item T, found bool, err error)

// EditFunc applies updates to an entity and returns the stored result.
type EditFunc[T domain.Entity] func(ctx context.Context, id domain.ID, updates domain.Updates) (item T, found bool, err error)

// ErrorHandler is told about every network error, in addition to the
// error being stored on the collection.
type ErrorHandler func(err error)

// Option configures a Collection
type Option func(*settings)

type settings struct {
	initialFilters   map[string]any
	pageSize         int
	sortBy           string
	sortAscending    bool
	urlWriter        URLWriter
	kind             pagination.Kind
	preserveSelected bool
	searchDebounce   time.Duration
	errorHandler     ErrorHandler
	logger           logrus.FieldLogger
	metrics          *metrics.Metrics

	// typed per entity, checked by New
	cache    any
	search   any
	fetchOne any
	edit     any
}

func defaultSettings() *settings {
	return &settings{
		pageSize:       pagination.DefaultPageSize,
		kind:           pagination.None,
		searchDebounce: DefaultSearchDebounce,
	}
}

// WithInitialFilters sets the filters Reset restores.
func WithInitialFilters(filters map[string]any) Option {
	return func(s *settings) {
		s.initialFilters = filters
	}
}

func WithPageSize(size int) Option {
	return func(s *settings) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func WithSortBy(key string) Option {
	return func(s *settings) {
		s.sortBy = key
	}
}

// WithSortAscending sets the default sort direction. Descending otherwise.
func WithSortAscending(ascending bool) Option {
	return func(s *settings) {
		s.sortAscending = ascending
	}
}

// WithURLSync mirrors the query string into w whenever it changes.
func WithURLSync(w URLWriter) Option {
	return func(s *settings) {
		s.urlWriter = w
	}
}

// WithPagination selects which pagination module feeds the query params.
func WithPagination(kind pagination.Kind) Option {
	return func(s *settings) {
		s.kind = kind
	}
}

// WithCache reuses fresh cached results instead of calling the network.
func WithCache[T domain.Entity](c *cache.Cache[T]) Option {
	return func(s *settings) {
		if c != nil {
			s.cache = c
		}
	}
}

// WithPreserveSelectedOnSearch keeps the selection across searches and
// shows selected entities ahead of the search results.
func WithPreserveSelectedOnSearch(preserve bool) Option {
	return func(s *settings) {
		s.preserveSelected = preserve
	}
}

func WithSearch[T domain.Entity](fn SearchFunc[T]) Option {
	return func(s *settings) {
		if fn != nil {
			s.search = fn
		}
	}
}

func WithFetchOne[T domain.Entity](fn FetchOneFunc[T]) Option {
	return func(s *settings) {
		if fn != nil {
			s.fetchOne = fn
		}
	}
}

func WithEdit[T domain.Entity](fn EditFunc[T]) Option {
	return func(s *settings) {
		if fn != nil {
			s.edit = fn
		}
	}
}

func WithErrorHandler(fn ErrorHandler) Option {
	return func(s *settings) {
		s.errorHandler = fn
	}
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *settings) {
		s.metrics = m
	}
}

// WithSearchDebounce overrides DefaultSearchDebounce.
func WithSearchDebounce(d time.Duration) Option {
	return func(s *settings) {
		if d >= 0 {
			s.searchDebounce = d
		}
	}
}

// FetchOptions adjust the query before a fetch. Zero values leave the
// current state untouched.
type FetchOptions struct {
	// Filters are merged into the active filters, or replace them when
	// ClearFilters is set.
	Filters map[string]any
	// Query is parsed for filters when Filters is nil. Init also reads
	// sort and paging keys from it.
	Query string
	// ClearFilters starts a new query: filters, paging and sorting are
	// reset before the other options apply.
	ClearFilters  bool
	SortBy        string
	SortAscending *bool
	Page          int
	PageSize      int
	PageCursor    string
	// Append adds the results after the current data instead of
	// replacing it.
	Append bool
	// ShouldThrowError returns the network error to the caller in
	// addition to storing it.
	ShouldThrowError bool
}

// SearchOptions adjust a search.
type SearchOptions struct {
	Append           bool
	ClearFilters     bool
	ShouldThrowError bool
}

// FetchOneOptions adjust a single-entity fetch.
type FetchOneOptions struct {
	// UseCache returns a fresh cached entity without calling the network.
	UseCache bool
	Append   bool
	Prepend  bool
}
