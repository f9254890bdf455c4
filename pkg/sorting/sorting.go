package sorting

import (
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Order represents sorting direction.
type Order string

const (
	Ascending  Order = "asc"  // Ascending order
	Descending Order = "desc" // Descending order
)

// Option configures Sorting
type Option func(*Sorting)

// WithKey sets the initial sort key.
func WithKey(key string) Option {
	return func(s *Sorting) { s.key = key }
}

// WithAscending sets the default direction, used initially and whenever
// the key changes.
func WithAscending(ascending bool) Option {
	return func(s *Sorting) { s.defaultAscending = ascending }
}

// WithOnChange registers the callback fired by Sort.
func WithOnChange(fn func()) Option {
	return func(s *Sorting) { s.onChange = fn }
}

// WithOnParamsChange registers a hook fired after every change of key or
// direction, setters included.
func WithOnParamsChange(fn func()) Option {
	return func(s *Sorting) { s.onParamsChange = fn }
}

// Sorting holds the active sort key and direction.
type Sorting struct {
	mu               sync.RWMutex
	key              string
	ascending        bool
	defaultAscending bool
	onChange         func()
	onParamsChange   func()
}

// New creates sort state. Direction defaults to descending.
func New(opts ...Option) *Sorting {
	s := &Sorting{}
	for _, opt := range opts {
		opt(s)
	}
	s.ascending = s.defaultAscending
	return s
}

// Key returns the active key, empty when unsorted.
func (s *Sorting) Key() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.key
}

// Ascending returns the active direction.
func (s *Sorting) Ascending() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ascending
}

// Order returns the active direction as an Order.
func (s *Sorting) Order() Order {
	if s.Ascending() {
		return Ascending
	}
	return Descending
}

// Params returns {sortBy, sortAscending}, or an empty map when no key is set.
func (s *Sorting) Params() domain.Params {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.key == "" {
		return domain.Params{}
	}
	return domain.Params{
		domain.ParamSortBy:        s.key,
		domain.ParamSortAscending: s.ascending,
	}
}

func (s *Sorting) SetKey(key string) {
	s.update(func() { s.key = key })
}

func (s *Sorting) SetAscending(ascending bool) {
	s.update(func() { s.ascending = ascending })
}

// ToggleDirection flips the sort direction.
func (s *Sorting) ToggleDirection() {
	s.update(func() { s.ascending = !s.ascending })
}

// Sort sorts by key. Sorting again by the active key toggles the
// direction; a new key starts from the default direction.
func (s *Sorting) Sort(key string) {
	s.mu.Lock()
	if key == s.key {
		s.ascending = !s.ascending
	} else {
		s.ascending = s.defaultAscending
	}
	s.key = key
	onChange, onParams := s.onChange, s.onParamsChange
	s.mu.Unlock()

	if onParams != nil {
		onParams()
	}
	if onChange != nil {
		onChange()
	}
}

// Reset clears the key and restores the default direction.
func (s *Sorting) Reset() {
	s.update(func() {
		s.key = ""
		s.ascending = s.defaultAscending
	})
}

func (s *Sorting) update(fn func()) {
	s.mu.Lock()
	fn()
	onParams := s.onParamsChange
	s.mu.Unlock()

	if onParams != nil {
		onParams()
	}
}
