// Package filters holds the active and default key/value constraints of a
// list query.
package filters

import (
	"maps"
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Option configures Filters
type Option func(*Filters)

// WithInitial sets the default filters restored by Reset.
func WithInitial(initial map[string]any) Option {
	return func(f *Filters) {
		f.initial = make(map[string]any, len(initial))
		maps.Copy(f.initial, initial)
	}
}

// WithOnChange registers the callback fired after every mutation.
func WithOnChange(fn func(params domain.Params)) Option {
	return func(f *Filters) {
		f.onChange = fn
	}
}

// WithOnParamsChange registers a hook fired after every mutation, the
// silent ones included. It must not refetch.
func WithOnParamsChange(fn func()) Option {
	return func(f *Filters) {
		f.onParamsChange = fn
	}
}

// Filters holds the active filter set and the immutable defaults.
type Filters struct {
	mu             sync.RWMutex
	active         map[string]any
	initial        map[string]any
	onChange       func(params domain.Params)
	onParamsChange func()
}

// New creates a filter set. Active filters start as a copy of the initial ones.
func New(opts ...Option) *Filters {
	f := &Filters{
		initial: make(map[string]any),
	}
	for _, opt := range opts {
		opt(f)
	}
	f.active = maps.Clone(f.initial)
	return f
}

// Params returns a snapshot of the active filters.
func (f *Filters) Params() domain.Params {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.Params(f.active).Clone()
}

// Initial returns a copy of the defaults.
func (f *Filters) Initial() domain.Params {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return domain.Params(f.initial).Clone()
}

// Get returns the active value for key.
func (f *Filters) Get(key string) (any, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.active[key]
	return v, ok
}

// Len returns the number of active filters.
func (f *Filters) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.active)
}

// Set sets a single filter.
func (f *Filters) Set(key string, value any) {
	f.mutate(func() { f.active[key] = value })
}

// Merge shallow-merges partial into the active filters.
func (f *Filters) Merge(partial map[string]any) {
	f.mutate(func() { maps.Copy(f.active, partial) })
}

// Replace drops every active filter and sets only partial.
func (f *Filters) Replace(partial map[string]any) {
	f.mutate(func() {
		f.active = make(map[string]any, len(partial))
		maps.Copy(f.active, partial)
	})
}

// Delete removes a single filter.
func (f *Filters) Delete(key string) {
	f.mutate(func() { delete(f.active, key) })
}

// Clear empties the active filters. Defaults are kept for Reset.
func (f *Filters) Clear() {
	f.mutate(func() { f.active = make(map[string]any) })
}

// Reset restores the active filters to the defaults.
func (f *Filters) Reset() {
	f.mutate(f.resetLocked)
}

// Apply merges (or replaces) partial without firing OnChange. Owners that
// trigger their own refetch use it.
func (f *Filters) Apply(partial map[string]any, replace bool) {
	f.silent(func() {
		if replace {
			f.active = make(map[string]any, len(partial))
		}
		maps.Copy(f.active, partial)
	})
}

// ResetSilently is Reset without OnChange.
func (f *Filters) ResetSilently() {
	f.silent(f.resetLocked)
}

// ClearSilently is Clear without OnChange.
func (f *Filters) ClearSilently() {
	f.silent(func() { f.active = make(map[string]any) })
}

func (f *Filters) resetLocked() {
	f.active = make(map[string]any, len(f.initial))
	maps.Copy(f.active, f.initial)
}

// mutate runs fn under the write lock, then notifies outside of it.
func (f *Filters) mutate(fn func()) {
	f.mu.Lock()
	fn()
	onChange, onParams := f.onChange, f.onParamsChange
	params := domain.Params(maps.Clone(f.active))
	f.mu.Unlock()

	if onParams != nil {
		onParams()
	}
	if onChange != nil {
		onChange(params)
	}
}

// silent is mutate without OnChange.
func (f *Filters) silent(fn func()) {
	f.mu.Lock()
	fn()
	onParams := f.onParamsChange
	f.mu.Unlock()

	if onParams != nil {
		onParams()
	}
}
