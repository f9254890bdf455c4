package pagination

import (
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// OffsetOption configures Offset pagination
type OffsetOption func(*offsetConfig)

type offsetConfig struct {
	page       int
	pageSize   int
	totalCount *int
	onChange   func(params domain.Params)
	onParams   func()
}

// WithPage sets the constructor-time page.
func WithPage(page int) OffsetOption {
	return func(c *offsetConfig) {
		if page > 0 {
			c.page = page
		}
	}
}

// WithPageSize sets the constructor-time page size.
func WithPageSize(size int) OffsetOption {
	return func(c *offsetConfig) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

// WithTotalCount sets a known total at construction.
func WithTotalCount(count int) OffsetOption {
	return func(c *offsetConfig) {
		c.totalCount = &count
	}
}

// WithOnChange registers the callback fired after navigation.
func WithOnChange(fn func(params domain.Params)) OffsetOption {
	return func(c *offsetConfig) {
		c.onChange = fn
	}
}

// WithOnParamsChange registers a hook fired whenever page or page size
// changes, silent setters included.
func WithOnParamsChange(fn func()) OffsetOption {
	return func(c *offsetConfig) {
		c.onParams = fn
	}
}

// Offset is page-number pagination with an optionally known total count.
type Offset struct {
	mu         sync.RWMutex
	config     offsetConfig
	page       int
	pageSize   int
	totalCount *int
}

// NewOffset creates offset pagination state
func NewOffset(opts ...OffsetOption) *Offset {
	cfg := offsetConfig{page: DefaultPage, pageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	o := &Offset{config: cfg}
	o.resetToInitialLocked()
	return o
}

func (o *Offset) Page() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.page
}

func (o *Offset) PageSize() int {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.pageSize
}

// TotalCount returns the total and whether it is known.
func (o *Offset) TotalCount() (int, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.totalCount == nil {
		return 0, false
	}
	return *o.totalCount, true
}

// PageCount returns the number of pages when the total is known.
func (o *Offset) PageCount() (int, bool) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.totalCount == nil {
		return 0, false
	}
	return pageCount(*o.totalCount, o.pageSize), true
}

// CanGoToNext is true while the total is unknown, or while the current
// page does not reach it.
func (o *Offset) CanGoToNext() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.canGoToNextLocked()
}

func (o *Offset) CanGoToPrev() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.page > 1
}

// Params returns {page, pageSize}.
func (o *Offset) Params() domain.Params {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.paramsLocked()
}

// Init sets page and page size, ignoring non-positive values.
func (o *Offset) Init(page, pageSize int) {
	o.update(func() {
		if page > 0 {
			o.page = page
		}
		if pageSize > 0 {
			o.pageSize = pageSize
		}
	})
}

// SetPage sets the page without notifying. Pages below 1 are clamped.
func (o *Offset) SetPage(page int) {
	o.update(func() { o.page = max(page, 1) })
}

func (o *Offset) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	o.update(func() { o.pageSize = size })
}

func (o *Offset) SetTotalCount(count int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	count = max(count, 0)
	o.totalCount = &count
}

// ClearTotalCount marks the total as unknown.
func (o *Offset) ClearTotalCount() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.totalCount = nil
}

// GoToPage jumps to page n. It is a no-op for n < 1 or beyond the last
// page of a known total.
func (o *Offset) GoToPage(n int) bool {
	o.mu.Lock()
	if n < 1 || (o.totalCount != nil && n > max(pageCount(*o.totalCount, o.pageSize), 1)) {
		o.mu.Unlock()
		return false
	}
	o.page = n
	return o.notify()
}

func (o *Offset) GoToNext() bool {
	o.mu.Lock()
	if !o.canGoToNextLocked() {
		o.mu.Unlock()
		return false
	}
	o.page++
	return o.notify()
}

func (o *Offset) GoToPrev() bool {
	o.mu.Lock()
	if o.page <= 1 {
		o.mu.Unlock()
		return false
	}
	o.page--
	return o.notify()
}

// ResetToInitial restores the constructor-time page, page size and total.
func (o *Offset) ResetToInitial() {
	o.update(o.resetToInitialLocked)
}

func (o *Offset) resetToInitialLocked() {
	o.page = o.config.page
	o.pageSize = o.config.pageSize
	o.totalCount = nil
	if o.config.totalCount != nil {
		total := *o.config.totalCount
		o.totalCount = &total
	}
}

// Reset restores the hard defaults: page 1, page size 20, unknown total.
func (o *Offset) Reset() {
	o.update(func() {
		o.page = DefaultPage
		o.pageSize = DefaultPageSize
		o.totalCount = nil
	})
}

func (o *Offset) canGoToNextLocked() bool {
	if o.totalCount == nil {
		return true
	}
	return o.page*o.pageSize < *o.totalCount
}

func (o *Offset) paramsLocked() domain.Params {
	return domain.Params{
		domain.ParamPage:     o.page,
		domain.ParamPageSize: o.pageSize,
	}
}

// notify must be called with the lock held; it releases it before
// invoking the callback.
func (o *Offset) notify() bool {
	params := o.paramsLocked()
	onChange, onParams := o.config.onChange, o.config.onParams
	o.mu.Unlock()

	if onParams != nil {
		onParams()
	}
	if onChange != nil {
		onChange(params)
	}
	return true
}

// update runs fn under the lock and fires the params hook after it.
func (o *Offset) update(fn func()) {
	o.mu.Lock()
	fn()
	onParams := o.config.onParams
	o.mu.Unlock()

	if onParams != nil {
		onParams()
	}
}

func pageCount(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
