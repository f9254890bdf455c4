package pagination

import (
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// CursorOption configures Cursor pagination
type CursorOption func(*Cursor)

// WithCursorPageSize sets the page size.
func WithCursorPageSize(size int) CursorOption {
	return func(c *Cursor) {
		if size > 0 {
			c.initialPageSize = size
		}
	}
}

// WithCursorOnChange registers the callback fired after navigation. It
// receives the cursor of the page navigated to.
func WithCursorOnChange(fn func(pageCursor string)) CursorOption {
	return func(c *Cursor) {
		c.onChange = fn
	}
}

// WithCursorOnParamsChange registers a hook fired whenever the current
// cursor or the page size changes, silent setters included.
func WithCursorOnParamsChange(fn func()) CursorOption {
	return func(c *Cursor) {
		c.onParamsChange = fn
	}
}

// Cursor pages through server-issued opaque tokens. It never predicts a
// cursor; it only remembers the latest prev/next tokens it was given.
// Empty strings stand for absent tokens.
type Cursor struct {
	mu              sync.RWMutex
	page            int
	pageSize        int
	initialPageSize int
	totalCount      *int

	prev    string
	current string
	next    string

	onChange       func(pageCursor string)
	onParamsChange func()
}

// NewCursor creates cursor pagination state
func NewCursor(opts ...CursorOption) *Cursor {
	c := &Cursor{initialPageSize: DefaultPageSize}
	for _, opt := range opts {
		opt(c)
	}
	c.page = DefaultPage
	c.pageSize = c.initialPageSize
	return c
}

// Page is informational only; the server never sees it.
func (c *Cursor) Page() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.page
}

func (c *Cursor) PageSize() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageSize
}

func (c *Cursor) Prev() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prev
}

func (c *Cursor) Current() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

func (c *Cursor) Next() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.next
}

// TotalCount returns the total and whether it is known.
func (c *Cursor) TotalCount() (int, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.totalCount == nil {
		return 0, false
	}
	return *c.totalCount, true
}

func (c *Cursor) CanGoToNext() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.next != ""
}

func (c *Cursor) CanGoToPrev() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.prev != ""
}

// HasMore is optimistic before the first page is known.
func (c *Cursor) HasMore() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == "" && c.next == "" && c.prev == "" {
		return true
	}
	return c.next != ""
}

// Params returns {pageCursor, pageSize}; pageCursor is omitted on the
// first page.
func (c *Cursor) Params() domain.Params {
	c.mu.RLock()
	defer c.mu.RUnlock()
	params := domain.Params{domain.ParamPageSize: c.pageSize}
	if c.current != "" {
		params[domain.ParamPageCursor] = c.current
	}
	return params
}

// Init bootstraps from a caller-provided starting cursor.
func (c *Cursor) Init(current string, pageSize int) {
	c.update(func() {
		c.current = current
		if pageSize > 0 {
			c.pageSize = pageSize
		}
	})
}

func (c *Cursor) SetCurrent(cursor string) {
	c.update(func() { c.current = cursor })
}

func (c *Cursor) SetNext(cursor string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next = cursor
}

func (c *Cursor) SetPrev(cursor string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.prev = cursor
}

func (c *Cursor) SetPageSize(size int) {
	if size <= 0 {
		return
	}
	c.update(func() { c.pageSize = size })
}

func (c *Cursor) SetTotalCount(count int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	count = max(count, 0)
	c.totalCount = &count
}

func (c *Cursor) ClearTotalCount() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalCount = nil
}

// GoToNext moves to the next token. No-op without one.
func (c *Cursor) GoToNext() bool {
	c.mu.Lock()
	if c.next == "" {
		c.mu.Unlock()
		return false
	}
	c.prev = c.current
	c.current = c.next
	c.next = ""
	c.page++
	return c.notify()
}

// GoToPrev moves back to the stored prev token, the current token
// becoming next. No-op without a prev token.
func (c *Cursor) GoToPrev() bool {
	c.mu.Lock()
	if c.prev == "" {
		c.mu.Unlock()
		return false
	}
	c.next = c.current
	c.current = c.prev
	c.prev = ""
	c.page = max(c.page-1, 1)
	return c.notify()
}

// Reset restores defaults and forgets every token.
func (c *Cursor) Reset() {
	c.update(func() {
		c.page = DefaultPage
		c.pageSize = DefaultPageSize
		c.totalCount = nil
		c.prev, c.current, c.next = "", "", ""
	})
}

// notify must be called with the lock held; it releases it.
func (c *Cursor) notify() bool {
	current := c.current
	onChange, onParams := c.onChange, c.onParamsChange
	c.mu.Unlock()

	if onParams != nil {
		onParams()
	}
	if onChange != nil {
		onChange(current)
	}
	return true
}

func (c *Cursor) update(fn func()) {
	c.mu.Lock()
	fn()
	onParams := c.onParamsChange
	c.mu.Unlock()

	if onParams != nil {
		onParams()
	}
}
