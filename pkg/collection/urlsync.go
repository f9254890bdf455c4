package collection

import (
	"sync"
)

// URLWriter replaces the query string of the current location without
// navigating, like a history replace.
type URLWriter interface {
	ReplaceQuery(query string) error
}

// SyncURL writes the current query string to the URL writer, if one is
// configured and the query changed since the last write.
func (c *Collection[T]) SyncURL() {
	c.syncURL(c.QueryString())
}

// paramsChanged follows sub-module setters that do not refetch, so the URL
// tracks QueryString between fetches.
func (c *Collection[T]) paramsChanged() {
	if c.urlWriter == nil || c.syncHold.Load() > 0 {
		return
	}
	c.SyncURL()
}

// holdSync suppresses paramsChanged while several setters run as one
// step. The caller syncs once afterwards.
func (c *Collection[T]) holdSync()    { c.syncHold.Add(1) }
func (c *Collection[T]) releaseSync() { c.syncHold.Add(-1) }

func (c *Collection[T]) syncURL(query string) {
	if c.urlWriter == nil {
		return
	}

	c.mu.Lock()
	if query == c.lastQuery {
		c.mu.Unlock()
		return
	}
	c.lastQuery = query
	c.mu.Unlock()

	if err := c.urlWriter.ReplaceQuery(query); err != nil {
		c.logger.WithError(err).WithField("query", query).Warn("failed to sync query to url")
	}
}

// MemoryHistory is an in-process URLWriter that keeps the current
// location's path and query.
type MemoryHistory struct {
	mu       sync.RWMutex
	path     string
	query    string
	replaced int
}

func NewMemoryHistory(path string) *MemoryHistory {
	return &MemoryHistory{path: path}
}

func (h *MemoryHistory) ReplaceQuery(query string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.query = query
	h.replaced++
	return nil
}

func (h *MemoryHistory) Query() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.query
}

// URL returns path?query, or just the path when the query is empty.
func (h *MemoryHistory) URL() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.query == "" {
		return h.path
	}
	return h.path + "?" + h.query
}

// Replacements counts ReplaceQuery calls.
func (h *MemoryHistory) Replacements() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.replaced
}
