package cache

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// DefaultTTL is how long entries are reused before they are stale.
const DefaultTTL = 5 * time.Minute

// Option configures a Cache
type Option func(*options)

type options struct {
	ttl        time.Duration
	now        func() time.Time
	maxQueries int
	logger     logrus.FieldLogger
	initial    []domain.Entity
}

// WithTTL sets how long items and queries stay fresh.
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl >= 0 {
			o.ttl = ttl
		}
	}
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithMaxQueries bounds the number of cached queries; the least recently
// used one is evicted first. Zero keeps every query.
func WithMaxQueries(n int) Option {
	return func(o *options) {
		o.maxQueries = n
	}
}

// WithLogger sets the logger used for eviction and merge diagnostics.
func WithLogger(logger logrus.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInitialData seeds the cache at construction. Items whose type does
// not match the cache's entity type are skipped.
func WithInitialData(items ...domain.Entity) Option {
	return func(o *options) {
		o.initial = append(o.initial, items...)
	}
}
