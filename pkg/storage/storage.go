// Package storage is the in-memory table store behind the demo API. It
// serves filtered, sorted and paginated lists of documents and can
// snapshot its tables to disk.
package storage

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/logging"
)

var (
	ErrTableNotFound    = fmt.Errorf("table %w", domain.ErrNotFound)
	ErrDocumentNotFound = fmt.Errorf("document %w", domain.ErrNotFound)
	ErrDuplicateID      = domain.ErrDuplicateID
)

// TableLock provides per-table concurrency control
type TableLock struct {
	mu sync.RWMutex
}

// StorageEngine keeps named tables of documents in memory
type StorageEngine struct {
	mu     sync.RWMutex
	tables map[string]*domain.Table

	// Per-table locks guard the documents of one table
	tableLocks map[string]*TableLock
	locksMu    sync.RWMutex

	// Configuration
	maxPageSize    int
	snapshotFile   string
	backgroundSave bool
	saveInterval   time.Duration
	newID          func() string
	logger         logrus.FieldLogger

	dirty atomic.Bool

	// Background workers
	backgroundWg sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

// NewStorageEngine creates a new storage engine
func NewStorageEngine(options ...StorageOption) *StorageEngine {
	engine := &StorageEngine{
		tables:       make(map[string]*domain.Table),
		tableLocks:   make(map[string]*TableLock),
		maxPageSize:  domain.DefaultListQuery().MaxPageSize,
		saveInterval: 5 * time.Minute,
		newID:        uuid.NewString,
		stopChan:     make(chan struct{}),
	}

	for _, option := range options {
		option(engine)
	}

	if engine.logger == nil {
		engine.logger = logging.WithComponent("storage")
	}

	return engine
}

// getOrCreateTableLock gets or creates the lock of a table
func (se *StorageEngine) getOrCreateTableLock(table string) *TableLock {
	se.locksMu.RLock()
	if lock, exists := se.tableLocks[table]; exists {
		se.locksMu.RUnlock()
		return lock
	}
	se.locksMu.RUnlock()

	se.locksMu.Lock()
	defer se.locksMu.Unlock()

	// Double-check in case another goroutine created it
	if lock, exists := se.tableLocks[table]; exists {
		return lock
	}

	lock := &TableLock{}
	se.tableLocks[table] = lock
	return lock
}

// withTableReadLock executes fn with a read lock on the table
func (se *StorageEngine) withTableReadLock(table string, fn func() error) error {
	lock := se.getOrCreateTableLock(table)
	lock.mu.RLock()
	defer lock.mu.RUnlock()
	return fn()
}

// withTableWriteLock executes fn with a write lock on the table
func (se *StorageEngine) withTableWriteLock(table string, fn func() error) error {
	lock := se.getOrCreateTableLock(table)
	lock.mu.Lock()
	defer lock.mu.Unlock()
	return fn()
}

// MaxPageSize is the largest page List serves.
func (se *StorageEngine) MaxPageSize() int {
	return se.maxPageSize
}

// Dirty reports whether the tables changed since the last snapshot.
func (se *StorageEngine) Dirty() bool {
	return se.dirty.Load()
}

func (se *StorageEngine) markDirty() {
	se.dirty.Store(true)
}
