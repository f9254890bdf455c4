package storage

import (
	"fmt"
	"slices"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// getTable returns the named table
func (se *StorageEngine) getTable(name string) (*domain.Table, error) {
	se.mu.RLock()
	defer se.mu.RUnlock()

	table, exists := se.tables[name]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrTableNotFound, name)
	}
	return table, nil
}

// getOrCreateTable returns the named table, creating it if needed
func (se *StorageEngine) getOrCreateTable(name string) *domain.Table {
	se.mu.Lock()
	defer se.mu.Unlock()

	table, exists := se.tables[name]
	if !exists {
		table = domain.NewTable(name)
		se.tables[name] = table
	}
	return table
}

// CreateTable creates a new empty table
func (se *StorageEngine) CreateTable(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}

	se.mu.Lock()
	defer se.mu.Unlock()

	if _, exists := se.tables[name]; exists {
		return fmt.Errorf("table %s already exists", name)
	}
	se.tables[name] = domain.NewTable(name)
	se.markDirty()
	return nil
}

// Tables lists the table names in alphabetical order
func (se *StorageEngine) Tables() []string {
	se.mu.RLock()
	defer se.mu.RUnlock()

	names := make([]string, 0, len(se.tables))
	for name := range se.tables {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Count returns the number of documents in a table
func (se *StorageEngine) Count(name string) (int, error) {
	table, err := se.getTable(name)
	if err != nil {
		return 0, err
	}

	var count int
	err = se.withTableReadLock(name, func() error {
		count = len(table.Documents)
		return nil
	})
	return count, err
}
