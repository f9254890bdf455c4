package api

import (
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// MockStore provides a mock implementation of domain.Store for testing.
// List ignores filters and paging and records the query it was given.
type MockStore struct {
	mu          sync.RWMutex
	tables      map[string][]domain.Document
	insertCalls int
	listCalls   int
	searchCalls int
	lastQuery   domain.ListQuery
	lastText    string
	lastFilters map[string]interface{}
	err         error
}

// NewMockStore creates a new mock store
func NewMockStore() *MockStore {
	return &MockStore{
		tables: make(map[string][]domain.Document),
	}
}

// FailWith makes every following call return err
func (m *MockStore) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MockStore) Insert(table string, doc domain.Document) (domain.Document, error) {
	docs, err := m.InsertMany(table, []domain.Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

func (m *MockStore) InsertMany(table string, docs []domain.Document) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.insertCalls++
	if m.err != nil {
		return nil, m.err
	}

	out := make([]domain.Document, 0, len(docs))
	for _, doc := range docs {
		stored := maps.Clone(doc)
		if stored == nil {
			stored = domain.Document{}
		}
		if _, ok := stored[domain.IDField]; !ok {
			stored[domain.IDField] = fmt.Sprintf("%d", len(m.tables[table])+1)
		}
		m.tables[table] = append(m.tables[table], stored)
		out = append(out, stored)
	}
	return out, nil
}

func (m *MockStore) List(table string, query domain.ListQuery) (*domain.ListResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.listCalls++
	m.lastQuery = query
	if m.err != nil {
		return nil, m.err
	}

	docs, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %w: %s", domain.ErrNotFound, table)
	}
	return &domain.ListResult{Documents: docs, TotalCount: len(docs)}, nil
}

func (m *MockStore) Search(table, text string, filters map[string]interface{}) ([]domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.searchCalls++
	m.lastText = text
	m.lastFilters = filters
	if m.err != nil {
		return nil, m.err
	}

	docs, ok := m.tables[table]
	if !ok {
		return nil, fmt.Errorf("table %w: %s", domain.ErrNotFound, table)
	}
	return docs, nil
}

func (m *MockStore) find(table, docId string) (int, error) {
	if m.err != nil {
		return -1, m.err
	}
	docs, ok := m.tables[table]
	if !ok {
		return -1, fmt.Errorf("table %w: %s", domain.ErrNotFound, table)
	}
	idx := slices.IndexFunc(docs, func(doc domain.Document) bool {
		return domain.KeyOf(doc.GetID()) == docId
	})
	if idx < 0 {
		return -1, fmt.Errorf("document %w: %s", domain.ErrNotFound, docId)
	}
	return idx, nil
}

func (m *MockStore) GetById(table, docId string) (domain.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	idx, err := m.find(table, docId)
	if err != nil {
		return nil, err
	}
	return m.tables[table][idx], nil
}

func (m *MockStore) UpdateById(table, docId string, updates domain.Document) (domain.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.find(table, docId)
	if err != nil {
		return nil, err
	}
	doc := m.tables[table][idx]
	for k, v := range updates {
		if k != domain.IDField {
			doc[k] = v
		}
	}
	return doc, nil
}

func (m *MockStore) DeleteById(table, docId string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	idx, err := m.find(table, docId)
	if err != nil {
		return err
	}
	m.tables[table] = slices.Delete(m.tables[table], idx, idx+1)
	return nil
}

func (m *MockStore) Tables() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return slices.Sorted(maps.Keys(m.tables))
}

func (m *MockStore) InsertCalls() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.insertCalls
}

func (m *MockStore) LastQuery() domain.ListQuery {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastQuery
}

func (m *MockStore) LastSearch() (string, map[string]interface{}) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastText, m.lastFilters
}

func (m *MockStore) Count(table string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.tables[table])
}
