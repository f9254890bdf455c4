package storage

import (
	"fmt"
	"maps"
	"slices"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// Insert inserts a document into a table, creating the table if needed.
// A document without an id gets a generated one.
func (se *StorageEngine) Insert(name string, doc domain.Document) (domain.Document, error) {
	docs, err := se.InsertMany(name, []domain.Document{doc})
	if err != nil {
		return nil, err
	}
	return docs[0], nil
}

// InsertMany inserts documents in order. Nothing is inserted when one of
// them carries an id that is already taken.
func (se *StorageEngine) InsertMany(name string, docs []domain.Document) ([]domain.Document, error) {
	table := se.getOrCreateTable(name)

	inserted := make([]domain.Document, 0, len(docs))
	err := se.withTableWriteLock(name, func() error {
		pending := make(map[string]domain.Document, len(docs))
		order := make([]string, 0, len(docs))
		for _, doc := range docs {
			stored := maps.Clone(doc)
			if stored == nil {
				stored = domain.Document{}
			}
			if id := domain.KeyOf(stored.GetID()); id == "" {
				stored[domain.IDField] = se.newID()
			}
			id := domain.KeyOf(stored.GetID())
			if _, exists := table.Documents[id]; exists {
				return fmt.Errorf("%w: %s in table %s", ErrDuplicateID, id, name)
			}
			if _, exists := pending[id]; exists {
				return fmt.Errorf("%w: %s in table %s", ErrDuplicateID, id, name)
			}
			pending[id] = stored
			order = append(order, id)
		}

		for _, id := range order {
			table.Documents[id] = pending[id]
			table.Order = append(table.Order, id)
			inserted = append(inserted, maps.Clone(pending[id]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	se.markDirty()
	return inserted, nil
}

// GetById retrieves a specific document by its ID
func (se *StorageEngine) GetById(name, docId string) (domain.Document, error) {
	table, err := se.getTable(name)
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	err = se.withTableReadLock(name, func() error {
		stored, exists := table.Documents[docId]
		if !exists {
			return fmt.Errorf("%w: %s in table %s", ErrDocumentNotFound, docId, name)
		}
		doc = maps.Clone(stored)
		return nil
	})
	return doc, err
}

// UpdateById merges updates into a document and returns the result. The
// id field cannot be changed.
func (se *StorageEngine) UpdateById(name, docId string, updates domain.Document) (domain.Document, error) {
	table, err := se.getTable(name)
	if err != nil {
		return nil, err
	}

	var doc domain.Document
	err = se.withTableWriteLock(name, func() error {
		stored, exists := table.Documents[docId]
		if !exists {
			return fmt.Errorf("%w: %s in table %s", ErrDocumentNotFound, docId, name)
		}
		for key, value := range updates {
			if key != domain.IDField {
				stored[key] = value
			}
		}
		doc = maps.Clone(stored)
		return nil
	})
	if err != nil {
		return nil, err
	}

	se.markDirty()
	return doc, nil
}

// DeleteById removes a specific document by its ID
func (se *StorageEngine) DeleteById(name, docId string) error {
	table, err := se.getTable(name)
	if err != nil {
		return err
	}

	err = se.withTableWriteLock(name, func() error {
		if _, exists := table.Documents[docId]; !exists {
			return fmt.Errorf("%w: %s in table %s", ErrDocumentNotFound, docId, name)
		}
		delete(table.Documents, docId)
		table.Order = slices.DeleteFunc(table.Order, func(id string) bool { return id == docId })
		return nil
	})
	if err != nil {
		return err
	}

	se.markDirty()
	return nil
}

// List returns one page of the documents matching query.Filters, sorted
// by query.SortBy. Cursor paging is used when query.PageCursor or
// query.UseCursor is set, offset paging when query.Page is set; otherwise
// every match is returned.
func (se *StorageEngine) List(name string, query domain.ListQuery) (*domain.ListResult, error) {
	if query.MaxPageSize == 0 {
		query.MaxPageSize = se.maxPageSize
	}
	if err := query.Validate(); err != nil {
		return nil, err
	}

	docs, err := se.matching(name, query.Filters)
	if err != nil {
		return nil, err
	}

	SortDocuments(docs, query.SortBy, query.SortAscending)

	if query.UseCursor || query.PageCursor != "" {
		return applyCursorPagination(docs, query)
	}
	return applyOffsetPagination(docs, query), nil
}

// Search returns the documents matching filters that also contain text in
// any of their values. An empty text matches every document.
func (se *StorageEngine) Search(name, text string, filters map[string]interface{}) ([]domain.Document, error) {
	docs, err := se.matching(name, filters)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return docs, nil
	}

	return slices.DeleteFunc(docs, func(doc domain.Document) bool {
		return !MatchesText(doc, text)
	}), nil
}

// matching copies the rows of a table that match filter, in insertion order
func (se *StorageEngine) matching(name string, filter map[string]interface{}) ([]domain.Document, error) {
	table, err := se.getTable(name)
	if err != nil {
		return nil, err
	}

	docs := []domain.Document{}
	err = se.withTableReadLock(name, func() error {
		for _, doc := range table.Rows() {
			if len(filter) == 0 || MatchesFilter(doc, filter) {
				docs = append(docs, maps.Clone(doc))
			}
		}
		return nil
	})
	return docs, err
}

// applyCursorPagination serves the page starting at the row the cursor
// points at. Cursors carry the id of the first row of a page.
func applyCursorPagination(docs []domain.Document, query domain.ListQuery) (*domain.ListResult, error) {
	size := pageSize(query)
	result := &domain.ListResult{
		Documents:  []domain.Document{},
		TotalCount: len(docs),
	}

	start := 0
	if query.PageCursor != "" {
		cursor, err := domain.DecodeCursor(query.PageCursor)
		if err != nil {
			return nil, err
		}
		start = slices.IndexFunc(docs, func(doc domain.Document) bool {
			return domain.KeyOf(doc.GetID()) == cursor.ID
		})
		if start < 0 {
			return nil, fmt.Errorf("%w: row %s is not part of the result", domain.ErrInvalidCursor, cursor.ID)
		}
	}

	end := min(start+size, len(docs))
	result.Documents = docs[start:end]

	if end < len(docs) {
		result.HasNext = true
		result.NextCursor = cursorFor(docs[end])
	}
	if start > 0 {
		result.HasPrev = true
		result.PrevCursor = cursorFor(docs[max(start-size, 0)])
	}

	return result, nil
}

// applyOffsetPagination serves 1-based page query.Page. Page 0 disables
// paging.
func applyOffsetPagination(docs []domain.Document, query domain.ListQuery) *domain.ListResult {
	result := &domain.ListResult{
		Documents:  []domain.Document{},
		TotalCount: len(docs),
	}

	if query.Page == 0 {
		result.Documents = docs
		return result
	}

	size := pageSize(query)
	startIndex := (query.Page - 1) * size
	if startIndex >= len(docs) {
		result.HasPrev = query.Page > 1
		return result
	}

	endIndex := startIndex + size
	if endIndex >= len(docs) {
		endIndex = len(docs)
	} else {
		result.HasNext = true
	}
	result.HasPrev = startIndex > 0
	result.Documents = docs[startIndex:endIndex]

	return result
}

func pageSize(query domain.ListQuery) int {
	size := query.PageSize
	if size <= 0 {
		size = domain.DefaultListQuery().PageSize
	}
	if query.MaxPageSize > 0 && size > query.MaxPageSize {
		size = query.MaxPageSize
	}
	return size
}

func cursorFor(doc domain.Document) string {
	// Cursor only holds a string, marshalling cannot fail.
	encoded, _ := domain.EncodeCursor(&domain.Cursor{ID: domain.KeyOf(doc.GetID())})
	return encoded
}
