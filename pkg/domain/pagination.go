package domain

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
)

// ListQuery defines what the demo store should return for a list call
type ListQuery struct {
	Filters       map[string]interface{} `json:"filters,omitempty"`
	SortBy        string                 `json:"sortBy,omitempty"`
	SortAscending bool                   `json:"sortAscending,omitempty"`

	// Offset pagination, 1-based. Zero page disables offset paging.
	Page     int `json:"page,omitempty"`
	PageSize int `json:"pageSize,omitempty"`

	// Cursor pagination. Takes precedence over Page when set.
	PageCursor string `json:"pageCursor,omitempty"`
	UseCursor  bool   `json:"-"`

	MaxPageSize int `json:"maxPageSize,omitempty"`
}

// ListResult contains one page of documents plus paging metadata
type ListResult struct {
	Documents  []Document `json:"data"`
	TotalCount int        `json:"totalCount"`
	NextCursor string     `json:"nextPageCursor,omitempty"`
	PrevCursor string     `json:"prevPageCursor,omitempty"`
	HasNext    bool       `json:"hasNext"`
	HasPrev    bool       `json:"hasPrev"`
}

// Cursor is the decoded form of a page cursor: the id of the first row of
// the page it points at.
type Cursor struct {
	ID string `json:"id"`
}

// EncodeCursor encodes a cursor to base64
func EncodeCursor(cursor *Cursor) (string, error) {
	data, err := json.Marshal(cursor)
	if err != nil {
		return "", fmt.Errorf("failed to marshal cursor: %w", err)
	}
	return base64.URLEncoding.EncodeToString(data), nil
}

// DecodeCursor decodes a base64 cursor
func DecodeCursor(encoded string) (*Cursor, error) {
	data, err := base64.URLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	var cursor Cursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCursor, err)
	}

	return &cursor, nil
}

// DefaultListQuery returns default paging settings
func DefaultListQuery() *ListQuery {
	return &ListQuery{
		PageSize:    20,
		MaxPageSize: 1000,
	}
}

// Validate validates the list query
func (q *ListQuery) Validate() error {
	if q.Page < 0 {
		return fmt.Errorf("%w: page cannot be negative", ErrInvalidQuery)
	}
	if q.PageSize < 0 {
		return fmt.Errorf("%w: pageSize cannot be negative", ErrInvalidQuery)
	}
	if q.MaxPageSize > 0 && q.PageSize > q.MaxPageSize {
		return fmt.Errorf("%w: pageSize %d exceeds maximum %d", ErrInvalidQuery, q.PageSize, q.MaxPageSize)
	}

	// Ensure we're not mixing cursor and offset pagination
	if q.PageCursor != "" && q.Page > 1 {
		return fmt.Errorf("%w: cannot mix cursor-based and offset-based pagination", ErrInvalidQuery)
	}

	return nil
}
