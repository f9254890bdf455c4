package domain

// FetchResult is what a fetch function resolves to. TotalCount is nil
// when the server does not report one; cursors are empty when absent.
type FetchResult[T any] struct {
	Data           []T    `json:"data"`
	TotalCount     *int   `json:"totalCount,omitempty"`
	NextPageCursor string `json:"nextPageCursor,omitempty"`
	PrevPageCursor string `json:"prevPageCursor,omitempty"`
}

// Meta is the paging metadata attached to a result or a cached query.
type Meta struct {
	TotalCount     *int
	NextPageCursor string
	PrevPageCursor string
}

// Meta extracts the paging metadata of a result.
func (r *FetchResult[T]) Meta() Meta {
	if r == nil {
		return Meta{}
	}
	return Meta{
		TotalCount:     r.TotalCount,
		NextPageCursor: r.NextPageCursor,
		PrevPageCursor: r.PrevPageCursor,
	}
}

// Count returns a pointer to n, for building results with a known total.
func Count(n int) *int {
	return &n
}
