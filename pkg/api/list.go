package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/querystring"
)

// HandleList handles GET requests for one page of a table. Every query
// parameter that is not a sort or paging key is a filter. A request with
// pageSize or pageCursor but no page is served with cursor paging.
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	query, err := ParseListQuery(r.URL.RawQuery)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid query string")
		return
	}

	result, err := h.store.List(tableName, query)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).
		WithField("filters", query.Filters).
		WithField("returned", len(result.Documents)).
		WithField("total", result.TotalCount).
		Debug("listed documents")

	writeJSON(w, http.StatusOK, result)
}

// ParseListQuery builds a store query from a raw query string.
func ParseListQuery(rawQuery string) (domain.ListQuery, error) {
	parsed, err := querystring.Parse(rawQuery)
	if err != nil {
		return domain.ListQuery{}, err
	}

	query := domain.ListQuery{
		Filters:       map[string]interface{}(parsed.Filters),
		SortBy:        parsed.SortBy,
		SortAscending: true,
		Page:          parsed.Page,
		PageSize:      parsed.PageSize,
		PageCursor:    parsed.PageCursor,
	}
	if parsed.SortAscending != nil {
		query.SortAscending = *parsed.SortAscending
	}
	if query.Page == 0 && (query.PageSize > 0 || query.PageCursor != "") {
		query.UseCursor = true
	}
	return query, nil
}
