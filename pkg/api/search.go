package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/querystring"
)

// SearchParam is the query parameter holding the free text.
const SearchParam = "q"

// SearchResponse wraps search hits the way list results are wrapped
type SearchResponse struct {
	Documents []domain.Document `json:"data"`
}

// HandleSearch handles GET requests for free text search within a table.
// Remaining query parameters narrow the search like list filters do; sort
// and paging keys are ignored.
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	parsed, err := querystring.Parse(r.URL.RawQuery)
	if err != nil {
		WriteJSONError(w, http.StatusBadRequest, "Invalid query string")
		return
	}

	text := ""
	if q, ok := parsed.Filters[SearchParam]; ok {
		if s, ok := q.(string); ok {
			text = s
		} else if all, ok := q.([]string); ok && len(all) > 0 {
			text = all[0]
		}
		delete(parsed.Filters, SearchParam)
	}

	docs, err := h.store.Search(tableName, text, parsed.Filters)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).
		WithField("text", text).
		WithField("hits", len(docs)).
		Debug("searched documents")

	writeJSON(w, http.StatusOK, SearchResponse{Documents: docs})
}
