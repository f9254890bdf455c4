package api

import (
	"net/http"
)

// TablesResponse lists the table names known to the store
type TablesResponse struct {
	Tables []string `json:"tables"`
}

// HandleTables handles GET requests listing every table
func (h *Handler) HandleTables(w http.ResponseWriter, r *http.Request) {
	tables := h.store.Tables()
	if tables == nil {
		tables = []string{}
	}
	writeJSON(w, http.StatusOK, TablesResponse{Tables: tables})
}
