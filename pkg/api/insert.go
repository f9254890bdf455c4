package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// HandleInsert handles POST requests to insert a document into a table.
// The stored document, including a generated id, is returned.
func (h *Handler) HandleInsert(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	var doc domain.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		h.logger.WithError(err).Info("decoding insert body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	stored, err := h.store.Insert(tableName, doc)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).WithField("id", stored.GetID()).Info("inserted document")
	writeJSON(w, http.StatusCreated, stored)
}
