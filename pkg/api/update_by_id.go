package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// HandleUpdateById handles PATCH requests merging fields into a document.
// The updated document is returned.
func (h *Handler) HandleUpdateById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tableName := vars["table"]
	docId := vars["id"]

	var updates domain.Document
	if err := json.NewDecoder(r.Body).Decode(&updates); err != nil {
		h.logger.WithError(err).Info("decoding update body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	doc, err := h.store.UpdateById(tableName, docId, updates)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).WithField("id", docId).Info("updated document")
	writeJSON(w, http.StatusOK, doc)
}
