package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// HandleDeleteById handles DELETE requests to remove a specific document by ID
func (h *Handler) HandleDeleteById(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	tableName := vars["table"]
	docId := vars["id"]

	if err := h.store.DeleteById(tableName, docId); err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).WithField("id", docId).Info("deleted document")
	w.WriteHeader(http.StatusNoContent)
}
