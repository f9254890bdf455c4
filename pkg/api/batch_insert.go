package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/adfharrison1/go-listquery/pkg/domain"
)

// BatchInsertRequest represents the request body for batch insert operations
type BatchInsertRequest struct {
	Documents []domain.Document `json:"documents"`
}

// BatchInsertResponse represents the response for batch insert operations
type BatchInsertResponse struct {
	Success       bool              `json:"success"`
	Message       string            `json:"message"`
	InsertedCount int               `json:"inserted_count"`
	Table         string            `json:"table"`
	Documents     []domain.Document `json:"data"`
}

// HandleBatchInsert handles POST requests to insert multiple documents into a table
func (h *Handler) HandleBatchInsert(w http.ResponseWriter, r *http.Request) {
	tableName := mux.Vars(r)["table"]

	var req BatchInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.WithError(err).Info("decoding batch body failed")
		WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if len(req.Documents) == 0 {
		WriteJSONError(w, http.StatusBadRequest, "No documents provided")
		return
	}
	if len(req.Documents) > MaxBatchSize {
		WriteJSONError(w, http.StatusBadRequest, fmt.Sprintf("Maximum %d documents allowed per batch", MaxBatchSize))
		return
	}

	docs, err := h.store.InsertMany(tableName, req.Documents)
	if err != nil {
		h.writeStoreError(w, r, err)
		return
	}

	h.logger.WithField("table", tableName).WithField("count", len(docs)).Info("batch insert successful")

	writeJSON(w, http.StatusCreated, BatchInsertResponse{
		Success:       true,
		Message:       "Batch insert completed successfully",
		InsertedCount: len(docs),
		Table:         tableName,
		Documents:     docs,
	})
}
