package api

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/adfharrison1/go-listquery/pkg/domain"
	"github.com/adfharrison1/go-listquery/pkg/logging"
)

// MaxBatchSize caps the documents of one batch insert.
const MaxBatchSize = 1000

// Handler provides HTTP handlers for the demo list API
type Handler struct {
	store  domain.Store
	logger logrus.FieldLogger
}

// NewHandler creates a new API handler with dependency injection
func NewHandler(store domain.Store, logger logrus.FieldLogger) *Handler {
	if logger == nil {
		logger = logging.WithComponent("api")
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(v)
}
