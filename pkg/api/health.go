package api

import (
	"net/http"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status  string                 `json:"status"`
	Message string                 `json:"message"`
	Stats   map[string]interface{} `json:"stats,omitempty"`
}

// statsProvider is implemented by stores that report runtime stats
type statsProvider interface {
	Stats() map[string]interface{}
}

// HandleHealth handles GET requests to the health check endpoint
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		Status:  "healthy",
		Message: "go-listquery is running",
	}
	if sp, ok := h.store.(statsProvider); ok {
		response.Stats = sp.Stats()
	}

	writeJSON(w, http.StatusOK, response)
}
