package api

import (
	"github.com/gorilla/mux"
)

// RegisterRoutes registers all API routes with the given router
func (h *Handler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/health", h.HandleHealth).Methods("GET")
	router.HandleFunc("/tables", h.HandleTables).Methods("GET")

	// Table operations
	router.HandleFunc("/tables/{table}", h.HandleList).Methods("GET")
	router.HandleFunc("/tables/{table}", h.HandleInsert).Methods("POST")
	router.HandleFunc("/tables/{table}/batch", h.HandleBatchInsert).Methods("POST")
	router.HandleFunc("/tables/{table}/search", h.HandleSearch).Methods("GET")

	// Document operations (by ID)
	router.HandleFunc("/tables/{table}/documents/{id}", h.HandleGetById).Methods("GET")
	router.HandleFunc("/tables/{table}/documents/{id}", h.HandleUpdateById).Methods("PATCH")
	router.HandleFunc("/tables/{table}/documents/{id}", h.HandleDeleteById).Methods("DELETE")
}
