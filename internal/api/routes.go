package api

import (
	"github.com/gorilla/mux"
)

// SetupRoutes configures all API routes
func SetupRoutes(handler *Handler) *mux.Router {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", handler.HealthCheck).Methods("GET")
	if handler.metrics != nil {
		r.Handle("/metrics", handler.metrics.Handler()).Methods("GET")
	}

	// RS routes
	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/pairs/{asset}", handler.GetPair).Methods("GET")
	api.HandleFunc("/pairs/{asset}/history", handler.GetPairHistory).Methods("GET")
	api.HandleFunc("/rotation", handler.GetRotation).Methods("GET")

	return r
}
