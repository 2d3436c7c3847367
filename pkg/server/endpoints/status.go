package endpoints

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/openlabel/openlabel/pkg/server"
)

// StatusResponse represents the response from /health
type StatusResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// StatusErrorResponse represents an error response from /health
type StatusErrorResponse struct {
	Status string `json:"status"`
	Error  string `json:"error"`
}

// RegisterStatusEndpoints registers the status and info endpoints
func RegisterStatusEndpoints(s *server.Server) {
	// GET /health - liveness and database connectivity (no auth required)
	s.Router.HandleFunc("/health", handleStatus(s)).Methods("GET")
}

func handleStatus(s *server.Server) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		version := os.Getenv("OPENLABEL_VERSION_DISPLAY")
		if version == "" {
			version = "0.1.0"
		}

		sqlDB, err := s.DB.DB()
		if err == nil {
			err = sqlDB.PingContext(r.Context())
		}
		if err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(StatusErrorResponse{
				Status: "error",
				Error:  "database connectivity check failed",
			})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(StatusResponse{
			Status:  "ok",
			Version: version,
		})
	}
}
