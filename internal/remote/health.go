package remote

import (
	"encoding/json"
	"net/http"
)

// version is the semver reported by /api/health. No build-info plumbing
// exists in this repo yet; kept as a constant like the teacher's own
// cmd/vista version string.
const version = "0.1.0"

// healthResponse is spec.md §6's unauthenticated health body, identical
// whether reached via /api/health or /{token}/api/health.
type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(healthResponse{Status: "ok", Version: version})
}
