package api

import (
	_ "embed"
	"net/http"
)

// The dashboard is a single self-contained page compiled into the binary;
// it polls /data client-side and needs no build step.
//
//go:embed dashboard/index.html
var dashboardHTML []byte

// handleDashboard serves the embedded dashboard page.
func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(dashboardHTML) //nolint:errcheck // Best-effort write to response
}
