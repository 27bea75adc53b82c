package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/nerrad567/parklot-core/internal/state"
)

// DataResponse is the polled state document served at /data.
// Field names match what the dashboard and external pollers consume.
type DataResponse struct {
	Available   int     `json:"available"`
	Occupied    int     `json:"occupied"`
	Total       int     `json:"total"`
	Gate        string  `json:"gate"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Time        string  `json:"time"`
	Date        string  `json:"date"`
	Wifi        bool    `json:"wifi"`
	Internet    bool    `json:"internet"`
	Uptime      int64   `json:"uptime"`
}

// handleData serves the current snapshot as JSON.
func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	snap := s.store.Snapshot()

	writeJSON(w, http.StatusOK, DataResponse{
		Available:   snap.Available,
		Occupied:    snap.Occupied,
		Total:       snap.Total,
		Gate:        snap.Gate.String(),
		Temperature: snap.Temperature,
		Humidity:    snap.Humidity,
		Time:        snap.Time,
		Date:        snap.Date,
		Wifi:        snap.Network,
		Internet:    snap.Internet,
		Uptime:      int64(snap.Uptime.Seconds()),
	})
}

// handleHealth returns the server health status with the lock registry
// and per-worker scheduling stats.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	doc := map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  int64(s.store.Uptime().Seconds()),
		"locks":   s.store.Locks(),
	}
	if s.supervisor != nil {
		doc["workers"] = s.supervisor.Stats()
	}

	writeJSON(w, http.StatusOK, doc)
}

// handleEvents serves the recent gate activity journal, newest first.
// Query: ?limit=N (default 50, capped by the repository).
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	if s.journal == nil {
		writeError(w, http.StatusNotFound, ErrCodeNotFound, "journal is disabled")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			writeBadRequest(w, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	entries, err := s.journal.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("journal query failed", "error", err)
		writeInternalError(w, "failed to read journal")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"events": entries,
		"count":  len(entries),
	})
}

// displayRequest is the body for POST /api/v1/display.
type displayRequest struct {
	Line1 string `json:"line1"`
	Line2 string `json:"line2"`
}

// handleDisplayMessage pushes a message onto the local display override.
// Most recent message wins; a missed cosmetic-lock window drops it.
func (s *Server) handleDisplayMessage(w http.ResponseWriter, r *http.Request) {
	var req displayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Line1 == "" && req.Line2 == "" {
		writeBadRequest(w, "at least one line is required")
		return
	}

	if !s.store.SetOverride(state.OverrideMessage{Line1: req.Line1, Line2: req.Line2}) {
		// Lock window elapsed; the message is dropped, not queued.
		writeJSON(w, http.StatusAccepted, map[string]any{"queued": false})
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"queued": true})
}
