package handlers

import (
	"net/http"

	"brightsteps/internal/realtime"
)

// FeedHandler serves the websocket insert feed. Auth is enforced
// by the surrounding middleware before the upgrade.
type FeedHandler struct {
	hub *realtime.Hub
}

// NewFeedHandler creates a new feed handler.
func NewFeedHandler(hub *realtime.Hub) *FeedHandler {
	return &FeedHandler{hub: hub}
}

// allowed tables for subscription narrowing.
var feedTables = map[string]bool{
	"expressions":            true,
	"user_activity_progress": true,
	"activities":             true,
}

// Subscribe handles GET /api/feed with an optional ?table= filter.
func (h *FeedHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table != "" && !feedTables[table] {
		respondError(w, http.StatusBadRequest, "Unknown feed table", "", nil)
		return
	}
	realtime.ServeWS(h.hub, w, r, table)
}
