package web

import (
	"context"
	"net/http"
	"time"
)

// Health is the health check response.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Catalog   struct {
		Tracks int `json:"tracks"`
		Genres int `json:"genres"`
	} `json:"catalog"`
	DB struct {
		Status  string `json:"status"`
		Message string `json:"message,omitempty"`
	} `json:"db"`
}

// Health reports catalog size and genre count and, when configured, database reachability (GET /healthz).
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	health := Health{
		Status:    "ok",
		Timestamp: time.Now(),
	}
	health.Catalog.Tracks = h.catalog.Len()
	health.Catalog.Genres = len(h.catalog.Genres())

	if h.db == nil {
		health.DB.Status = "disabled"
		writeJSON(w, http.StatusOK, health)
		return
	}

	if err := h.db.Ping(ctx); err != nil {
		health.Status = "degraded"
		health.DB.Status = "error"
		health.DB.Message = "Database ping failed"
		writeJSON(w, http.StatusServiceUnavailable, health)
		return
	}

	health.DB.Status = "ok"
	writeJSON(w, http.StatusOK, health)
}
