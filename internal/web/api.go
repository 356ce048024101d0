package web

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/justestif/pulseplay/internal/display"
	"github.com/justestif/pulseplay/internal/mood"
)

// moodResponse describes one selectable mood.
type moodResponse struct {
	Name        string   `json:"name"`
	Genres      []string `json:"genres"`
	Description string   `json:"description"`
}

// trackResponse is a single recommended track.
type trackResponse struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Artists    string  `json:"artists"`
	Genre      string  `json:"genre"`
	Popularity float64 `json:"popularity"`
	Tier       string  `json:"tier"`
}

type recommendationsResponse struct {
	Mood   string          `json:"mood"`
	K      int             `json:"k"`
	Tracks []trackResponse `json:"tracks"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Moods lists the selectable moods and their genres (GET /api/moods).
func (h *Handlers) Moods(w http.ResponseWriter, r *http.Request) {
	moods := mood.All()
	resp := make([]moodResponse, len(moods))
	for i, m := range moods {
		resp[i] = moodResponse{
			Name:        m.String(),
			Genres:      mood.Genres(m),
			Description: mood.Describe(m),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Recommendations returns recommendations as JSON (GET /api/recommendations?mood=&k=).
// An unknown mood yields an empty list, not an error.
func (h *Handlers) Recommendations(w http.ResponseWriter, r *http.Request) {
	moodName, k, ok := apiParams(w, r)
	if !ok {
		return
	}

	tracks := h.selector.Recommend(moodName, k)

	resp := recommendationsResponse{
		Mood:   moodName,
		K:      k,
		Tracks: make([]trackResponse, len(tracks)),
	}
	for i, t := range tracks {
		resp.Tracks[i] = trackResponse{
			ID:         t.ID,
			Name:       t.Name,
			Artists:    t.Artists,
			Genre:      t.Genre,
			Popularity: t.Popularity,
			Tier:       h.tiers.Of(t.Popularity).String(),
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// RecommendationsMarkdown returns recommendations as a Markdown document
// (GET /api/recommendations.md?mood=&k=).
func (h *Handlers) RecommendationsMarkdown(w http.ResponseWriter, r *http.Request) {
	moodName, k, ok := apiParams(w, r)
	if !ok {
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write([]byte(display.Document(moodName, k, h.selector.Recommend(moodName, k))))
}

// apiParams validates the mood and k query parameters, writing a 400 on failure.
// Unlike the page, k is not clamped to an upper bound.
func apiParams(w http.ResponseWriter, r *http.Request) (string, int, bool) {
	moodName := r.URL.Query().Get("mood")
	if moodName == "" {
		writeError(w, http.StatusBadRequest, "mood is required")
		return "", 0, false
	}

	k := defaultTopK
	if raw := r.URL.Query().Get("k"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < minTopK {
			writeError(w, http.StatusBadRequest, "k must be a positive integer")
			return "", 0, false
		}
		k = n
	}
	return moodName, k, true
}

// writeJSON encodes v with the given status code. v is encoded before the
// header is written so an encoding failure is reported as a 500.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		slog.Error("Failed to encode response", slog.Any("error", err))
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// writeError writes a JSON error body.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
