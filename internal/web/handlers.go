package web

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/justestif/pulseplay/internal/catalog"
	"github.com/justestif/pulseplay/internal/display"
	"github.com/justestif/pulseplay/internal/mood"
	"github.com/justestif/pulseplay/internal/spotify"
	"github.com/justestif/pulseplay/internal/tiers"
)

// Top-K bounds for the page's number input.
const (
	defaultTopK = 5
	minTopK     = 1
	maxTopK     = 20
)

// artworkTimeout bounds a single Spotify lookup during a page render.
const artworkTimeout = 5 * time.Second

// HandlersConfig holds the dependencies of Handlers.
type HandlersConfig struct {
	Templates *Templates
	Catalog   *catalog.Catalog
	Selector  Recommender
	Tiers     tiers.Scale
	Artwork   ArtworkFetcher
	DB        Pinger
	Logger    *slog.Logger
}

// Handlers contains HTTP handlers for the web application.
type Handlers struct {
	templates *Templates
	catalog   *catalog.Catalog
	selector  Recommender
	tiers     tiers.Scale
	artwork   ArtworkFetcher
	db        Pinger
	logger    *slog.Logger
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(cfg HandlersConfig) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		templates: cfg.Templates,
		catalog:   cfg.Catalog,
		selector:  cfg.Selector,
		tiers:     cfg.Tiers,
		artwork:   cfg.Artwork,
		db:        cfg.DB,
		logger:    logger,
	}
}

// Home handles the home page (GET /).
// Query parameters: mood (default: first mood) and k (default 5, clamped to 1-20).
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	moodName := pageMood(r)
	k := parseTopK(r.URL.Query().Get("k"))

	moods := mood.All()
	options := make([]MoodOption, len(moods))
	for i, m := range moods {
		options[i] = MoodOption{Name: m.String(), Selected: m.String() == moodName}
	}

	var description string
	if m, ok := mood.Parse(moodName); ok {
		description = mood.Describe(m)
	}

	data := HomePageData{
		PageData: PageData{
			Title:       "PulsePlay",
			CurrentPath: r.URL.Path,
		},
		Moods:       options,
		Description: description,
		K:           k,
		MinK:        minTopK,
		MaxK:        maxTopK,
		CatalogSize: h.catalog.Len(),
		Results:     h.results(r.Context(), moodName, k),
	}

	var buf bytes.Buffer
	if err := h.templates.Render(&buf, "home", data); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render template", slog.String("template", "home"), slog.Any("error", err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// RecommendationsPartial renders only the recommendation list (GET /recommendations).
func (h *Handlers) RecommendationsPartial(w http.ResponseWriter, r *http.Request) {
	moodName := pageMood(r)
	k := parseTopK(r.URL.Query().Get("k"))

	var buf bytes.Buffer
	if err := h.templates.RenderPartial(&buf, "recommendations", h.results(r.Context(), moodName, k)); err != nil {
		h.logger.ErrorContext(r.Context(), "Failed to render partial", slog.String("partial", "recommendations"), slog.Any("error", err))
		http.Error(w, "Failed to render template", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// results builds the recommendation list shown on the page.
func (h *Handlers) results(ctx context.Context, moodName string, k int) RecommendationsData {
	tracks := h.selector.Recommend(moodName, k)
	art := h.fetchArtwork(ctx, tracks)

	data := RecommendationsData{
		Heading: display.Heading(moodName, k),
		Tracks:  make([]TrackData, len(tracks)),
	}
	for i, t := range tracks {
		a := art[t.ID]
		data.Tracks[i] = TrackData{
			ID:         t.ID,
			Name:       t.Name,
			Artists:    t.Artists,
			Genre:      t.Genre,
			Popularity: t.Popularity,
			Tier:       h.tiers.Of(t.Popularity).String(),
			ImageURL:   a.ImageURL,
			TrackURL:   a.TrackURL,
		}
	}
	return data
}

// fetchArtwork looks up artwork when enrichment is configured. Failures are
// logged and never block rendering.
func (h *Handlers) fetchArtwork(ctx context.Context, tracks []catalog.Track) map[string]spotify.Artwork {
	if h.artwork == nil || len(tracks) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, artworkTimeout)
	defer cancel()

	art, err := h.artwork.Artwork(ctx, tracks)
	if err != nil {
		h.logger.WarnContext(ctx, "Failed to fetch artwork", slog.Int("tracks", len(tracks)), slog.Any("error", err))
	}
	return art
}

// pageMood returns the requested mood, or the first mood when none is given.
// Labels are matched exactly, so anything else is echoed and matches no tracks.
func pageMood(r *http.Request) string {
	if moodName := r.URL.Query().Get("mood"); moodName != "" {
		return moodName
	}
	return mood.All()[0].String()
}

// parseTopK reads the page's k parameter, defaulting to 5 and clamping to [1, 20].
func parseTopK(raw string) int {
	k, err := strconv.Atoi(raw)
	if err != nil {
		return defaultTopK
	}
	return min(max(k, minTopK), maxTopK)
}
