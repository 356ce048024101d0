// Package catalog holds the immutable in-memory track table that recommendations are drawn from.
package catalog

import (
	"cmp"
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Track is a single catalog row.
type Track struct {
	ID         string
	Name       string
	Artists    string
	Genre      string
	Popularity float64
}

// GenreCount is the number of tracks carrying a (lowercased) genre.
type GenreCount struct {
	Genre string
	Count int
}

// Catalog is a read-only track table. The zero value is an empty catalog.
// Insertion order is preserved and used as the tie-break order by callers.
type Catalog struct {
	tracks []Track
}

// New builds a catalog from tracks. The slice is copied; tracks without an
// ID get a deterministic one derived from their name, artists and genre.
func New(tracks []Track) *Catalog {
	c := &Catalog{tracks: slices.Clone(tracks)}
	for i := range c.tracks {
		if c.tracks[i].ID == "" {
			c.tracks[i].ID = TrackID(c.tracks[i].Name, c.tracks[i].Artists, c.tracks[i].Genre)
		}
	}
	return c
}

// TrackID returns a stable UUIDv5 for a track identified by its descriptive fields.
func TrackID(name, artists, genre string) string {
	key := strings.Join([]string{name, artists, genre}, "|")
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key)).String()
}

// Len returns the number of tracks in the catalog.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.tracks)
}

// Tracks returns a copy of every track in insertion order.
func (c *Catalog) Tracks() []Track {
	if c == nil {
		return nil
	}
	return slices.Clone(c.tracks)
}

// Filter returns a fresh slice of the tracks for which keep returns true,
// in insertion order.
func (c *Catalog) Filter(keep func(Track) bool) []Track {
	if c == nil {
		return nil
	}
	var out []Track
	for _, t := range c.tracks {
		if keep(t) {
			out = append(out, t)
		}
	}
	return out
}

// Genres counts tracks per lowercased genre, most common first.
func (c *Catalog) Genres() []GenreCount {
	if c == nil {
		return nil
	}
	counts := make(map[string]int)
	for _, t := range c.tracks {
		counts[strings.ToLower(t.Genre)]++
	}

	out := make([]GenreCount, 0, len(counts))
	for g, n := range counts {
		out = append(out, GenreCount{Genre: g, Count: n})
	}
	slices.SortFunc(out, func(a, b GenreCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Genre, b.Genre)
	})
	return out
}
