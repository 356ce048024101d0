package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Sentinel errors.
var (
	// ErrEmptyCatalog is returned when the input has no header row.
	ErrEmptyCatalog = errors.New("catalog is empty")

	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing required column")

	// ErrNonFinitePopularity is returned for NaN or infinite popularity values.
	ErrNonFinitePopularity = errors.New("popularity must be a finite number")
)

// Column names accepted for each field, in order of preference.
var (
	idColumns         = []string{"track_id", "id"}
	nameColumns       = []string{"name", "track_name"}
	artistsColumns    = []string{"artists", "artist"}
	genreColumns      = []string{"genre", "track_genre"}
	popularityColumns = []string{"popularity"}
)

// columns holds the resolved header index of every field. id is -1 when absent.
type columns struct {
	id, name, artists, genre, popularity int
}

// LoadFile reads a CSV catalog from path.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()

	c, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return c, nil
}

// Load parses a CSV catalog with a header row. Required columns are name,
// artists, genre (or track_genre) and popularity; track_id or id is used as
// the track ID when present.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyCatalog
	}
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	cols, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	var tracks []Track
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		track, err := parseRecord(record, cols)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		tracks = append(tracks, track)
	}

	return New(tracks), nil
}

// resolveColumns maps the header row to field indexes.
func resolveColumns(header []string) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	find := func(names []string) int {
		for _, n := range names {
			if i, ok := index[n]; ok {
				return i
			}
		}
		return -1
	}

	cols := columns{
		id:         find(idColumns),
		name:       find(nameColumns),
		artists:    find(artistsColumns),
		genre:      find(genreColumns),
		popularity: find(popularityColumns),
	}

	required := []struct {
		idx  int
		name string
	}{
		{cols.name, "name"},
		{cols.artists, "artists"},
		{cols.genre, "genre"},
		{cols.popularity, "popularity"},
	}
	for _, r := range required {
		if r.idx < 0 {
			return columns{}, fmt.Errorf("%w: %s", ErrMissingColumn, r.name)
		}
	}
	return cols, nil
}

// parseRecord converts a CSV record into a Track.
func parseRecord(record []string, cols columns) (Track, error) {
	raw := strings.TrimSpace(record[cols.popularity])
	popularity, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return Track{}, fmt.Errorf("parsing popularity %q: %w", raw, err)
	}
	if math.IsNaN(popularity) || math.IsInf(popularity, 0) {
		return Track{}, fmt.Errorf("parsing popularity %q: %w", raw, ErrNonFinitePopularity)
	}

	t := Track{
		Name:       record[cols.name],
		Artists:    record[cols.artists],
		Genre:      strings.TrimSpace(record[cols.genre]),
		Popularity: popularity,
	}
	if cols.id >= 0 {
		t.ID = strings.TrimSpace(record[cols.id])
	}
	return t, nil
}
