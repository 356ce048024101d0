package recommend

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/justestif/pulseplay/internal/catalog"
	"github.com/justestif/pulseplay/internal/mood"
)

// newSeeded returns a selector with a fixed random source.
func newSeeded(c *catalog.Catalog) *Selector {
	return New(c, Options{Rand: rand.New(rand.NewPCG(1, 2))})
}

// genreTracks builds n tracks of a genre with distinct popularities 1..n.
func genreTracks(genre string, n int) []catalog.Track {
	tracks := make([]catalog.Track, n)
	for i := range tracks {
		tracks[i] = catalog.Track{
			ID:         fmt.Sprintf("%s-%d", genre, i+1),
			Name:       fmt.Sprintf("%s song %d", genre, i+1),
			Artists:    "Various",
			Genre:      genre,
			Popularity: float64(i + 1),
		}
	}
	return tracks
}

func TestRecommendReturnsWholeSmallPool(t *testing.T) {
	c := catalog.New([]catalog.Track{
		{ID: "a", Genre: "lo-fi", Popularity: 10},
		{ID: "b", Genre: "lo-fi", Popularity: 50},
		{ID: "c", Genre: "lo-fi", Popularity: 30},
	})

	got := newSeeded(c).Recommend("Chill", 5)
	if len(got) != 3 {
		t.Fatalf("Recommend() returned %d tracks, want 3", len(got))
	}

	// Whole pool is returned in popularity order.
	want := []string{"b", "c", "a"}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("got[%d].ID = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestRecommendSamplesFromTopPool(t *testing.T) {
	c := catalog.New(genreTracks("edm", 25))
	s := newSeeded(c)

	for run := 0; run < 50; run++ {
		got := s.Recommend("Energetic", 5)
		if len(got) != 5 {
			t.Fatalf("Recommend() returned %d tracks, want 5", len(got))
		}

		seen := make(map[string]bool)
		for _, tr := range got {
			// Popularity 1..5 are outside the top 20 of 25.
			if tr.Popularity <= 5 {
				t.Errorf("track %s (popularity %v) is outside the candidate pool", tr.ID, tr.Popularity)
			}
			if seen[tr.ID] {
				t.Errorf("track %s returned twice", tr.ID)
			}
			seen[tr.ID] = true
		}
	}
}

func TestRecommendUnknownMood(t *testing.T) {
	c := catalog.New(genreTracks("edm", 10))

	for _, k := range []int{1, 5, 100} {
		got := newSeeded(c).Recommend("Xyzzy", k)
		if got == nil || len(got) != 0 {
			t.Errorf("Recommend(Xyzzy, %d) = %v, want empty non-nil slice", k, got)
		}
	}
}

func TestRecommendMoodIsCaseSensitive(t *testing.T) {
	c := catalog.New(genreTracks("lo-fi", 3))

	tests := []struct {
		name string
		mood string
		want int
	}{
		{name: "exact label", mood: "Chill", want: 3},
		{name: "lowercase", mood: "chill", want: 0},
		{name: "uppercase", mood: "CHILL", want: 0},
		{name: "padded", mood: "  Chill  ", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := newSeeded(c).Recommend(tt.mood, 5)
			if len(got) != tt.want {
				t.Errorf("Recommend(%q, 5) returned %d tracks, want %d", tt.mood, len(got), tt.want)
			}
		})
	}
}

func TestRecommendOnlyMatchingGenres(t *testing.T) {
	var tracks []catalog.Track
	for _, g := range []string{"Pop", "EDM", "classical", "rock", "Lo-Fi", "hip hop", "polka", "rnb", "blues"} {
		tracks = append(tracks, genreTracks(g, 4)...)
	}
	c := catalog.New(tracks)
	s := newSeeded(c)

	for _, m := range mood.All() {
		allowed := mood.Set(m)
		for _, tr := range s.RecommendMood(m, 20) {
			if _, ok := allowed[strings.ToLower(tr.Genre)]; !ok {
				t.Errorf("%s returned track with genre %q", m, tr.Genre)
			}
		}
	}
}

func TestRecommendMatchesGenreIgnoringCase(t *testing.T) {
	c := catalog.New([]catalog.Track{
		{ID: "upper", Genre: "EDM", Popularity: 10},
		{ID: "mixed", Genre: "Lo-Fi", Popularity: 20},
		{ID: "other", Genre: "Polka", Popularity: 30},
	})
	s := newSeeded(c)

	tests := []struct {
		mood mood.Mood
		want string
	}{
		{mood: mood.Energetic, want: "upper"},
		{mood: mood.Chill, want: "mixed"},
		{mood: mood.Focus, want: "mixed"},
	}

	for _, tt := range tests {
		t.Run(tt.mood.String(), func(t *testing.T) {
			got := s.RecommendMood(tt.mood, 5)
			if len(got) != 1 || got[0].ID != tt.want {
				t.Errorf("RecommendMood(%s) = %+v, want only %q", tt.mood, got, tt.want)
			}
		})
	}
}

func TestRecommendSizeBound(t *testing.T) {
	c := catalog.New(append(genreTracks("pop", 30), genreTracks("funk", 3)...))
	s := newSeeded(c)

	tests := []struct {
		name string
		mood string
		k    int
		want int
	}{
		{name: "k smaller than pool", mood: "Happy", k: 7, want: 7},
		{name: "k larger than pool", mood: "Happy", k: 50, want: DefaultPoolSize},
		{name: "k equals pool", mood: "Happy", k: 20, want: 20},
		{name: "zero k", mood: "Happy", k: 0, want: 0},
		{name: "negative k", mood: "Happy", k: -3, want: 0},
		{name: "no matches", mood: "Focus", k: 5, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.Recommend(tt.mood, tt.k)
			if len(got) != tt.want {
				t.Errorf("Recommend(%s, %d) returned %d tracks, want %d", tt.mood, tt.k, len(got), tt.want)
			}
		})
	}
}

func TestCandidatesTieBreakKeepsCatalogOrder(t *testing.T) {
	c := catalog.New([]catalog.Track{
		{ID: "first", Genre: "rock", Popularity: 40},
		{ID: "top", Genre: "rock", Popularity: 90},
		{ID: "second", Genre: "metal", Popularity: 40},
		{ID: "third", Genre: "techno", Popularity: 40},
	})

	got := newSeeded(c).Candidates(mood.Energetic)
	want := []string{"top", "first", "second", "third"}
	if len(got) != len(want) {
		t.Fatalf("Candidates() returned %d tracks, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].ID != id {
			t.Errorf("Candidates()[%d] = %q, want %q", i, got[i].ID, id)
		}
	}
}

func TestPoolSizeOverride(t *testing.T) {
	c := catalog.New(genreTracks("house", 10))
	s := New(c, Options{PoolSize: 3, Rand: rand.New(rand.NewPCG(3, 4))})

	if s.PoolSize() != 3 {
		t.Errorf("PoolSize() = %d, want 3", s.PoolSize())
	}

	got := s.Recommend("Energetic", 10)
	if len(got) != 3 {
		t.Fatalf("Recommend() returned %d tracks, want 3", len(got))
	}
	for _, tr := range got {
		if tr.Popularity < 8 {
			t.Errorf("track %s outside the top 3", tr.ID)
		}
	}

	if New(c, Options{}).PoolSize() != DefaultPoolSize {
		t.Error("zero PoolSize should fall back to DefaultPoolSize")
	}
}

func TestSeedIsDeterministic(t *testing.T) {
	c := catalog.New(genreTracks("trap", 20))
	seed := int64(99)

	a := New(c, Options{Seed: &seed}).Recommend("Party", 5)
	b := New(c, Options{Seed: &seed}).Recommend("Party", 5)

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different picks: %v vs %v", a, b)
		}
	}
}

func TestRecommendDoesNotMutateCatalog(t *testing.T) {
	tracks := genreTracks("ambient", 25)
	c := catalog.New(tracks)
	s := newSeeded(c)

	for i := 0; i < 10; i++ {
		s.Recommend("Focus", 3)
	}

	after := c.Tracks()
	for i := range tracks {
		if after[i] != tracks[i] {
			t.Fatalf("catalog order changed at %d: %+v vs %+v", i, after[i], tracks[i])
		}
	}
}

func TestSamplingCoversWholePool(t *testing.T) {
	c := catalog.New(genreTracks("soul", 20))
	s := newSeeded(c)

	seen := make(map[string]bool)
	for i := 0; i < 500; i++ {
		for _, tr := range s.Recommend("Romantic", 2) {
			seen[tr.ID] = true
		}
	}
	if len(seen) != 20 {
		t.Errorf("sampling reached %d of 20 pool tracks", len(seen))
	}
}
