// Package recommend selects mood-matched tracks from a catalog.
package recommend

import (
	"cmp"
	"math/rand/v2"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/justestif/pulseplay/internal/catalog"
	"github.com/justestif/pulseplay/internal/mood"
)

// DefaultPoolSize is how many of the most popular matching tracks are
// considered before sampling.
const DefaultPoolSize = 20

// Options configures a Selector.
type Options struct {
	PoolSize int        // Candidate pool size (default: DefaultPoolSize)
	Rand     *rand.Rand // Random source; takes precedence over Seed
	Seed     *int64     // Seed for a deterministic source; nil seeds from the clock
}

// Selector draws recommendations from a catalog. It is safe for concurrent use.
type Selector struct {
	catalog  *catalog.Catalog
	poolSize int

	mu  sync.Mutex // guards rng
	rng *rand.Rand
}

// New creates a Selector over c.
func New(c *catalog.Catalog, opts Options) *Selector {
	poolSize := opts.PoolSize
	if poolSize <= 0 {
		poolSize = DefaultPoolSize
	}

	rng := opts.Rand
	if rng == nil {
		seed := time.Now().UnixNano()
		if opts.Seed != nil {
			seed = *opts.Seed
		}
		rng = rand.New(rand.NewPCG(uint64(seed), uint64(seed>>1)^0x9e3779b97f4a7c15))
	}

	return &Selector{
		catalog:  c,
		poolSize: poolSize,
		rng:      rng,
	}
}

// PoolSize returns the candidate pool size in use.
func (s *Selector) PoolSize() int {
	return s.poolSize
}

// Recommend returns up to k tracks for the mood named moodName.
// Unrecognized moods yield an empty result.
func (s *Selector) Recommend(moodName string, k int) []catalog.Track {
	m, ok := mood.Parse(moodName)
	if !ok {
		return []catalog.Track{}
	}
	return s.RecommendMood(m, k)
}

// RecommendMood returns up to k tracks whose genre belongs to m.
// The result holds at most min(k, PoolSize, matches) tracks, chosen uniformly
// at random without replacement from the PoolSize most popular matches.
func (s *Selector) RecommendMood(m mood.Mood, k int) []catalog.Track {
	if k <= 0 {
		return []catalog.Track{}
	}

	pool := s.Candidates(m)
	if len(pool) <= k {
		return pool
	}
	return s.sample(pool, k)
}

// Candidates returns the candidate pool for m: matching tracks ordered by
// popularity descending, truncated to PoolSize. Ties keep catalog order.
func (s *Selector) Candidates(m mood.Mood) []catalog.Track {
	genres := mood.Set(m)
	if len(genres) == 0 {
		return []catalog.Track{}
	}

	matches := s.catalog.Filter(func(t catalog.Track) bool {
		_, ok := genres[strings.ToLower(t.Genre)]
		return ok
	})

	slices.SortStableFunc(matches, func(a, b catalog.Track) int {
		return cmp.Compare(b.Popularity, a.Popularity)
	})

	if len(matches) > s.poolSize {
		matches = matches[:s.poolSize]
	}
	if matches == nil {
		return []catalog.Track{}
	}
	return matches
}

// sample picks k distinct tracks from pool using a partial Fisher-Yates shuffle.
// pool is reordered in place.
func (s *Selector) sample(pool []catalog.Track, k int) []catalog.Track {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(len(pool)-i)
		pool[i], pool[j] = pool[j], pool[i]
	}
	return slices.Clone(pool[:k])
}
