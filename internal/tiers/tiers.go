// Package tiers labels tracks by popularity band using k-means clustering.
package tiers

import (
	"fmt"
	"math"
	"slices"

	"github.com/muesli/clusters"
	"github.com/muesli/kmeans"

	"github.com/justestif/pulseplay/internal/catalog"
)

// Tier is a coarse popularity band.
type Tier int

// Tiers from least to most popular.
const (
	DeepCut Tier = iota
	Popular
	Hit
)

// numTiers is the number of clusters requested from k-means.
const numTiers = 3

// String returns the display label for t.
func (t Tier) String() string {
	switch t {
	case DeepCut:
		return "Deep Cut"
	case Hit:
		return "Hit"
	default:
		return "Popular"
	}
}

// Scale maps popularity values onto tiers. The zero value labels everything Popular.
type Scale struct {
	min, max float64
	centers  []float64 // normalized cluster centers, ascending
}

// popularityObservation wraps a normalized popularity to implement clusters.Observation.
type popularityObservation struct {
	coords clusters.Coordinates
}

func (o popularityObservation) Coordinates() clusters.Coordinates {
	return o.coords
}

func (o popularityObservation) Distance(point clusters.Coordinates) float64 {
	return o.coords.Distance(point)
}

// Build clusters the popularity of tracks into three bands. NaN and
// infinite popularities are ignored.
// If there are fewer than three distinct popularity values, or clustering
// fails, it returns the zero Scale along with any clustering error.
func Build(tracks []catalog.Track) (Scale, error) {
	lo, hi := math.Inf(1), math.Inf(-1)
	var values []float64
	distinct := make(map[float64]struct{})
	for _, t := range tracks {
		if !finite(t.Popularity) {
			continue
		}
		lo = math.Min(lo, t.Popularity)
		hi = math.Max(hi, t.Popularity)
		values = append(values, t.Popularity)
		distinct[t.Popularity] = struct{}{}
	}
	if len(distinct) < numTiers {
		return Scale{}, nil
	}

	s := Scale{min: lo, max: hi}

	var obs clusters.Observations
	for _, v := range values {
		obs = append(obs, popularityObservation{
			coords: clusters.Coordinates{s.normalize(v)},
		})
	}

	km := kmeans.New()
	result, err := km.Partition(obs, numTiers)
	if err != nil {
		return Scale{}, fmt.Errorf("clustering popularity: %w", err)
	}

	for _, c := range result {
		if len(c.Observations) == 0 || len(c.Center) == 0 {
			continue
		}
		s.centers = append(s.centers, c.Center[0])
	}
	slices.Sort(s.centers)

	return s, nil
}

// Of returns the tier for a popularity value: the band whose cluster center is nearest.
// Non-finite values are Popular.
func (s Scale) Of(popularity float64) Tier {
	if len(s.centers) == 0 || !finite(popularity) {
		return Popular
	}

	v := s.normalize(popularity)
	best, bestDist := 0, math.Inf(1)
	for i, c := range s.centers {
		if d := math.Abs(v - c); d < bestDist {
			best, bestDist = i, d
		}
	}

	// With fewer surviving centers than tiers, spread them from the top down.
	return Tier(best + numTiers - len(s.centers))
}

// normalize maps popularity into [0, 1] relative to the catalog range.
func (s Scale) normalize(p float64) float64 {
	if s.max == s.min {
		return 0
	}
	return (p - s.min) / (s.max - s.min)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
