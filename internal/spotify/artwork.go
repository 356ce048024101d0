package spotify

import (
	"context"
	"fmt"

	"github.com/zmb3/spotify/v2"

	"github.com/justestif/pulseplay/internal/catalog"
)

// maxTracksPerRequest is the Spotify limit for the several-tracks endpoint.
const maxTracksPerRequest = 50

// spotifyIDLength is the length of a base62 Spotify track ID.
const spotifyIDLength = 22

// Artwork fetches cover art and track links for the given tracks, keyed by track ID.
// Tracks whose ID is not a Spotify ID are skipped. On a failed batch the
// artwork gathered so far is returned along with the error.
func (c *Client) Artwork(ctx context.Context, tracks []catalog.Track) (map[string]Artwork, error) {
	result := make(map[string]Artwork)

	var ids []spotify.ID
	seen := make(map[string]bool)
	for _, t := range tracks {
		if !isSpotifyID(t.ID) || seen[t.ID] {
			continue
		}
		seen[t.ID] = true
		ids = append(ids, spotify.ID(t.ID))
	}

	for i := 0; i < len(ids); i += maxTracksPerRequest {
		end := min(i+maxTracksPerRequest, len(ids))
		batch := ids[i:end]

		full, err := c.api.GetTracks(ctx, batch)
		if err != nil {
			return result, fmt.Errorf("fetching tracks (batch %d-%d): %w", i+1, end, err)
		}

		for _, ft := range full {
			if ft == nil {
				continue
			}
			result[ft.ID.String()] = convertArtwork(ft)
		}
	}

	return result, nil
}

// convertArtwork picks the first (largest) album image and the Spotify link.
func convertArtwork(ft *spotify.FullTrack) Artwork {
	var art Artwork
	if len(ft.Album.Images) > 0 {
		art.ImageURL = ft.Album.Images[0].URL
	}
	art.TrackURL = ft.ExternalURLs["spotify"]
	return art
}

// isSpotifyID reports whether id looks like a base62 Spotify ID.
func isSpotifyID(id string) bool {
	if len(id) != spotifyIDLength {
		return false
	}
	for _, r := range id {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return true
}
