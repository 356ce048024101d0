package spotify

// Artwork holds display links for a track.
type Artwork struct {
	ImageURL string // Album cover, empty if Spotify has none
	TrackURL string // open.spotify.com link
}
