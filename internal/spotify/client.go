// Package spotify looks up artwork and links for catalog tracks through the Spotify Web API.
package spotify

import (
	"context"
	"fmt"
	"time"

	"github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2/clientcredentials"
)

// Client wraps the Spotify API client with convenience methods.
type Client struct {
	api *spotify.Client
}

// New creates a new Spotify client wrapper.
// The underlying client should already be authenticated.
func New(api *spotify.Client) *Client {
	return &Client{api: api}
}

// TokenTimeout bounds the first token request made by NewFromCredentials.
const TokenTimeout = 10 * time.Second

// NewFromCredentials authenticates with the client credentials flow and
// returns a client whose token refreshes automatically. ctx must outlive the
// client because it is used for token refreshes.
func NewFromCredentials(ctx context.Context, clientID, clientSecret string) (*Client, error) {
	config := &clientcredentials.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenURL:     spotifyauth.TokenURL,
	}
	return newFromConfig(ctx, config, TokenTimeout)
}

func newFromConfig(ctx context.Context, config *clientcredentials.Config, timeout time.Duration) (*Client, error) {
	// Fail fast on bad credentials rather than on the first page render.
	tokenCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if _, err := config.Token(tokenCtx); err != nil {
		return nil, fmt.Errorf("getting client credentials token: %w", err)
	}

	return New(spotify.New(config.Client(ctx))), nil
}
