// package services defines interfaces for the external HTTP collaborators
//
// Streaming platform (Spotify), companion backend
package services

import (
	"context"

	"github.com/xomify/cli/internal/models"
	"golang.org/x/oauth2"
)

// StreamingService is the consumed contract of the streaming platform's API:
// ranked listening history, the followed-artist graph, and per-artist
// releases. Implemented by SpotifyService.
type StreamingService interface {
	// Authenticate performs OAuth or token authentication with the service.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// TopArtists retrieves the user's most-listened artists for a term,
	// ordered most-listened first.
	TopArtists(ctx context.Context, term models.Term, limit int) ([]models.Artist, error)

	// FollowedArtists enumerates every artist the user follows, walking
	// cursor pagination. On a page failure it returns the artists gathered
	// so far together with the error, so callers can degrade to a partial
	// set instead of failing the whole operation.
	FollowedArtists(ctx context.Context) ([]models.Artist, error)

	// ArtistReleases fetches one release type (album, single, appears_on)
	// for one artist. One type per call: the combined include_groups form
	// returns type-grouped rather than date-ordered results upstream.
	ArtistReleases(ctx context.Context, artistID, includeGroup string, limit int) ([]models.Release, error)

	// Name returns the service name for logging and display.
	Name() string
}

// OAuthService is implemented by services that authenticate through the
// OAuth2 authorization-code flow.
type OAuthService interface {
	StreamingService

	// GetAuthURL returns the authorization URL for user login.
	GetAuthURL(state string) string

	// GetOAuthConfig exposes the underlying [oauth2.Config] for the
	// callback handler's code exchange.
	GetOAuthConfig() *oauth2.Config

	// OAuthenticate installs a previously obtained token.
	OAuthenticate(ctx context.Context, token *oauth2.Token) error
}
