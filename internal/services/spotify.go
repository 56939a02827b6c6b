// Spotify API implementation of [StreamingService]
//
// Response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/shared"
	"golang.org/x/oauth2"
)

const (
	spotifyAuthURL  = "https://accounts.spotify.com/authorize"
	spotifyTokenURL = "https://accounts.spotify.com/api/token"
	spotifyBaseURL  = "https://api.spotify.com/v1"

	// API maximum for the paginated endpoints used here.
	spotifyPageLimit = 50
)

type spotifyFollowers struct {
	Total int `json:"total"`
}

type spotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// spotifyArtist represents a full artist object.
type spotifyArtist struct {
	ID         string           `json:"id"`
	Name       string           `json:"name"`
	Genres     []string         `json:"genres"`
	Popularity int              `json:"popularity"`
	Followers  spotifyFollowers `json:"followers"`
	Images     []spotifyImage   `json:"images"`
}

type spotifySimpleArtist struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type spotifyExternalURLs struct {
	Spotify string `json:"spotify"`
}

// spotifyAlbum represents a simplified album object from the artist-albums
// endpoint.
type spotifyAlbum struct {
	ID                   string                `json:"id"`
	Name                 string                `json:"name"`
	AlbumGroup           string                `json:"album_group"`
	AlbumType            string                `json:"album_type"`
	ReleaseDate          string                `json:"release_date"`
	ReleaseDatePrecision string                `json:"release_date_precision"`
	TotalTracks          int                   `json:"total_tracks"`
	Artists              []spotifySimpleArtist `json:"artists"`
	Images               []spotifyImage        `json:"images"`
	ExternalURLs         spotifyExternalURLs   `json:"external_urls"`
}

// spotifyTopArtists is the response of /me/top/artists.
type spotifyTopArtists struct {
	Items []spotifyArtist `json:"items"`
}

// spotifyFollowing is the cursor-paginated response of /me/following.
type spotifyFollowing struct {
	Artists struct {
		Items   []spotifyArtist `json:"items"`
		Cursors struct {
			After *string `json:"after"`
		} `json:"cursors"`
	} `json:"artists"`
}

// spotifyArtistAlbums is the response of /artists/{id}/albums.
type spotifyArtistAlbums struct {
	Items []spotifyAlbum `json:"items"`
}

// SpotifyService implements [StreamingService] and [OAuthService] against
// the Spotify Web API, using [oauth2] for authentication.
type SpotifyService struct {
	config     *oauth2.Config
	token      *oauth2.Token
	httpClient *http.Client
}

// NewSpotifyService creates a new Spotify service with the given OAuth2 credentials.
func NewSpotifyService(credentials map[string]string) (*SpotifyService, error) {
	clientID, ok := credentials["client_id"]
	if !ok || clientID == "" {
		return nil, fmt.Errorf("%w: missing client_id", shared.ErrMissingCredentials)
	}

	clientSecret, ok := credentials["client_secret"]
	if !ok || clientSecret == "" {
		return nil, fmt.Errorf("%w: missing client_secret", shared.ErrMissingCredentials)
	}

	redirectURI, ok := credentials["redirect_uri"]
	if !ok || redirectURI == "" {
		redirectURI = "http://localhost:3000/callback"
	}

	config := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURI,
		Scopes: []string{
			"user-read-private",
			"user-top-read",
			"user-follow-read",
		},
		Endpoint: oauth2.Endpoint{
			AuthURL:  spotifyAuthURL,
			TokenURL: spotifyTokenURL,
		},
	}

	svc := &SpotifyService{
		config:     config,
		httpClient: http.DefaultClient,
	}

	if accessToken := credentials["access_token"]; accessToken != "" {
		svc.token = &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		}
	}

	return svc, nil
}

func (s *SpotifyService) Name() string {
	return "Spotify"
}

// Authenticate performs OAuth2 authentication. Expects either an
// "access_token" or an "auth_code" in credentials.
func (s *SpotifyService) Authenticate(ctx context.Context, credentials map[string]string) error {
	if accessToken, ok := credentials["access_token"]; ok && accessToken != "" {
		return s.OAuthenticate(ctx, &oauth2.Token{
			AccessToken:  accessToken,
			RefreshToken: credentials["refresh_token"],
		})
	}

	if authCode, ok := credentials["auth_code"]; ok && authCode != "" {
		token, err := s.config.Exchange(ctx, authCode)
		if err != nil {
			return fmt.Errorf("failed to exchange auth code: %w", err)
		}
		return s.OAuthenticate(ctx, token)
	}

	return fmt.Errorf("%w: missing access_token or auth_code", shared.ErrMissingCredentials)
}

// OAuthenticate installs an [oauth2.Token] on the service.
func (s *SpotifyService) OAuthenticate(ctx context.Context, token *oauth2.Token) error {
	if token == nil || token.AccessToken == "" {
		return fmt.Errorf("%w: empty token", shared.ErrInvalidCredentials)
	}
	s.token = token
	return nil
}

// GetAuthURL returns the OAuth2 authorization URL for user login.
func (s *SpotifyService) GetAuthURL(state string) string {
	return s.config.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// GetOAuthConfig exposes the OAuth2 config for the callback handler.
func (s *SpotifyService) GetOAuthConfig() *oauth2.Config {
	return s.config
}

// SetHTTPClient overrides the HTTP client. Tests only.
func (s *SpotifyService) SetHTTPClient(client *http.Client) {
	s.httpClient = client
}

// doRequest performs an authenticated GET against the Spotify API and
// decodes the JSON response into result.
func (s *SpotifyService) doRequest(ctx context.Context, endpoint string, query url.Values, result any) error {
	if s.token == nil {
		return fmt.Errorf("%w: call Authenticate first", shared.ErrNotAuthenticated)
	}

	apiURL := spotifyBaseURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+s.token.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("%w: status 401", shared.ErrTokenExpired)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: retry-after %s", shared.ErrRateLimited, resp.Header.Get("Retry-After"))
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: spotify status %d", shared.ErrAPIRequest, resp.StatusCode)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// TopArtists retrieves the user's top artists for a listening term,
// most-listened first.
func (s *SpotifyService) TopArtists(ctx context.Context, term models.Term, limit int) ([]models.Artist, error) {
	if limit <= 0 || limit > spotifyPageLimit {
		limit = spotifyPageLimit
	}

	query := url.Values{}
	query.Set("time_range", string(term))
	query.Set("limit", fmt.Sprintf("%d", limit))

	var response spotifyTopArtists
	if err := s.doRequest(ctx, "/me/top/artists", query, &response); err != nil {
		return nil, err
	}

	return convertArtists(response.Items), nil
}

// FollowedArtists walks the cursor-paginated /me/following endpoint until a
// short page or missing cursor. A failed page surfaces the artists gathered
// so far alongside the error.
func (s *SpotifyService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	var all []models.Artist
	var after string

	for {
		query := url.Values{}
		query.Set("type", "artist")
		query.Set("limit", fmt.Sprintf("%d", spotifyPageLimit))
		if after != "" {
			query.Set("after", after)
		}

		var response spotifyFollowing
		if err := s.doRequest(ctx, "/me/following", query, &response); err != nil {
			return all, err
		}

		all = append(all, convertArtists(response.Artists.Items)...)

		cursor := response.Artists.Cursors.After
		if len(response.Artists.Items) < spotifyPageLimit || cursor == nil || *cursor == "" {
			return all, nil
		}
		after = *cursor
	}
}

// ArtistReleases fetches one release type for one artist.
func (s *SpotifyService) ArtistReleases(ctx context.Context, artistID, includeGroup string, limit int) ([]models.Release, error) {
	if artistID == "" {
		return nil, fmt.Errorf("%w: artist ID", shared.ErrMissingArgument)
	}
	if limit <= 0 || limit > spotifyPageLimit {
		limit = spotifyPageLimit
	}

	query := url.Values{}
	query.Set("include_groups", includeGroup)
	query.Set("limit", fmt.Sprintf("%d", limit))

	var response spotifyArtistAlbums
	endpoint := fmt.Sprintf("/artists/%s/albums", artistID)
	if err := s.doRequest(ctx, endpoint, query, &response); err != nil {
		return nil, err
	}

	releases := make([]models.Release, 0, len(response.Items))
	for _, item := range response.Items {
		if item.ID == "" {
			continue
		}

		// album_group carries the artist's relationship to the release;
		// album_type only describes the release itself, so a guest spot
		// on someone else's album would read as "album"
		albumType := item.AlbumGroup
		if albumType == "" {
			albumType = includeGroup
		}

		release := models.Release{
			ID:          item.ID,
			Name:        item.Name,
			AlbumType:   albumType,
			ReleaseDate: item.ReleaseDate,
			Images:      convertImages(item.Images),
			TrackCount:  item.TotalTracks,
			ExternalURL: item.ExternalURLs.Spotify,
		}
		// appears_on entries credit the album's own artist, not the
		// followed artist that surfaced them
		if len(item.Artists) > 0 {
			release.ArtistID = item.Artists[0].ID
			release.ArtistName = item.Artists[0].Name
		} else {
			release.ArtistID = artistID
		}

		releases = append(releases, release)
	}

	return releases, nil
}

func convertArtists(items []spotifyArtist) []models.Artist {
	artists := make([]models.Artist, 0, len(items))
	for _, item := range items {
		if item.ID == "" {
			continue
		}
		artists = append(artists, models.Artist{
			ID:         item.ID,
			Name:       item.Name,
			Genres:     item.Genres,
			Popularity: item.Popularity,
			Followers:  item.Followers.Total,
			Images:     convertImages(item.Images),
		})
	}
	return artists
}

func convertImages(items []spotifyImage) []models.Image {
	images := make([]models.Image, len(items))
	for i, item := range items {
		images[i] = models.Image{URL: item.URL, Height: item.Height, Width: item.Width}
	}
	return images
}
