package services

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/shared"
	itesting "github.com/xomify/cli/internal/testing"
)

func testCredentials() map[string]string {
	return map[string]string{
		"client_id":     "test_client_id",
		"client_secret": "test_client_secret",
	}
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func authedService(t *testing.T) *SpotifyService {
	t.Helper()
	srv, err := NewSpotifyService(testCredentials())
	if err != nil {
		t.Fatalf("failed to create service: %v", err)
	}
	if err := srv.Authenticate(context.Background(), map[string]string{"access_token": "tok"}); err != nil {
		t.Fatalf("failed to authenticate: %v", err)
	}
	return srv
}

func TestSpotifyService(t *testing.T) {
	t.Run("NewSpotifyService", func(t *testing.T) {
		t.Run("With Valid Credentials", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv == nil {
				t.Fatal("expected service to be created")
			}
			if srv.Name() != "Spotify" {
				t.Errorf("expected service name 'Spotify', got %s", srv.Name())
			}
		})

		t.Run("Missing Client ID", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_secret": "s"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Missing Client Secret", func(t *testing.T) {
			_, err := NewSpotifyService(map[string]string{"client_id": "c"})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})

		t.Run("Default Redirect URI", func(t *testing.T) {
			srv, err := NewSpotifyService(testCredentials())
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if srv.config.RedirectURL != "http://localhost:3000/callback" {
				t.Errorf("expected default redirect URI, got %s", srv.config.RedirectURL)
			}
		})
	})

	t.Run("Get AuthURL", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		authURL := srv.GetAuthURL("test_state")
		if !strings.Contains(authURL, "accounts.spotify.com") {
			t.Error("auth URL should contain Spotify domain")
		}
		if !strings.Contains(authURL, "test_client_id") {
			t.Error("auth URL should contain client_id")
		}
		if !strings.Contains(authURL, "test_state") {
			t.Error("auth URL should contain state")
		}
		if !strings.Contains(authURL, "user-follow-read") {
			t.Error("auth URL should request the follow scope")
		}
	})

	t.Run("Authenticate", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		t.Run("With Access Token", func(t *testing.T) {
			err := srv.Authenticate(context.Background(), map[string]string{"access_token": "test_access_token"})
			if err != nil {
				t.Errorf("expected no error with access token, got %v", err)
			}
			if srv.token == nil || srv.token.AccessToken != "test_access_token" {
				t.Error("expected token to be installed")
			}
		})

		t.Run("Missing Credentials", func(t *testing.T) {
			err := srv.Authenticate(context.Background(), map[string]string{})
			if !errors.Is(err, shared.ErrMissingCredentials) {
				t.Errorf("expected ErrMissingCredentials, got %v", err)
			}
		})
	})

	t.Run("Unauthenticated Request", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		_, err = srv.TopArtists(context.Background(), models.ShortTerm, 20)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("TopArtists", func(t *testing.T) {
		srv := authedService(t)
		body := `{"items":[
			{"id":"a1","name":"Artist One","genres":["indie rock"],"popularity":70,"followers":{"total":1000}},
			{"id":"a2","name":"Artist Two","genres":["house"],"popularity":50,"followers":{"total":200}},
			{"id":"","name":"dropped"}
		]}`
		srv.SetHTTPClient(&http.Client{Transport: itesting.NewMockRoundTripper(jsonResponse(200, body), nil)})

		artists, err := srv.TopArtists(context.Background(), models.ShortTerm, 20)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != 2 {
			t.Fatalf("expected 2 artists, got %d", len(artists))
		}
		if artists[0].Name != "Artist One" || artists[0].Followers != 1000 {
			t.Errorf("unexpected first artist: %+v", artists[0])
		}
		if artists[1].Genres[0] != "house" {
			t.Errorf("unexpected genres: %v", artists[1].Genres)
		}
	})

	t.Run("FollowedArtists Pagination", func(t *testing.T) {
		srv := authedService(t)

		// full first page with a cursor, short second page
		var firstItems []string
		for i := 0; i < spotifyPageLimit; i++ {
			firstItems = append(firstItems, `{"id":"p1-`+string(rune('a'+i%26))+string(rune('0'+i/26))+`","name":"x"}`)
		}
		first := `{"artists":{"items":[` + strings.Join(firstItems, ",") + `],"cursors":{"after":"cur1"}}}`
		second := `{"artists":{"items":[{"id":"last","name":"Last"}],"cursors":{"after":null}}}`

		transport := &itesting.SequenceRoundTripper{Responses: []*http.Response{
			jsonResponse(200, first),
			jsonResponse(200, second),
		}}
		srv.SetHTTPClient(&http.Client{Transport: transport})

		artists, err := srv.FollowedArtists(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(artists) != spotifyPageLimit+1 {
			t.Fatalf("expected %d artists, got %d", spotifyPageLimit+1, len(artists))
		}
		if len(transport.Requests) != 2 {
			t.Fatalf("expected 2 requests, got %d", len(transport.Requests))
		}
		if after := transport.Requests[1].URL.Query().Get("after"); after != "cur1" {
			t.Errorf("expected second page to carry cursor, got %q", after)
		}
	})

	t.Run("FollowedArtists Partial On Page Error", func(t *testing.T) {
		srv := authedService(t)

		var items []string
		for i := 0; i < spotifyPageLimit; i++ {
			items = append(items, `{"id":"id`+string(rune('a'+i%26))+string(rune('0'+i/26))+`","name":"x"}`)
		}
		first := `{"artists":{"items":[` + strings.Join(items, ",") + `],"cursors":{"after":"cur1"}}}`

		transport := &itesting.SequenceRoundTripper{Responses: []*http.Response{
			jsonResponse(200, first),
			jsonResponse(500, `{"error":"boom"}`),
		}}
		srv.SetHTTPClient(&http.Client{Transport: transport})

		artists, err := srv.FollowedArtists(context.Background())
		if err == nil {
			t.Fatal("expected error from failed page")
		}
		if len(artists) != spotifyPageLimit {
			t.Errorf("expected partial results from first page, got %d artists", len(artists))
		}
	})

	t.Run("ArtistReleases", func(t *testing.T) {
		srv := authedService(t)
		body := `{"items":[
			{"id":"r1","name":"New Album","album_group":"album","album_type":"album","release_date":"2026-08-21","total_tracks":10,
			 "artists":[{"id":"other","name":"Other Artist"}],
			 "external_urls":{"spotify":"https://open.spotify.com/album/r1"}},
			{"id":"r2","name":"No Credits","album_type":"album","release_date":"2026-08","artists":[]}
		]}`
		srv.SetHTTPClient(&http.Client{Transport: itesting.NewMockRoundTripper(jsonResponse(200, body), nil)})

		rels, err := srv.ArtistReleases(context.Background(), "queried", "album", 50)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rels) != 2 {
			t.Fatalf("expected 2 releases, got %d", len(rels))
		}
		if rels[0].ArtistID != "other" || rels[0].ArtistName != "Other Artist" {
			t.Errorf("expected credited artist from payload, got %+v", rels[0])
		}
		if rels[1].ArtistID != "queried" {
			t.Errorf("expected fallback to queried artist, got %q", rels[1].ArtistID)
		}
		if rels[1].AlbumType != "album" {
			t.Errorf("expected missing album_group to fall back to the requested group, got %q", rels[1].AlbumType)
		}
		if rels[0].ExternalURL == "" {
			t.Error("expected external URL to be carried over")
		}
	})

	t.Run("ArtistReleases Appears On", func(t *testing.T) {
		srv := authedService(t)
		// the containing album's album_type stays "album" even though the
		// followed artist is only featured on it
		body := `{"items":[
			{"id":"g1","name":"Guest Spot","album_group":"appears_on","album_type":"album","release_date":"2026-08-21",
			 "artists":[{"id":"host","name":"Host Artist"}]}
		]}`
		srv.SetHTTPClient(&http.Client{Transport: itesting.NewMockRoundTripper(jsonResponse(200, body), nil)})

		rels, err := srv.ArtistReleases(context.Background(), "followed", "appears_on", 50)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(rels) != 1 {
			t.Fatalf("expected 1 release, got %d", len(rels))
		}
		if rels[0].AlbumType != "appears_on" {
			t.Errorf("expected the appearance to keep its group, got %q", rels[0].AlbumType)
		}
		if rels[0].ArtistID != "host" || rels[0].ArtistName != "Host Artist" {
			t.Errorf("expected the credited artist, got %+v", rels[0])
		}
	})

	t.Run("ArtistReleases Missing ID", func(t *testing.T) {
		srv := authedService(t)
		_, err := srv.ArtistReleases(context.Background(), "", "album", 50)
		if !errors.Is(err, shared.ErrMissingArgument) {
			t.Errorf("expected ErrMissingArgument, got %v", err)
		}
	})

	t.Run("Error Mapping", func(t *testing.T) {
		tests := []struct {
			name   string
			status int
			want   error
		}{
			{"Unauthorized", 401, shared.ErrTokenExpired},
			{"Rate Limited", 429, shared.ErrRateLimited},
			{"Server Error", 503, shared.ErrAPIRequest},
		}

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				srv := authedService(t)
				srv.SetHTTPClient(&http.Client{Transport: itesting.NewMockRoundTripper(jsonResponse(tc.status, `{}`), nil)})

				_, err := srv.TopArtists(context.Background(), models.LongTerm, 10)
				if !errors.Is(err, tc.want) {
					t.Errorf("status %d: expected %v, got %v", tc.status, tc.want, err)
				}
			})
		}
	})

	t.Run("Service Interface", func(t *testing.T) {
		srv, err := NewSpotifyService(testCredentials())
		if err != nil {
			t.Fatalf("failed to create service: %v", err)
		}

		var _ StreamingService = srv
		var _ OAuthService = srv
	})
}
