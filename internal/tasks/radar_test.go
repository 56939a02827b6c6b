package tasks

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/releases"
)

// fakeService implements services.StreamingService with function hooks.
type fakeService struct {
	mu           sync.Mutex
	followed     func(ctx context.Context) ([]models.Artist, error)
	artistCalls  int
	releasesByID map[string][]models.Release
	failArtist   string
}

func (f *fakeService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return nil
}

func (f *fakeService) TopArtists(ctx context.Context, term models.Term, limit int) ([]models.Artist, error) {
	return nil, nil
}

func (f *fakeService) FollowedArtists(ctx context.Context) ([]models.Artist, error) {
	if f.followed != nil {
		return f.followed(ctx)
	}
	return nil, nil
}

func (f *fakeService) ArtistReleases(ctx context.Context, artistID, includeGroup string, limit int) ([]models.Release, error) {
	f.mu.Lock()
	f.artistCalls++
	f.mu.Unlock()

	if artistID == f.failArtist {
		return nil, errors.New("upstream failure")
	}
	if includeGroup != models.AlbumTypeAlbum {
		// only album responses carry data in these fixtures
		return nil, nil
	}
	return f.releasesByID[artistID], nil
}

func (f *fakeService) Name() string { return "fake" }

func (f *fakeService) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.artistCalls
}

type fakeBackend struct {
	payloads [][]byte
	err      error
}

func (b *fakeBackend) SyncReleases(ctx context.Context, payload []byte) error {
	b.payloads = append(b.payloads, payload)
	return b.err
}

var radarNow = time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)

func followedArtists(ids ...string) func(ctx context.Context) ([]models.Artist, error) {
	return func(ctx context.Context) ([]models.Artist, error) {
		artists := make([]models.Artist, len(ids))
		for i, id := range ids {
			artists[i] = models.Artist{ID: id, Name: "Artist " + id}
		}
		return artists, nil
	}
}

func release(id, artistID, date string) models.Release {
	return models.Release{
		ID:          id,
		Name:        "Release " + id,
		AlbumType:   models.AlbumTypeAlbum,
		ReleaseDate: date,
		ArtistID:    artistID,
	}
}

func newTestEngine(svc *fakeService, opts ...RadarOption) (*RadarEngine, *cache.Cache) {
	store := cache.New(cache.NewMemoryStore(), nil)
	opts = append(opts, WithClock(func() time.Time { return radarNow }), WithBatch(2, time.Millisecond))
	return NewRadarEngine(svc, store, opts...), store
}

func TestRadarEngine(t *testing.T) {
	t.Run("Full Refresh", func(t *testing.T) {
		svc := &fakeService{
			followed: followedArtists("a1", "a2", "a3"),
			releasesByID: map[string][]models.Release{
				"a1": {release("r1", "a1", "2026-08-21"), release("r2", "a1", "2026-08-01")},
				"a2": {release("r1", "a1", "2026-08-21"), release("r3", "a2", "2026-07-15")},
				"a3": {release("r4", "a3", "2020-01-01")},
			},
		}
		engine, store := newTestEngine(svc)

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FromCache {
			t.Error("expected fresh fan-out, not a cache hit")
		}
		if result.Partial {
			t.Error("expected complete artist enumeration")
		}
		if result.Artists != 3 {
			t.Errorf("expected 3 artists, got %d", result.Artists)
		}

		// r1 deduplicated, r4 outside the window
		if len(result.Releases) != 3 {
			t.Fatalf("expected 3 releases, got %d", len(result.Releases))
		}
		if result.Releases[0].ID != "r1" {
			t.Errorf("expected newest release first, got %s", result.Releases[0].ID)
		}
		if result.Stats.Albums != 3 || result.Stats.Total != 3 {
			t.Errorf("unexpected stats: %+v", result.Stats)
		}

		// 3 artists x 3 release types
		if svc.calls() != 9 {
			t.Errorf("expected 9 release fetches, got %d", svc.calls())
		}

		var cached []models.Release
		if !store.Get(cache.KeyReleaseRadar, cache.TTLReleases, &cached) {
			t.Error("expected merged list to be cached")
		}
		if len(cached) != 3 {
			t.Errorf("expected 3 cached releases, got %d", len(cached))
		}
	})

	t.Run("Cache Hit", func(t *testing.T) {
		svc := &fakeService{followed: followedArtists("a1")}
		engine, store := newTestEngine(svc)

		store.Set(cache.KeyReleaseRadar, []models.Release{release("r1", "a1", "2026-08-21")})

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !result.FromCache {
			t.Error("expected cache hit")
		}
		if len(result.Releases) != 1 {
			t.Errorf("expected 1 cached release, got %d", len(result.Releases))
		}
		if svc.calls() != 0 {
			t.Errorf("expected no API calls on cache hit, got %d", svc.calls())
		}
	})

	t.Run("Force Refresh Bypasses Cache", func(t *testing.T) {
		svc := &fakeService{
			followed: followedArtists("a1"),
			releasesByID: map[string][]models.Release{
				"a1": {release("r2", "a1", "2026-08-10")},
			},
		}
		engine, store := newTestEngine(svc)
		store.Set(cache.KeyReleaseRadar, []models.Release{release("r1", "a1", "2026-08-21")})

		result, err := engine.LoadReleases(context.Background(), nil, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.FromCache {
			t.Error("expected force refresh to bypass cache")
		}
		if len(result.Releases) != 1 || result.Releases[0].ID != "r2" {
			t.Errorf("expected fresh release list, got %+v", result.Releases)
		}
	})

	t.Run("Partial Following Tolerated", func(t *testing.T) {
		svc := &fakeService{
			followed: func(ctx context.Context) ([]models.Artist, error) {
				return []models.Artist{{ID: "a1"}}, errors.New("page 2 failed")
			},
			releasesByID: map[string][]models.Release{
				"a1": {release("r1", "a1", "2026-08-21")},
			},
		}
		engine, _ := newTestEngine(svc)

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected partial result, got error %v", err)
		}
		if !result.Partial {
			t.Error("expected result to be flagged partial")
		}
		if len(result.Releases) != 1 {
			t.Errorf("expected 1 release, got %d", len(result.Releases))
		}
	})

	t.Run("Empty Following Fails", func(t *testing.T) {
		svc := &fakeService{
			followed: func(ctx context.Context) ([]models.Artist, error) {
				return nil, errors.New("boom")
			},
		}
		engine, _ := newTestEngine(svc)

		if _, err := engine.LoadReleases(context.Background(), nil, false); err == nil {
			t.Error("expected error when no artists could be enumerated")
		}
	})

	t.Run("Cached Following Fallback", func(t *testing.T) {
		svc := &fakeService{
			followed: func(ctx context.Context) ([]models.Artist, error) {
				return nil, errors.New("api down")
			},
			releasesByID: map[string][]models.Release{
				"a1": {release("r1", "a1", "2026-08-21")},
			},
		}
		engine, store := newTestEngine(svc)
		store.Set(cache.KeyFollowing, []models.Artist{{ID: "a1", Name: "Artist a1"}})

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected cached-artist fallback, got %v", err)
		}
		if !result.Partial {
			t.Error("expected fallback result to be flagged partial")
		}
		if len(result.Releases) != 1 {
			t.Errorf("expected 1 release, got %d", len(result.Releases))
		}
	})

	t.Run("Per Artist Failure Tolerated", func(t *testing.T) {
		svc := &fakeService{
			followed:   followedArtists("bad", "good"),
			failArtist: "bad",
			releasesByID: map[string][]models.Release{
				"good": {release("r1", "good", "2026-08-21")},
			},
		}
		engine, _ := newTestEngine(svc)

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Releases) != 1 || result.Releases[0].ArtistID != "good" {
			t.Errorf("expected failing artist to contribute nothing, got %+v", result.Releases)
		}
	})

	t.Run("Context Cancellation", func(t *testing.T) {
		svc := &fakeService{followed: followedArtists("a1", "a2", "a3", "a4")}
		engine, _ := newTestEngine(svc)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := engine.LoadReleases(ctx, nil, false); !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	})

	t.Run("Backend Sync", func(t *testing.T) {
		t.Run("Uploads Snapshot", func(t *testing.T) {
			backend := &fakeBackend{}
			svc := &fakeService{
				followed: followedArtists("a1"),
				releasesByID: map[string][]models.Release{
					"a1": {release("r1", "a1", "2026-08-21")},
				},
			}
			engine, _ := newTestEngine(svc, WithBackend(backend))

			if _, err := engine.LoadReleases(context.Background(), nil, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(backend.payloads) != 1 {
				t.Fatalf("expected 1 sync upload, got %d", len(backend.payloads))
			}
		})

		t.Run("Failure Is Not Fatal", func(t *testing.T) {
			backend := &fakeBackend{err: errors.New("backend down")}
			svc := &fakeService{
				followed: followedArtists("a1"),
				releasesByID: map[string][]models.Release{
					"a1": {release("r1", "a1", "2026-08-21")},
				},
			}
			engine, _ := newTestEngine(svc, WithBackend(backend))

			result, err := engine.LoadReleases(context.Background(), nil, false)
			if err != nil {
				t.Fatalf("expected sync failure to be swallowed, got %v", err)
			}
			if len(result.Releases) != 1 {
				t.Errorf("expected radar result despite sync failure, got %d releases", len(result.Releases))
			}
		})
	})

	t.Run("Progress Updates", func(t *testing.T) {
		svc := &fakeService{
			followed: followedArtists("a1", "a2", "a3"),
			releasesByID: map[string][]models.Release{
				"a1": {release("r1", "a1", "2026-08-21")},
			},
		}
		engine, _ := newTestEngine(svc)

		progress := make(chan ProgressUpdate, 64)
		if _, err := engine.LoadReleases(context.Background(), progress, false); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		seen := map[Phase]bool{}
		for update := range progress {
			seen[update.Phase] = true
			if update.Percent() < 0 || update.Percent() > 100 {
				t.Errorf("percent out of range: %d", update.Percent())
			}
		}
		for _, phase := range []Phase{FetchFollowing, FetchReleases, MergeReleases, Done} {
			if !seen[phase] {
				t.Errorf("expected a %s update", phase)
			}
		}
	})

	t.Run("Window Option", func(t *testing.T) {
		svc := &fakeService{
			followed: followedArtists("a1"),
			releasesByID: map[string][]models.Release{
				"a1": {release("r1", "a1", "2026-08-21"), release("r2", "a1", "2026-05-01")},
			},
		}
		engine, _ := newTestEngine(svc, WithWindow(releases.Window{Lookback: 7, Lookahead: 7}))

		result, err := engine.LoadReleases(context.Background(), nil, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(result.Releases) != 1 || result.Releases[0].ID != "r1" {
			t.Errorf("expected tight window to drop old release, got %+v", result.Releases)
		}
	})
}
