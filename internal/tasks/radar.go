// package tasks implements the release radar refresh pipeline.
//
// The core abstraction is RadarEngine, which fans requests out across the
// followed-artist graph, merges the responses into a single windowed release
// list, and keeps the local cache and the companion backend in sync.
// Operations emit progress updates via channels for non-blocking status
// reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/releases"
	"github.com/xomify/cli/internal/services"
	"github.com/xomify/cli/internal/shared"
	"golang.org/x/time/rate"
)

// Release types fetched per artist. One request per type: the combined form
// of the artist-albums endpoint groups by type instead of date upstream.
var includeGroups = []string{
	models.AlbumTypeAlbum,
	models.AlbumTypeSingle,
	models.AlbumTypeAppearsOn,
}

const fetchLimit = 50

// BackendSyncer uploads merged radar snapshots. Abstracted for testing and
// so the radar works with no backend configured.
type BackendSyncer interface {
	SyncReleases(ctx context.Context, payload []byte) error
}

// RadarResult is the outcome of a radar refresh.
type RadarResult struct {
	Releases  []models.Release    // Merged, windowed, newest first
	Stats     models.ReleaseStats // Summary counts
	Artists   int                 // Followed artists the fan-out covered
	FromCache bool                // Served from the local cache
	Partial   bool                // Artist enumeration did not complete
}

// RadarEngine orchestrates the release radar refresh: enumerate followed
// artists, fan out release fetches in rate-limited batches, merge, cache,
// and sync.
type RadarEngine struct {
	service services.StreamingService
	cache   *cache.Cache
	backend BackendSyncer
	limiter *rate.Limiter
	window  releases.Window
	batch   int
	log     cache.Logger
	now     func() time.Time
}

// RadarOption configures a RadarEngine.
type RadarOption func(*RadarEngine)

// WithBackend attaches a backend syncer. Sync failures are logged, never fatal.
func WithBackend(backend BackendSyncer) RadarOption {
	return func(e *RadarEngine) { e.backend = backend }
}

// WithWindow overrides the release date window.
func WithWindow(window releases.Window) RadarOption {
	return func(e *RadarEngine) { e.window = window }
}

// WithBatch sets the artists per fan-out batch and the delay between batches.
func WithBatch(size int, delay time.Duration) RadarOption {
	return func(e *RadarEngine) {
		if size > 0 {
			e.batch = size
		}
		if delay > 0 {
			e.limiter = rate.NewLimiter(rate.Every(delay), 1)
		}
	}
}

// WithRadarLogger attaches a logger for non-fatal failures.
func WithRadarLogger(log cache.Logger) RadarOption {
	return func(e *RadarEngine) { e.log = log }
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) RadarOption {
	return func(e *RadarEngine) { e.now = now }
}

// NewRadarEngine creates a RadarEngine over a streaming service and a cache.
func NewRadarEngine(service services.StreamingService, store *cache.Cache, opts ...RadarOption) *RadarEngine {
	engine := &RadarEngine{
		service: service,
		cache:   store,
		limiter: rate.NewLimiter(rate.Every(250*time.Millisecond), 1),
		window:  releases.DefaultWindow,
		batch:   5,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(engine)
	}
	return engine
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *RadarEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func (e *RadarEngine) warn(msg string, kv ...any) {
	if e.log != nil {
		e.log.Warn(msg, kv...)
	}
}

// LoadReleases returns the current radar, from cache when a fresh snapshot
// exists and forceRefresh is false, otherwise by running the full fan-out.
func (e *RadarEngine) LoadReleases(ctx context.Context, progress chan<- ProgressUpdate, forceRefresh bool) (*RadarResult, error) {
	if e.service == nil {
		return nil, fmt.Errorf("%w: streaming service not initialized", shared.ErrServiceUnavailable)
	}

	if !forceRefresh && e.cache != nil {
		var cached []models.Release
		if e.cache.Get(cache.KeyReleaseRadar, cache.TTLReleases, &cached) {
			result := &RadarResult{
				Releases:  cached,
				Stats:     releases.Stats(cached, e.now()),
				FromCache: true,
			}
			result.Artists = result.Stats.ArtistsWithReleases
			e.sendProgress(progress, doneUpdate(len(cached)))
			return result, nil
		}
	}

	e.sendProgress(progress, fetchFollowingUpdate())

	artists, err := e.followedArtists(ctx)
	partial := false
	if err != nil {
		if len(artists) == 0 {
			return nil, fmt.Errorf("failed to enumerate followed artists: %w", err)
		}
		// partial artist set is still a useful radar
		partial = true
		e.warn("followed-artist enumeration incomplete", "artists", len(artists), "error", err)
	}
	e.sendProgress(progress, followingFetchedUpdate(len(artists), partial))

	raw, err := e.fanOut(ctx, artists, progress)
	if err != nil {
		return nil, err
	}

	e.sendProgress(progress, mergeReleasesUpdate(len(raw)))
	now := e.now()
	merged := releases.Merge(raw, e.window, now)

	result := &RadarResult{
		Releases: merged,
		Stats:    releases.Stats(merged, now),
		Artists:  len(artists),
		Partial:  partial,
	}

	if e.cache != nil {
		e.cache.Set(cache.KeyReleaseRadar, merged)
	}

	e.syncBackend(ctx, progress, merged)
	e.sendProgress(progress, doneUpdate(len(merged)))
	return result, nil
}

// followedArtists enumerates the followed-artist graph, falling back to the
// cached set when the API fails entirely.
func (e *RadarEngine) followedArtists(ctx context.Context) ([]models.Artist, error) {
	artists, err := e.service.FollowedArtists(ctx)
	if err == nil || len(artists) > 0 {
		if err == nil && e.cache != nil {
			e.cache.Set(cache.KeyFollowing, artists)
		}
		return artists, err
	}

	if e.cache != nil {
		var cached []models.Artist
		if e.cache.Get(cache.KeyFollowing, cache.TTLFollowing, &cached) && len(cached) > 0 {
			e.warn("using cached followed artists", "artists", len(cached), "error", err)
			return cached, err
		}
	}

	return nil, err
}

// fanOut fetches every release type for every artist in rate-limited
// batches. A failed request contributes nothing; only context cancellation
// aborts the fan-out.
func (e *RadarEngine) fanOut(ctx context.Context, artists []models.Artist, progress chan<- ProgressUpdate) ([]models.Release, error) {
	var mu sync.Mutex
	var raw []models.Release

	total := len(artists)
	for start := 0; start < total; start += e.batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if start > 0 && e.limiter != nil {
			if err := e.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		end := start + e.batch
		if end > total {
			end = total
		}

		var wg sync.WaitGroup
		for _, artist := range artists[start:end] {
			for _, group := range includeGroups {
				wg.Add(1)
				go func(artistID string, group string) {
					defer wg.Done()

					fetched, err := e.service.ArtistReleases(ctx, artistID, group, fetchLimit)
					if err != nil {
						e.warn("release fetch failed", "artist", artistID, "type", group, "error", err)
						return
					}

					mu.Lock()
					raw = append(raw, fetched...)
					mu.Unlock()
				}(artist.ID, group)
			}
		}
		wg.Wait()

		e.sendProgress(progress, fetchReleasesUpdate(end, total))
	}

	return raw, nil
}

// syncBackend uploads the merged list when a backend is configured. Best
// effort: the radar result stands regardless.
func (e *RadarEngine) syncBackend(ctx context.Context, progress chan<- ProgressUpdate, merged []models.Release) {
	if e.backend == nil {
		return
	}

	e.sendProgress(progress, syncBackendUpdate())

	payload, err := shared.MarshalJSON(merged, false)
	if err != nil {
		e.warn("failed to encode radar snapshot", "error", err)
		return
	}
	if err := e.backend.SyncReleases(ctx, payload); err != nil {
		e.warn("backend sync failed", "error", err)
	}
}
