package releases

import (
	"sort"
	"time"

	"github.com/xomify/cli/internal/models"
)

// Window is the date window a merged release list is trimmed to: Lookback
// days behind now for recent releases plus Lookahead days forward for
// upcoming ones.
type Window struct {
	Lookback  int
	Lookahead int
}

// DefaultWindow mirrors the config defaults (90 days back, 30 forward).
var DefaultWindow = Window{Lookback: 90, Lookahead: 30}

// Merge flattens raw fan-out responses into the final release list:
// de-duplicates by ID (first occurrence wins), parses each release date,
// drops entries outside the window, and sorts descending by date. Merge is
// idempotent: re-applying it to its own output returns the same list, which
// is what makes the fan-out's unspecified completion order irrelevant.
func Merge(raw []models.Release, window Window, now time.Time) []models.Release {
	earliest := now.AddDate(0, 0, -window.Lookback)
	latest := now.AddDate(0, 0, window.Lookahead)

	seen := make(map[string]struct{}, len(raw))
	merged := make([]models.Release, 0, len(raw))

	for _, release := range raw {
		if release.ID == "" {
			continue
		}
		if _, dup := seen[release.ID]; dup {
			continue
		}
		seen[release.ID] = struct{}{}

		parsed, err := ParseReleaseDate(release.ReleaseDate)
		if err != nil {
			// no usable date, cannot be windowed
			continue
		}
		release.ParsedDate = parsed

		if parsed.Before(earliest) || parsed.After(latest) {
			continue
		}

		merged = append(merged, release)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].ParsedDate.After(merged[j].ParsedDate)
	})

	return merged
}

// Stats derives the summary counts for a merged release list.
func Stats(list []models.Release, now time.Time) models.ReleaseStats {
	stats := models.ReleaseStats{Total: len(list)}
	artists := make(map[string]struct{})

	for _, release := range list {
		switch release.AlbumType {
		case models.AlbumTypeAlbum:
			stats.Albums++
		case models.AlbumTypeSingle:
			stats.Singles++
		}
		if release.Upcoming(now) {
			stats.Upcoming++
		}
		if release.ArtistID != "" {
			artists[release.ArtistID] = struct{}{}
		}
	}

	stats.ArtistsWithReleases = len(artists)
	return stats
}
