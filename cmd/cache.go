package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/xomify/cli/internal/cache"
	"github.com/xomify/cli/internal/models"
)

// CacheStatus shows freshness of the well-known cache entries.
func (r *Runner) CacheStatus(ctx context.Context, cmd *cli.Command) error {
	entries := []struct {
		label string
		key   string
		ttl   time.Duration
	}{
		{"Release radar", cache.KeyReleaseRadar, cache.TTLReleases},
		{"Followed artists", cache.KeyFollowing, cache.TTLFollowing},
		{"Top genres (short)", cache.PrefixTopGenres + string(models.ShortTerm), cache.TTLGenres},
		{"Top genres (medium)", cache.PrefixTopGenres + string(models.MediumTerm), cache.TTLGenres},
		{"Top genres (long)", cache.PrefixTopGenres + string(models.LongTerm), cache.TTLGenres},
		{"Genre groups (short)", cache.PrefixGenreGroups + string(models.ShortTerm), cache.TTLGenres},
		{"Genre groups (medium)", cache.PrefixGenreGroups + string(models.MediumTerm), cache.TTLGenres},
		{"Genre groups (long)", cache.PrefixGenreGroups + string(models.LongTerm), cache.TTLGenres},
	}

	r.writePlainHeader("Cache Status")

	for _, entry := range entries {
		var raw json.RawMessage
		if r.cache.Get(entry.key, entry.ttl, &raw) {
			r.writePlain("✓ %-22s fresh\n", entry.label)
		} else {
			r.writePlain("✗ %-22s empty or expired\n", entry.label)
		}
	}

	return nil
}

// CacheClear removes cached entries, optionally restricted to a key prefix.
func (r *Runner) CacheClear(ctx context.Context, cmd *cli.Command) error {
	prefix := cmd.String("prefix")

	if prefix != "" {
		if err := r.cache.ClearPrefix(prefix); err != nil {
			return fmt.Errorf("failed to clear cache prefix: %w", err)
		}
		r.logger.Infof("cleared cache entries with prefix %v", prefix)
		return r.writePlain("✓ Cleared cache entries with prefix %s\n", prefix)
	}

	for _, key := range []string{cache.KeyReleaseRadar, cache.KeyFollowing} {
		if err := r.cache.Clear(key); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}
	for _, p := range []string{cache.PrefixTopGenres, cache.PrefixGenreGroups, cache.PrefixFriendStats, cache.PrefixGroupDetails} {
		if err := r.cache.ClearPrefix(p); err != nil {
			return fmt.Errorf("failed to clear cache: %w", err)
		}
	}

	r.logger.Info("cache cleared")
	return r.writePlain("✓ Cache cleared\n")
}
