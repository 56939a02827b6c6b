package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v3"
	"github.com/xomify/cli/internal/formatter"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/shared"
)

// GenresTop computes the weighted genre ranking for a listening term.
func (r *Runner) GenresTop(ctx context.Context, cmd *cli.Command) error {
	term, err := r.termFlag(cmd)
	if err != nil {
		return err
	}

	items, err := r.topGenres(ctx, cmd, term)
	if err != nil {
		return err
	}

	if output := cmd.String("output"); output != "" {
		return r.exportGenres(items, term, output)
	}

	if cmd.Bool("json") {
		return r.writeJSON(items, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Top Genres (%s)", term))
	for i, item := range items {
		bar := strings.Repeat("█", item.Percentage/10)
		r.writePlain("%2d. %-24s %4d  %-10s %d%%\n", i+1, item.Name, item.Score, bar, item.Percentage)
	}
	r.writePlain("\n%d genres from your top artists\n", len(items))

	return nil
}

// GenresGrouped rolls the genre ranking up into parent categories.
func (r *Runner) GenresGrouped(ctx context.Context, cmd *cli.Command) error {
	term, err := r.termFlag(cmd)
	if err != nil {
		return err
	}

	if !cmd.Bool("refresh") {
		if groups, ok := r.aggregator.CachedGroupedGenres(term); ok {
			r.logger.Debug("using cached genre groups", "term", term)
			return r.printGroups(cmd, term, groups)
		}
	}

	items, err := r.topGenres(ctx, cmd, term)
	if err != nil {
		return err
	}

	groups := r.aggregator.GroupedGenres(items, term)
	return r.printGroups(cmd, term, groups)
}

func (r *Runner) printGroups(cmd *cli.Command, term models.Term, groups []models.GenreGroup) error {
	if cmd.Bool("json") {
		return r.writeJSON(groups, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Genre Groups (%s)", term))
	for i, group := range groups {
		r.writePlain("%2d. %-16s %4d  %d%%\n", i+1, group.Name, group.Score, group.Percentage)
		if len(group.Genres) > 0 {
			r.writePlain("    %s\n", strings.Join(group.Genres, ", "))
		}
	}

	return nil
}

// topGenres returns the weighted genre ranking, from cache when fresh unless
// --refresh is set.
func (r *Runner) topGenres(ctx context.Context, cmd *cli.Command, term models.Term) ([]models.GenreItem, error) {
	if !cmd.Bool("refresh") {
		if items, ok := r.aggregator.CachedTopGenres(term); ok {
			r.logger.Debug("using cached top genres", "term", term)
			return items, nil
		}
	}

	if r.spotify == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	r.logger.Infof("fetching top %v artists for term %v", limit, term)

	artists, err := r.spotify.TopArtists(ctx, term, limit)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return nil, authErr
			}
			if artists, err = r.spotify.TopArtists(ctx, term, limit); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	return r.aggregator.TopGenres(artists, term), nil
}

func (r *Runner) termFlag(cmd *cli.Command) (models.Term, error) {
	term := cmd.String("term")
	if !models.ValidTerm(term) {
		return "", fmt.Errorf("%w: term must be short_term, medium_term, or long_term", shared.ErrInvalidFlag)
	}
	return models.Term(term), nil
}

func (r *Runner) exportGenres(items []models.GenreItem, term models.Term, output string) error {
	var data []byte
	var err error

	switch filepath.Ext(output) {
	case ".csv":
		data, err = formatter.ExportGenresToCSV(items)
	case ".md":
		data, err = formatter.ExportGenresToMarkdown(items, term)
	default:
		return fmt.Errorf("%w: output extension must be .csv or .md", shared.ErrInvalidFlag)
	}
	if err != nil {
		return fmt.Errorf("failed to format genres: %w", err)
	}

	if err := os.WriteFile(output, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	r.logger.Infof("genres exported to %v", output)
	return r.writePlain("✓ Genres exported to %s\n", output)
}
