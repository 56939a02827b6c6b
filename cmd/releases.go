package main

import (
	"context"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"
	"github.com/xomify/cli/internal/calendar"
	"github.com/xomify/cli/internal/formatter"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/shared"
	"github.com/xomify/cli/internal/tasks"
)

// ReleasesLoad fetches and prints the merged release radar.
func (r *Runner) ReleasesLoad(ctx context.Context, cmd *cli.Command) error {
	result, err := r.loadRadar(ctx, cmd)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Releases, cmd.Bool("pretty"))
	}

	title := fmt.Sprintf("Release Radar (%d releases)", result.Stats.Total)
	if result.FromCache {
		title += " [cached]"
	}
	if result.Partial {
		title += " [partial]"
	}
	r.writePlainHeader(title)

	for i, release := range result.Releases {
		r.writePlain("%3d. %s - %s [%s] %s\n", i+1, release.ArtistName, release.Name, release.AlbumType, release.ReleaseDate)
	}

	r.writePlain("\nAlbums: %d  Singles: %d  Upcoming: %d  Artists: %d\n",
		result.Stats.Albums, result.Stats.Singles, result.Stats.Upcoming, result.Stats.ArtistsWithReleases)

	return nil
}

// ReleasesWeeks groups the radar into Saturday-to-Friday weeks.
func (r *Runner) ReleasesWeeks(ctx context.Context, cmd *cli.Command) error {
	count := cmd.Int("count")

	result, err := r.loadRadar(ctx, cmd)
	if err != nil {
		return err
	}

	now := time.Now()
	buckets := calendar.BucketByWeek(result.Releases, now)

	if cmd.Bool("json") {
		return r.writeJSON(buckets, true)
	}

	byKey := make(map[string]models.WeekBucket, len(buckets))
	for _, bucket := range buckets {
		byKey[bucket.WeekKey] = bucket
	}

	options := calendar.WeekOptions(now, count)

	r.writePlainHeader(fmt.Sprintf("Release Weeks (%d releases)", result.Stats.Total))

	// upcoming releases land in weeks after the current one
	for i := len(buckets) - 1; i >= 0; i-- {
		if buckets[i].Start.After(options[0].Start) {
			r.writeWeek("Upcoming", buckets[i])
		}
	}

	for _, option := range options {
		bucket, ok := byKey[option.WeekKey]
		if !ok {
			r.writePlain("\n%s (%s - %s)  no releases\n",
				option.Label, option.Start.Format("Jan 2"), option.End.Format("Jan 2"))
			continue
		}
		r.writeWeek(option.Label, bucket)
	}

	return nil
}

func (r *Runner) writeWeek(label string, bucket models.WeekBucket) {
	r.writePlain("\n%s (%s - %s)  %d releases\n",
		label, bucket.Start.Format("Jan 2"), bucket.End.Format("Jan 2"), bucket.Stats.Total)
	for _, release := range bucket.Releases {
		r.writePlain("  %s - %s [%s] %s\n", release.ArtistName, release.Name, release.AlbumType, release.ReleaseDate)
	}
}

// ReleasesCalendar renders a month grid with releases on their exact dates.
func (r *Runner) ReleasesCalendar(ctx context.Context, cmd *cli.Command) error {
	now := time.Now()
	year, month := now.Year(), now.Month()

	if monthFlag := cmd.String("month"); monthFlag != "" {
		parsed, err := time.Parse("2006-01", monthFlag)
		if err != nil {
			return fmt.Errorf("%w: month must be formatted YYYY-MM", shared.ErrInvalidFlag)
		}
		year, month = parsed.Year(), parsed.Month()
	}

	result, err := r.loadRadar(ctx, cmd)
	if err != nil {
		return err
	}

	cells := calendar.MonthGrid(year, month, result.Releases, now)

	r.writePlainHeader(fmt.Sprintf("%s %d", month, year))
	r.writePlain(" Su  Mo  Tu  We  Th  Fr  Sa\n")

	for i, cell := range cells {
		if !cell.InMonth {
			r.writePlain("  . ")
		} else if len(cell.Releases) > 0 {
			r.writePlain("%2d* ", cell.Day)
		} else {
			r.writePlain("%2d  ", cell.Day)
		}
		if (i+1)%7 == 0 {
			r.writePlain("\n")
		}
	}

	for _, cell := range cells {
		if !cell.InMonth || len(cell.Releases) == 0 {
			continue
		}
		r.writePlain("\n%s:\n", cell.Date.Format("Jan 2"))
		for _, release := range cell.Releases {
			r.writePlain("  %s - %s [%s]\n", release.ArtistName, release.Name, release.AlbumType)
		}
	}

	return nil
}

// ReleasesExport writes the radar to csv, markdown, or text files.
func (r *Runner) ReleasesExport(ctx context.Context, cmd *cli.Command) error {
	format := cmd.String("format")
	output := cmd.String("output")

	result, err := r.loadRadar(ctx, cmd)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		written, err := formatter.WriteCSVExport(result.Releases, result.Stats, output)
		if err != nil {
			return fmt.Errorf("failed to export csv: %w", err)
		}
		r.writePlain("✓ Releases exported to %s\n", written.ReleasesFile)
		r.writePlain("✓ Stats exported to %s\n", written.StatsFile)
	case "markdown", "md":
		written, err := formatter.WriteMarkdownExport(result.Releases, output, time.Now())
		if err != nil {
			return fmt.Errorf("failed to export markdown: %w", err)
		}
		r.writePlain("✓ Releases exported to %s\n", written)
	case "text", "txt":
		written, err := formatter.WriteTextExport(result.Releases, output)
		if err != nil {
			return fmt.Errorf("failed to export text: %w", err)
		}
		r.writePlain("✓ Releases exported to %s\n", written)
	default:
		return fmt.Errorf("%w: format must be csv, markdown, or text", shared.ErrInvalidFlag)
	}

	return nil
}

// loadRadar runs the radar engine with progress logged to the runner's
// logger, retrying once after reauthentication on token expiry.
func (r *Runner) loadRadar(ctx context.Context, cmd *cli.Command) (*tasks.RadarResult, error) {
	if r.engine == nil {
		return nil, fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	forceRefresh := cmd.Bool("refresh")

	result, err := r.runEngine(ctx, forceRefresh)
	if err != nil {
		if reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd); reauthed {
			if authErr != nil {
				return nil, authErr
			}
			if result, err = r.runEngine(ctx, forceRefresh); err != nil {
				return nil, fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
			}
		} else {
			return nil, err
		}
	}

	return result, nil
}

func (r *Runner) runEngine(ctx context.Context, forceRefresh bool) (*tasks.RadarResult, error) {
	progress := make(chan tasks.ProgressUpdate, 50)
	drained := make(chan struct{})

	go func() {
		defer close(drained)
		for update := range progress {
			r.logger.Info(update.Message, "phase", update.Phase, "percent", update.Percent())
		}
	}()

	result, err := r.engine.LoadReleases(ctx, progress, forceRefresh)
	close(progress)
	<-drained

	return result, err
}
