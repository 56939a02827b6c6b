// Package calendar provides the Saturday-anchored week identifiers and
// month-grid structures used by the release radar. New music drops on
// Fridays, so radar weeks run Saturday through Friday rather than following
// ISO weeks directly.
package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/xomify/cli/internal/models"
)

// DefaultWeekOptionCount is the number of past weeks offered in UI filters.
const DefaultWeekOptionCount = 8

// WeekOption describes one selectable week for list filters.
type WeekOption struct {
	WeekKey string    `json:"week_key"`
	Label   string    `json:"label"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

// dateOnly truncates a time to its calendar date in UTC, so day arithmetic
// is immune to DST shifts in the caller's location.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// weekStart returns the most recent Saturday on or before t.
func weekStart(t time.Time) time.Time {
	d := dateOnly(t)
	daysSinceSaturday := (int(d.Weekday()) + 1) % 7
	return d.AddDate(0, 0, -daysSinceSaturday)
}

// isoWeekOneMonday returns the Monday of ISO week 1 for the given year
// (the week containing January 4th).
func isoWeekOneMonday(year int) time.Time {
	jan4 := time.Date(year, time.January, 4, 0, 0, 0, 0, time.UTC)
	offset := (int(jan4.Weekday()) + 6) % 7
	return jan4.AddDate(0, 0, -offset)
}

// weekAnchor is the Saturday two days before ISO week 1's Monday: the start
// of the year's first radar week.
func weekAnchor(year int) time.Time {
	return isoWeekOneMonday(year).AddDate(0, 0, -2)
}

// WeekKey returns the stable "{year}-{week}" identifier for the
// Saturday-to-Friday window containing d. The year is the year of the
// window's Saturday; the week number counts Saturdays from the year's
// anchor, so WeekDateRange inverts it exactly.
func WeekKey(d time.Time) string {
	sat := weekStart(d)
	year := sat.Year()
	week := int(sat.Sub(weekAnchor(year)).Hours()/(24*7)) + 1
	return fmt.Sprintf("%d-%d", year, week)
}

// WeekDateRange reconstructs the Saturday start and Friday end of a week key.
func WeekDateRange(weekKey string) (start, end time.Time, err error) {
	var year, week int
	if _, err := fmt.Sscanf(weekKey, "%d-%d", &year, &week); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed week key %q: %w", weekKey, err)
	}
	if week < 1 || week > 54 {
		return time.Time{}, time.Time{}, fmt.Errorf("malformed week key %q: week out of range", weekKey)
	}

	start = isoWeekOneMonday(year).AddDate(0, 0, (week-1)*7-2)
	end = start.AddDate(0, 0, 6)
	return start, end, nil
}

// WeekOptions produces count week descriptors walking backward from the week
// containing now. The first two are labeled "This Week" and "Last Week";
// the rest carry formatted date ranges such as "Jan 4 - Jan 10".
func WeekOptions(now time.Time, count int) []WeekOption {
	if count <= 0 {
		count = DefaultWeekOptionCount
	}

	options := make([]WeekOption, 0, count)
	start := weekStart(now)

	for i := 0; i < count; i++ {
		end := start.AddDate(0, 0, 6)

		var label string
		switch i {
		case 0:
			label = "This Week"
		case 1:
			label = "Last Week"
		default:
			label = fmt.Sprintf("%s - %s", start.Format("Jan 2"), end.Format("Jan 2"))
		}

		options = append(options, WeekOption{
			WeekKey: WeekKey(start),
			Label:   label,
			Start:   start,
			End:     end,
		})

		start = start.AddDate(0, 0, -7)
	}

	return options
}

// BucketByWeek groups releases into their Saturday-to-Friday windows,
// newest week first. Releases inside a bucket keep their incoming order.
func BucketByWeek(releases []models.Release, now time.Time) []models.WeekBucket {
	byKey := make(map[string]*models.WeekBucket)
	var keys []string

	for _, release := range releases {
		key := WeekKey(release.ParsedDate)

		bucket, ok := byKey[key]
		if !ok {
			start, end, err := WeekDateRange(key)
			if err != nil {
				// WeekKey output always parses; guard anyway
				continue
			}
			bucket = &models.WeekBucket{WeekKey: key, Start: start, End: end}
			byKey[key] = bucket
			keys = append(keys, key)
		}

		bucket.Releases = append(bucket.Releases, release)
		bucket.Stats.Total++
		switch release.AlbumType {
		case models.AlbumTypeAlbum:
			bucket.Stats.Albums++
		case models.AlbumTypeSingle:
			bucket.Stats.Singles++
		}
		if release.Upcoming(now) {
			bucket.Stats.Upcoming++
		}
	}

	buckets := make([]models.WeekBucket, 0, len(keys))
	for _, key := range keys {
		buckets = append(buckets, *byKey[key])
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].Start.After(buckets[j].Start)
	})

	return buckets
}
