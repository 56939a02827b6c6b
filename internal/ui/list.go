package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/xomify/cli/internal/models"
)

var (
	_ list.Item = weekItem{}
	_ list.Item = releaseItem{}
)

// weekItem wraps [models.WeekBucket] to implement [list.Item].
type weekItem struct {
	bucket models.WeekBucket
}

func (i weekItem) FilterValue() string { return i.bucket.WeekKey }
func (i weekItem) Title() string {
	return fmt.Sprintf("%s - %s", i.bucket.Start.Format("Jan 2"), i.bucket.End.Format("Jan 2"))
}
func (i weekItem) Description() string {
	desc := fmt.Sprintf("%d releases", i.bucket.Stats.Total)
	if i.bucket.Stats.Albums > 0 {
		desc = fmt.Sprintf("%s • %d albums", desc, i.bucket.Stats.Albums)
	}
	if i.bucket.Stats.Upcoming > 0 {
		desc = fmt.Sprintf("%s • %d upcoming", desc, i.bucket.Stats.Upcoming)
	}
	return desc
}

// releaseItem wraps [models.Release] to implement [list.Item].
type releaseItem struct {
	release models.Release
}

func (i releaseItem) FilterValue() string { return i.release.Name }
func (i releaseItem) Title() string       { return i.release.Name }
func (i releaseItem) Description() string {
	desc := fmt.Sprintf("%s • %s", i.release.ArtistName, i.release.AlbumType)
	if i.release.ReleaseDate != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.release.ReleaseDate)
	}
	return desc
}
