package models

import "time"

// Term identifies one of the three listening-history windows exposed by the
// streaming API's top-artists endpoint.
type Term string

const (
	ShortTerm  Term = "short_term"  // ~4 weeks
	MediumTerm Term = "medium_term" // ~6 months
	LongTerm   Term = "long_term"   // all time
)

// ValidTerm reports whether s names a known term.
func ValidTerm(s string) bool {
	switch Term(s) {
	case ShortTerm, MediumTerm, LongTerm:
		return true
	}
	return false
}

// Image represents an image resource at a particular size.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// Artist represents a streaming-platform artist as consumed by the
// aggregation core. Validated at the API boundary so aggregation never
// operates on untyped payloads.
type Artist struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Genres     []string `json:"genres"`
	Popularity int      `json:"popularity"`
	Followers  int      `json:"followers"`
	Images     []Image  `json:"images"`
}

// Album type values used by the releases endpoint.
const (
	AlbumTypeAlbum     = "album"
	AlbumTypeSingle    = "single"
	AlbumTypeAppearsOn = "appears_on"
)

// Release represents a single album, single, or appearance.
//
// ReleaseDate keeps the API's string form because its precision varies
// (year, year-month, or full date); ParsedDate carries the normalized
// calendar date with missing parts defaulted to January 1st.
type Release struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	AlbumType   string    `json:"album_type"`
	ReleaseDate string    `json:"release_date"`
	ParsedDate  time.Time `json:"-"`
	ArtistID    string    `json:"artist_id"`
	ArtistName  string    `json:"artist_name"`
	Images      []Image   `json:"images"`
	TrackCount  int       `json:"total_tracks"`
	ExternalURL string    `json:"external_url"`
}

// Upcoming reports whether the release date falls after now.
func (r Release) Upcoming(now time.Time) bool {
	return r.ParsedDate.After(now)
}

// GenreItem is one genre's aggregate statistics across a ranked artist list.
type GenreItem struct {
	Name       string   `json:"name"`
	Count      int      `json:"count"`
	Score      int      `json:"score"`
	Percentage int      `json:"percentage"`
	Artists    []string `json:"artists"`
}

// GenreGroup is a parent-category rollup of GenreItems.
type GenreGroup struct {
	Name       string   `json:"name"`
	Score      int      `json:"score"`
	Percentage int      `json:"percentage"`
	Genres     []string `json:"genres"`
	Artists    []string `json:"artists"`
}

// ReleaseStats summarizes a merged release list.
type ReleaseStats struct {
	Total               int `json:"total"`
	Albums              int `json:"albums"`
	Singles             int `json:"singles"`
	Upcoming            int `json:"upcoming"`
	ArtistsWithReleases int `json:"artists_with_releases"`
}

// WeekBucket groups the releases of one Saturday-to-Friday window.
type WeekBucket struct {
	WeekKey  string       `json:"week_key"`
	Start    time.Time    `json:"start"`
	End      time.Time    `json:"end"`
	Releases []Release    `json:"releases"`
	Stats    ReleaseStats `json:"stats"`
}
