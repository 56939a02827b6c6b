// package formatter provides functions to export radar and genre data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xomify/cli/internal/calendar"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/shared"
)

// ExportReleasesToCSV converts a release list to CSV format with columns: ID, Name, Artist, Type, ReleaseDate, Tracks, URL
func ExportReleasesToCSV(releases []models.Release) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Name", "Artist", "Type", "ReleaseDate", "Tracks", "URL"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, release := range releases {
		record := []string{
			release.ID,
			release.Name,
			release.ArtistName,
			release.AlbumType,
			release.ReleaseDate,
			strconv.Itoa(release.TrackCount),
			release.ExternalURL,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportReleasesToMarkdown converts a release list to Markdown, grouped into
// Saturday-to-Friday week sections, newest first.
func ExportReleasesToMarkdown(releases []models.Release, now time.Time) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString("# Release Radar\n\n")
	buf.WriteString(fmt.Sprintf("**Releases**: %d\n\n", len(releases)))

	for _, bucket := range calendar.BucketByWeek(releases, now) {
		buf.WriteString(fmt.Sprintf("## %s - %s\n\n",
			bucket.Start.Format("Jan 2, 2006"), bucket.End.Format("Jan 2, 2006")))

		for i, release := range bucket.Releases {
			line := fmt.Sprintf("%d. %s - %s (%s, %s)", i+1,
				release.ArtistName, release.Name, release.AlbumType, release.ReleaseDate)
			if release.ExternalURL != "" {
				line += fmt.Sprintf(" [link](%s)", release.ExternalURL)
			}
			buf.WriteString(line + "\n")
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ExportReleasesToText converts a release list to plain text format
func ExportReleasesToText(releases []models.Release) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Release Radar (%d releases)\n\n", len(releases)))
	for i, release := range releases {
		buf.WriteString(fmt.Sprintf("%d. %s - %s [%s] %s\n", i+1,
			release.ArtistName, release.Name, release.AlbumType, release.ReleaseDate))
	}

	return buf.Bytes(), nil
}

// ExportGenresToCSV converts genre statistics to CSV with columns: Genre, Score, Count, Percentage, Artists
func ExportGenresToCSV(items []models.GenreItem) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Genre", "Score", "Count", "Percentage", "Artists"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, item := range items {
		record := []string{
			item.Name,
			strconv.Itoa(item.Score),
			strconv.Itoa(item.Count),
			strconv.Itoa(item.Percentage),
			strings.Join(item.Artists, "; "),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportGenresToMarkdown converts genre statistics to a Markdown table with
// text bars scaled to the percentage column.
func ExportGenresToMarkdown(items []models.GenreItem, term models.Term) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# Top Genres (%s)\n\n", term))
	buf.WriteString("| # | Genre | Score | % | |\n")
	buf.WriteString("|---|-------|-------|---|---|\n")

	for i, item := range items {
		bar := strings.Repeat("█", item.Percentage/10)
		buf.WriteString(fmt.Sprintf("| %d | %s | %d | %d | %s |\n",
			i+1, item.Name, item.Score, item.Percentage, bar))
	}

	return buf.Bytes(), nil
}

// ToStatsJSON generates a pretty JSON representation of radar statistics
func ToStatsJSON(stats models.ReleaseStats) ([]byte, error) {
	return shared.MarshalJSON(stats, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ReleasesFile string
	StatsFile    string
}

// WriteCSVExport exports the radar to CSV with an accompanying stats JSON file.
//
// Defaults to "radar" as the base filename & creates {base}_releases.csv and {base}_stats.json
func WriteCSVExport(releases []models.Release, stats models.ReleaseStats, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = "radar"
	}

	csvData, err := ExportReleasesToCSV(releases)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	releasesFile := baseFilepath + "_releases.csv"
	if err := os.WriteFile(releasesFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	statsJSON, err := ToStatsJSON(stats)
	if err != nil {
		return nil, fmt.Errorf("failed to generate stats JSON: %w", err)
	}

	statsFile := baseFilepath + "_stats.json"
	if err := os.WriteFile(statsFile, statsJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write stats file: %w", err)
	}

	return &CSVExportResult{
		ReleasesFile: releasesFile,
		StatsFile:    statsFile,
	}, nil
}

// WriteMarkdownExport exports the radar to {outputDir}/README.md, grouped by week.
//
// Directory name defaults to "radar".
func WriteMarkdownExport(releases []models.Release, outputDir string, now time.Time) (string, error) {
	if outputDir == "" {
		outputDir = "radar"
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	mdData, err := ExportReleasesToMarkdown(releases, now)
	if err != nil {
		return "", fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return "", fmt.Errorf("failed to write Markdown file: %w", err)
	}

	return mdFile, nil
}

// WriteTextExport exports the radar to plain text format.
//
// Defaults to radar_releases.txt as the filename.
func WriteTextExport(releases []models.Release, filepath string) (string, error) {
	if filepath == "" {
		filepath = "radar_releases.txt"
	}

	textData, err := ExportReleasesToText(releases)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}
