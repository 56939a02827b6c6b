package calendar

import (
	"time"

	"github.com/xomify/cli/internal/models"
)

// DayCell is one cell of a month grid.
type DayCell struct {
	Date     time.Time        `json:"date"`
	Day      int              `json:"day"`
	InMonth  bool             `json:"in_month"`
	IsToday  bool             `json:"is_today"`
	Releases []models.Release `json:"releases"`
}

// MonthGrid builds the day cells for a calendar month, padded from the
// Sunday on or before the 1st through the Saturday on or after the last day,
// so the grid always shows complete weeks. A release lands in a cell only
// when its raw release date string equals the cell's ISO date; year- and
// month-precision dates never match a cell, matching the web client.
func MonthGrid(year int, month time.Month, releases []models.Release, today time.Time) []DayCell {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(0, 1, -1)

	gridStart := first.AddDate(0, 0, -int(first.Weekday()))
	gridEnd := last.AddDate(0, 0, 6-int(last.Weekday()))

	byDate := make(map[string][]models.Release)
	for _, release := range releases {
		byDate[release.ReleaseDate] = append(byDate[release.ReleaseDate], release)
	}

	todayISO := dateOnly(today).Format("2006-01-02")

	var cells []DayCell
	for d := gridStart; !d.After(gridEnd); d = d.AddDate(0, 0, 1) {
		iso := d.Format("2006-01-02")
		cells = append(cells, DayCell{
			Date:     d,
			Day:      d.Day(),
			InMonth:  d.Month() == month,
			IsToday:  iso == todayISO,
			Releases: byDate[iso],
		})
	}

	return cells
}
