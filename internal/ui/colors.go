package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// Spotify green for titles, muted gray for help text.
var styles = newPalette("#1DB954", "#04B575", "#FF5555", "#FFA500", "#626262")

// palette is a simple stylesheet built with named [lipgloss.Style] fields.
type palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func newPalette(t, s, e, w, h string) *palette {
	return &palette{
		title: bold(t).MarginBottom(1),
		ok:    bold(s),
		err:   bold(e),
		warn:  fg(w),
		help:  fg(h).Italic(true),
	}
}

func fg(color string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

func bold(color string) lipgloss.Style {
	return fg(color).Bold(true)
}
