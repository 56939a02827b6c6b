// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing the release radar:
//  1. [LoadingView] : Watch the fan-out progress while the radar refreshes
//  2. [WeekListView] : Browse Saturday-to-Friday week buckets, newest first
//  3. [ReleaseListView] : Inspect the releases inside a selected week
//  4. [ErrorView] : Display load failures with a retry binding
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the RadarEngine, providing non-blocking status reporting during refreshes.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
