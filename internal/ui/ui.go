package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/xomify/cli/internal/calendar"
	"github.com/xomify/cli/internal/models"
	"github.com/xomify/cli/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	WeekListView
	ReleaseListView
	ErrorView
)

// Model represents the TUI application state.
type Model struct {
	ctx          context.Context
	view         ViewState
	engine       *tasks.RadarEngine
	width        int
	height       int
	weekList     list.Model
	buckets      []models.WeekBucket
	releaseList  list.Model
	selectedWeek *models.WeekBucket
	progressChan chan tasks.ProgressUpdate
	done         chan radarLoadedMsg
	progress     tasks.ProgressUpdate
	result       *tasks.RadarResult
	err          error
	help         help.Model
	keys         keyMap
}

type radarLoadedMsg struct {
	result *tasks.RadarResult
	err    error
}

type progressUpdateMsg tasks.ProgressUpdate

// NewModel creates a new TUI model over a radar engine.
func NewModel(ctx context.Context, engine *tasks.RadarEngine) *Model {
	return &Model{
		ctx:    ctx,
		view:   LoadingView,
		engine: engine,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts loading the radar.
func (m *Model) Init() tea.Cmd {
	return m.loadRadar(false)
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.weekList.Width() == 0 {
			m.weekList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.releaseList.Width() == 0 {
			m.releaseList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LoadingView, ErrorView:
			return m.handleGlobalKeys(msg)
		case WeekListView:
			return m.handleWeekListKeys(msg)
		case ReleaseListView:
			return m.handleReleaseListKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case radarLoadedMsg:
		m.progressChan = nil
		if msg.err != nil {
			m.err = msg.err
			m.view = ErrorView
			return m, nil
		}
		m.result = msg.result
		m.buckets = calendar.BucketByWeek(msg.result.Releases, time.Now())

		items := make([]list.Item, len(m.buckets))
		for i, bucket := range m.buckets {
			items[i] = weekItem{bucket: bucket}
		}
		m.weekList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.weekList.Title = m.weekListTitle()
		m.weekList.SetSize(m.width-4, m.height-8)
		m.view = WeekListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case WeekListView:
		return m.renderWeekList()
	case ReleaseListView:
		return m.renderReleaseList()
	case ErrorView:
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress r to retry, q to quit", m.err))
	default:
		return ""
	}
}

func (m *Model) handleGlobalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		if m.view == ErrorView {
			m.err = nil
			m.view = LoadingView
			return m, m.loadRadar(true)
		}
	}
	return m, nil
}

func (m *Model) handleWeekListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = LoadingView
		return m, m.loadRadar(true)
	case "enter":
		selected := m.weekList.SelectedItem()
		if selected != nil {
			if wk, ok := selected.(weekItem); ok {
				m.openWeek(wk.bucket)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.weekList, cmd = m.weekList.Update(msg)
	return m, cmd
}

func (m *Model) handleReleaseListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = WeekListView
		return m, nil
	}

	var cmd tea.Cmd
	m.releaseList, cmd = m.releaseList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case WeekListView:
		m.weekList, cmd = m.weekList.Update(msg)
	case ReleaseListView:
		m.releaseList, cmd = m.releaseList.Update(msg)
	}
	return m, cmd
}

func (m *Model) openWeek(bucket models.WeekBucket) {
	m.selectedWeek = &bucket

	items := make([]list.Item, len(bucket.Releases))
	for i, release := range bucket.Releases {
		items[i] = releaseItem{release: release}
	}
	m.releaseList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.releaseList.Title = fmt.Sprintf("%s - %s (%d releases)",
		bucket.Start.Format("Jan 2"), bucket.End.Format("Jan 2"), bucket.Stats.Total)
	m.releaseList.SetSize(m.width-4, m.height-8)
	m.view = ReleaseListView
}

func (m *Model) weekListTitle() string {
	if m.result == nil {
		return "Release Radar"
	}
	title := fmt.Sprintf("Release Radar • %d releases", m.result.Stats.Total)
	if m.result.FromCache {
		title += " (cached)"
	}
	if m.result.Partial {
		title += " (partial)"
	}
	return title
}

func (m *Model) loadRadar(forceRefresh bool) tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progress := m.progressChan
	done := make(chan radarLoadedMsg, 1)

	go func() {
		result, err := m.engine.LoadReleases(m.ctx, progress, forceRefresh)
		done <- radarLoadedMsg{result: result, err: err}
		close(progress)
	}()
	m.done = done

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return nil
		}

		update, ok := <-m.progressChan
		if !ok {
			return <-m.done
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderLoading() string {
	title := styles.title.Render("Loading Release Radar")

	bar := ""
	if m.progress.Phase == tasks.FetchReleases && m.progress.Total > 0 {
		filled := m.progress.Percent() * 30 / 100
		bar = fmt.Sprintf("[%s%s] %d%%",
			strings.Repeat("█", filled), strings.Repeat("░", 30-filled), m.progress.Percent())
	}

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title, m.progress.Message, bar,
		styles.help.Render("q to quit"))
}

func (m *Model) renderWeekList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.refresh, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.weekList.View(), helpView)
}

func (m *Model) renderReleaseList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.releaseList.View(), helpView)
}
