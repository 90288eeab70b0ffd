// Package tui renders live download progress for interactive terminals.
package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// recentRows caps how many finished files stay visible.
const recentRows = 8

type fileRow struct {
	filename string
	status   string
	reason   string
	bytes    int64
}

// Model is the bubbletea model for one fetch run. Events arrive on a
// channel fed by the download pool; Update owns all state.
type Model struct {
	eventCh <-chan any

	width  int
	height int

	total     int
	completed int
	succeeded int
	skipped   int
	failed    int

	recent []fileRow
	bar    progress.Model

	done bool
	err  error
}

// NewModel creates a model consuming batch events from eventCh.
func NewModel(eventCh <-chan any) Model {
	return Model{
		eventCh: eventCh,
		bar:     progress.New(progress.WithDefaultGradient()),
	}
}

func (m Model) Init() tea.Cmd {
	return listenForEvents(m.eventCh)
}

func listenForEvents(ch <-chan any) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}

// Err returns the batch-level error, if the run ended with one.
func (m Model) Err() error {
	return m.err
}
