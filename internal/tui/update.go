package tui

import (
	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/heliofetch/heliofetch/internal/events"
	"github.com/heliofetch/heliofetch/internal/fetch"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.bar.Width = msg.Width - 8
		if m.bar.Width > 60 {
			m.bar.Width = 60
		}
		return m, nil

	case events.BatchStartedMsg:
		m.total = msg.Total
		return m, listenForEvents(m.eventCh)

	case events.FileCompleteMsg:
		m.completed++
		switch msg.Status {
		case fetch.StatusSuccess.String():
			m.succeeded++
		case fetch.StatusSkipped.String():
			m.succeeded++
			m.skipped++
		default:
			m.failed++
		}

		m.recent = append(m.recent, fileRow{
			filename: msg.Filename,
			status:   msg.Status,
			reason:   msg.Reason,
			bytes:    msg.Bytes,
		})
		if len(m.recent) > recentRows {
			m.recent = m.recent[len(m.recent)-recentRows:]
		}

		var cmd tea.Cmd
		if m.total > 0 {
			cmd = m.bar.SetPercent(float64(m.completed) / float64(m.total))
		}
		return m, tea.Batch(cmd, listenForEvents(m.eventCh))

	case events.BatchCompleteMsg:
		m.done = true
		return m, tea.Quit

	case events.BatchErrorMsg:
		m.err = msg.Err
		m.done = true
		return m, tea.Quit

	case progress.FrameMsg:
		barModel, cmd := m.bar.Update(msg)
		m.bar = barModel.(progress.Model)
		return m, cmd
	}

	return m, nil
}
