package tui

import (
	"fmt"
	"strings"

	"github.com/heliofetch/heliofetch/internal/fetch"
	"github.com/heliofetch/heliofetch/internal/utils"
)

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(TitleStyle.Render("heliofetch"))
	b.WriteString("\n\n")

	if m.total == 0 {
		b.WriteString(StatsStyle.Render("Querying catalog..."))
		b.WriteString("\n")
		return AppStyle.Render(b.String())
	}

	stats := fmt.Sprintf("%d/%d files  %s ok  %s skipped  %s failed",
		m.completed, m.total,
		SuccessStyle.Render(fmt.Sprintf("%d", m.succeeded-m.skipped)),
		SkippedStyle.Render(fmt.Sprintf("%d", m.skipped)),
		FailedStyle.Render(fmt.Sprintf("%d", m.failed)),
	)
	b.WriteString(StatsStyle.Render(stats))
	b.WriteString("\n\n")

	b.WriteString(m.bar.View())
	b.WriteString("\n\n")

	if len(m.recent) > 0 {
		var rows []string
		for _, row := range m.recent {
			rows = append(rows, renderRow(row))
		}
		b.WriteString(PanelStyle.Render(strings.Join(rows, "\n")))
		b.WriteString("\n")
	}

	if m.done {
		summary := fmt.Sprintf("Done: %d succeeded (%d skipped), %d failed",
			m.succeeded, m.skipped, m.failed)
		b.WriteString(SummaryStyle.Render(summary))
		b.WriteString("\n")
	}

	return AppStyle.Render(b.String())
}

func renderRow(row fileRow) string {
	name := row.filename
	if name == "" {
		name = "(unnamed)"
	}

	switch row.status {
	case fetch.StatusSuccess.String():
		return fmt.Sprintf("%s %s %s",
			SuccessStyle.Render("✓"),
			FilenameStyle.Render(name),
			StatsStyle.Render(utils.FormatBytes(row.bytes)))
	case fetch.StatusSkipped.String():
		return fmt.Sprintf("%s %s %s",
			SkippedStyle.Render("→"),
			FilenameStyle.Render(name),
			StatsStyle.Render("exists"))
	default:
		reason := row.reason
		if reason == "" {
			reason = "failed"
		}
		return fmt.Sprintf("%s %s %s",
			FailedStyle.Render("✗"),
			FilenameStyle.Render(name),
			StatsStyle.Render(reason))
	}
}
