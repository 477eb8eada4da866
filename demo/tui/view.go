package tui

import "strings"

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("brainrot render"))
	b.WriteString("\n\n")

	b.WriteString(m.getStateText())
	b.WriteString("\n\n")

	if len(m.Logs) > 0 {
		b.WriteString(InfoStyle.Render("Recent Activity:"))
		b.WriteString("\n")
		for _, line := range m.Logs {
			b.WriteString(InfoStyle.Render("   " + line))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.Finished() && m.Job.Output != "" && m.Err == nil {
		b.WriteString(BoxStyle.Render(m.formatResult()))
		b.WriteString("\n\n")
	}

	if m.Finished() {
		b.WriteString(HighlightStyle.Render(TextFooterDone))
	} else {
		b.WriteString(InfoStyle.Render(TextFooterRunning))
	}

	return b.String()
}
