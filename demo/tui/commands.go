package tui

import (
	"time"

	"brainrot/types"

	tea "github.com/charmbracelet/bubbletea"
)

const pollInterval = 500 * time.Millisecond

func checkHealth(client *RenderClient) tea.Cmd {
	return func() tea.Msg {
		return HealthMsg{Err: client.Health()}
	}
}

func submitRender(client *RenderClient, req types.RenderRequest) tea.Cmd {
	return func() tea.Msg {
		id, err := client.Submit(req)
		return SubmittedMsg{JobID: id, Err: err}
	}
}

func pollStatus(client *RenderClient, id string) tea.Cmd {
	return func() tea.Msg {
		job, err := client.Status(id)
		return StatusUpdateMsg{Job: job, Err: err}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}
