// Package tui is a terminal client that submits a render and follows it to
// completion.
package tui

import (
	"fmt"
	"time"

	"brainrot/types"

	tea "github.com/charmbracelet/bubbletea"
)

const maxLogs = 10

// Model is the TUI state. It only mirrors what the API reports.
type Model struct {
	Client  *RenderClient
	Request types.RenderRequest

	Connected bool
	JobID     string
	Job       *types.Job
	Logs      []string
	Err       error
	Started   time.Time
}

func NewModel(apiURL string, req types.RenderRequest) Model {
	return Model{
		Client:  NewRenderClient(apiURL),
		Request: req,
	}
}

func (m Model) Init() tea.Cmd {
	return checkHealth(m.Client)
}

// Finished reports whether the job reached a terminal state.
func (m Model) Finished() bool {
	return m.Job != nil && (m.Job.Status == types.JobDone || m.Job.Status == types.JobFailed)
}

// AddLog appends a line, keeping the most recent entries.
func (m Model) AddLog(line string) Model {
	m.Logs = append(m.Logs, line)
	if len(m.Logs) > maxLogs {
		m.Logs = m.Logs[len(m.Logs)-maxLogs:]
	}
	return m
}

func (m Model) getStateText() string {
	switch {
	case m.Err != nil:
		return ErrorStyle.Render(fmt.Sprintf("Error: %v", m.Err))
	case !m.Connected:
		return StatusStyle.Render("Connecting to render API...")
	case m.JobID == "":
		return HighlightStyle.Render("Ready") + "\n\n" + InfoStyle.Render(TextStartInstruction)
	case m.Job == nil:
		return StatusStyle.Render(fmt.Sprintf("Submitted job %s...", m.JobID))
	}

	switch m.Job.Status {
	case types.JobQueued:
		return StatusStyle.Render("Queued, waiting for a render slot...")
	case types.JobRunning:
		return StatusStyle.Render(fmt.Sprintf("Running: %s", m.Job.Stage))
	case types.JobDone:
		return HighlightStyle.Render("COMPLETE")
	case types.JobFailed:
		return ErrorStyle.Render(fmt.Sprintf("Failed: %s", m.Job.Error))
	default:
		return ""
	}
}

func (m Model) formatResult() string {
	job := m.Job
	s := HighlightStyle.Render("Render Result") + "\n\n"
	s += fmt.Sprintf("Job: %s\n", job.ID)
	s += fmt.Sprintf("Output: %s\n", StatusStyle.Render(job.Output))
	if job.VideoID != "" {
		s += fmt.Sprintf("Published: https://youtube.com/shorts/%s\n", job.VideoID)
	}
	if !job.CreatedAt.IsZero() && !job.UpdatedAt.IsZero() {
		s += fmt.Sprintf("Took: %s\n", job.UpdatedAt.Sub(job.CreatedAt).Round(time.Second))
	}
	return s
}
