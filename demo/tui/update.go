package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)
	case HealthMsg:
		return m.handleHealth(msg)
	case SubmittedMsg:
		return m.handleSubmitted(msg)
	case StatusUpdateMsg:
		return m.handleStatus(msg)
	case TickMsg:
		if m.JobID == "" || m.Finished() || m.Err != nil {
			return m, nil
		}
		return m, pollStatus(m.Client, m.JobID)
	}
	return m, nil
}

func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "r", "R":
		if m.Connected && m.JobID == "" && m.Err == nil {
			m = m.AddLog("Submitting render request...")
			return m, submitRender(m.Client, m.Request)
		}
	}
	return m, nil
}

func (m Model) handleHealth(msg HealthMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = fmt.Errorf("render API unreachable: %w", msg.Err)
		return m, nil
	}
	m.Connected = true
	return m.AddLog("Connected to render API"), nil
}

func (m Model) handleSubmitted(msg SubmittedMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m.Err = msg.Err
		return m, nil
	}
	m.JobID = msg.JobID
	m = m.AddLog(fmt.Sprintf("Job accepted: %s", msg.JobID))
	// handleStatus schedules every later poll, one loop per job
	return m, pollStatus(m.Client, m.JobID)
}

func (m Model) handleStatus(msg StatusUpdateMsg) (tea.Model, tea.Cmd) {
	if msg.Err != nil {
		m = m.AddLog(fmt.Sprintf("Poll failed: %v", msg.Err))
		return m, tickCmd()
	}

	prevStage := ""
	if m.Job != nil {
		prevStage = string(m.Job.Status) + "/" + m.Job.Stage
	}
	m.Job = msg.Job
	if stage := string(m.Job.Status) + "/" + m.Job.Stage; stage != prevStage {
		line := string(m.Job.Status)
		if m.Job.Stage != "" {
			line += ": " + m.Job.Stage
		}
		m = m.AddLog(line)
	}

	if m.Finished() {
		return m, nil
	}
	return m, tickCmd()
}
