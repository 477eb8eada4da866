package tui

import (
	"time"

	"brainrot/types"
)

// HealthMsg reports the result of the startup health check.
type HealthMsg struct {
	Err error
}

// SubmittedMsg is sent once the render request was accepted.
type SubmittedMsg struct {
	JobID string
	Err   error
}

// StatusUpdateMsg carries a polled job snapshot.
type StatusUpdateMsg struct {
	Job *types.Job
	Err error
}

// TickMsg is sent periodically to trigger polling
type TickMsg struct {
	Time time.Time
}
