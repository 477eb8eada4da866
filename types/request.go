package types

import "time"

// RenderRequest is the input accepted by batch files, the HTTP API and Kafka.
type RenderRequest struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	VoiceID string `json:"voice_id,omitempty"`
	Output  string `json:"output,omitempty"`
	// Publish uploads the finished video when a publisher is configured.
	Publish bool `json:"publish,omitempty"`
}

// JobStatus is the lifecycle state of a render job.
type JobStatus string

const (
	JobQueued  JobStatus = "queued"
	JobRunning JobStatus = "running"
	JobDone    JobStatus = "done"
	JobFailed  JobStatus = "failed"
)

// Job tracks one render request.
type Job struct {
	ID        string    `json:"id"`
	Status    JobStatus `json:"status"`
	Stage     string    `json:"stage,omitempty"`
	Output    string    `json:"output,omitempty"`
	VideoID   string    `json:"video_id,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
