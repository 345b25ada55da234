// Package jobs runs transcription and analysis asynchronously on top of
// Redis. Job state lives only as long as the configured TTL.
package jobs

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"nubit-transcribe/backend/internal/llm"
)

type Status string

const (
	StatusQueued       Status = "queued"
	StatusTranscribing Status = "transcribing"
	StatusAnalyzing    Status = "analyzing"
	StatusCompleted    Status = "completed"
	StatusFailed       Status = "failed"
)

var ErrNotFound = errors.New("job not found")

type Job struct {
	ID         string       `json:"id"`
	Status     Status       `json:"status"`
	Progress   int          `json:"progress"`
	Filename   string       `json:"filename"`
	Language   string       `json:"language"`
	Mode       llm.Mode     `json:"mode"`
	Analyze    bool         `json:"analyze"`
	Transcript string       `json:"transcript,omitempty"`
	Outcome    *llm.Outcome `json:"outcome,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func NewJob(filename, language string, mode llm.Mode, analyze bool) *Job {
	now := time.Now().UTC()
	return &Job{
		ID:        uuid.NewString(),
		Status:    StatusQueued,
		Filename:  filename,
		Language:  language,
		Mode:      mode,
		Analyze:   analyze,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Done reports whether the job reached a terminal status.
func (j *Job) Done() bool {
	return j.Status == StatusCompleted || j.Status == StatusFailed
}

func (j *Job) advance(status Status, progress int) {
	j.Status = status
	j.Progress = progress
	j.UpdatedAt = time.Now().UTC()
}

func (j *Job) fail(err error) {
	j.advance(StatusFailed, j.Progress)
	j.Error = err.Error()
}

// Event is pushed to websocket subscribers of a job.
type Event struct {
	Type     string `json:"type"`
	JobID    string `json:"job_id"`
	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Error    string `json:"error,omitempty"`
	Job      *Job   `json:"job,omitempty"`
}

func EventFor(job *Job) Event {
	event := Event{Type: "job.progress", JobID: job.ID, Status: job.Status, Progress: job.Progress}
	switch job.Status {
	case StatusCompleted:
		event.Type = "job.completed"
		event.Job = job
	case StatusFailed:
		event.Type = "job.failed"
		event.Error = job.Error
	}
	return event
}
