package model

import (
	"time"
)

// JobStatus is the lifecycle status of a transcription job.
type JobStatus string

const (
	StatusPending    JobStatus = "pending"
	StatusProcessing JobStatus = "processing"
	StatusCompleted  JobStatus = "completed"
	StatusFailed     JobStatus = "failed"

	// StatusUnknown is reported for job IDs that were never submitted or whose
	// result has expired. The two cases are indistinguishable.
	StatusUnknown JobStatus = "unknown"
)

// Terminal reports whether the status is completed or failed.
func (s JobStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one transcription request as it travels through the queue.
// The audio payload rides inline in the queue envelope; []byte marshals
// to base64 in JSON.
type Job struct {
	ID            string    `json:"id"`
	Audio         []byte    `json:"audio"`
	CallbackURL   string    `json:"callback_url,omitempty"`
	CallbackToken string    `json:"callback_token,omitempty"`
	EnqueuedAt    time.Time `json:"enqueued_at"`
}

// HasCallback reports whether the submitter asked to be notified.
func (j *Job) HasCallback() bool {
	return j.CallbackURL != ""
}

// JobResult is the durable record of a job's current status. Transcription is
// set iff the job completed, Error iff it failed; never both.
type JobResult struct {
	ID            string     `json:"id"`
	Status        JobStatus  `json:"status"`
	Transcription string     `json:"transcription,omitempty"`
	Error         string     `json:"error,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
}
