package entities

import "time"

// JobStatus mirrors the transcription provider's status values
type JobStatus string

const (
	JobStatusQueued     JobStatus = "queued"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusError      JobStatus = "error"
)

// IsTerminal reports whether polling should stop
func (s JobStatus) IsTerminal() bool {
	return s == JobStatusCompleted || s == JobStatusError
}

// TranscriptionJob tracks one submitted recording until its item exists
type TranscriptionJob struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	PendingID    string    `json:"pending_item_id"`
	TranscriptID string    `json:"transcript_id,omitempty"`
	ItemID       string    `json:"item_id,omitempty"`
	Status       JobStatus `json:"status"`
	Error        string    `json:"error,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
