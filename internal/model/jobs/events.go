package jobs

// CompletedEvent is published once a transfer succeeded.
type CompletedEvent struct {
	Status string `json:"status"`
	JobID  string `json:"job_id"`
}

// NewCompletedEvent creates a completion event for the given job.
func NewCompletedEvent(jobID string) *CompletedEvent {
	return &CompletedEvent{
		Status: JobStatusCompleted.ToString(),
		JobID:  jobID,
	}
}

// ErrorEvent is published when a job could not be processed.
// JobID is empty when the envelope itself could not be decoded.
type ErrorEvent struct {
	Body  string `json:"body"`
	Error string `json:"error"`
	JobID string `json:"job_id,omitempty"`
	Type  string `json:"type"`
}

// NewErrorEvent creates an error event carrying the raw message body.
func NewErrorEvent(body []byte, jobID, message string) *ErrorEvent {
	return &ErrorEvent{
		Body:  string(body),
		Error: message,
		JobID: jobID,
		Type:  JobType,
	}
}
