package jobs

import (
	"encoding/json"
)

// JobType is the type reported on every error event emitted by the worker.
const JobType = "job_ftp"

// JobStatus represents the status reported on a completion event.
type JobStatus string

// JobStatuses for the transfer job.
const (
	JobStatusCompleted JobStatus = "completed"
)

// ToString converts the JobStatus to its string representation.
func (s JobStatus) ToString() string {
	return string(s)
}

// ParameterType discriminates how a parameter value is interpreted.
type ParameterType string

// ParameterTypes recognized by the worker, every other value is a plain value.
const (
	ParameterTypeCredential ParameterType = "credential"
)

// ToString converts the ParameterType to its string representation.
func (t ParameterType) ToString() string {
	return string(t)
}

// Well-known parameter ids.
const (
	ParamRequirements        = "requirements"
	ParamSourcePath          = "source_path"
	ParamSourceHostname      = "source_hostname"
	ParamSourceUsername      = "source_username"
	ParamSourcePassword      = "source_password"
	ParamDestinationPath     = "destination_path"
	ParamDestinationPrefix   = "destination_prefix"
	ParamDestinationHostname = "destination_hostname"
	ParamDestinationUsername = "destination_username"
	ParamDestinationPassword = "destination_password"
)

// Message is the job order consumed from the bus.
type Message struct {
	JobID      string      `json:"job_id" validate:"required"`
	Parameters []Parameter `json:"parameters"`
}

// Parameter is one named, typed input of a job.
// Default and Value hold raw JSON; a present Value (even null) overrides Default.
type Parameter struct {
	ID      string          `json:"id"`
	Type    string          `json:"type"`
	Default json.RawMessage `json:"default,omitempty"`
	Value   json.RawMessage `json:"value,omitempty"`
}

// IsCredential reports whether the parameter holds a credential name instead of a value.
func (p *Parameter) IsCredential() bool {
	return p.Type == ParameterTypeCredential.ToString()
}

// Candidate returns the raw value of the parameter, Value taking precedence over Default.
func (p *Parameter) Candidate() json.RawMessage {
	if len(p.Value) != 0 {
		return p.Value
	}
	return p.Default
}

// Requirements are the local preconditions of a job.
type Requirements struct {
	Paths []string `json:"paths"`
}

// Direction is the direction of a transfer, relative to the local filesystem.
type Direction string

// Directions of a transfer.
const (
	DirectionDownload Direction = "download"
	DirectionUpload   Direction = "upload"
)

// ToString converts the Direction to its string representation.
func (d Direction) ToString() string {
	return string(d)
}
