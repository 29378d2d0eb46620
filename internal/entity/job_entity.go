package entity

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status permits no further transitions.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// Job is one asynchronous generation run. Created once per request,
// mutated in place by the running pipeline, terminal once completed/failed.
type Job struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	UserEmail       string
	Status          JobStatus
	CurrentStep     string
	Progress        int
	ProductDocs     string
	AssetTypes      []string
	VoiceProfileIds []uuid.UUID
	Pipeline        string
	Model           string
	ErrorMessage    string
	Metadata        map[string]interface{}
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
