package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "JOB_COMPLETED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the generic implementation every publisher uses.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

// Job lifecycle event codes.
const (
	TypeJobCreated   = "JOB_CREATED"
	TypeJobCompleted = "JOB_COMPLETED"
	TypeJobFailed    = "JOB_FAILED"
)

func NewJobCreatedEvent(jobId, sessionId, userId string, pipeline string) Event {
	return BaseEvent{
		Type: TypeJobCreated,
		Data: map[string]interface{}{
			"job_id":     jobId,
			"session_id": sessionId,
			"user_id":    userId,
			"pipeline":   pipeline,
		},
		OccurredAt: time.Now(),
	}
}

func NewJobCompletedEvent(jobId, sessionId, userId, userEmail string) Event {
	return BaseEvent{
		Type: TypeJobCompleted,
		Data: map[string]interface{}{
			"job_id":     jobId,
			"session_id": sessionId,
			"user_id":    userId,
			"user_email": userEmail,
		},
		OccurredAt: time.Now(),
	}
}

func NewJobFailedEvent(jobId, sessionId, userId, userEmail, errorMessage string) Event {
	return BaseEvent{
		Type: TypeJobFailed,
		Data: map[string]interface{}{
			"job_id":     jobId,
			"session_id": sessionId,
			"user_id":    userId,
			"user_email": userEmail,
			"error":      errorMessage,
		},
		OccurredAt: time.Now(),
	}
}
