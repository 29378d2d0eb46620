package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the long-lived workspace container. Its status mirrors the
// Job that populated it; its name starts as a deterministic placeholder
// and is upgraded asynchronously once insights exist.
type Session struct {
	Id              uuid.UUID
	UserId          uuid.UUID
	Name            string
	PainPointId     *uuid.UUID
	VoiceProfileIds []uuid.UUID
	AssetTypes      []string
	Pipeline        string
	ProductContext  string
	JobId           *uuid.UUID
	Status          JobStatus
	IsArchived      bool
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}
