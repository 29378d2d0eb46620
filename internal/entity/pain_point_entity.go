package entity

import (
	"time"

	"github.com/google/uuid"
)

// PainPoint is a practitioner pain point surfaced by the discovery
// subsystem. The embedding allows similarity matching against extracted
// insight summaries when a session has no explicit pain point attached.
type PainPoint struct {
	Id          uuid.UUID
	Title       string
	Description string
	Source      string
	Quotes      []string
	Embedding   []float32
	CreatedAt   time.Time
}
