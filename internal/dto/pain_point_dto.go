package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreatePainPointRequest struct {
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description" validate:"required"`
	Source      string   `json:"source"`
	Quotes      []string `json:"quotes"`
}

type MatchPainPointsRequest struct {
	Query string `json:"query" validate:"required"`
	Limit int    `json:"limit"`
}

type PainPointResponse struct {
	Id           uuid.UUID `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Source       string    `json:"source"`
	Quotes       []string  `json:"quotes"`
	HasEmbedding bool      `json:"has_embedding"`
	CreatedAt    time.Time `json:"created_at"`
}

// PublishEmbedPainPointMessage is the channel-bus payload that asks the
// consumer to backfill a pain point's embedding.
type PublishEmbedPainPointMessage struct {
	PainPointId uuid.UUID `json:"pain_point_id"`
}
