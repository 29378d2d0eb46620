package dto

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

type VersionResponse struct {
	Id            uuid.UUID              `json:"id"`
	AssetType     string                 `json:"asset_type"`
	VersionNumber int                    `json:"version_number"`
	Content       string                 `json:"content"`
	Source        string                 `json:"source"`
	SourceDetail  map[string]interface{} `json:"source_detail,omitempty"`
	Scores        *scoring.ScoreResults  `json:"scores"`
	PassesGates   bool                   `json:"passes_gates"`
	IsActive      bool                   `json:"is_active"`
	CreatedAt     time.Time              `json:"created_at"`
}

type ActivateVersionRequest struct {
	VersionId uuid.UUID `json:"version_id" validate:"required"`
}
