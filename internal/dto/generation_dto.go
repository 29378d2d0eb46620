package dto

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

type GenerateRequest struct {
	ProductDocs     string      `json:"product_docs" validate:"required"`
	AssetTypes      []string    `json:"asset_types" validate:"required,min=1"`
	VoiceProfileIds []uuid.UUID `json:"voice_profile_ids"`
	Pipeline        string      `json:"pipeline"`
	Model           string      `json:"model"`
	PainPointId     *uuid.UUID  `json:"pain_point_id"`
}

type GenerateResponse struct {
	JobId     uuid.UUID `json:"job_id"`
	SessionId uuid.UUID `json:"session_id"`
}

type JobVariantResult struct {
	VoiceProfileId *uuid.UUID            `json:"voice_profile_id"`
	VoiceName      string                `json:"voice_name"`
	Content        string                `json:"content"`
	Scores         *scoring.ScoreResults `json:"scores"`
	PassesGates    bool                  `json:"passes_gates"`
}

type JobAssetResult struct {
	AssetType string              `json:"asset_type"`
	Variants  []*JobVariantResult `json:"variants"`
}

type JobStatusResponse struct {
	JobId        uuid.UUID         `json:"job_id"`
	Status       string            `json:"status"`
	CurrentStep  string            `json:"current_step"`
	Progress     int               `json:"progress"`
	ErrorMessage string            `json:"error_message,omitempty"`
	Results      []*JobAssetResult `json:"results,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
}
