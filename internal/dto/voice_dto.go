package dto

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

type CreateVoiceProfileRequest struct {
	Name        string              `json:"name" validate:"required"`
	Guide       string              `json:"guide" validate:"required"`
	BannedWords []string            `json:"banned_words"`
	Thresholds  *scoring.Thresholds `json:"thresholds"`
}

type UpdateVoiceProfileRequest struct {
	Id          uuid.UUID
	Name        string              `json:"name" validate:"required"`
	Guide       string              `json:"guide" validate:"required"`
	BannedWords []string            `json:"banned_words"`
	Thresholds  *scoring.Thresholds `json:"thresholds"`
}

type VoiceProfileResponse struct {
	Id          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Guide       string              `json:"guide"`
	BannedWords []string            `json:"banned_words"`
	Thresholds  *scoring.Thresholds `json:"thresholds"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   *time.Time          `json:"updated_at"`
}
