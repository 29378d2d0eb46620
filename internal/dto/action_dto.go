package dto

import (
	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

type ActionRequest struct {
	AssetType      string     `json:"asset_type" validate:"required"`
	VoiceProfileId *uuid.UUID `json:"voice_profile_id"`
	Model          string     `json:"model"`
}

type ActionCreatedResponse struct {
	ActionId uuid.UUID `json:"action_id"`
}

type ActionResultPayload struct {
	Version        *VersionResponse      `json:"version"`
	PreviousScores *scoring.ScoreResults `json:"previous_scores"`
}

type ActionStatusResponse struct {
	ActionId     uuid.UUID            `json:"action_id"`
	Type         string               `json:"type"`
	Status       string               `json:"status"`
	Result       *ActionResultPayload `json:"result"`
	ErrorMessage string               `json:"error_message,omitempty"`
}
