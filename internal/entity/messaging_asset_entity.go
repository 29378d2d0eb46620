package entity

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

// MessagingAsset is the pipeline-level output unit: one per (job, assetType),
// with one variant per voice profile. Exists alongside the session lineage
// so the voice-agnostic generation flow has its own record.
type MessagingAsset struct {
	Id        uuid.UUID
	JobId     uuid.UUID
	AssetType string
	CreatedAt time.Time
}

// AssetVariant is one voice's rendering of an asset, with its own score
// snapshot independent of the session version lineage.
type AssetVariant struct {
	Id             uuid.UUID
	AssetId        uuid.UUID
	VoiceProfileId *uuid.UUID
	VoiceName      string
	Content        string
	Scores         *scoring.ScoreResults
	PassesGates    bool
	IsSelected     bool
	CreatedAt      time.Time
}
