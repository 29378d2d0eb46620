package entity

import (
	"time"

	"github.com/google/uuid"

	"copyforge-be/pkg/scoring"
)

// VoiceProfile is a named writing-style configuration: a guide the model
// follows plus the per-axis quality thresholds content must clear.
// Thresholds nil means scoring defaults apply.
type VoiceProfile struct {
	Id          uuid.UUID
	Name        string
	Guide       string
	BannedWords []string
	Thresholds  *scoring.Thresholds
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

// EffectiveThresholds resolves the profile's thresholds, falling back to
// the scoring defaults when none are configured.
func (v *VoiceProfile) EffectiveThresholds() scoring.Thresholds {
	if v != nil && v.Thresholds != nil {
		return *v.Thresholds
	}
	return scoring.DefaultThresholds()
}
