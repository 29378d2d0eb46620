package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type VoiceProfile struct {
	Id          uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string         `gorm:"type:varchar(80);not null;uniqueIndex"`
	Guide       string         `gorm:"type:text;not null"`
	BannedWords datatypes.JSON `gorm:"type:jsonb"`
	// Embedded JSON, not columns: thresholds travel with the profile
	ScoringThresholds datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"index"`
}

func (VoiceProfile) TableName() string {
	return "voice_profiles"
}
