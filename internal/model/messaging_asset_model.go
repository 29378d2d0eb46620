package model

import (
	"time"

	"github.com/google/uuid"
)

type MessagingAsset struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	JobId     uuid.UUID `gorm:"type:uuid;not null;index"`
	AssetType string    `gorm:"type:varchar(40);not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (MessagingAsset) TableName() string {
	return "messaging_assets"
}

type AssetVariant struct {
	Id                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AssetId           uuid.UUID  `gorm:"type:uuid;not null;index"`
	VoiceProfileId    *uuid.UUID `gorm:"type:uuid;index"`
	VoiceName         string     `gorm:"type:varchar(80)"`
	Content           string     `gorm:"type:text;not null"`
	SlopScore         *float64   `gorm:"type:numeric(4,1)"`
	VendorSpeakScore  *float64   `gorm:"type:numeric(4,1)"`
	AuthenticityScore *float64   `gorm:"type:numeric(4,1)"`
	SpecificityScore  *float64   `gorm:"type:numeric(4,1)"`
	PersonaAvgScore   *float64   `gorm:"type:numeric(4,1)"`
	PassesGates       bool       `gorm:"not null;default:false"`
	IsSelected        bool       `gorm:"not null;default:false"`
	CreatedAt         time.Time  `gorm:"autoCreateTime"`
}

func (AssetVariant) TableName() string {
	return "asset_variants"
}
