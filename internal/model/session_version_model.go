package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SessionVersion struct {
	Id                uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId         uuid.UUID      `gorm:"type:uuid;not null;index:idx_session_asset"`
	AssetType         string         `gorm:"type:varchar(40);not null;index:idx_session_asset"`
	VersionNumber     int            `gorm:"not null"`
	Content           string         `gorm:"type:text;not null"`
	Source            string         `gorm:"type:varchar(30);not null"`
	SourceDetail      datatypes.JSON `gorm:"type:jsonb"`
	SlopScore         *float64       `gorm:"type:numeric(4,1)"`
	VendorSpeakScore  *float64       `gorm:"type:numeric(4,1)"`
	AuthenticityScore *float64       `gorm:"type:numeric(4,1)"`
	SpecificityScore  *float64       `gorm:"type:numeric(4,1)"`
	PersonaAvgScore   *float64       `gorm:"type:numeric(4,1)"`
	PassesGates       bool           `gorm:"not null;default:false"`
	IsActive          bool           `gorm:"not null;default:false;index"`
	CreatedAt         time.Time      `gorm:"autoCreateTime"`
}

func (SessionVersion) TableName() string {
	return "session_versions"
}
