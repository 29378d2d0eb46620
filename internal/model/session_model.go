package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Session struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	Name            string         `gorm:"type:text;not null"`
	PainPointId     *uuid.UUID     `gorm:"type:uuid;index"`
	VoiceProfileIds datatypes.JSON `gorm:"type:jsonb"`
	AssetTypes      datatypes.JSON `gorm:"type:jsonb"`
	Pipeline        string         `gorm:"type:varchar(40);not null"`
	ProductContext  string         `gorm:"type:text"`
	JobId           *uuid.UUID     `gorm:"type:uuid;index"`
	Status          string         `gorm:"type:varchar(20);not null;index"`
	IsArchived      bool           `gorm:"not null;default:false;index"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Session) TableName() string {
	return "sessions"
}
