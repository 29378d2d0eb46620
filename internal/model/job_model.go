package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Job struct {
	Id              uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId          uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserEmail       string         `gorm:"type:varchar(255)"`
	Status          string         `gorm:"type:varchar(20);not null;index"`
	CurrentStep     string         `gorm:"type:text"`
	Progress        int            `gorm:"not null;default:0"`
	ProductDocs     string         `gorm:"type:text"`
	AssetTypes      datatypes.JSON `gorm:"type:jsonb"`
	VoiceProfileIds datatypes.JSON `gorm:"type:jsonb"`
	Pipeline        string         `gorm:"type:varchar(40);not null"`
	Model           string         `gorm:"type:varchar(80)"`
	ErrorMessage    string         `gorm:"type:text"`
	Metadata        datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt       time.Time      `gorm:"autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (Job) TableName() string {
	return "jobs"
}
