package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type PainPoint struct {
	Id          uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title       string          `gorm:"type:text;not null"`
	Description string          `gorm:"type:text"`
	Source      string          `gorm:"type:varchar(40)"`
	Quotes      datatypes.JSON  `gorm:"type:jsonb"`
	Embedding   pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt   time.Time       `gorm:"autoCreateTime"`
}

func (PainPoint) TableName() string {
	return "discovered_pain_points"
}
