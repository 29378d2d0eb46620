package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByJobID struct {
	JobID uuid.UUID
}

func (s ByJobID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("job_id = ?", s.JobID)
}

type ByAssetType struct {
	AssetType string
}

func (s ByAssetType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("asset_type = ?", s.AssetType)
}

type ByAssetID struct {
	AssetID uuid.UUID
}

func (s ByAssetID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("asset_id = ?", s.AssetID)
}

type OnlyActive struct{}

func (s OnlyActive) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

type NotArchived struct{}

func (s NotArchived) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_archived = ?", false)
}
