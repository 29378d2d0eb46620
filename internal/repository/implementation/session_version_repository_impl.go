package implementation

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/mapper"
	"copyforge-be/internal/model"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
)

type SessionVersionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VersionMapper
}

func NewSessionVersionRepository(db *gorm.DB) contract.SessionVersionRepository {
	return &SessionVersionRepositoryImpl{
		db:     db,
		mapper: mapper.NewVersionMapper(),
	}
}

func (r *SessionVersionRepositoryImpl) Create(ctx context.Context, version *entity.SessionVersion) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionVersionRepositoryImpl) Update(ctx context.Context, version *entity.SessionVersion) error {
	m := r.mapper.ToModel(version)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*version = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionVersionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionVersion, error) {
	var m model.SessionVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionVersionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionVersion, error) {
	var models []*model.SessionVersion
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *SessionVersionRepositoryImpl) DeactivateAll(ctx context.Context, sessionId uuid.UUID, assetType string) error {
	return r.db.WithContext(ctx).
		Model(&model.SessionVersion{}).
		Where("session_id = ? AND asset_type = ? AND is_active = ?", sessionId, assetType, true).
		Update("is_active", false).Error
}
