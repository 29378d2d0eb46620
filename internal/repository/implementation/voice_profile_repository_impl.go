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

type VoiceProfileRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.VoiceMapper
}

func NewVoiceProfileRepository(db *gorm.DB) contract.VoiceProfileRepository {
	return &VoiceProfileRepositoryImpl{
		db:     db,
		mapper: mapper.NewVoiceMapper(),
	}
}

func (r *VoiceProfileRepositoryImpl) Create(ctx context.Context, profile *entity.VoiceProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoiceProfileRepositoryImpl) Update(ctx context.Context, profile *entity.VoiceProfile) error {
	m := r.mapper.ToModel(profile)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*profile = *r.mapper.ToEntity(m)
	return nil
}

func (r *VoiceProfileRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.VoiceProfile{}, "id = ?", id).Error
}

func (r *VoiceProfileRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceProfile, error) {
	var m model.VoiceProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *VoiceProfileRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceProfile, error) {
	var models []*model.VoiceProfile
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
