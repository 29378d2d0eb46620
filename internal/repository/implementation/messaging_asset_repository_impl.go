package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/mapper"
	"copyforge-be/internal/model"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
)

type MessagingAssetRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssetMapper
}

func NewMessagingAssetRepository(db *gorm.DB) contract.MessagingAssetRepository {
	return &MessagingAssetRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssetMapper(),
	}
}

func (r *MessagingAssetRepositoryImpl) Create(ctx context.Context, asset *entity.MessagingAsset) error {
	m := r.mapper.AssetToModel(asset)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*asset = *r.mapper.AssetToEntity(m)
	return nil
}

func (r *MessagingAssetRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessagingAsset, error) {
	var m model.MessagingAsset
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.AssetToEntity(&m), nil
}

func (r *MessagingAssetRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessagingAsset, error) {
	var models []*model.MessagingAsset
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.MessagingAsset, len(models))
	for i, m := range models {
		entities[i] = r.mapper.AssetToEntity(m)
	}
	return entities, nil
}

type AssetVariantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AssetMapper
}

func NewAssetVariantRepository(db *gorm.DB) contract.AssetVariantRepository {
	return &AssetVariantRepositoryImpl{
		db:     db,
		mapper: mapper.NewAssetMapper(),
	}
}

func (r *AssetVariantRepositoryImpl) Create(ctx context.Context, variant *entity.AssetVariant) error {
	m := r.mapper.VariantToModel(variant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*variant = *r.mapper.VariantToEntity(m)
	return nil
}

func (r *AssetVariantRepositoryImpl) Update(ctx context.Context, variant *entity.AssetVariant) error {
	m := r.mapper.VariantToModel(variant)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*variant = *r.mapper.VariantToEntity(m)
	return nil
}

func (r *AssetVariantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssetVariant, error) {
	var models []*model.AssetVariant
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.VariantsToEntities(models), nil
}
