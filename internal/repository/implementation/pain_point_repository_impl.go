package implementation

import (
	"context"
	"errors"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/mapper"
	"copyforge-be/internal/model"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
)

type PainPointRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.PainPointMapper
}

func NewPainPointRepository(db *gorm.DB) contract.PainPointRepository {
	return &PainPointRepositoryImpl{
		db:     db,
		mapper: mapper.NewPainPointMapper(),
	}
}

func (r *PainPointRepositoryImpl) Create(ctx context.Context, painPoint *entity.PainPoint) error {
	m := r.mapper.ToModel(painPoint)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*painPoint = *r.mapper.ToEntity(m)
	return nil
}

func (r *PainPointRepositoryImpl) Update(ctx context.Context, painPoint *entity.PainPoint) error {
	m := r.mapper.ToModel(painPoint)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*painPoint = *r.mapper.ToEntity(m)
	return nil
}

func (r *PainPointRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PainPoint, error) {
	var m model.PainPoint
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *PainPointRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PainPoint, error) {
	var models []*model.PainPoint
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *PainPointRepositoryImpl) FindNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.PainPoint, error) {
	var models []*model.PainPoint
	err := r.db.WithContext(ctx).
		Clauses(clause.OrderBy{
			Expression: clause.Expr{SQL: "embedding <=> ?", Vars: []interface{}{pgvector.NewVector(embedding)}},
		}).
		Limit(limit).
		Find(&models).Error
	if err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}
