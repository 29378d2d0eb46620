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

type JobRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.JobMapper
}

func NewJobRepository(db *gorm.DB) contract.JobRepository {
	return &JobRepositoryImpl{
		db:     db,
		mapper: mapper.NewJobMapper(),
	}
}

func (r *JobRepositoryImpl) Create(ctx context.Context, job *entity.Job) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *JobRepositoryImpl) Update(ctx context.Context, job *entity.Job) error {
	m := r.mapper.ToModel(job)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*job = *r.mapper.ToEntity(m)
	return nil
}

func (r *JobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Job, error) {
	var m model.Job
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *JobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Job, error) {
	var models []*model.Job
	query := applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Job, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}
