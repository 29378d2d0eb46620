package contract

import (
	"context"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type JobRepository interface {
	Create(ctx context.Context, job *entity.Job) error
	Update(ctx context.Context, job *entity.Job) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Job, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Job, error)
}
