package contract

import (
	"context"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type PainPointRepository interface {
	Create(ctx context.Context, painPoint *entity.PainPoint) error
	Update(ctx context.Context, painPoint *entity.PainPoint) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.PainPoint, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.PainPoint, error)

	// FindNearest ranks pain points by embedding distance to the query
	// vector (pgvector cosine distance).
	FindNearest(ctx context.Context, embedding []float32, limit int) ([]*entity.PainPoint, error)
}
