package contract

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type SessionVersionRepository interface {
	Create(ctx context.Context, version *entity.SessionVersion) error
	Update(ctx context.Context, version *entity.SessionVersion) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionVersion, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SessionVersion, error)

	// DeactivateAll clears the active flag on every active version for the
	// pair. Paired with Create inside one unit of work to keep the
	// single-active invariant.
	DeactivateAll(ctx context.Context, sessionId uuid.UUID, assetType string) error
}
