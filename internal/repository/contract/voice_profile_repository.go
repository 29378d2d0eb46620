package contract

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type VoiceProfileRepository interface {
	Create(ctx context.Context, profile *entity.VoiceProfile) error
	Update(ctx context.Context, profile *entity.VoiceProfile) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.VoiceProfile, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.VoiceProfile, error)
}
