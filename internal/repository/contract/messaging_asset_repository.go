package contract

import (
	"context"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type MessagingAssetRepository interface {
	Create(ctx context.Context, asset *entity.MessagingAsset) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessagingAsset, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.MessagingAsset, error)
}

type AssetVariantRepository interface {
	Create(ctx context.Context, variant *entity.AssetVariant) error
	Update(ctx context.Context, variant *entity.AssetVariant) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AssetVariant, error)
}
