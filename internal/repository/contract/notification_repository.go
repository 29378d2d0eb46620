package contract

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
}
