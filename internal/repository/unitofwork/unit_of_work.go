package unitofwork

import (
	"context"

	"copyforge-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	JobRepository() contract.JobRepository
	SessionRepository() contract.SessionRepository
	SessionVersionRepository() contract.SessionVersionRepository
	MessagingAssetRepository() contract.MessagingAssetRepository
	AssetVariantRepository() contract.AssetVariantRepository
	VoiceProfileRepository() contract.VoiceProfileRepository
	PainPointRepository() contract.PainPointRepository
	NotificationRepository() contract.NotificationRepository
}
