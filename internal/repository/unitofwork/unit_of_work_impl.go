package unitofwork

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/implementation"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil when not started
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) JobRepository() contract.JobRepository {
	return implementation.NewJobRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionRepository() contract.SessionRepository {
	return implementation.NewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) SessionVersionRepository() contract.SessionVersionRepository {
	return implementation.NewSessionVersionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) MessagingAssetRepository() contract.MessagingAssetRepository {
	return implementation.NewMessagingAssetRepository(u.getDB())
}

func (u *UnitOfWorkImpl) AssetVariantRepository() contract.AssetVariantRepository {
	return implementation.NewAssetVariantRepository(u.getDB())
}

func (u *UnitOfWorkImpl) VoiceProfileRepository() contract.VoiceProfileRepository {
	return implementation.NewVoiceProfileRepository(u.getDB())
}

func (u *UnitOfWorkImpl) PainPointRepository() contract.PainPointRepository {
	return implementation.NewPainPointRepository(u.getDB())
}

func (u *UnitOfWorkImpl) NotificationRepository() contract.NotificationRepository {
	return implementation.NewNotificationRepository(u.getDB())
}
