package service

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/scoring"
)

type IVersionService interface {
	// CreateVersionAndActivate is the sole mutation point for version
	// lineage. The deactivate-then-insert runs inside one transaction so
	// the single-active invariant survives concurrent actions
	// (last-writer-wins).
	CreateVersionAndActivate(
		ctx context.Context,
		sessionId uuid.UUID,
		assetType string,
		content string,
		source entity.VersionSource,
		detail map[string]interface{},
		scores *scoring.ScoreResults,
		thresholds *scoring.Thresholds,
	) (*entity.SessionVersion, error)

	GetActiveVersion(ctx context.Context, sessionId uuid.UUID, assetType string) (*entity.SessionVersion, error)
	ListVersions(ctx context.Context, sessionId uuid.UUID, assetType string) ([]*entity.SessionVersion, error)
	ActivateVersion(ctx context.Context, sessionId uuid.UUID, versionId uuid.UUID) (*entity.SessionVersion, error)
}

type versionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewVersionService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) IVersionService {
	return &versionService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (s *versionService) CreateVersionAndActivate(
	ctx context.Context,
	sessionId uuid.UUID,
	assetType string,
	content string,
	source entity.VersionSource,
	detail map[string]interface{},
	scores *scoring.ScoreResults,
	thresholds *scoring.Thresholds,
) (*entity.SessionVersion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	repo := uow.SessionVersionRepository()

	existing, err := repo.FindAll(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByAssetType{AssetType: assetType},
	)
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	next := 1
	for _, v := range existing {
		if v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}

	if err := repo.DeactivateAll(ctx, sessionId, assetType); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	passes := false
	if scores != nil && thresholds != nil {
		passes = scoring.CheckQualityGates(*scores, *thresholds)
	}

	version := &entity.SessionVersion{
		Id:            uuid.New(),
		SessionId:     sessionId,
		AssetType:     assetType,
		VersionNumber: next,
		Content:       content,
		Source:        source,
		SourceDetail:  detail,
		Scores:        scores,
		PassesGates:   passes,
		IsActive:      true,
	}
	if err := repo.Create(ctx, version); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("VersionService", "Created and activated version", map[string]interface{}{
		"sessionId":     sessionId,
		"assetType":     assetType,
		"versionNumber": next,
		"source":        source,
		"passesGates":   passes,
	})

	return version, nil
}

// GetActiveVersion returns the active version, falling back to the
// highest version number when no active flag is set. The fallback should
// not normally trigger; it is tolerated rather than treated as corruption.
func (s *versionService) GetActiveVersion(ctx context.Context, sessionId uuid.UUID, assetType string) (*entity.SessionVersion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SessionVersionRepository()

	active, err := repo.FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByAssetType{AssetType: assetType},
		specification.OnlyActive{},
	)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return active, nil
	}

	return repo.FindOne(ctx,
		specification.BySessionID{SessionID: sessionId},
		specification.ByAssetType{AssetType: assetType},
		specification.OrderBy{Field: "version_number", Desc: true},
	)
}

func (s *versionService) ListVersions(ctx context.Context, sessionId uuid.UUID, assetType string) ([]*entity.SessionVersion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.BySessionID{SessionID: sessionId},
		specification.OrderBy{Field: "version_number", Desc: true},
	}
	if assetType != "" {
		specs = append(specs, specification.ByAssetType{AssetType: assetType})
	}

	return uow.SessionVersionRepository().FindAll(ctx, specs...)
}

// ActivateVersion flips an existing version back to active; no new row is
// written.
func (s *versionService) ActivateVersion(ctx context.Context, sessionId uuid.UUID, versionId uuid.UUID) (*entity.SessionVersion, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	repo := uow.SessionVersionRepository()

	version, err := repo.FindOne(ctx, specification.ByID{ID: versionId})
	if err != nil {
		_ = uow.Rollback()
		return nil, err
	}
	if version == nil || version.SessionId != sessionId {
		_ = uow.Rollback()
		return nil, apperr.NewNotFound("version not found")
	}

	if err := repo.DeactivateAll(ctx, sessionId, version.AssetType); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	version.IsActive = true
	if err := repo.Update(ctx, version); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}
	return version, nil
}
