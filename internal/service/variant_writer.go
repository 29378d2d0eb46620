package service

import (
	"context"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/pipeline"
	"copyforge-be/pkg/scoring"

	"github.com/google/uuid"
)

// variantWriter persists finished pipeline units: the (job, assetType)
// asset with its per-voice variants, and the matching row in the session
// version lineage.
type variantWriter struct {
	uowFactory unitofwork.RepositoryFactory
	versions   IVersionService
	logger     logger.ILogger
}

func NewVariantWriter(uowFactory unitofwork.RepositoryFactory, versions IVersionService, log logger.ILogger) pipeline.VariantWriter {
	return &variantWriter{
		uowFactory: uowFactory,
		versions:   versions,
		logger:     log,
	}
}

func (w *variantWriter) SaveVariant(ctx context.Context, rec pipeline.VariantRecord) error {
	uow := w.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	asset, err := w.findOrCreateAsset(ctx, uow, rec)
	if err != nil {
		_ = uow.Rollback()
		return err
	}

	variant := &entity.AssetVariant{
		Id:             uuid.New(),
		AssetId:        asset.Id,
		VoiceProfileId: rec.VoiceProfileId,
		VoiceName:      rec.VoiceName,
		Content:        rec.Content,
		Scores:         &rec.Scores,
		PassesGates:    rec.PassesGates,
	}
	if err := uow.AssetVariantRepository().Create(ctx, variant); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := w.reselectBest(ctx, uow, asset.Id); err != nil {
		_ = uow.Rollback()
		return err
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	thresholds := w.thresholdsFor(ctx, rec.VoiceProfileId)
	detail := rec.SourceDetail
	if detail == nil {
		detail = map[string]interface{}{}
	}
	detail["voice"] = rec.VoiceName

	scores := rec.Scores
	_, err = w.versions.CreateVersionAndActivate(ctx,
		rec.SessionId, rec.AssetType, rec.Content,
		entity.VersionSource(rec.Source), detail, &scores, &thresholds,
	)
	return err
}

func (w *variantWriter) findOrCreateAsset(ctx context.Context, uow unitofwork.UnitOfWork, rec pipeline.VariantRecord) (*entity.MessagingAsset, error) {
	repo := uow.MessagingAssetRepository()

	asset, err := repo.FindOne(ctx,
		specification.ByJobID{JobID: rec.JobId},
		specification.ByAssetType{AssetType: rec.AssetType},
	)
	if err != nil {
		return nil, err
	}
	if asset != nil {
		return asset, nil
	}

	asset = &entity.MessagingAsset{
		Id:        uuid.New(),
		JobId:     rec.JobId,
		AssetType: rec.AssetType,
	}
	if err := repo.Create(ctx, asset); err != nil {
		return nil, err
	}
	return asset, nil
}

// reselectBest flips the selected flag to the highest-scoring variant of
// the asset. Gate-passing variants outrank failing ones regardless of
// raw total.
func (w *variantWriter) reselectBest(ctx context.Context, uow unitofwork.UnitOfWork, assetId uuid.UUID) error {
	repo := uow.AssetVariantRepository()

	variants, err := repo.FindAll(ctx, specification.ByAssetID{AssetID: assetId})
	if err != nil {
		return err
	}
	if len(variants) == 0 {
		return nil
	}

	best := variants[0]
	for _, v := range variants[1:] {
		if rank(v) > rank(best) {
			best = v
		}
	}

	for _, v := range variants {
		selected := v.Id == best.Id
		if v.IsSelected == selected {
			continue
		}
		v.IsSelected = selected
		if err := repo.Update(ctx, v); err != nil {
			return err
		}
	}
	return nil
}

func rank(v *entity.AssetVariant) float64 {
	total := 0.0
	if v.Scores != nil {
		total = scoring.TotalQualityScore(*v.Scores)
	}
	if v.PassesGates {
		total += 1000
	}
	return total
}

func (w *variantWriter) thresholdsFor(ctx context.Context, voiceProfileId *uuid.UUID) scoring.Thresholds {
	if voiceProfileId == nil {
		return scoring.DefaultThresholds()
	}
	uow := w.uowFactory.NewUnitOfWork(ctx)
	profile, err := uow.VoiceProfileRepository().FindOne(ctx, specification.ByID{ID: *voiceProfileId})
	if err != nil || profile == nil {
		return scoring.DefaultThresholds()
	}
	return profile.EffectiveThresholds()
}
