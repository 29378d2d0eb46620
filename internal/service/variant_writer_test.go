package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/pipeline"
	"copyforge-be/pkg/scoring"
)

type fakeAssetRepo struct {
	assets []*entity.MessagingAsset
}

func (r *fakeAssetRepo) Create(_ context.Context, asset *entity.MessagingAsset) error {
	copied := *asset
	r.assets = append(r.assets, &copied)
	return nil
}

func (r *fakeAssetRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MessagingAsset, error) {
	all, _ := r.FindAll(ctx, specs...)
	if len(all) == 0 {
		return nil, nil
	}
	return all[0], nil
}

func (r *fakeAssetRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.MessagingAsset, error) {
	var matches []*entity.MessagingAsset
	for _, a := range r.assets {
		ok := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByJobID:
				if a.JobId != s.JobID {
					ok = false
				}
			case specification.ByAssetType:
				if a.AssetType != s.AssetType {
					ok = false
				}
			}
		}
		if ok {
			matches = append(matches, a)
		}
	}
	return matches, nil
}

type fakeAssetVariantRepo struct {
	variants []*entity.AssetVariant
}

func (r *fakeAssetVariantRepo) Create(_ context.Context, variant *entity.AssetVariant) error {
	copied := *variant
	r.variants = append(r.variants, &copied)
	return nil
}

func (r *fakeAssetVariantRepo) Update(_ context.Context, variant *entity.AssetVariant) error {
	for i, v := range r.variants {
		if v.Id == variant.Id {
			copied := *variant
			r.variants[i] = &copied
		}
	}
	return nil
}

func (r *fakeAssetVariantRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.AssetVariant, error) {
	var matches []*entity.AssetVariant
	for _, v := range r.variants {
		ok := true
		for _, spec := range specs {
			if s, is := spec.(specification.ByAssetID); is && v.AssetId != s.AssetID {
				ok = false
			}
		}
		if ok {
			matches = append(matches, v)
		}
	}
	return matches, nil
}

// writerUow extends the version-service fake with the asset repos the
// variant writer touches.
type writerUow struct {
	fakeUow
	assets   *fakeAssetRepo
	variants *fakeAssetVariantRepo
}

func (u *writerUow) MessagingAssetRepository() contract.MessagingAssetRepository { return u.assets }
func (u *writerUow) AssetVariantRepository() contract.AssetVariantRepository     { return u.variants }

type writerUowFactory struct {
	uow *writerUow
}

func (f *writerUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newVariantWriterFixture() (pipeline.VariantWriter, *fakeAssetVariantRepo) {
	uow := &writerUow{
		fakeUow:  fakeUow{repo: &fakeVersionRepo{}},
		assets:   &fakeAssetRepo{},
		variants: &fakeAssetVariantRepo{},
	}
	factory := &writerUowFactory{uow: uow}
	versions := NewVersionService(factory, logger.NewNopLogger())
	return NewVariantWriter(factory, versions, logger.NewNopLogger()), uow.variants
}

func variantRecord(jobId, sessionId uuid.UUID, voice string, scores scoring.ScoreResults, passes bool) pipeline.VariantRecord {
	return pipeline.VariantRecord{
		JobId:       jobId,
		SessionId:   sessionId,
		AssetType:   "battlecard",
		VoiceName:   voice,
		Content:     "content for " + voice,
		Scores:      scores,
		PassesGates: passes,
		Source:      "generation",
	}
}

func TestSaveVariantSelectsHighestTotal(t *testing.T) {
	w, variants := newVariantWriterFixture()
	jobId, sessionId := uuid.New(), uuid.New()

	low := scoring.ScoreResults{SlopScore: 4, VendorSpeakScore: 4, AuthenticityScore: 5, SpecificityScore: 5, PersonaAvgScore: 5}
	high := scoring.ScoreResults{SlopScore: 2, VendorSpeakScore: 2, AuthenticityScore: 8, SpecificityScore: 8, PersonaAvgScore: 8}

	require.NoError(t, w.SaveVariant(context.Background(), variantRecord(jobId, sessionId, "Low", low, false)))
	require.NoError(t, w.SaveVariant(context.Background(), variantRecord(jobId, sessionId, "High", high, false)))

	require.Len(t, variants.variants, 2)
	byVoice := map[string]bool{}
	for _, v := range variants.variants {
		byVoice[v.VoiceName] = v.IsSelected
	}
	assert.False(t, byVoice["Low"])
	assert.True(t, byVoice["High"])
}

func TestSaveVariantGatePassOutranksRawTotal(t *testing.T) {
	w, variants := newVariantWriterFixture()
	jobId, sessionId := uuid.New(), uuid.New()

	// A failing variant with the better raw total still loses to a
	// gate-passing one.
	failingButHigh := scoring.ScoreResults{SlopScore: 0, VendorSpeakScore: 0, AuthenticityScore: 10, SpecificityScore: 10, PersonaAvgScore: 5}
	passing := scoring.ScoreResults{SlopScore: 4, VendorSpeakScore: 4, AuthenticityScore: 6, SpecificityScore: 6, PersonaAvgScore: 6}

	require.NoError(t, w.SaveVariant(context.Background(), variantRecord(jobId, sessionId, "RawHigh", failingButHigh, false)))
	require.NoError(t, w.SaveVariant(context.Background(), variantRecord(jobId, sessionId, "GatePass", passing, true)))

	for _, v := range variants.variants {
		if v.VoiceName == "GatePass" {
			assert.True(t, v.IsSelected)
		} else {
			assert.False(t, v.IsSelected)
		}
	}
}
