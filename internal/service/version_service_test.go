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
	"copyforge-be/pkg/scoring"
)

// fakeVersionRepo keeps session versions in memory and interprets the
// specification set the version service actually uses.
type fakeVersionRepo struct {
	versions []*entity.SessionVersion
}

func (r *fakeVersionRepo) Create(_ context.Context, version *entity.SessionVersion) error {
	copied := *version
	r.versions = append(r.versions, &copied)
	return nil
}

func (r *fakeVersionRepo) Update(_ context.Context, version *entity.SessionVersion) error {
	for i, v := range r.versions {
		if v.Id == version.Id {
			copied := *version
			r.versions[i] = &copied
			return nil
		}
	}
	return nil
}

func (r *fakeVersionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SessionVersion, error) {
	matches, err := r.FindAll(ctx, specs...)
	if err != nil || len(matches) == 0 {
		return nil, err
	}
	return matches[0], nil
}

func (r *fakeVersionRepo) FindAll(_ context.Context, specs ...specification.Specification) ([]*entity.SessionVersion, error) {
	matches := make([]*entity.SessionVersion, 0, len(r.versions))
	for _, v := range r.versions {
		if matchesSpecs(v, specs) {
			matches = append(matches, v)
		}
	}
	for _, spec := range specs {
		if order, ok := spec.(specification.OrderBy); ok && order.Field == "version_number" && order.Desc {
			for i, j := 0, len(matches)-1; i < j; i, j = i+1, j-1 {
				matches[i], matches[j] = matches[j], matches[i]
			}
		}
	}
	return matches, nil
}

func (r *fakeVersionRepo) DeactivateAll(_ context.Context, sessionId uuid.UUID, assetType string) error {
	for _, v := range r.versions {
		if v.SessionId == sessionId && v.AssetType == assetType {
			v.IsActive = false
		}
	}
	return nil
}

func matchesSpecs(v *entity.SessionVersion, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if v.Id != s.ID {
				return false
			}
		case specification.BySessionID:
			if v.SessionId != s.SessionID {
				return false
			}
		case specification.ByAssetType:
			if v.AssetType != s.AssetType {
				return false
			}
		case specification.OnlyActive:
			if !v.IsActive {
				return false
			}
		}
	}
	return true
}

// fakeUow satisfies the unit of work contract over the in-memory repo;
// transaction calls are tracked but have no isolation semantics.
type fakeUow struct {
	repo      *fakeVersionRepo
	begins    int
	commits   int
	rollbacks int
}

func (u *fakeUow) Begin(context.Context) error { u.begins++; return nil }
func (u *fakeUow) Commit() error               { u.commits++; return nil }
func (u *fakeUow) Rollback() error             { u.rollbacks++; return nil }

func (u *fakeUow) JobRepository() contract.JobRepository                       { return nil }
func (u *fakeUow) SessionRepository() contract.SessionRepository               { return nil }
func (u *fakeUow) SessionVersionRepository() contract.SessionVersionRepository { return u.repo }
func (u *fakeUow) MessagingAssetRepository() contract.MessagingAssetRepository { return nil }
func (u *fakeUow) AssetVariantRepository() contract.AssetVariantRepository     { return nil }
func (u *fakeUow) VoiceProfileRepository() contract.VoiceProfileRepository     { return nil }
func (u *fakeUow) PainPointRepository() contract.PainPointRepository           { return nil }
func (u *fakeUow) NotificationRepository() contract.NotificationRepository     { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

func newVersionServiceFixture() (IVersionService, *fakeVersionRepo, *fakeUow) {
	repo := &fakeVersionRepo{}
	uow := &fakeUow{repo: repo}
	svc := NewVersionService(&fakeUowFactory{uow: uow}, logger.NewNopLogger())
	return svc, repo, uow
}

func passingScores() *scoring.ScoreResults {
	return &scoring.ScoreResults{
		SlopScore:         2,
		VendorSpeakScore:  2,
		AuthenticityScore: 8,
		SpecificityScore:  8,
		PersonaAvgScore:   8,
	}
}

func TestCreateVersionAndActivateNumbersSequentially(t *testing.T) {
	svc, repo, uow := newVersionServiceFixture()
	sessionId := uuid.New()

	for i := 0; i < 3; i++ {
		_, err := svc.CreateVersionAndActivate(context.Background(),
			sessionId, "battlecard", "content", entity.SourceGeneration, nil, nil, nil)
		require.NoError(t, err)
	}

	require.Len(t, repo.versions, 3)
	activeCount := 0
	for i, v := range repo.versions {
		assert.Equal(t, i+1, v.VersionNumber)
		if v.IsActive {
			activeCount++
		}
	}
	assert.Equal(t, 1, activeCount, "exactly one version may be active")
	assert.True(t, repo.versions[2].IsActive, "latest version is the active one")
	assert.Equal(t, 3, uow.begins)
	assert.Equal(t, 3, uow.commits)
	assert.Zero(t, uow.rollbacks)
}

func TestCreateVersionAndActivatePartitionsByAssetType(t *testing.T) {
	svc, repo, _ := newVersionServiceFixture()
	sessionId := uuid.New()

	_, err := svc.CreateVersionAndActivate(context.Background(),
		sessionId, "battlecard", "a", entity.SourceGeneration, nil, nil, nil)
	require.NoError(t, err)
	_, err = svc.CreateVersionAndActivate(context.Background(),
		sessionId, "talk_track", "b", entity.SourceGeneration, nil, nil, nil)
	require.NoError(t, err)

	// Separate lineages both start at 1 and stay active independently.
	assert.Equal(t, 1, repo.versions[0].VersionNumber)
	assert.Equal(t, 1, repo.versions[1].VersionNumber)
	assert.True(t, repo.versions[0].IsActive)
	assert.True(t, repo.versions[1].IsActive)
}

func TestCreateVersionComputesQualityGates(t *testing.T) {
	svc, repo, _ := newVersionServiceFixture()
	sessionId := uuid.New()
	thresholds := scoring.DefaultThresholds()

	_, err := svc.CreateVersionAndActivate(context.Background(),
		sessionId, "battlecard", "scored", entity.SourceDeslop, nil, passingScores(), &thresholds)
	require.NoError(t, err)
	assert.True(t, repo.versions[0].PassesGates)

	// Without thresholds no gate judgment is possible.
	_, err = svc.CreateVersionAndActivate(context.Background(),
		sessionId, "battlecard", "unscored", entity.SourceDeslop, nil, passingScores(), nil)
	require.NoError(t, err)
	assert.False(t, repo.versions[1].PassesGates)
}

func TestGetActiveVersionFallsBackToHighestNumber(t *testing.T) {
	svc, repo, _ := newVersionServiceFixture()
	sessionId := uuid.New()

	for i := 1; i <= 3; i++ {
		repo.versions = append(repo.versions, &entity.SessionVersion{
			Id:            uuid.New(),
			SessionId:     sessionId,
			AssetType:     "one_pager",
			VersionNumber: i,
			IsActive:      false,
		})
	}

	got, err := svc.GetActiveVersion(context.Background(), sessionId, "one_pager")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 3, got.VersionNumber)
}

func TestActivateVersionFlipsWithoutNewRow(t *testing.T) {
	svc, repo, _ := newVersionServiceFixture()
	sessionId := uuid.New()

	for i := 0; i < 2; i++ {
		_, err := svc.CreateVersionAndActivate(context.Background(),
			sessionId, "battlecard", "content", entity.SourceGeneration, nil, nil, nil)
		require.NoError(t, err)
	}
	first := repo.versions[0]

	got, err := svc.ActivateVersion(context.Background(), sessionId, first.Id)
	require.NoError(t, err)
	assert.Equal(t, first.Id, got.Id)
	assert.True(t, got.IsActive)

	require.Len(t, repo.versions, 2, "activation must not append a version")
	assert.True(t, repo.versions[0].IsActive)
	assert.False(t, repo.versions[1].IsActive)
}

func TestActivateVersionRejectsForeignSession(t *testing.T) {
	svc, repo, _ := newVersionServiceFixture()
	sessionId := uuid.New()

	_, err := svc.CreateVersionAndActivate(context.Background(),
		sessionId, "battlecard", "content", entity.SourceGeneration, nil, nil, nil)
	require.NoError(t, err)

	_, err = svc.ActivateVersion(context.Background(), uuid.New(), repo.versions[0].Id)
	assert.Error(t, err)
}
