package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/contract"
	"copyforge-be/internal/repository/memory"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/insights"
	"copyforge-be/pkg/llm"
)

type fakeSessionRepo struct {
	sessions []*entity.Session
}

func (r *fakeSessionRepo) Create(_ context.Context, session *entity.Session) error {
	copied := *session
	r.sessions = append(r.sessions, &copied)
	return nil
}

func (r *fakeSessionRepo) Update(_ context.Context, session *entity.Session) error {
	for i, s := range r.sessions {
		if s.Id == session.Id {
			copied := *session
			r.sessions[i] = &copied
		}
	}
	return nil
}

func (r *fakeSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	for _, s := range r.sessions {
		for _, spec := range specs {
			if byId, ok := spec.(specification.ByID); ok && s.Id == byId.ID {
				return s, nil
			}
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Session, error) {
	return r.sessions, nil
}

func (r *fakeSessionRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return int64(len(r.sessions)), nil
}

type sessionUow struct {
	fakeUow
	sessions *fakeSessionRepo
}

func (u *sessionUow) SessionRepository() contract.SessionRepository { return u.sessions }

type sessionUowFactory struct {
	uow *sessionUow
}

func (f *sessionUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// titleProvider records the naming prompt and answers with a fixed title.
type titleProvider struct {
	prompts []string
	title   string
}

func (p *titleProvider) Generate(_ context.Context, prompt string, _ ...llm.Option) (string, error) {
	p.prompts = append(p.prompts, prompt)
	return p.title, nil
}

func (p *titleProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return p.Generate(ctx, history[len(history)-1].Content, options...)
}

func newAutoNameFixture(session *entity.Session, title string) (ISessionService, *titleProvider, *memory.InsightsRepository, *fakeSessionRepo) {
	repo := &fakeSessionRepo{sessions: []*entity.Session{session}}
	provider := &titleProvider{title: title}
	insightsRepo := memory.NewInsightsRepository()
	svc := NewSessionService(&sessionUowFactory{uow: &sessionUow{sessions: repo}}, provider, insightsRepo, logger.NewNopLogger())
	return svc, provider, insightsRepo, repo
}

func TestAutoNamePrefersInsightsSummary(t *testing.T) {
	session := &entity.Session{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		Name:           "Untitled battlecard session (Jan 2 15:04)",
		ProductContext: strings.Repeat("raw vendor documentation ", 50),
	}
	svc, provider, insightsRepo, repo := newAutoNameFixture(session, "Gateway Latency Battlecards")

	ins := insights.BuildFallbackInsights("")
	ins.Summary = "An API gateway that cuts tail latency for internal services."
	insightsRepo.Save(session.Id, ins)

	svc.AutoName(context.Background(), session.Id)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], ins.Summary)
	assert.NotContains(t, provider.prompts[0], "raw vendor documentation")
	assert.Equal(t, "Gateway Latency Battlecards", repo.sessions[0].Name)
}

func TestAutoNameFallsBackToProductContext(t *testing.T) {
	session := &entity.Session{
		Id:             uuid.New(),
		UserId:         uuid.New(),
		Name:           "Untitled battlecard session (Jan 2 15:04)",
		ProductContext: "An internal developer portal for service catalogs.",
	}
	svc, provider, _, repo := newAutoNameFixture(session, "Developer Portal Messaging")

	svc.AutoName(context.Background(), session.Id)

	require.Len(t, provider.prompts, 1)
	assert.Contains(t, provider.prompts[0], session.ProductContext)
	assert.Equal(t, "Developer Portal Messaging", repo.sessions[0].Name)
}

func TestAutoNameLeavesUserChosenNamesAlone(t *testing.T) {
	session := &entity.Session{
		Id:     uuid.New(),
		UserId: uuid.New(),
		Name:   "Q3 launch messaging",
	}
	svc, provider, _, repo := newAutoNameFixture(session, "Something Else")

	svc.AutoName(context.Background(), session.Id)

	assert.Empty(t, provider.prompts)
	assert.Equal(t, "Q3 launch messaging", repo.sessions[0].Name)
}
