package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/memory"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/llm"
)

type ISessionService interface {
	List(ctx context.Context, userId uuid.UUID, includeArchived bool) ([]*dto.SessionResponse, error)
	Get(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error)
	SetArchived(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, archived bool) error

	// AutoName replaces the placeholder session name with a short LLM
	// generated title. Failures are logged and swallowed; the placeholder
	// name is always usable.
	AutoName(ctx context.Context, sessionId uuid.UUID)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	provider   llm.Provider
	insights   *memory.InsightsRepository
	logger     logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, provider llm.Provider, insightsRepo *memory.InsightsRepository, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		provider:   provider,
		insights:   insightsRepo,
		logger:     log,
	}
}

func (s *sessionService) List(ctx context.Context, userId uuid.UUID, includeArchived bool) ([]*dto.SessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByUserID{UserID: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	}
	if !includeArchived {
		specs = append(specs, specification.NotArchived{})
	}

	sessions, err := uow.SessionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.SessionResponse, 0, len(sessions))
	for _, session := range sessions {
		res = append(res, sessionToResponse(session))
	}
	return res, nil
}

func (s *sessionService) Get(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*dto.SessionResponse, error) {
	session, err := s.owned(ctx, userId, sessionId)
	if err != nil {
		return nil, err
	}
	return sessionToResponse(session), nil
}

func (s *sessionService) SetArchived(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, archived bool) error {
	session, err := s.owned(ctx, userId, sessionId)
	if err != nil {
		return err
	}
	if session.IsArchived == archived {
		return nil
	}
	session.IsArchived = archived

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().Update(ctx, session)
}

func (s *sessionService) AutoName(ctx context.Context, sessionId uuid.UUID) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SessionRepository()

	session, err := repo.FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil || session == nil {
		return
	}
	if !strings.HasPrefix(session.Name, "Untitled") {
		return
	}

	// The distilled summary from insight extraction names the product far
	// better than raw docs; fall back to docs once the cache has expired.
	subject := session.ProductContext
	if s.insights != nil {
		if ins, ok := s.insights.Get(sessionId); ok && ins.Summary != "" && ins.Summary != "unknown" {
			subject = ins.Summary
		}
	}
	if len(subject) > 2000 {
		subject = subject[:2000]
	}
	title, err := s.provider.Generate(ctx,
		"Write a short title (max 6 words) for a messaging workspace about this product. "+
			"Return only the title, no quotes.\n\n"+subject,
		llm.WithTemperature(0.3),
	)
	if err != nil {
		s.logger.Warn("SessionService", "Auto naming failed, keeping placeholder", map[string]interface{}{
			"sessionId": sessionId,
			"error":     err.Error(),
		})
		return
	}

	title = strings.TrimSpace(strings.Trim(strings.TrimSpace(title), `"`))
	if title == "" || len(title) > 120 {
		return
	}

	session.Name = title
	if err := repo.Update(ctx, session); err != nil {
		s.logger.Warn("SessionService", "Failed to persist auto name", map[string]interface{}{
			"sessionId": sessionId,
			"error":     err.Error(),
		})
	}
}

func (s *sessionService) owned(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID) (*entity.Session, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, apperr.NewNotFound("session not found")
	}
	return session, nil
}

func sessionToResponse(session *entity.Session) *dto.SessionResponse {
	return &dto.SessionResponse{
		Id:         session.Id,
		Name:       session.Name,
		AssetTypes: session.AssetTypes,
		Pipeline:   session.Pipeline,
		JobId:      session.JobId,
		Status:     string(session.Status),
		IsArchived: session.IsArchived,
		CreatedAt:  session.CreatedAt,
		UpdatedAt:  session.UpdatedAt,
	}
}
