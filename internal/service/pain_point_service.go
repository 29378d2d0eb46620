package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/embedding"
)

const defaultMatchLimit = 5

type IPainPointService interface {
	Create(ctx context.Context, req *dto.CreatePainPointRequest) (*dto.PainPointResponse, error)
	List(ctx context.Context) ([]*dto.PainPointResponse, error)

	// Match ranks stored pain points by embedding distance to the query.
	// Only pain points whose embedding backfill has completed participate.
	Match(ctx context.Context, req *dto.MatchPainPointsRequest) ([]*dto.PainPointResponse, error)
}

type painPointService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	embedder   embedding.EmbeddingProvider
	logger     logger.ILogger
}

func NewPainPointService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	embedder embedding.EmbeddingProvider,
	log logger.ILogger,
) IPainPointService {
	return &painPointService{
		uowFactory: uowFactory,
		publisher:  publisher,
		embedder:   embedder,
		logger:     log,
	}
}

func (s *painPointService) Create(ctx context.Context, req *dto.CreatePainPointRequest) (*dto.PainPointResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	pp := &entity.PainPoint{
		Id:          uuid.New(),
		Title:       req.Title,
		Description: req.Description,
		Source:      req.Source,
		Quotes:      req.Quotes,
	}
	if err := uow.PainPointRepository().Create(ctx, pp); err != nil {
		return nil, err
	}

	// Embedding backfill happens off the request path.
	msgJson, err := json.Marshal(dto.PublishEmbedPainPointMessage{PainPointId: pp.Id})
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, msgJson); err != nil {
		s.logger.Warn("PainPointService", "Failed to queue embedding backfill", map[string]interface{}{
			"painPointId": pp.Id,
			"error":       err.Error(),
		})
	}

	return painPointToResponse(pp), nil
}

func (s *painPointService) List(ctx context.Context) ([]*dto.PainPointResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	points, err := uow.PainPointRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PainPointResponse, 0, len(points))
	for _, pp := range points {
		res = append(res, painPointToResponse(pp))
	}
	return res, nil
}

func (s *painPointService) Match(ctx context.Context, req *dto.MatchPainPointsRequest) ([]*dto.PainPointResponse, error) {
	if s.embedder == nil {
		return nil, apperr.NewBadRequest("semantic matching is not configured")
	}

	limit := req.Limit
	if limit <= 0 || limit > 20 {
		limit = defaultMatchLimit
	}

	resp, err := s.embedder.Generate(req.Query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	nearest, err := uow.PainPointRepository().FindNearest(ctx, resp.Embedding.Values, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.PainPointResponse, 0, len(nearest))
	for _, pp := range nearest {
		res = append(res, painPointToResponse(pp))
	}
	return res, nil
}

func painPointToResponse(pp *entity.PainPoint) *dto.PainPointResponse {
	return &dto.PainPointResponse{
		Id:           pp.Id,
		Title:        pp.Title,
		Description:  pp.Description,
		Source:       pp.Source,
		Quotes:       pp.Quotes,
		HasEmbedding: len(pp.Embedding) > 0,
		CreatedAt:    pp.CreatedAt,
	}
}
