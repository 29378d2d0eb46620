package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/embedding"
	"copyforge-be/pkg/events"
	pktNats "copyforge-be/pkg/nats"
	"copyforge-be/pkg/pipeline"
	"copyforge-be/pkg/scoring"
)

type IGenerationService interface {
	// Generate validates the request, creates the job and its session, and
	// launches the pipeline in the background. Returns immediately with the
	// ids to poll. userEmail may be empty; it only feeds completion mail.
	Generate(ctx context.Context, userId uuid.UUID, userEmail string, req *dto.GenerateRequest) (*dto.GenerateResponse, error)

	// GetJob returns job status plus, once completed, results shaped per
	// asset type with one entry per voice variant.
	GetJob(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) (*dto.JobStatusResponse, error)
}

type generationService struct {
	uowFactory unitofwork.RepositoryFactory
	runner     *pipeline.Runner
	embedder   embedding.EmbeddingProvider
	publisher  *pktNats.Publisher
	logger     logger.ILogger
}

func NewGenerationService(
	uowFactory unitofwork.RepositoryFactory,
	runner *pipeline.Runner,
	embedder embedding.EmbeddingProvider,
	publisher *pktNats.Publisher,
	log logger.ILogger,
) IGenerationService {
	return &generationService{
		uowFactory: uowFactory,
		runner:     runner,
		embedder:   embedder,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *generationService) Generate(ctx context.Context, userId uuid.UUID, userEmail string, req *dto.GenerateRequest) (*dto.GenerateResponse, error) {
	pipelineName := req.Pipeline
	if pipelineName == "" {
		pipelineName = pipeline.PipelineStandard
	}
	if !pipeline.IsKnownPipeline(pipelineName) {
		return nil, apperr.NewBadRequest(fmt.Sprintf(
			"unknown pipeline %q, valid pipelines: %s",
			pipelineName, strings.Join(pipeline.KnownPipelines(), ", "),
		))
	}
	if strings.TrimSpace(req.ProductDocs) == "" {
		return nil, apperr.NewBadRequest("product_docs must not be empty")
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	voices, err := s.resolveVoices(ctx, uow, req.VoiceProfileIds)
	if err != nil {
		return nil, err
	}

	painPoints, painPointId := s.resolvePainPoints(ctx, uow, req.PainPointId, req.ProductDocs)

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	job := &entity.Job{
		Id:              uuid.New(),
		UserId:          userId,
		UserEmail:       userEmail,
		Status:          entity.JobStatusPending,
		CurrentStep:     "Queued",
		ProductDocs:     req.ProductDocs,
		AssetTypes:      req.AssetTypes,
		VoiceProfileIds: req.VoiceProfileIds,
		Pipeline:        pipelineName,
		Model:           req.Model,
	}
	if err := uow.JobRepository().Create(ctx, job); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	session := &entity.Session{
		Id:              uuid.New(),
		UserId:          userId,
		Name:            placeholderSessionName(req.AssetTypes),
		PainPointId:     painPointId,
		VoiceProfileIds: req.VoiceProfileIds,
		AssetTypes:      req.AssetTypes,
		Pipeline:        pipelineName,
		ProductContext:  req.ProductDocs,
		JobId:           &job.Id,
		Status:          entity.JobStatusPending,
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		_ = uow.Rollback()
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	if s.publisher != nil {
		event := events.NewJobCreatedEvent(job.Id.String(), session.Id.String(), userId.String(), pipelineName)
		if err := s.publisher.Publish(ctx, event); err != nil {
			s.logger.Warn("GenerationService", "Failed to publish job created event", map[string]interface{}{"error": err.Error()})
		}
	}

	inputs := pipeline.Inputs{
		JobId:       job.Id,
		SessionId:   session.Id,
		ProductDocs: req.ProductDocs,
		AssetTypes:  req.AssetTypes,
		Voices:      voices,
		Model:       req.Model,
		PainPoints:  painPoints,
	}

	// Detached from the request context so the client disconnecting does
	// not cancel the run.
	go s.runner.Execute(context.Background(), pipelineName, inputs)

	s.logger.Info("GenerationService", "Generation job launched", map[string]interface{}{
		"jobId":     job.Id,
		"sessionId": session.Id,
		"pipeline":  pipelineName,
		"assets":    len(req.AssetTypes),
		"voices":    len(voices),
	})

	return &dto.GenerateResponse{JobId: job.Id, SessionId: session.Id}, nil
}

func (s *generationService) GetJob(ctx context.Context, userId uuid.UUID, jobId uuid.UUID) (*dto.JobStatusResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.JobRepository().FindOne(ctx, specification.ByID{ID: jobId})
	if err != nil {
		return nil, err
	}
	if job == nil || job.UserId != userId {
		return nil, apperr.NewNotFound("job not found")
	}

	res := &dto.JobStatusResponse{
		JobId:        job.Id,
		Status:       string(job.Status),
		CurrentStep:  job.CurrentStep,
		Progress:     job.Progress,
		ErrorMessage: job.ErrorMessage,
		CreatedAt:    job.CreatedAt,
	}

	if job.Status == entity.JobStatusCompleted {
		results, err := s.collectResults(ctx, uow, job.Id)
		if err != nil {
			return nil, err
		}
		res.Results = results
	}
	return res, nil
}

func (s *generationService) collectResults(ctx context.Context, uow unitofwork.UnitOfWork, jobId uuid.UUID) ([]*dto.JobAssetResult, error) {
	assets, err := uow.MessagingAssetRepository().FindAll(ctx,
		specification.ByJobID{JobID: jobId},
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	results := make([]*dto.JobAssetResult, 0, len(assets))
	for _, asset := range assets {
		variants, err := uow.AssetVariantRepository().FindAll(ctx,
			specification.ByAssetID{AssetID: asset.Id},
			specification.OrderBy{Field: "created_at", Desc: false},
		)
		if err != nil {
			return nil, err
		}

		entry := &dto.JobAssetResult{AssetType: asset.AssetType}
		for _, v := range variants {
			entry.Variants = append(entry.Variants, &dto.JobVariantResult{
				VoiceProfileId: v.VoiceProfileId,
				VoiceName:      v.VoiceName,
				Content:        v.Content,
				Scores:         v.Scores,
				PassesGates:    v.PassesGates,
			})
		}
		results = append(results, entry)
	}
	return results, nil
}

// resolveVoices loads the requested profiles, or falls back to a single
// neutral voice with default thresholds when none were selected.
func (s *generationService) resolveVoices(ctx context.Context, uow unitofwork.UnitOfWork, ids []uuid.UUID) ([]pipeline.Voice, error) {
	if len(ids) == 0 {
		return []pipeline.Voice{{
			Name:       "Default",
			Guide:      "Clear, direct, and concrete. Write like a knowledgeable practitioner, not a brochure.",
			Thresholds: scoring.DefaultThresholds(),
		}}, nil
	}

	profiles, err := uow.VoiceProfileRepository().FindAll(ctx, specification.ByIDs{IDs: ids})
	if err != nil {
		return nil, err
	}
	if len(profiles) != len(ids) {
		return nil, apperr.NewBadRequest("one or more voice profiles do not exist")
	}

	voices := make([]pipeline.Voice, 0, len(profiles))
	for _, p := range profiles {
		voices = append(voices, pipeline.Voice{
			Id:          p.Id,
			Name:        p.Name,
			Guide:       p.Guide,
			BannedWords: p.BannedWords,
			Thresholds:  p.EffectiveThresholds(),
		})
	}
	return voices, nil
}

// resolvePainPoints returns prompt-ready pain point context. An explicit
// id wins; otherwise the nearest stored pain point by embedding distance
// is attached best-effort.
func (s *generationService) resolvePainPoints(ctx context.Context, uow unitofwork.UnitOfWork, id *uuid.UUID, productDocs string) ([]string, *uuid.UUID) {
	repo := uow.PainPointRepository()

	if id != nil {
		pp, err := repo.FindOne(ctx, specification.ByID{ID: *id})
		if err != nil || pp == nil {
			s.logger.Warn("GenerationService", "Requested pain point not found", map[string]interface{}{"painPointId": *id})
			return nil, nil
		}
		return painPointContext(pp), id
	}

	if s.embedder == nil {
		return nil, nil
	}
	resp, err := s.embedder.Generate(productDocs, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, nil
	}
	nearest, err := repo.FindNearest(ctx, resp.Embedding.Values, 1)
	if err != nil || len(nearest) == 0 {
		return nil, nil
	}
	matched := nearest[0]
	return painPointContext(matched), &matched.Id
}

func painPointContext(pp *entity.PainPoint) []string {
	out := []string{pp.Title + ": " + pp.Description}
	for _, q := range pp.Quotes {
		out = append(out, "Practitioner quote: "+q)
	}
	return out
}

func placeholderSessionName(assetTypes []string) string {
	label := "copy"
	if len(assetTypes) > 0 {
		label = strings.ReplaceAll(assetTypes[0], "_", " ")
	}
	return fmt.Sprintf("Untitled %s session (%s)", label, time.Now().Format("Jan 2 15:04"))
}
