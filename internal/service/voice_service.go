package service

import (
	"context"

	"github.com/google/uuid"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/pkg/apperr"
)

type IVoiceService interface {
	Create(ctx context.Context, req *dto.CreateVoiceProfileRequest) (*dto.VoiceProfileResponse, error)
	Update(ctx context.Context, req *dto.UpdateVoiceProfileRequest) (*dto.VoiceProfileResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
	Show(ctx context.Context, id uuid.UUID) (*dto.VoiceProfileResponse, error)
	List(ctx context.Context) ([]*dto.VoiceProfileResponse, error)
}

type voiceService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVoiceService(uowFactory unitofwork.RepositoryFactory) IVoiceService {
	return &voiceService{uowFactory: uowFactory}
}

func (s *voiceService) Create(ctx context.Context, req *dto.CreateVoiceProfileRequest) (*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile := &entity.VoiceProfile{
		Id:          uuid.New(),
		Name:        req.Name,
		Guide:       req.Guide,
		BannedWords: req.BannedWords,
		Thresholds:  req.Thresholds,
	}
	if err := uow.VoiceProfileRepository().Create(ctx, profile); err != nil {
		return nil, err
	}
	return voiceToResponse(profile), nil
}

func (s *voiceService) Update(ctx context.Context, req *dto.UpdateVoiceProfileRequest) (*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.VoiceProfileRepository()

	profile, err := repo.FindOne(ctx, specification.ByID{ID: req.Id})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NewNotFound("voice profile not found")
	}

	profile.Name = req.Name
	profile.Guide = req.Guide
	profile.BannedWords = req.BannedWords
	profile.Thresholds = req.Thresholds

	if err := repo.Update(ctx, profile); err != nil {
		return nil, err
	}
	return voiceToResponse(profile), nil
}

func (s *voiceService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.VoiceProfileRepository()

	profile, err := repo.FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return err
	}
	if profile == nil {
		return apperr.NewNotFound("voice profile not found")
	}
	return repo.Delete(ctx, id)
}

func (s *voiceService) Show(ctx context.Context, id uuid.UUID) (*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profile, err := uow.VoiceProfileRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, apperr.NewNotFound("voice profile not found")
	}
	return voiceToResponse(profile), nil
}

func (s *voiceService) List(ctx context.Context) ([]*dto.VoiceProfileResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	profiles, err := uow.VoiceProfileRepository().FindAll(ctx,
		specification.OrderBy{Field: "created_at", Desc: false},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.VoiceProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		res = append(res, voiceToResponse(p))
	}
	return res, nil
}

func voiceToResponse(p *entity.VoiceProfile) *dto.VoiceProfileResponse {
	return &dto.VoiceProfileResponse{
		Id:          p.Id,
		Name:        p.Name,
		Guide:       p.Guide,
		BannedWords: p.BannedWords,
		Thresholds:  p.Thresholds,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
