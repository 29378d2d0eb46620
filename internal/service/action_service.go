package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"

	"copyforge-be/internal/dto"
	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/internal/repository/memory"
	"copyforge-be/internal/repository/specification"
	"copyforge-be/internal/repository/unitofwork"
	"copyforge-be/internal/websocket"
	"copyforge-be/pkg/actions"
	"copyforge-be/pkg/apperr"
	"copyforge-be/pkg/scoring"
)

const (
	ActionDeslop           = "deslop"
	ActionRegenerate       = "regenerate"
	ActionVoiceChange      = "voice_change"
	ActionAdversarial      = "adversarial"
	ActionCompetitiveDive  = "competitive_dive"
	ActionCommunityCheck   = "community_check"
	ActionMultiPerspective = "multi_perspective"
)

// actionStatusTTL bounds how long finished action results stay pollable.
const actionStatusTTL = time.Hour

type IActionService interface {
	// Run launches a workspace action in the background and returns the
	// id to poll. Validation (session ownership, action type, voice)
	// happens synchronously.
	Run(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, actionType string, req *dto.ActionRequest) (*dto.ActionCreatedResponse, error)

	GetStatus(ctx context.Context, userId uuid.UUID, actionId uuid.UUID) (*dto.ActionStatusResponse, error)
}

type actionRunner func(ctx context.Context, req actions.Request) (*actions.Result, error)

type actionService struct {
	uowFactory unitofwork.RepositoryFactory
	engine     *actions.Engine
	insights   *memory.InsightsRepository
	rdb        *redis.Client
	local      *gocache.Cache
	hub        *websocket.Hub
	logger     logger.ILogger
}

func NewActionService(
	uowFactory unitofwork.RepositoryFactory,
	engine *actions.Engine,
	insightsRepo *memory.InsightsRepository,
	rdb *redis.Client,
	hub *websocket.Hub,
	log logger.ILogger,
) IActionService {
	return &actionService{
		uowFactory: uowFactory,
		engine:     engine,
		insights:   insightsRepo,
		rdb:        rdb,
		local:      gocache.New(actionStatusTTL, 10*time.Minute),
		hub:        hub,
		logger:     log,
	}
}

// normalizeActionType accepts the hyphenated URL forms alongside the
// canonical snake_case names.
func normalizeActionType(actionType string) string {
	t := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(actionType)), "-", "_")
	if t == "change_voice" {
		return ActionVoiceChange
	}
	return t
}

func (s *actionService) runnerFor(actionType string) actionRunner {
	switch actionType {
	case ActionDeslop:
		return s.engine.Deslop
	case ActionRegenerate:
		return s.engine.Regenerate
	case ActionVoiceChange:
		return s.engine.VoiceChange
	case ActionAdversarial:
		return s.engine.AdversarialLoop
	case ActionCompetitiveDive:
		return s.engine.CompetitiveDive
	case ActionCommunityCheck:
		return s.engine.CommunityCheck
	case ActionMultiPerspective:
		return s.engine.MultiPerspective
	default:
		return nil
	}
}

func (s *actionService) Run(ctx context.Context, userId uuid.UUID, sessionId uuid.UUID, actionType string, req *dto.ActionRequest) (*dto.ActionCreatedResponse, error) {
	actionType = normalizeActionType(actionType)
	runner := s.runnerFor(actionType)
	if runner == nil {
		return nil, apperr.NewBadRequest(fmt.Sprintf("unknown action type %q", actionType))
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return nil, err
	}
	if session == nil || session.UserId != userId {
		return nil, apperr.NewNotFound("session not found")
	}
	if !containsString(session.AssetTypes, req.AssetType) {
		return nil, apperr.NewBadRequest(fmt.Sprintf("session has no asset of type %q", req.AssetType))
	}

	voice, err := s.resolveVoice(ctx, uow, session, req.VoiceProfileId)
	if err != nil {
		return nil, err
	}

	engineReq := actions.Request{
		SessionId:   sessionId,
		AssetType:   req.AssetType,
		Voice:       voice,
		ProductDocs: session.ProductContext,
		PainPoints:  s.painPointsFor(ctx, uow, session),
		Model:       req.Model,
	}
	if ins, ok := s.insights.Get(sessionId); ok {
		engineReq.Insights = ins
	}
	if researchText, ok := s.insights.GetResearch(sessionId); ok {
		engineReq.PriorResearch = researchText
	}

	actionId := uuid.New()
	status := &dto.ActionStatusResponse{
		ActionId: actionId,
		Type:     actionType,
		Status:   "running",
	}
	s.saveStatus(ctx, userId, actionId, status)

	go s.execute(userId, actionId, actionType, runner, engineReq)

	return &dto.ActionCreatedResponse{ActionId: actionId}, nil
}

// execute runs the engine action detached from the request context.
func (s *actionService) execute(userId uuid.UUID, actionId uuid.UUID, actionType string, runner actionRunner, req actions.Request) {
	ctx := context.Background()

	result, err := runner(ctx, req)
	status := &dto.ActionStatusResponse{
		ActionId: actionId,
		Type:     actionType,
	}
	if err != nil {
		status.Status = "failed"
		status.ErrorMessage = userFacingActionError(err)
		s.logger.Warn("ActionService", "Action failed", map[string]interface{}{
			"actionId": actionId,
			"type":     actionType,
			"error":    err.Error(),
		})
	} else {
		status.Status = "completed"
		status.Result = &dto.ActionResultPayload{
			Version:        versionToResponse(result.Version),
			PreviousScores: result.PreviousScores,
		}
	}
	s.saveStatus(ctx, userId, actionId, status)

	if s.hub != nil {
		s.hub.Send(userId, "action_update", status)
	}
}

// userFacingActionError keeps the well-known action failures readable in
// the polling response.
func userFacingActionError(err error) string {
	switch {
	case errors.Is(err, actions.ErrNoActiveVersion):
		return "this asset has no content yet"
	case errors.Is(err, actions.ErrInsufficientEvidence):
		return "community research found too little practitioner evidence to rewrite against"
	default:
		return err.Error()
	}
}

func (s *actionService) GetStatus(ctx context.Context, userId uuid.UUID, actionId uuid.UUID) (*dto.ActionStatusResponse, error) {
	key := actionStatusKey(userId, actionId)

	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Result()
		if err == nil {
			var status dto.ActionStatusResponse
			if jsonErr := json.Unmarshal([]byte(raw), &status); jsonErr == nil {
				return &status, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.logger.Warn("ActionService", "Redis status read failed, falling back to local cache", map[string]interface{}{"error": err.Error()})
		}
	}

	if cached, ok := s.local.Get(key); ok {
		return cached.(*dto.ActionStatusResponse), nil
	}
	return nil, apperr.NewNotFound("action not found")
}

// saveStatus writes to redis so polling survives instance restarts, and
// to the local cache as the fallback when redis is down.
func (s *actionService) saveStatus(ctx context.Context, userId uuid.UUID, actionId uuid.UUID, status *dto.ActionStatusResponse) {
	key := actionStatusKey(userId, actionId)
	s.local.Set(key, status, actionStatusTTL)

	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(status)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, key, raw, actionStatusTTL).Err(); err != nil {
		s.logger.Warn("ActionService", "Redis status write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *actionService) resolveVoice(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session, voiceProfileId *uuid.UUID) (actions.VoiceInput, error) {
	id := voiceProfileId
	if id == nil && len(session.VoiceProfileIds) > 0 {
		id = &session.VoiceProfileIds[0]
	}
	if id == nil {
		return actions.VoiceInput{
			Name:       "Default",
			Guide:      "Clear, direct, and concrete. Write like a knowledgeable practitioner, not a brochure.",
			Thresholds: scoring.DefaultThresholds(),
		}, nil
	}

	profile, err := uow.VoiceProfileRepository().FindOne(ctx, specification.ByID{ID: *id})
	if err != nil {
		return actions.VoiceInput{}, err
	}
	if profile == nil {
		return actions.VoiceInput{}, apperr.NewBadRequest("voice profile does not exist")
	}
	return actions.VoiceInput{
		Id:          &profile.Id,
		Name:        profile.Name,
		Guide:       profile.Guide,
		BannedWords: profile.BannedWords,
		Thresholds:  profile.EffectiveThresholds(),
	}, nil
}

func (s *actionService) painPointsFor(ctx context.Context, uow unitofwork.UnitOfWork, session *entity.Session) []string {
	if session.PainPointId == nil {
		return nil
	}
	pp, err := uow.PainPointRepository().FindOne(ctx, specification.ByID{ID: *session.PainPointId})
	if err != nil || pp == nil {
		return nil
	}
	return painPointContext(pp)
}

func actionStatusKey(userId uuid.UUID, actionId uuid.UUID) string {
	return "action:" + userId.String() + ":" + actionId.String()
}

func containsString(list []string, value string) bool {
	for _, item := range list {
		if strings.EqualFold(item, value) {
			return true
		}
	}
	return false
}

func versionToResponse(v *entity.SessionVersion) *dto.VersionResponse {
	if v == nil {
		return nil
	}
	return &dto.VersionResponse{
		Id:            v.Id,
		AssetType:     v.AssetType,
		VersionNumber: v.VersionNumber,
		Content:       v.Content,
		Source:        string(v.Source),
		SourceDetail:  v.SourceDetail,
		Scores:        v.Scores,
		PassesGates:   v.PassesGates,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
	}
}
