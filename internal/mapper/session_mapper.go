package mapper

import (
	"time"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToModel(e *entity.Session) *model.Session {
	return &model.Session{
		Id:              e.Id,
		UserId:          e.UserId,
		Name:            e.Name,
		PainPointId:     e.PainPointId,
		VoiceProfileIds: toJSONUUIDs(e.VoiceProfileIds),
		AssetTypes:      toJSONStrings(e.AssetTypes),
		Pipeline:        e.Pipeline,
		ProductContext:  e.ProductContext,
		JobId:           e.JobId,
		Status:          string(e.Status),
		IsArchived:      e.IsArchived,
		CreatedAt:       e.CreatedAt,
	}
}

func (m *SessionMapper) ToEntity(mod *model.Session) *entity.Session {
	var updatedAt *time.Time
	if !mod.UpdatedAt.IsZero() {
		u := mod.UpdatedAt
		updatedAt = &u
	}
	return &entity.Session{
		Id:              mod.Id,
		UserId:          mod.UserId,
		Name:            mod.Name,
		PainPointId:     mod.PainPointId,
		VoiceProfileIds: fromJSONUUIDs(mod.VoiceProfileIds),
		AssetTypes:      fromJSONStrings(mod.AssetTypes),
		Pipeline:        mod.Pipeline,
		ProductContext:  mod.ProductContext,
		JobId:           mod.JobId,
		Status:          entity.JobStatus(mod.Status),
		IsArchived:      mod.IsArchived,
		CreatedAt:       mod.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
