package mapper

import (
	"time"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
)

type JobMapper struct{}

func NewJobMapper() *JobMapper {
	return &JobMapper{}
}

func (m *JobMapper) ToModel(e *entity.Job) *model.Job {
	return &model.Job{
		Id:              e.Id,
		UserId:          e.UserId,
		UserEmail:       e.UserEmail,
		Status:          string(e.Status),
		CurrentStep:     e.CurrentStep,
		Progress:        e.Progress,
		ProductDocs:     e.ProductDocs,
		AssetTypes:      toJSONStrings(e.AssetTypes),
		VoiceProfileIds: toJSONUUIDs(e.VoiceProfileIds),
		Pipeline:        e.Pipeline,
		Model:           e.Model,
		ErrorMessage:    e.ErrorMessage,
		Metadata:        toJSONMap(e.Metadata),
		CreatedAt:       e.CreatedAt,
	}
}

func (m *JobMapper) ToEntity(mod *model.Job) *entity.Job {
	var updatedAt *time.Time
	if !mod.UpdatedAt.IsZero() {
		u := mod.UpdatedAt
		updatedAt = &u
	}
	return &entity.Job{
		Id:              mod.Id,
		UserId:          mod.UserId,
		UserEmail:       mod.UserEmail,
		Status:          entity.JobStatus(mod.Status),
		CurrentStep:     mod.CurrentStep,
		Progress:        mod.Progress,
		ProductDocs:     mod.ProductDocs,
		AssetTypes:      fromJSONStrings(mod.AssetTypes),
		VoiceProfileIds: fromJSONUUIDs(mod.VoiceProfileIds),
		Pipeline:        mod.Pipeline,
		Model:           mod.Model,
		ErrorMessage:    mod.ErrorMessage,
		Metadata:        fromJSONMap(mod.Metadata),
		CreatedAt:       mod.CreatedAt,
		UpdatedAt:       updatedAt,
	}
}
