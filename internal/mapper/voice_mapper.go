package mapper

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
	"copyforge-be/pkg/scoring"
)

type VoiceMapper struct{}

func NewVoiceMapper() *VoiceMapper {
	return &VoiceMapper{}
}

func (m *VoiceMapper) ToModel(e *entity.VoiceProfile) *model.VoiceProfile {
	mod := &model.VoiceProfile{
		Id:          e.Id,
		Name:        e.Name,
		Guide:       e.Guide,
		BannedWords: toJSONStrings(e.BannedWords),
		CreatedAt:   e.CreatedAt,
	}
	if e.Thresholds != nil {
		b, _ := json.Marshal(e.Thresholds)
		mod.ScoringThresholds = datatypes.JSON(b)
	}
	return mod
}

func (m *VoiceMapper) ToEntity(mod *model.VoiceProfile) *entity.VoiceProfile {
	var updatedAt *time.Time
	if !mod.UpdatedAt.IsZero() {
		u := mod.UpdatedAt
		updatedAt = &u
	}
	e := &entity.VoiceProfile{
		Id:          mod.Id,
		Name:        mod.Name,
		Guide:       mod.Guide,
		BannedWords: fromJSONStrings(mod.BannedWords),
		CreatedAt:   mod.CreatedAt,
		UpdatedAt:   updatedAt,
	}
	if len(mod.ScoringThresholds) > 0 {
		var t scoring.Thresholds
		if err := json.Unmarshal(mod.ScoringThresholds, &t); err == nil {
			e.Thresholds = &t
		}
	}
	return e
}

func (m *VoiceMapper) ToEntities(mods []*model.VoiceProfile) []*entity.VoiceProfile {
	entities := make([]*entity.VoiceProfile, len(mods))
	for i, mod := range mods {
		entities[i] = m.ToEntity(mod)
	}
	return entities
}
