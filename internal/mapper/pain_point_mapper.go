package mapper

import (
	"github.com/pgvector/pgvector-go"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
)

type PainPointMapper struct{}

func NewPainPointMapper() *PainPointMapper {
	return &PainPointMapper{}
}

func (m *PainPointMapper) ToModel(e *entity.PainPoint) *model.PainPoint {
	return &model.PainPoint{
		Id:          e.Id,
		Title:       e.Title,
		Description: e.Description,
		Source:      e.Source,
		Quotes:      toJSONStrings(e.Quotes),
		Embedding:   pgvector.NewVector(e.Embedding),
		CreatedAt:   e.CreatedAt,
	}
}

func (m *PainPointMapper) ToEntity(mod *model.PainPoint) *entity.PainPoint {
	return &entity.PainPoint{
		Id:          mod.Id,
		Title:       mod.Title,
		Description: mod.Description,
		Source:      mod.Source,
		Quotes:      fromJSONStrings(mod.Quotes),
		Embedding:   mod.Embedding.Slice(),
		CreatedAt:   mod.CreatedAt,
	}
}

func (m *PainPointMapper) ToEntities(mods []*model.PainPoint) []*entity.PainPoint {
	entities := make([]*entity.PainPoint, len(mods))
	for i, mod := range mods {
		entities[i] = m.ToEntity(mod)
	}
	return entities
}
