package mapper

import (
	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
	"copyforge-be/pkg/scoring"
)

type VersionMapper struct{}

func NewVersionMapper() *VersionMapper {
	return &VersionMapper{}
}

func (m *VersionMapper) ToModel(e *entity.SessionVersion) *model.SessionVersion {
	mod := &model.SessionVersion{
		Id:            e.Id,
		SessionId:     e.SessionId,
		AssetType:     e.AssetType,
		VersionNumber: e.VersionNumber,
		Content:       e.Content,
		Source:        string(e.Source),
		SourceDetail:  toJSONMap(e.SourceDetail),
		PassesGates:   e.PassesGates,
		IsActive:      e.IsActive,
		CreatedAt:     e.CreatedAt,
	}
	if e.Scores != nil {
		s := e.Scores
		mod.SlopScore = &s.SlopScore
		mod.VendorSpeakScore = &s.VendorSpeakScore
		mod.AuthenticityScore = &s.AuthenticityScore
		mod.SpecificityScore = &s.SpecificityScore
		mod.PersonaAvgScore = &s.PersonaAvgScore
	}
	return mod
}

func (m *VersionMapper) ToEntity(mod *model.SessionVersion) *entity.SessionVersion {
	e := &entity.SessionVersion{
		Id:            mod.Id,
		SessionId:     mod.SessionId,
		AssetType:     mod.AssetType,
		VersionNumber: mod.VersionNumber,
		Content:       mod.Content,
		Source:        entity.VersionSource(mod.Source),
		SourceDetail:  fromJSONMap(mod.SourceDetail),
		PassesGates:   mod.PassesGates,
		IsActive:      mod.IsActive,
		CreatedAt:     mod.CreatedAt,
	}
	// Scores are all-or-nothing: a version was either scored or it wasn't
	if mod.SlopScore != nil && mod.VendorSpeakScore != nil && mod.AuthenticityScore != nil &&
		mod.SpecificityScore != nil && mod.PersonaAvgScore != nil {
		e.Scores = &scoring.ScoreResults{
			SlopScore:         *mod.SlopScore,
			VendorSpeakScore:  *mod.VendorSpeakScore,
			AuthenticityScore: *mod.AuthenticityScore,
			SpecificityScore:  *mod.SpecificityScore,
			PersonaAvgScore:   *mod.PersonaAvgScore,
		}
	}
	return e
}

func (m *VersionMapper) ToEntities(mods []*model.SessionVersion) []*entity.SessionVersion {
	entities := make([]*entity.SessionVersion, len(mods))
	for i, mod := range mods {
		entities[i] = m.ToEntity(mod)
	}
	return entities
}
