package mapper

import (
	"copyforge-be/internal/entity"
	"copyforge-be/internal/model"
	"copyforge-be/pkg/scoring"
)

type AssetMapper struct{}

func NewAssetMapper() *AssetMapper {
	return &AssetMapper{}
}

func (m *AssetMapper) AssetToModel(e *entity.MessagingAsset) *model.MessagingAsset {
	return &model.MessagingAsset{
		Id:        e.Id,
		JobId:     e.JobId,
		AssetType: e.AssetType,
		CreatedAt: e.CreatedAt,
	}
}

func (m *AssetMapper) AssetToEntity(mod *model.MessagingAsset) *entity.MessagingAsset {
	return &entity.MessagingAsset{
		Id:        mod.Id,
		JobId:     mod.JobId,
		AssetType: mod.AssetType,
		CreatedAt: mod.CreatedAt,
	}
}

func (m *AssetMapper) VariantToModel(e *entity.AssetVariant) *model.AssetVariant {
	mod := &model.AssetVariant{
		Id:             e.Id,
		AssetId:        e.AssetId,
		VoiceProfileId: e.VoiceProfileId,
		VoiceName:      e.VoiceName,
		Content:        e.Content,
		PassesGates:    e.PassesGates,
		IsSelected:     e.IsSelected,
		CreatedAt:      e.CreatedAt,
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

func (m *AssetMapper) VariantToEntity(mod *model.AssetVariant) *entity.AssetVariant {
	e := &entity.AssetVariant{
		Id:             mod.Id,
		AssetId:        mod.AssetId,
		VoiceProfileId: mod.VoiceProfileId,
		VoiceName:      mod.VoiceName,
		Content:        mod.Content,
		PassesGates:    mod.PassesGates,
		IsSelected:     mod.IsSelected,
		CreatedAt:      mod.CreatedAt,
	}
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

func (m *AssetMapper) VariantsToEntities(mods []*model.AssetVariant) []*entity.AssetVariant {
	entities := make([]*entity.AssetVariant, len(mods))
	for i, mod := range mods {
		entities[i] = m.VariantToEntity(mod)
	}
	return entities
}
