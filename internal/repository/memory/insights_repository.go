package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"copyforge-be/pkg/insights"
)

// InsightsRepository keeps extracted document insights close to the
// session so follow-up actions (regenerate, adversarial, voice change)
// do not pay for a second extraction pass.
type InsightsRepository struct {
	cache *cache.Cache
}

func NewInsightsRepository() *InsightsRepository {
	// Default expiration of 1 hour, purge sweep every 10 minutes.
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &InsightsRepository{
		cache: c,
	}
}

func (r *InsightsRepository) Save(sessionId uuid.UUID, ins *insights.ExtractedInsights) {
	r.cache.Set(sessionId.String(), ins, cache.DefaultExpiration)
}

func (r *InsightsRepository) Get(sessionId uuid.UUID) (*insights.ExtractedInsights, bool) {
	if x, found := r.cache.Get(sessionId.String()); found {
		return x.(*insights.ExtractedInsights), true
	}
	return nil, false
}

// SaveResearch keeps the run's combined research text so actions like
// regenerate score against the same grounding the pipeline used.
func (r *InsightsRepository) SaveResearch(sessionId uuid.UUID, researchText string) {
	r.cache.Set(researchKey(sessionId), researchText, cache.DefaultExpiration)
}

func (r *InsightsRepository) GetResearch(sessionId uuid.UUID) (string, bool) {
	if x, found := r.cache.Get(researchKey(sessionId)); found {
		return x.(string), true
	}
	return "", false
}

func (r *InsightsRepository) Delete(sessionId uuid.UUID) {
	r.cache.Delete(sessionId.String())
	r.cache.Delete(researchKey(sessionId))
}

func researchKey(sessionId uuid.UUID) string {
	return "research:" + sessionId.String()
}
