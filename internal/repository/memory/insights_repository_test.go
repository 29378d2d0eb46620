package memory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/pkg/insights"
)

func TestInsightsRoundTrip(t *testing.T) {
	repo := NewInsightsRepository()
	sessionId := uuid.New()

	_, found := repo.Get(sessionId)
	assert.False(t, found)

	ins := insights.BuildFallbackInsights("An API gateway for internal services.")
	repo.Save(sessionId, ins)

	got, found := repo.Get(sessionId)
	require.True(t, found)
	assert.Equal(t, ins.Summary, got.Summary)
}

func TestResearchRoundTrip(t *testing.T) {
	repo := NewInsightsRepository()
	sessionId := uuid.New()

	_, found := repo.GetResearch(sessionId)
	assert.False(t, found)

	repo.SaveResearch(sessionId, "competitor X positions on speed")

	got, found := repo.GetResearch(sessionId)
	require.True(t, found)
	assert.Equal(t, "competitor X positions on speed", got)

	// Research is keyed separately from the insights record.
	_, found = repo.Get(sessionId)
	assert.False(t, found)
}

func TestDeleteClearsInsightsAndResearch(t *testing.T) {
	repo := NewInsightsRepository()
	sessionId := uuid.New()

	repo.Save(sessionId, insights.BuildFallbackInsights("docs"))
	repo.SaveResearch(sessionId, "research text")
	repo.Delete(sessionId)

	_, found := repo.Get(sessionId)
	assert.False(t, found)
	_, found = repo.GetResearch(sessionId)
	assert.False(t, found)
}
