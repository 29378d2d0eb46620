package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildFallbackInsightsEmptyDocs(t *testing.T) {
	got := BuildFallbackInsights("")
	require.NotNil(t, got)

	assert.Empty(t, got.ProductCapabilities)
	assert.NotNil(t, got.ProductCapabilities)
	assert.NotNil(t, got.KeyDifferentiators)
	assert.NotNil(t, got.TargetPersonas)
	assert.NotNil(t, got.PainPointsAddressed)
	assert.NotNil(t, got.ClaimsAndMetrics)
	assert.NotNil(t, got.TechnicalDetails)

	assert.Equal(t, "unknown", got.Summary)
	assert.Equal(t, "unknown", got.Domain)
	assert.Equal(t, "unknown", got.Category)
	assert.Equal(t, "unknown", got.ProductType)

	// Formatters must never choke on a fallback record.
	assert.NotEmpty(t, got.ForDiscovery())
	assert.NotPanics(t, func() {
		_ = got.ForResearch()
		_ = got.ForPrompt()
		_ = got.ForScoring()
	})
}

func TestBuildFallbackInsightsSummarizesLeadingSentences(t *testing.T) {
	docs := "First sentence. Second sentence. Third sentence. Fourth sentence."
	got := BuildFallbackInsights(docs)
	assert.Equal(t, "First sentence. Second sentence. Third sentence.", got.Summary)

	// Fewer sentences than the cap keeps everything.
	short := BuildFallbackInsights("No terminal punctuation here")
	assert.Equal(t, "No terminal punctuation here", short.Summary)
}

func TestParseInsightsJSONStripsCodeFences(t *testing.T) {
	raw := "```json\n{\"summary\": \"An API gateway.\", \"domain\": \"devops\"}\n```"
	got, err := parseInsightsJSON(raw)
	require.NoError(t, err)
	assert.Equal(t, "An API gateway.", got.Summary)
	assert.Equal(t, "devops", got.Domain)
}

func TestBackfillFillsOmittedFields(t *testing.T) {
	got, err := parseInsightsJSON(`{"summary": "Just a summary."}`)
	require.NoError(t, err)
	backfill(got)

	assert.NotNil(t, got.ProductCapabilities)
	assert.NotNil(t, got.TechnicalDetails)
	assert.Equal(t, "unknown", got.Domain)
	assert.Equal(t, "unknown", got.Category)
	assert.Equal(t, "unknown", got.ProductType)
	assert.Equal(t, "Just a summary.", got.Summary)
}
