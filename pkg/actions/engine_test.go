package actions

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"copyforge-be/internal/entity"
	"copyforge-be/internal/pkg/logger"
	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/refine"
	"copyforge-be/pkg/scoring"
)

type mockProvider struct {
	mu        sync.Mutex
	responses []string
	prompts   []string
}

func (m *mockProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = append(m.prompts, prompt)
	if len(m.responses) == 0 {
		return "generated content", nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	return m.Generate(ctx, history[len(history)-1].Content, options...)
}

type fakeSearcher struct {
	text string
	err  error
}

func (f *fakeSearcher) GroundedSearch(ctx context.Context, prompt string) (*llm.GroundedResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GroundedResult{Text: f.text}, nil
}

type fakeDeep struct {
	text string
	err  error
}

func (f *fakeDeep) DeepResearch(ctx context.Context, prompt string) (string, error) {
	return f.text, f.err
}

// contentScorer keys scores off content; unknown content gets the fallback.
type contentScorer struct {
	byContent map[string]scoring.ScoreResults
	fallback  scoring.ScoreResults
}

func (c *contentScorer) ScoreContent(ctx context.Context, content string, grounding []string) scoring.ScoreResults {
	if s, ok := c.byContent[content]; ok {
		return s
	}
	return c.fallback
}

// fakeVersionStore mimics the real version service's numbering and
// single-active invariant.
type fakeVersionStore struct {
	mu       sync.Mutex
	versions map[string][]*entity.SessionVersion
	creates  int
}

func newFakeVersionStore() *fakeVersionStore {
	return &fakeVersionStore{versions: map[string][]*entity.SessionVersion{}}
}

func key(sessionId uuid.UUID, assetType string) string {
	return sessionId.String() + "/" + assetType
}

func (f *fakeVersionStore) seed(sessionId uuid.UUID, assetType, content string, scores *scoring.ScoreResults) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.versions[key(sessionId, assetType)] = []*entity.SessionVersion{{
		Id:            uuid.New(),
		SessionId:     sessionId,
		AssetType:     assetType,
		VersionNumber: 1,
		Content:       content,
		Source:        entity.SourceGeneration,
		Scores:        scores,
		IsActive:      true,
	}}
}

func (f *fakeVersionStore) GetActiveVersion(ctx context.Context, sessionId uuid.UUID, assetType string) (*entity.SessionVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, v := range f.versions[key(sessionId, assetType)] {
		if v.IsActive {
			return v, nil
		}
	}
	return nil, nil
}

func (f *fakeVersionStore) CreateVersionAndActivate(
	ctx context.Context,
	sessionId uuid.UUID,
	assetType string,
	content string,
	source entity.VersionSource,
	detail map[string]interface{},
	scores *scoring.ScoreResults,
	thresholds *scoring.Thresholds,
) (*entity.SessionVersion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates++
	k := key(sessionId, assetType)
	for _, v := range f.versions[k] {
		v.IsActive = false
	}
	passes := false
	if scores != nil && thresholds != nil {
		passes = scoring.CheckQualityGates(*scores, *thresholds)
	}
	v := &entity.SessionVersion{
		Id:            uuid.New(),
		SessionId:     sessionId,
		AssetType:     assetType,
		VersionNumber: len(f.versions[k]) + 1,
		Content:       content,
		Source:        source,
		SourceDetail:  detail,
		Scores:        scores,
		PassesGates:   passes,
		IsActive:      true,
	}
	f.versions[k] = append(f.versions[k], v)
	return v, nil
}

func passingScores() scoring.ScoreResults {
	return scoring.ScoreResults{SlopScore: 2, VendorSpeakScore: 2, AuthenticityScore: 8, SpecificityScore: 8, PersonaAvgScore: 8}
}

func newTestEngine(provider *mockProvider, scorer refine.ContentScorer, searcher llm.GroundedSearcher, deep llm.DeepResearcher) (*Engine, *fakeVersionStore) {
	log := logger.NewNopLogger()
	store := newFakeVersionStore()
	engine := NewEngine(provider, searcher, deep, scorer, refine.NewLoop(provider, scorer, log), store, log)
	return engine, store
}

func testRequest(sessionId uuid.UUID) Request {
	return Request{
		SessionId: sessionId,
		AssetType: "battlecard",
		Voice: VoiceInput{
			Name:       "Default",
			Guide:      "direct, technical",
			Thresholds: scoring.DefaultThresholds(),
		},
		ProductDocs: "An API gateway with built-in rate limiting.",
		Model:       "test-model",
	}
}

func TestActionsFailWithoutActiveVersion(t *testing.T) {
	engine, _ := newTestEngine(&mockProvider{}, &contentScorer{fallback: passingScores()}, &fakeSearcher{}, nil)
	req := testRequest(uuid.New())

	_, err := engine.Deslop(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoActiveVersion))

	_, err = engine.AdversarialLoop(context.Background(), req)
	assert.True(t, errors.Is(err, ErrNoActiveVersion))
}

func TestDeslopCreatesDeslopVersion(t *testing.T) {
	provider := &mockProvider{responses: []string{"cleaned copy"}}
	scorer := &contentScorer{fallback: passingScores()}
	engine, store := newTestEngine(provider, scorer, nil, nil)

	req := testRequest(uuid.New())
	prior := passingScores()
	// Content salted with known filler so the analyzer flags something.
	store.seed(req.SessionId, req.AssetType, "Let's delve into this game-changing gateway. Delve into it.", &prior)

	result, err := engine.Deslop(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Version)
	assert.Equal(t, entity.SourceDeslop, result.Version.Source)
	assert.Equal(t, "cleaned copy", result.Version.Content)
	assert.Equal(t, 2, result.Version.VersionNumber)
	assert.Equal(t, &prior, result.PreviousScores)
}

func TestVoiceChangeScoredAgainstNewVoiceThresholds(t *testing.T) {
	provider := &mockProvider{responses: []string{"rewritten in exec voice"}}
	scorer := &contentScorer{fallback: passingScores()} // authenticity 8
	engine, store := newTestEngine(provider, scorer, nil, nil)

	req := testRequest(uuid.New())
	req.Voice.Name = "Executive"
	req.Voice.Thresholds.AuthenticityMin = 9 // stricter than the score
	store.seed(req.SessionId, req.AssetType, "original copy", nil)

	result, err := engine.VoiceChange(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Version)
	assert.Equal(t, entity.SourceVoiceChange, result.Version.Source)
	assert.False(t, result.Version.PassesGates)
	assert.Nil(t, result.PreviousScores)
}

func TestAdversarialPlateauReturnsNilVersion(t *testing.T) {
	// Every rewrite scores no better than the seeded content: the loop
	// must stop after one iteration and write nothing.
	provider := &mockProvider{responses: []string{"rewrite attempt"}}
	scorer := &contentScorer{fallback: scoring.ScoreResults{SlopScore: 2, VendorSpeakScore: 2, AuthenticityScore: 8, SpecificityScore: 8, PersonaAvgScore: 8}}
	engine, store := newTestEngine(provider, scorer, nil, nil)

	req := testRequest(uuid.New())
	prior := passingScores()
	store.seed(req.SessionId, req.AssetType, "already good copy", &prior)

	result, err := engine.AdversarialLoop(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, result.Version)
	assert.Equal(t, &prior, result.PreviousScores)
	assert.Equal(t, 0, store.creates)
	assert.Len(t, provider.prompts, 1)
}

func TestAdversarialElevationStopsWhenScoresStopRising(t *testing.T) {
	provider := &mockProvider{responses: []string{"elevated copy", "overcooked copy"}}
	scorer := &contentScorer{
		byContent: map[string]scoring.ScoreResults{
			"elevated copy":   {SlopScore: 1, VendorSpeakScore: 1, AuthenticityScore: 9, SpecificityScore: 9, PersonaAvgScore: 9},
			"overcooked copy": {SlopScore: 5, VendorSpeakScore: 5, AuthenticityScore: 5, SpecificityScore: 5, PersonaAvgScore: 5},
		},
		fallback: passingScores(),
	}
	engine, store := newTestEngine(provider, scorer, nil, nil)

	req := testRequest(uuid.New())
	prior := passingScores()
	store.seed(req.SessionId, req.AssetType, "already good copy", &prior)

	result, err := engine.AdversarialLoop(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Version)
	assert.Equal(t, "elevated copy", result.Version.Content)
	assert.Equal(t, entity.SourceAdversarial, result.Version.Source)
	assert.Equal(t, 2, result.Version.SourceDetail["iterations"])
	assert.Equal(t, true, result.Version.SourceDetail["elevation"])
}

func TestCommunityCheckRejectsThinEvidence(t *testing.T) {
	engine, store := newTestEngine(&mockProvider{}, &contentScorer{fallback: passingScores()}, &fakeSearcher{text: "too short"}, nil)

	req := testRequest(uuid.New())
	store.seed(req.SessionId, req.AssetType, "original copy", nil)

	_, err := engine.CommunityCheck(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientEvidence))
	assert.Equal(t, 0, store.creates)
}

func TestCompetitiveDiveFallsBackToGroundedSearch(t *testing.T) {
	findings := "Competitor X positions on price; users complain about p99 latency under load."
	provider := &mockProvider{responses: []string{"rewritten with findings"}}
	engine, store := newTestEngine(provider, &contentScorer{fallback: passingScores()},
		&fakeSearcher{text: findings},
		&fakeDeep{err: errors.New("deep research unavailable")},
	)

	req := testRequest(uuid.New())
	store.seed(req.SessionId, req.AssetType, "original copy", nil)

	result, err := engine.CompetitiveDive(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Version)
	assert.Equal(t, entity.SourceCompetitiveDive, result.Version.Source)
	assert.Equal(t, len(findings), result.Version.SourceDetail["researchLength"])
}

func TestMultiPerspectiveActionKeepsBestRecast(t *testing.T) {
	provider := &mockProvider{responses: []string{"recast a", "recast b", "recast c", "blended"}}
	scorer := &contentScorer{
		byContent: map[string]scoring.ScoreResults{"blended": passingScores()},
		fallback:  scoring.ScoreResults{SlopScore: 6, VendorSpeakScore: 6, AuthenticityScore: 4, SpecificityScore: 4, PersonaAvgScore: 4},
	}
	engine, store := newTestEngine(provider, scorer, nil, nil)

	req := testRequest(uuid.New())
	store.seed(req.SessionId, req.AssetType, "original copy", nil)

	result, err := engine.MultiPerspective(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result.Version)
	assert.Equal(t, "blended", result.Version.Content)
	assert.Equal(t, "synthesis", result.Version.SourceDetail["winningPerspective"])
	assert.Equal(t, entity.SourceMultiPerspective, result.Version.Source)
	assert.Equal(t, 1, store.creates)
}
