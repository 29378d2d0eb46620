package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"copyforge-be/pkg/llm"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type GeminiProvider struct {
	apiKey  string
	model   string
	baseURL string
	client  *http.Client
}

// Ensure GeminiProvider satisfies every capability it advertises
var (
	_ llm.Provider         = &GeminiProvider{}
	_ llm.GroundedSearcher = &GeminiProvider{}
	_ llm.DeepResearcher   = &GeminiProvider{}
)

func NewGeminiProvider(apiKey, model string) *GeminiProvider {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	return &GeminiProvider{
		apiKey:  apiKey,
		model:   model,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: 180 * time.Second,
		},
	}
}

// --- Request/Response structs (internal to this package) ---

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiTool struct {
	GoogleSearch *struct{} `json:"google_search,omitempty"`
}

type geminiGenerationConfig struct {
	Temperature     *float64 `json:"temperature,omitempty"`
	MaxOutputTokens int      `json:"maxOutputTokens,omitempty"`
}

type geminiRequest struct {
	Contents          []geminiContent         `json:"contents"`
	SystemInstruction *geminiContent          `json:"systemInstruction,omitempty"`
	Tools             []geminiTool            `json:"tools,omitempty"`
	GenerationConfig  *geminiGenerationConfig `json:"generationConfig,omitempty"`
}

type geminiGroundingChunk struct {
	Web *struct {
		URI   string `json:"uri"`
		Title string `json:"title"`
	} `json:"web,omitempty"`
}

type geminiCandidate struct {
	Content           *geminiContent `json:"content"`
	GroundingMetadata *struct {
		GroundingChunks []geminiGroundingChunk `json:"groundingChunks"`
	} `json:"groundingMetadata,omitempty"`
}

type geminiResponse struct {
	Candidates []geminiCandidate `json:"candidates"`
	Error      *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// --- Interface implementation ---

func (p *GeminiProvider) Chat(ctx context.Context, history []llm.Message, options ...llm.Option) (string, error) {
	opts := &llm.Options{Temperature: 0.7}
	for _, o := range options {
		o(opts)
	}

	contents := make([]geminiContent, 0, len(history))
	for _, msg := range history {
		role := msg.Role
		// Gemini uses "model" where OpenAI-style APIs use "assistant"
		if role == "assistant" {
			role = "model"
		}
		if role == "system" {
			// System messages travel via systemInstruction instead
			if opts.System == "" {
				opts.System = msg.Content
			}
			continue
		}
		contents = append(contents, geminiContent{
			Parts: []geminiPart{{Text: msg.Content}},
			Role:  role,
		})
	}

	req := geminiRequest{
		Contents: contents,
		GenerationConfig: &geminiGenerationConfig{
			Temperature: &opts.Temperature,
		},
	}
	if opts.MaxTokens > 0 {
		req.GenerationConfig.MaxOutputTokens = opts.MaxTokens
	}
	if opts.System != "" {
		req.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: opts.System}}}
	}

	resp, err := p.call(ctx, p.modelOrDefault(opts.Model), req)
	if err != nil {
		return "", err
	}
	return candidateText(resp)
}

func (p *GeminiProvider) Generate(ctx context.Context, prompt string, options ...llm.Option) (string, error) {
	return p.Chat(ctx, []llm.Message{{Role: "user", Content: prompt}}, options...)
}

// GroundedSearch answers with the google_search tool enabled and returns the
// web citations Gemini attaches to the candidate.
func (p *GeminiProvider) GroundedSearch(ctx context.Context, prompt string) (*llm.GroundedResult, error) {
	req := geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: prompt}}, Role: "user"}},
		Tools:    []geminiTool{{GoogleSearch: &struct{}{}}},
	}

	resp, err := p.call(ctx, p.model, req)
	if err != nil {
		return nil, err
	}

	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	result := &llm.GroundedResult{Text: text}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				result.Sources = append(result.Sources, llm.Source{
					Title: chunk.Web.Title,
					URL:   chunk.Web.URI,
				})
			}
		}
	}
	return result, nil
}

// DeepResearch runs a two-pass grounded interaction: a broad scan first, then
// a follow-up pass that drills into whatever the scan surfaced. The passes are
// joined under labeled headers so callers can feed the whole thing to a prompt.
func (p *GeminiProvider) DeepResearch(ctx context.Context, prompt string) (string, error) {
	scan, err := p.GroundedSearch(ctx, prompt+
		"\n\nFirst pass: identify the most important findings, names and sources. Be broad rather than deep.")
	if err != nil {
		return "", fmt.Errorf("deep research scan pass: %w", err)
	}

	followUp := fmt.Sprintf(
		"Earlier research pass found:\n\n%s\n\nSecond pass: go deeper on the findings above. "+
			"Verify specifics, pull direct quotes where possible, and note anything the first pass got wrong.\n\n"+
			"Original research brief:\n%s", scan.Text, prompt)

	depth, err := p.GroundedSearch(ctx, followUp)
	if err != nil {
		// A completed first pass is still useful research
		return scan.Text, nil
	}

	var sb strings.Builder
	sb.WriteString("## Initial findings\n\n")
	sb.WriteString(scan.Text)
	sb.WriteString("\n\n## Detailed findings\n\n")
	sb.WriteString(depth.Text)
	return sb.String(), nil
}

func (p *GeminiProvider) modelOrDefault(override string) string {
	if override != "" {
		return override
	}
	return p.model
}

func (p *GeminiProvider) call(ctx context.Context, model string, payload geminiRequest) (*geminiResponse, error) {
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(payloadJson))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var geminiResp geminiResponse
	if err := json.Unmarshal(bodyBytes, &geminiResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if geminiResp.Error != nil {
		return nil, fmt.Errorf("gemini api returned error: %s", geminiResp.Error.Message)
	}
	return &geminiResp, nil
}

func candidateText(resp *geminiResponse) (string, error) {
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("empty candidates from gemini api")
	}
	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		sb.WriteString(part.Text)
	}
	return sb.String(), nil
}
