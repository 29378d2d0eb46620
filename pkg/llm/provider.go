package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
	System      string // System instruction, sent the provider's native way
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

func WithSystem(instruction string) Option {
	return func(o *Options) {
		o.System = instruction
	}
}

// Provider defines the contract for any LLM backend
type Provider interface {
	// Chat sends a chat history to the model and returns the response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt to the model (convenience method)
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}

// Source is one web citation attached to a grounded answer.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// GroundedResult carries a search-grounded answer plus its citations.
type GroundedResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// GroundedSearcher is a provider capable of answering with live web grounding.
type GroundedSearcher interface {
	GroundedSearch(ctx context.Context, prompt string) (*GroundedResult, error)
}

// DeepResearcher runs a multi-pass research interaction. Slower and more
// thorough than a single grounded search; callers must be ready to fall
// back to GroundedSearch when it fails.
type DeepResearcher interface {
	DeepResearch(ctx context.Context, prompt string) (string, error)
}
