package factory

import (
	"fmt"

	"copyforge-be/pkg/llm"
	"copyforge-be/pkg/llm/gemini"
	"copyforge-be/pkg/llm/huggingface"
	"copyforge-be/pkg/llm/ollama"
)

func NewLLMProvider(providerType, modelName, baseURL, geminiKey, hfKey string) (llm.Provider, error) {
	switch providerType {
	case "gemini":
		return gemini.NewGeminiProvider(geminiKey, modelName), nil
	case "ollama":
		if baseURL == "" {
			baseURL = "http://localhost:11434" // Default
		}
		return ollama.NewOllamaProvider(baseURL, modelName), nil
	case "huggingface":
		return huggingface.NewHuggingFaceProvider(hfKey, "", modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
