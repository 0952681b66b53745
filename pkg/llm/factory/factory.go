package factory

import (
	"fmt"
	"strings"

	"ai-verification-be/pkg/llm"
	"ai-verification-be/pkg/llm/ollama"
	"ai-verification-be/pkg/llm/openai"
)

const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// NewLLMProvider picks the chat backend by name. baseURL may be empty for
// either provider's default endpoint.
func NewLLMProvider(providerType, modelName, baseURL, apiKey string) (llm.LLMProvider, error) {
	if modelName == "" {
		return nil, fmt.Errorf("llm model is required")
	}

	switch strings.ToLower(strings.TrimSpace(providerType)) {
	case ProviderOllama:
		return ollama.NewProvider(baseURL, modelName), nil
	case ProviderOpenAI:
		if apiKey == "" {
			return nil, fmt.Errorf("openai provider requires an API key")
		}
		return openai.NewProvider(apiKey, baseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
