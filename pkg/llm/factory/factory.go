package factory

import (
	"fmt"

	"ai-digest-be/pkg/llm"
	"ai-digest-be/pkg/llm/openai"
)

func NewLLMProvider(providerType, modelName, apiKey string) (llm.LLMProvider, error) {
	switch providerType {
	case "openai", "":
		return openai.NewOpenAIProvider(apiKey, modelName)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", providerType)
	}
}
