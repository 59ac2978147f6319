package factory

import (
	"fmt"

	"ai-tutoring-be/pkg/llm"
	"ai-tutoring-be/pkg/llm/ollama"
	"ai-tutoring-be/pkg/llm/openai"
)

// NewLLMProvider builds a provider from process-wide configuration. The
// provider itself is stateless; streaming callbacks are bound per call.
func NewLLMProvider(providerName, modelName, ollamaBaseURL, openAIAPIKey string) (llm.LLMProvider, error) {
	switch providerName {
	case "ollama":
		return ollama.NewOllamaProvider(ollamaBaseURL, modelName), nil
	case "openai":
		if openAIAPIKey == "" {
			return nil, fmt.Errorf("openai provider requires OPENAI_API_KEY")
		}
		return openai.NewOpenAIProvider(openAIAPIKey, modelName), nil
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", providerName)
	}
}
