package embedding

import "fmt"

// NewEmbeddingProvider selects the embedding backend by name.
func NewEmbeddingProvider(providerName string, geminiAPIKey string, ollamaBaseURL string, ollamaModel string) (EmbeddingProvider, error) {
	switch providerName {
	case "ollama":
		return NewOllamaProvider(ollamaBaseURL, ollamaModel), nil
	case "gemini", "":
		return NewGeminiProvider(geminiAPIKey), nil
	default:
		return nil, fmt.Errorf("unknown embedding provider: %s", providerName)
	}
}
