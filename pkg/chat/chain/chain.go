package chain

import (
	"context"
	"fmt"

	"ai-tutoring-be/pkg/llm"
)

// Chain produces one streamed answer per call. Implementations own their
// conversation memory; callers must not invoke Answer concurrently.
type Chain interface {
	Answer(ctx context.Context, input string, onToken llm.StreamHandler) (string, error)
}

// Retriever supplies document chunks relevant to a query.
type Retriever interface {
	RelevantChunks(ctx context.Context, query string) ([]string, error)
}

// ExternalProviderError wraps failures from the LLM or embedding backend
// so the session layer can report them without tearing down the socket.
type ExternalProviderError struct {
	Provider string
	Err      error
}

func (e *ExternalProviderError) Error() string {
	return fmt.Sprintf("provider %s failed: %v", e.Provider, e.Err)
}

func (e *ExternalProviderError) Unwrap() error {
	return e.Err
}

func NewExternalProviderError(provider string, err error) *ExternalProviderError {
	return &ExternalProviderError{Provider: provider, Err: err}
}
