package chain

import (
	"context"
	"strings"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/pkg/chat/memory"
	"ai-tutoring-be/pkg/llm"
)

// RetrievalChain answers questions about a single document. Follow-up
// questions are first condensed into standalone queries against the
// conversation so far, then grounded on the most similar chunks.
type RetrievalChain struct {
	llmProvider      llm.LLMProvider
	condenseProvider llm.LLMProvider
	retriever        Retriever
	memory           *memory.Buffer
	logger           logger.ILogger
}

func NewRetrievalChain(
	llmProvider llm.LLMProvider,
	condenseProvider llm.LLMProvider,
	retriever Retriever,
	mem *memory.Buffer,
	log logger.ILogger,
) *RetrievalChain {
	if mem == nil {
		mem = memory.NewBuffer()
	}
	return &RetrievalChain{
		llmProvider:      llmProvider,
		condenseProvider: condenseProvider,
		retriever:        retriever,
		memory:           mem,
		logger:           log,
	}
}

func (c *RetrievalChain) Answer(ctx context.Context, input string, onToken llm.StreamHandler) (string, error) {
	query := input

	// A first question needs no condensing; there is no history to
	// resolve pronouns against.
	if !c.memory.IsEmpty() {
		condensed, err := c.condenseQuestion(ctx, input)
		if err != nil {
			// Retrieval on the raw question is better than failing the turn.
			c.logger.Warn("RetrievalChain", "condense question failed, using raw input", map[string]interface{}{
				"error": err.Error(),
			})
		} else if condensed != "" {
			query = condensed
		}
	}

	chunks, err := c.retriever.RelevantChunks(ctx, query)
	if err != nil {
		return "", NewExternalProviderError("embedding", err)
	}

	prompt := c.buildGroundedPrompt(query, chunks)

	answer, err := c.llmProvider.ChatStream(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	}, onToken)
	if err != nil {
		return "", NewExternalProviderError("llm", err)
	}

	c.memory.AddExchange(input, answer)
	return answer, nil
}

func (c *RetrievalChain) condenseQuestion(ctx context.Context, question string) (string, error) {
	prompt := strings.NewReplacer(
		"{history}", c.memory.Render(),
		"{question}", question,
	).Replace(constant.CondenseQuestionPromptV1)

	condensed, err := c.condenseProvider.Generate(ctx, prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(condensed), nil
}

func (c *RetrievalChain) buildGroundedPrompt(question string, chunks []string) string {
	var sb strings.Builder
	sb.WriteString("Use the following pieces of context to answer the question at the end. If you don't know the answer, just say that you don't know, don't try to make up an answer.\n\n")
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(chunk)
	}
	sb.WriteString("\n\nQuestion: ")
	sb.WriteString(question)
	sb.WriteString("\nHelpful Answer:")
	return sb.String()
}
