package chain

import (
	"context"
	"strings"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/pkg/llm"
)

// SummaryChain produces a one-shot document summary. It keeps no memory;
// each call retrieves fresh chunks and streams a new summary.
type SummaryChain struct {
	llmProvider llm.LLMProvider
	retriever   Retriever
}

func NewSummaryChain(llmProvider llm.LLMProvider, retriever Retriever) *SummaryChain {
	return &SummaryChain{
		llmProvider: llmProvider,
		retriever:   retriever,
	}
}

func (c *SummaryChain) Answer(ctx context.Context, input string, onToken llm.StreamHandler) (string, error) {
	instruction := input
	if strings.TrimSpace(instruction) == "" {
		instruction = constant.SummarizeDocumentPromptV1
	}

	chunks, err := c.retriever.RelevantChunks(ctx, instruction)
	if err != nil {
		return "", NewExternalProviderError("embedding", err)
	}

	var sb strings.Builder
	sb.WriteString(instruction)
	sb.WriteString("\n\nDocument:\n")
	for i, chunk := range chunks {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(chunk)
	}
	sb.WriteString("\n\nSummary:")

	summary, err := c.llmProvider.ChatStream(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: sb.String()},
	}, onToken)
	if err != nil {
		return "", NewExternalProviderError("llm", err)
	}
	return summary, nil
}
