package chain

import (
	"context"
	"strings"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/pkg/chat/memory"
	"ai-tutoring-be/pkg/llm"
)

// TutoringChain runs the Socratic homework-help dialogue. The topic is
// fixed per session; history and the student's message are substituted
// into the persona template on every turn.
type TutoringChain struct {
	llmProvider llm.LLMProvider
	template    string
	memory      *memory.Buffer
}

func NewTutoringChain(llmProvider llm.LLMProvider, topic string, mem *memory.Buffer) *TutoringChain {
	if mem == nil {
		mem = memory.NewBufferWithPrefixes("Human", "Socrates")
	}
	return &TutoringChain{
		llmProvider: llmProvider,
		template:    strings.ReplaceAll(constant.TutorPromptTemplateV1, "{topic}", topic),
		memory:      mem,
	}
}

// Memory exposes the buffer so a session can seed it from persisted logs.
func (c *TutoringChain) Memory() *memory.Buffer {
	return c.memory
}

func (c *TutoringChain) Answer(ctx context.Context, input string, onToken llm.StreamHandler) (string, error) {
	prompt := strings.NewReplacer(
		"{history}", c.memory.Render(),
		"{input}", input,
	).Replace(c.template)

	answer, err := c.llmProvider.ChatStream(ctx, []llm.Message{
		{Role: constant.ChatMessageRoleUser, Content: prompt},
	}, onToken)
	if err != nil {
		return "", NewExternalProviderError("llm", err)
	}

	c.memory.AddExchange(input, answer)
	return answer, nil
}
