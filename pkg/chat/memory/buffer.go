package memory

import (
	"strings"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/pkg/llm"
)

// Buffer holds the running conversation of one session. It is not safe
// for concurrent use; the session controller serializes access.
type Buffer struct {
	messages    []llm.Message
	humanPrefix string
	aiPrefix    string
}

func NewBuffer() *Buffer {
	return &Buffer{
		humanPrefix: "Human",
		aiPrefix:    "AI",
	}
}

// NewBufferWithPrefixes sets the labels used when rendering history into a
// prompt, e.g. "Human" / "Socrates" for the tutoring persona.
func NewBufferWithPrefixes(humanPrefix string, aiPrefix string) *Buffer {
	return &Buffer{
		humanPrefix: humanPrefix,
		aiPrefix:    aiPrefix,
	}
}

// Seed replaces the buffer content with previously persisted messages.
func (b *Buffer) Seed(messages []llm.Message) {
	b.messages = append(b.messages[:0], messages...)
}

// AddExchange appends one completed question/answer pair.
func (b *Buffer) AddExchange(question string, answer string) {
	b.messages = append(b.messages,
		llm.Message{Role: constant.ChatMessageRoleUser, Content: question},
		llm.Message{Role: constant.ChatMessageRoleAssistant, Content: answer},
	)
}

// History returns the buffered messages in chronological order.
func (b *Buffer) History() []llm.Message {
	out := make([]llm.Message, len(b.messages))
	copy(out, b.messages)
	return out
}

func (b *Buffer) IsEmpty() bool {
	return len(b.messages) == 0
}

// Render flattens the buffer into prompt text, one line per message.
func (b *Buffer) Render() string {
	var sb strings.Builder
	for i, msg := range b.messages {
		if i > 0 {
			sb.WriteString("\n")
		}
		prefix := b.humanPrefix
		if msg.Role == constant.ChatMessageRoleAssistant {
			prefix = b.aiPrefix
		}
		sb.WriteString(prefix)
		sb.WriteString(": ")
		sb.WriteString(msg.Content)
	}
	return sb.String()
}
