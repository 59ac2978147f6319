package memory

import (
	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/pkg/llm"
)

// Window converts persisted logs into chat messages for seeding a Buffer.
// Records arrive newest-first from the repository and are reversed back
// into chronological order. Rows with an unknown role are skipped.
func Window(records []*entity.ConversationLog) []llm.Message {
	messages := make([]llm.Message, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		record := records[i]
		switch record.Role {
		case constant.ChatMessageRoleUser, constant.ChatMessageRoleAssistant:
			messages = append(messages, llm.Message{
				Role:    record.Role,
				Content: record.Content,
			})
		}
	}
	return messages
}
