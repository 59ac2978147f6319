package memory

import (
	"fmt"
	"testing"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"

	"github.com/stretchr/testify/assert"
)

func newLog(role string, content string, age time.Duration) *entity.ConversationLog {
	return &entity.ConversationLog{
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().Add(-age),
	}
}

func TestWindow_ReversesNewestFirstIntoChronologicalOrder(t *testing.T) {
	// Repository order: newest first.
	records := []*entity.ConversationLog{
		newLog(constant.ChatMessageRoleAssistant, "answer two", 1*time.Minute),
		newLog(constant.ChatMessageRoleUser, "question two", 2*time.Minute),
		newLog(constant.ChatMessageRoleAssistant, "answer one", 3*time.Minute),
		newLog(constant.ChatMessageRoleUser, "question one", 4*time.Minute),
	}

	messages := Window(records)

	assert.Len(t, messages, 4)
	assert.Equal(t, "question one", messages[0].Content)
	assert.Equal(t, constant.ChatMessageRoleUser, messages[0].Role)
	assert.Equal(t, "answer one", messages[1].Content)
	assert.Equal(t, "question two", messages[2].Content)
	assert.Equal(t, "answer two", messages[3].Content)
}

func TestWindow_SkipsUnknownRoles(t *testing.T) {
	records := []*entity.ConversationLog{
		newLog(constant.ChatMessageRoleAssistant, "hello", 1*time.Minute),
		newLog("moderator", "ignore me", 2*time.Minute),
		newLog(constant.ChatMessageRoleUser, "hi", 3*time.Minute),
	}

	messages := Window(records)

	assert.Len(t, messages, 2)
	assert.Equal(t, "hi", messages[0].Content)
	assert.Equal(t, "hello", messages[1].Content)
}

func TestWindow_EmptyInput(t *testing.T) {
	assert.Empty(t, Window(nil))
}

func TestBuffer_RenderUsesPrefixes(t *testing.T) {
	buf := NewBufferWithPrefixes("Human", "Socrates")
	buf.AddExchange("what is gravity?", "What do you think happens when you drop a ball?")

	rendered := buf.Render()
	assert.Equal(t, "Human: what is gravity?\nSocrates: What do you think happens when you drop a ball?", rendered)
}

func TestBuffer_SeedThenAddExchange(t *testing.T) {
	buf := NewBuffer()

	var records []*entity.ConversationLog
	for i := 6; i >= 1; i-- {
		role := constant.ChatMessageRoleUser
		if i%2 == 0 {
			role = constant.ChatMessageRoleAssistant
		}
		records = append(records, newLog(role, fmt.Sprintf("message %d", i), time.Duration(7-i)*time.Minute))
	}

	buf.Seed(Window(records))
	assert.False(t, buf.IsEmpty())
	assert.Len(t, buf.History(), 6)

	buf.AddExchange("new question", "new answer")
	history := buf.History()
	assert.Len(t, history, 8)
	assert.Equal(t, "message 1", history[0].Content)
	assert.Equal(t, "new answer", history[7].Content)
}
