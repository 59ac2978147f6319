package entity

import (
	"time"

	"github.com/google/uuid"
)

// ConversationLog is one immutable transcript record. Records are only ever
// appended; a user/assistant pair is written per exchange, user first.
type ConversationLog struct {
	Id             uuid.UUID
	StudentId      string
	ConversationId uuid.UUID
	Role           string // "user" | "assistant"
	Content        string
	CreatedAt      time.Time
}
