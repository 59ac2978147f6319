package model

import (
	"time"

	"github.com/google/uuid"
)

// ConversationLog is append-only: no UpdatedAt, no soft delete.
type ConversationLog struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	StudentId      string    `gorm:"type:text;not null;index"`
	ConversationId uuid.UUID `gorm:"type:uuid;not null;index"`
	Role           string    `gorm:"type:varchar(20);not null"`
	Content        string    `gorm:"type:text;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (ConversationLog) TableName() string {
	return "conversation_logs"
}
