package dto

import (
	"time"

	"github.com/google/uuid"
)

type ConversationResponse struct {
	Id          uuid.UUID `json:"id"`
	Reference   string    `json:"reference"`
	ReferenceId string    `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type ConversationLogResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type ConversationHistoryResponse struct {
	ConversationId uuid.UUID                 `json:"conversation_id"`
	Logs           []ConversationLogResponse `json:"logs"`
}
