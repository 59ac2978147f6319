package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShowDocumentResponse struct {
	Id        uuid.UUID  `json:"id"`
	Title     string     `json:"title"`
	Summary   string     `json:"summary"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at"`
}

type UpdateDocumentSummaryRequest struct {
	Id      uuid.UUID
	Summary string `json:"summary" validate:"required"`
}

type UpdateDocumentSummaryResponse struct {
	Id uuid.UUID `json:"id"`
}
