package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentEmbedding struct {
	Id         uuid.UUID
	DocumentId uuid.UUID
	StudentId  string
	Content    string
	Embedding  []float32
	CreatedAt  time.Time
}
