package entity

import (
	"time"

	"github.com/google/uuid"
)

type Conversation struct {
	Id          uuid.UUID
	ReferenceId string // document id or student id, depending on Reference
	Reference   string // "document" | "student"
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	IsDeleted   bool
}
