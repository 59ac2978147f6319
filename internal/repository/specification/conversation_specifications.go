package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ByStudentID filters by the owning student (opaque identifier)
type ByStudentID struct {
	StudentID string
}

func (s ByStudentID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("student_id = ?", s.StudentID)
}

// ByConversationID filters transcript records by conversation
type ByConversationID struct {
	ConversationID uuid.UUID
}

func (s ByConversationID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("conversation_id = ?", s.ConversationID)
}

// ByReference resolves a conversation by its reference pair,
// e.g. ("document", documentId) or ("student", studentId).
type ByReference struct {
	Reference   string
	ReferenceID string
}

func (s ByReference) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("reference = ? AND reference_id = ?", s.Reference, s.ReferenceID)
}

// NewestFirst orders by creation time descending with id as tiebreaker, so
// a paginated read is stable while new rows are being appended.
type NewestFirst struct{}

func (s NewestFirst) Apply(db *gorm.DB) *gorm.DB {
	return db.Order("created_at DESC, id DESC")
}
