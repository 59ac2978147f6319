package mapper

import (
	"time"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/model"

	"gorm.io/gorm"
)

type ConversationMapper struct{}

func NewConversationMapper() *ConversationMapper {
	return &ConversationMapper{}
}

// Conversation Mappers

func (m *ConversationMapper) ConversationToEntity(c *model.Conversation) *entity.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt *time.Time
	if c.DeletedAt.Valid {
		t := c.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !c.UpdatedAt.IsZero() {
		t := c.UpdatedAt
		updatedAt = &t
	}

	return &entity.Conversation{
		Id:          c.Id,
		ReferenceId: c.ReferenceId,
		Reference:   c.Reference,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
		IsDeleted:   c.DeletedAt.Valid,
	}
}

func (m *ConversationMapper) ConversationToModel(c *entity.Conversation) *model.Conversation {
	if c == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if c.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *c.DeletedAt, Valid: true}
	} else if c.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if c.UpdatedAt != nil {
		updatedAt = *c.UpdatedAt
	}

	return &model.Conversation{
		Id:          c.Id,
		ReferenceId: c.ReferenceId,
		Reference:   c.Reference,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   updatedAt,
		DeletedAt:   deletedAt,
	}
}

// Log Mappers

func (m *ConversationMapper) LogToEntity(l *model.ConversationLog) *entity.ConversationLog {
	if l == nil {
		return nil
	}

	return &entity.ConversationLog{
		Id:             l.Id,
		StudentId:      l.StudentId,
		ConversationId: l.ConversationId,
		Role:           l.Role,
		Content:        l.Content,
		CreatedAt:      l.CreatedAt,
	}
}

func (m *ConversationMapper) LogToModel(l *entity.ConversationLog) *model.ConversationLog {
	if l == nil {
		return nil
	}

	return &model.ConversationLog{
		Id:             l.Id,
		StudentId:      l.StudentId,
		ConversationId: l.ConversationId,
		Role:           l.Role,
		Content:        l.Content,
		CreatedAt:      l.CreatedAt,
	}
}
