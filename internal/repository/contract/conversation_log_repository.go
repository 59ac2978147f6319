package contract

import (
	"context"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/repository/specification"
)

// ConversationLogRepository is append-only; records are never updated or
// deleted by the application.
type ConversationLogRepository interface {
	Create(ctx context.Context, log *entity.ConversationLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationLog, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
