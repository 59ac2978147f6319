package contract

import (
	"context"

	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentEmbeddingRepository interface {
	CreateBulk(ctx context.Context, embeddings []*entity.DocumentEmbedding) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// SearchSimilar returns the most similar chunks for a query vector,
	// scoped to one (student, document) pair.
	SearchSimilar(ctx context.Context, embedding []float32, limit int, studentId string, documentId uuid.UUID) ([]*entity.DocumentEmbedding, error)
}
