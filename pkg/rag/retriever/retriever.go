package retriever

import (
	"context"
	"fmt"

	"ai-tutoring-be/internal/repository/unitofwork"
	"ai-tutoring-be/pkg/embedding"

	"github.com/google/uuid"
)

// Retriever performs vector similarity search over one student's document.
type Retriever struct {
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
	studentId         string
	documentId        uuid.UUID
	topK              int
}

func New(
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
	studentId string,
	documentId uuid.UUID,
	topK int,
) *Retriever {
	return &Retriever{
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
		studentId:         studentId,
		documentId:        documentId,
		topK:              topK,
	}
}

// RelevantChunks embeds the query and returns the content of the most
// similar chunks, nearest first.
func (r *Retriever) RelevantChunks(ctx context.Context, query string) ([]string, error) {
	embeddingRes, err := r.embeddingProvider.Generate(query, "RETRIEVAL_QUERY")
	if err != nil {
		return nil, fmt.Errorf("embedding generation failed: %w", err)
	}

	uow := r.uowFactory.NewUnitOfWork(ctx)
	results, err := uow.DocumentEmbeddingRepository().SearchSimilar(
		ctx,
		embeddingRes.Embedding.Values,
		r.topK,
		r.studentId,
		r.documentId,
	)
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	chunks := make([]string, 0, len(results))
	for _, res := range results {
		chunks = append(chunks, res.Content)
	}
	return chunks, nil
}
