package integration

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"
	"ai-tutoring-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.ConversationRepository())
	assert.NotNil(t, uow.ConversationLogRepository())
	assert.NotNil(t, uow.DocumentRepository())
	assert.NotNil(t, uow.DocumentEmbeddingRepository())

	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)

	t.Run("Check Conversation Repository", func(t *testing.T) {
		count, err := uow.ConversationRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Conversation count: %d", count)
	})

	t.Run("Check Document Embedding Repository", func(t *testing.T) {
		count, err := uow.DocumentEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DocumentEmbedding count: %d", count)
	})

	t.Run("Transcript Pair Roundtrip", func(t *testing.T) {
		ctx := context.Background()
		studentId := "integration-student-" + uuid.NewString()

		conversation := &entity.Conversation{
			Id:          uuid.New(),
			Reference:   constant.ConversationReferenceStudent,
			ReferenceId: studentId,
			CreatedAt:   time.Now(),
		}
		require.NoError(t, uow.ConversationRepository().Create(ctx, conversation))

		now := time.Now()
		userLog := &entity.ConversationLog{
			Id:             uuid.New(),
			StudentId:      studentId,
			ConversationId: conversation.Id,
			Role:           constant.ChatMessageRoleUser,
			Content:        "integration question",
			CreatedAt:      now,
		}
		assistantLog := &entity.ConversationLog{
			Id:             uuid.New(),
			StudentId:      studentId,
			ConversationId: conversation.Id,
			Role:           constant.ChatMessageRoleAssistant,
			Content:        "integration answer",
			CreatedAt:      now.Add(time.Millisecond),
		}
		require.NoError(t, uow.ConversationLogRepository().Create(ctx, userLog))
		require.NoError(t, uow.ConversationLogRepository().Create(ctx, assistantLog))

		logs, err := uow.ConversationLogRepository().FindAll(ctx,
			specification.ByConversationID{ConversationID: conversation.Id},
			specification.NewestFirst{},
		)
		require.NoError(t, err)
		require.Len(t, logs, 2)
		assert.Equal(t, constant.ChatMessageRoleAssistant, logs[0].Role)
		assert.Equal(t, constant.ChatMessageRoleUser, logs[1].Role)

		found, err := uow.ConversationRepository().FindOne(ctx, specification.ByReference{
			Reference:   constant.ConversationReferenceStudent,
			ReferenceID: studentId,
		})
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, conversation.Id, found.Id)

		// Cleanup
		require.NoError(t, uow.ConversationRepository().Delete(ctx, conversation.Id))
	})

	t.Run("Embedding Similarity Roundtrip", func(t *testing.T) {
		ctx := context.Background()
		studentId := "integration-student-" + uuid.NewString()

		document := &entity.Document{
			Id:        uuid.New(),
			StudentId: studentId,
			Title:     "Integration Document",
			CreatedAt: time.Now(),
		}
		require.NoError(t, uow.DocumentRepository().Create(ctx, document))

		embeddings := []*entity.DocumentEmbedding{
			{
				Id:         uuid.New(),
				DocumentId: document.Id,
				StudentId:  studentId,
				Content:    "chunk about photosynthesis",
				Embedding:  unitVector(0),
				CreatedAt:  time.Now(),
			},
			{
				Id:         uuid.New(),
				DocumentId: document.Id,
				StudentId:  studentId,
				Content:    "chunk about cellular respiration",
				Embedding:  unitVector(1),
				CreatedAt:  time.Now(),
			},
		}
		require.NoError(t, uow.DocumentEmbeddingRepository().CreateBulk(ctx, embeddings))

		// Query with the first chunk's vector; it must come back nearest.
		results, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, unitVector(0), 2, studentId, document.Id)
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, "chunk about photosynthesis", results[0].Content)

		// A different document id must return nothing.
		other, err := uow.DocumentEmbeddingRepository().SearchSimilar(ctx, unitVector(0), 2, studentId, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, other)

		require.NoError(t, uow.DocumentRepository().Delete(ctx, document.Id))
	})
}

// unitVector builds a 768-dim basis vector along the given axis.
func unitVector(axis int) []float32 {
	vec := make([]float32, 768)
	vec[axis%len(vec)] = 1
	return vec
}
