package service

import (
	"context"

	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ITranscriptService interface {
	// RecordExchange queues one completed question/answer pair for
	// persistence. It never blocks the caller on the database; a failed
	// write is logged by the consumer, not surfaced to the session.
	RecordExchange(ctx context.Context, studentId string, conversationId uuid.UUID, question string, answer string)

	// GetRecent returns up to limit records, newest first.
	GetRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.ConversationLog, error)
}

type transcriptService struct {
	uowFactory unitofwork.RepositoryFactory
	publisher  IPublisherService
	logger     logger.ILogger
}

func NewTranscriptService(
	uowFactory unitofwork.RepositoryFactory,
	publisher IPublisherService,
	log logger.ILogger,
) ITranscriptService {
	return &transcriptService{
		uowFactory: uowFactory,
		publisher:  publisher,
		logger:     log,
	}
}

func (s *transcriptService) RecordExchange(ctx context.Context, studentId string, conversationId uuid.UUID, question string, answer string) {
	err := s.publisher.Publish(ctx, dto.PersistChatLogMessage{
		StudentId:      studentId,
		ConversationId: conversationId.String(),
		Question:       question,
		Answer:         answer,
	})
	if err != nil {
		s.logger.Error("TranscriptService", "failed to queue chat log pair", map[string]interface{}{
			"conversation_id": conversationId.String(),
			"error":           err.Error(),
		})
	}
}

func (s *transcriptService) GetRecent(ctx context.Context, conversationId uuid.UUID, limit int) ([]*entity.ConversationLog, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	return uow.ConversationLogRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.NewestFirst{},
		specification.Limit{Limit: limit},
	)
}
