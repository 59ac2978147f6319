package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/logger"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// PersistenceError marks a transcript write that was dropped. The session
// has already answered the student by the time this happens, so the error
// is logged and the message acked rather than retried.
type PersistenceError struct {
	ConversationId string
	Err            error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist transcript for conversation %s: %v", e.ConversationId, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	// Every outcome acks: a dropped transcript row must not stall the
	// queue or replay into duplicate rows.
	defer msg.Ack()

	var payload dto.PersistChatLogMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("ConsumerService", "failed to unmarshal chat log message", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	conversationId, err := uuid.Parse(payload.ConversationId)
	if err != nil {
		cs.logger.Error("ConsumerService", "invalid conversation id in chat log message", map[string]interface{}{
			"conversation_id": payload.ConversationId,
			"error":           err.Error(),
		})
		return
	}

	if err := cs.writePair(ctx, conversationId, payload); err != nil {
		persistErr := &PersistenceError{ConversationId: payload.ConversationId, Err: err}
		cs.logger.Error("ConsumerService", "transcript write failed", map[string]interface{}{
			"conversation_id": payload.ConversationId,
			"error":           persistErr.Error(),
		})
	}
}

func (cs *consumerService) writePair(ctx context.Context, conversationId uuid.UUID, payload dto.PersistChatLogMessage) error {
	uow := cs.uowFactory.NewUnitOfWork(ctx)

	now := time.Now()
	userLog := &entity.ConversationLog{
		Id:             uuid.New(),
		StudentId:      payload.StudentId,
		ConversationId: conversationId,
		Role:           constant.ChatMessageRoleUser,
		Content:        payload.Question,
		CreatedAt:      now,
	}

	// The user row goes first; an assistant answer without its question
	// would corrupt the reconstructed memory window.
	if err := uow.ConversationLogRepository().Create(ctx, userLog); err != nil {
		return err
	}

	assistantLog := &entity.ConversationLog{
		Id:             uuid.New(),
		StudentId:      payload.StudentId,
		ConversationId: conversationId,
		Role:           constant.ChatMessageRoleAssistant,
		Content:        payload.Answer,
		// Offset keeps the pair strictly ordered even when both rows
		// land in the same clock tick.
		CreatedAt: now.Add(time.Millisecond),
	}
	return uow.ConversationLogRepository().Create(ctx, assistantLog)
}
