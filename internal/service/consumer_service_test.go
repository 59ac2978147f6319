package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/repository/contract"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

type fakeLogRepository struct {
	created   []*entity.ConversationLog
	failAfter int // fail the Nth create (1-based); 0 means never fail
}

func (f *fakeLogRepository) Create(ctx context.Context, log *entity.ConversationLog) error {
	if f.failAfter > 0 && len(f.created)+1 == f.failAfter {
		return errors.New("connection reset")
	}
	f.created = append(f.created, log)
	return nil
}

func (f *fakeLogRepository) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ConversationLog, error) {
	return f.created, nil
}

func (f *fakeLogRepository) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.created)), nil
}

type fakeUnitOfWork struct {
	logRepo *fakeLogRepository
}

func (f *fakeUnitOfWork) Begin(ctx context.Context) error { return nil }
func (f *fakeUnitOfWork) Commit() error                   { return nil }
func (f *fakeUnitOfWork) Rollback() error                 { return nil }
func (f *fakeUnitOfWork) ConversationRepository() contract.ConversationRepository {
	return nil
}
func (f *fakeUnitOfWork) ConversationLogRepository() contract.ConversationLogRepository {
	return f.logRepo
}
func (f *fakeUnitOfWork) DocumentRepository() contract.DocumentRepository { return nil }
func (f *fakeUnitOfWork) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}

type fakeUowFactory struct {
	uow *fakeUnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newPersistMessage(t *testing.T, conversationId string) *message.Message {
	t.Helper()
	payload, err := json.Marshal(dto.PersistChatLogMessage{
		StudentId:      "student-42",
		ConversationId: conversationId,
		Question:       "what is osmosis?",
		Answer:         "Let's start with what you know about diffusion.",
	})
	require.NoError(t, err)
	return message.NewMessage(watermill.NewUUID(), payload)
}

func TestConsumer_WritesUserThenAssistant(t *testing.T) {
	logRepo := &fakeLogRepository{}
	cs := &consumerService{
		uowFactory: &fakeUowFactory{uow: &fakeUnitOfWork{logRepo: logRepo}},
		logger:     noopLogger{},
	}

	conversationId := uuid.New()
	cs.processMessage(context.Background(), newPersistMessage(t, conversationId.String()))

	require.Len(t, logRepo.created, 2)

	userLog := logRepo.created[0]
	assistantLog := logRepo.created[1]

	assert.Equal(t, constant.ChatMessageRoleUser, userLog.Role)
	assert.Equal(t, "what is osmosis?", userLog.Content)
	assert.Equal(t, "student-42", userLog.StudentId)
	assert.Equal(t, conversationId, userLog.ConversationId)

	assert.Equal(t, constant.ChatMessageRoleAssistant, assistantLog.Role)
	assert.True(t, assistantLog.CreatedAt.After(userLog.CreatedAt))
}

func TestConsumer_SkipsAssistantWhenUserWriteFails(t *testing.T) {
	logRepo := &fakeLogRepository{failAfter: 1}
	cs := &consumerService{
		uowFactory: &fakeUowFactory{uow: &fakeUnitOfWork{logRepo: logRepo}},
		logger:     noopLogger{},
	}

	cs.processMessage(context.Background(), newPersistMessage(t, uuid.NewString()))

	assert.Empty(t, logRepo.created)
}

func TestConsumer_IgnoresMalformedPayload(t *testing.T) {
	logRepo := &fakeLogRepository{}
	cs := &consumerService{
		uowFactory: &fakeUowFactory{uow: &fakeUnitOfWork{logRepo: logRepo}},
		logger:     noopLogger{},
	}

	cs.processMessage(context.Background(), message.NewMessage(watermill.NewUUID(), []byte("not json")))
	cs.processMessage(context.Background(), newPersistMessage(t, "not-a-uuid"))

	assert.Empty(t, logRepo.created)
}
