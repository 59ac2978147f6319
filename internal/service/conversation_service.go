package service

import (
	"context"
	"fmt"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
)

type IConversationService interface {
	// ResolveForDocument returns the existing conversation for a
	// (student, document) pair or creates one. Repeated calls for the
	// same pair return the same conversation.
	ResolveForDocument(ctx context.Context, studentId string, documentId uuid.UUID) (*entity.Conversation, error)

	// ResolveForStudent loads the given conversation, or creates a new
	// student-referenced one when conversationId is nil.
	ResolveForStudent(ctx context.Context, studentId string, conversationId *uuid.UUID) (*entity.Conversation, error)

	Show(ctx context.Context, id uuid.UUID) (*entity.Conversation, error)
	ListForStudent(ctx context.Context, studentId string) ([]*dto.ConversationResponse, error)

	// History pages through transcript records, newest first.
	History(ctx context.Context, conversationId uuid.UUID, limit int, offset int) (*dto.ConversationHistoryResponse, error)
}

type conversationService struct {
	uowFactory unitofwork.RepositoryFactory
	// resolveCache short-circuits repeated document resolves so bursts of
	// reconnects do not race each other into duplicate conversations.
	resolveCache *gocache.Cache
}

func NewConversationService(uowFactory unitofwork.RepositoryFactory) IConversationService {
	return &conversationService{
		uowFactory:   uowFactory,
		resolveCache: gocache.New(10*time.Minute, 15*time.Minute),
	}
}

func (s *conversationService) ResolveForDocument(ctx context.Context, studentId string, documentId uuid.UUID) (*entity.Conversation, error) {
	cacheKey := fmt.Sprintf("doc:%s", documentId)
	if cached, found := s.resolveCache.Get(cacheKey); found {
		return cached.(*entity.Conversation), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByReference{
		Reference:   constant.ConversationReferenceDocument,
		ReferenceID: documentId.String(),
	})
	if err != nil {
		return nil, err
	}

	if conversation == nil {
		conversation = &entity.Conversation{
			Id:          uuid.New(),
			Reference:   constant.ConversationReferenceDocument,
			ReferenceId: documentId.String(),
			CreatedAt:   time.Now(),
		}
		if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
			return nil, err
		}
	}

	s.resolveCache.Set(cacheKey, conversation, gocache.DefaultExpiration)
	return conversation, nil
}

func (s *conversationService) ResolveForStudent(ctx context.Context, studentId string, conversationId *uuid.UUID) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if conversationId != nil {
		conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: *conversationId})
		if err != nil {
			return nil, err
		}
		if conversation == nil {
			return nil, serverutils.NewNotFoundError("conversation")
		}
		return conversation, nil
	}

	conversation := &entity.Conversation{
		Id:          uuid.New(),
		Reference:   constant.ConversationReferenceStudent,
		ReferenceId: studentId,
		CreatedAt:   time.Now(),
	}
	if err := uow.ConversationRepository().Create(ctx, conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

func (s *conversationService) Show(ctx context.Context, id uuid.UUID) (*entity.Conversation, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("conversation")
	}
	return conversation, nil
}

func (s *conversationService) ListForStudent(ctx context.Context, studentId string) ([]*dto.ConversationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversations, err := uow.ConversationRepository().FindAll(ctx,
		specification.ByReference{
			Reference:   constant.ConversationReferenceStudent,
			ReferenceID: studentId,
		},
		specification.NewestFirst{},
	)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.ConversationResponse, 0, len(conversations))
	for _, c := range conversations {
		res = append(res, &dto.ConversationResponse{
			Id:          c.Id,
			Reference:   c.Reference,
			ReferenceId: c.ReferenceId,
			CreatedAt:   c.CreatedAt,
		})
	}
	return res, nil
}

func (s *conversationService) History(ctx context.Context, conversationId uuid.UUID, limit int, offset int) (*dto.ConversationHistoryResponse, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	conversation, err := uow.ConversationRepository().FindOne(ctx, specification.ByID{ID: conversationId})
	if err != nil {
		return nil, err
	}
	if conversation == nil {
		return nil, serverutils.NewNotFoundError("conversation")
	}

	logs, err := uow.ConversationLogRepository().FindAll(ctx,
		specification.ByConversationID{ConversationID: conversationId},
		specification.NewestFirst{},
		specification.Pagination{Limit: limit, Offset: offset},
	)
	if err != nil {
		return nil, err
	}

	res := &dto.ConversationHistoryResponse{
		ConversationId: conversationId,
		Logs:           make([]dto.ConversationLogResponse, 0, len(logs)),
	}
	for _, l := range logs {
		res.Logs = append(res.Logs, dto.ConversationLogResponse{
			Id:        l.Id,
			Role:      l.Role,
			Content:   l.Content,
			CreatedAt: l.CreatedAt,
		})
	}
	return res, nil
}
