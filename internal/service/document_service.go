package service

import (
	"context"
	"time"

	"ai-tutoring-be/internal/dto"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type IDocumentService interface {
	Show(ctx context.Context, studentId string, id uuid.UUID) (*dto.ShowDocumentResponse, error)
	Get(ctx context.Context, studentId string, id uuid.UUID) (*entity.Document, error)
	UpdateSummary(ctx context.Context, studentId string, req *dto.UpdateDocumentSummaryRequest) (*dto.UpdateDocumentSummaryResponse, error)
}

type documentService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDocumentService(uowFactory unitofwork.RepositoryFactory) IDocumentService {
	return &documentService{
		uowFactory: uowFactory,
	}
}

func (s *documentService) Get(ctx context.Context, studentId string, id uuid.UUID) (*entity.Document, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStudentID{StudentID: studentId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, serverutils.NewNotFoundError("document")
	}
	return document, nil
}

func (s *documentService) Show(ctx context.Context, studentId string, id uuid.UUID) (*dto.ShowDocumentResponse, error) {
	document, err := s.Get(ctx, studentId, id)
	if err != nil {
		return nil, err
	}
	return &dto.ShowDocumentResponse{
		Id:        document.Id,
		Title:     document.Title,
		Summary:   document.Summary,
		CreatedAt: document.CreatedAt,
		UpdatedAt: document.UpdatedAt,
	}, nil
}

func (s *documentService) UpdateSummary(ctx context.Context, studentId string, req *dto.UpdateDocumentSummaryRequest) (*dto.UpdateDocumentSummaryResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	document, err := uow.DocumentRepository().FindOne(ctx,
		specification.ByID{ID: req.Id},
		specification.ByStudentID{StudentID: studentId},
	)
	if err != nil {
		return nil, err
	}
	if document == nil {
		return nil, serverutils.NewNotFoundError("document")
	}

	now := time.Now()
	document.Summary = req.Summary
	document.UpdatedAt = &now

	if err := uow.DocumentRepository().Update(ctx, document); err != nil {
		return nil, err
	}

	return &dto.UpdateDocumentSummaryResponse{Id: document.Id}, nil
}
