package service

import (
	"context"
	"testing"
	"time"

	"ai-tutoring-be/internal/constant"
	"ai-tutoring-be/internal/entity"
	"ai-tutoring-be/internal/pkg/serverutils"
	"ai-tutoring-be/internal/repository/contract"
	"ai-tutoring-be/internal/repository/specification"
	"ai-tutoring-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeConversationRepo struct {
	rows    []*entity.Conversation
	creates int
}

func (f *fakeConversationRepo) Create(ctx context.Context, conversation *entity.Conversation) error {
	f.creates++
	f.rows = append(f.rows, conversation)
	return nil
}

func (f *fakeConversationRepo) Update(ctx context.Context, conversation *entity.Conversation) error {
	return nil
}

func (f *fakeConversationRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func (f *fakeConversationRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Conversation, error) {
	for _, row := range f.rows {
		matches := true
		for _, spec := range specs {
			switch s := spec.(type) {
			case specification.ByID:
				if row.Id != s.ID {
					matches = false
				}
			case specification.ByReference:
				if row.Reference != s.Reference || row.ReferenceId != s.ReferenceID {
					matches = false
				}
			}
		}
		if matches {
			return row, nil
		}
	}
	return nil, nil
}

func (f *fakeConversationRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Conversation, error) {
	return f.rows, nil
}

func (f *fakeConversationRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(f.rows)), nil
}

type conversationUow struct {
	repo *fakeConversationRepo
}

func (u *conversationUow) Begin(ctx context.Context) error { return nil }
func (u *conversationUow) Commit() error                   { return nil }
func (u *conversationUow) Rollback() error                 { return nil }
func (u *conversationUow) ConversationRepository() contract.ConversationRepository {
	return u.repo
}
func (u *conversationUow) ConversationLogRepository() contract.ConversationLogRepository {
	return nil
}
func (u *conversationUow) DocumentRepository() contract.DocumentRepository { return nil }
func (u *conversationUow) DocumentEmbeddingRepository() contract.DocumentEmbeddingRepository {
	return nil
}

type conversationUowFactory struct {
	uow *conversationUow
}

func (f *conversationUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

func newConversationHarness() (*fakeConversationRepo, IConversationService) {
	repo := &fakeConversationRepo{}
	factory := &conversationUowFactory{uow: &conversationUow{repo: repo}}
	return repo, NewConversationService(factory)
}

func TestResolveForDocument_RepeatedCallsReturnSameConversation(t *testing.T) {
	repo, cs := newConversationHarness()
	documentId := uuid.New()

	first, err := cs.ResolveForDocument(context.Background(), "student-1", documentId)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, constant.ConversationReferenceDocument, first.Reference)
	assert.Equal(t, documentId.String(), first.ReferenceId)

	second, err := cs.ResolveForDocument(context.Background(), "student-1", documentId)
	require.NoError(t, err)
	assert.Equal(t, first.Id, second.Id)
	assert.Equal(t, 1, repo.creates)
}

func TestResolveForDocument_FindsExistingRowAcrossInstances(t *testing.T) {
	repo := &fakeConversationRepo{}
	factory := &conversationUowFactory{uow: &conversationUow{repo: repo}}
	documentId := uuid.New()

	existing := &entity.Conversation{
		Id:          uuid.New(),
		Reference:   constant.ConversationReferenceDocument,
		ReferenceId: documentId.String(),
		CreatedAt:   time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), existing))

	// A fresh service has a cold cache, so this exercises the lookup path.
	cs := &conversationService{
		uowFactory:   factory,
		resolveCache: gocache.New(time.Minute, time.Minute),
	}

	resolved, err := cs.ResolveForDocument(context.Background(), "student-2", documentId)
	require.NoError(t, err)
	assert.Equal(t, existing.Id, resolved.Id)
	assert.Equal(t, 1, repo.creates)
}

func TestResolveForStudent_NilIdCreatesFreshConversation(t *testing.T) {
	repo, cs := newConversationHarness()

	first, err := cs.ResolveForStudent(context.Background(), "student-7", nil)
	require.NoError(t, err)
	assert.Equal(t, constant.ConversationReferenceStudent, first.Reference)
	assert.Equal(t, "student-7", first.ReferenceId)

	second, err := cs.ResolveForStudent(context.Background(), "student-7", nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.Id, second.Id)
	assert.Equal(t, 2, repo.creates)
}

func TestResolveForStudent_LoadsExistingConversation(t *testing.T) {
	repo, cs := newConversationHarness()

	created, err := cs.ResolveForStudent(context.Background(), "student-7", nil)
	require.NoError(t, err)

	resolved, err := cs.ResolveForStudent(context.Background(), "student-7", &created.Id)
	require.NoError(t, err)
	assert.Equal(t, created.Id, resolved.Id)
	assert.Equal(t, 1, repo.creates)
}

func TestResolveForStudent_UnknownIdFails(t *testing.T) {
	_, cs := newConversationHarness()

	unknown := uuid.New()
	conversation, err := cs.ResolveForStudent(context.Background(), "student-7", &unknown)
	assert.Nil(t, conversation)

	var notFound *serverutils.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "conversation", notFound.Resource)
}
