package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/article/domain"
)

type MockArticleRepository struct{ mock.Mock }

func (m *MockArticleRepository) Create(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockArticleRepository) Update(ctx context.Context, article *domain.Article) error {
	args := m.Called(ctx, article)
	return args.Error(0)
}
func (m *MockArticleRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockArticleRepository) FindByID(ctx context.Context, id string) (*domain.Article, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}
func (m *MockArticleRepository) FindBySlug(ctx context.Context, slug string) (*domain.Article, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Article), args.Error(1)
}
func (m *MockArticleRepository) List(ctx context.Context, page, limit int64) ([]*domain.Article, int64, error) {
	args := m.Called(ctx, page, limit)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]*domain.Article), args.Get(1).(int64), args.Error(2)
}
func (m *MockArticleRepository) AppendCommentID(ctx context.Context, articleID, commentID string) error {
	args := m.Called(ctx, articleID, commentID)
	return args.Error(0)
}

type MockCommentRepository struct{ mock.Mock }

func (m *MockCommentRepository) Create(ctx context.Context, comment *domain.Comment) error {
	args := m.Called(ctx, comment)
	return args.Error(0)
}
func (m *MockCommentRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockCommentRepository) FindByID(ctx context.Context, id string) (*domain.Comment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Comment), args.Error(1)
}
func (m *MockCommentRepository) FindByArticleID(ctx context.Context, articleID string) ([]*domain.Comment, error) {
	args := m.Called(ctx, articleID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Comment), args.Error(1)
}

func newTestArticleUsecase(articles *MockArticleRepository, comments *MockCommentRepository) *ArticleUsecase {
	return NewArticleUsecase(articles, comments, zap.NewNop())
}

func TestCreateArticle_DuplicateSlugRejected(t *testing.T) {
	articles := new(MockArticleRepository)
	comments := new(MockCommentRepository)
	uc := newTestArticleUsecase(articles, comments)

	articles.On("FindBySlug", mock.Anything, "eduquer-son-chiot").Return(&domain.Article{
		ID: "a1", Slug: "eduquer-son-chiot",
	}, nil)

	_, err := uc.Create(context.Background(), "La rédaction", ArticleInput{
		Title:   "Éduquer son chiot",
		Content: "Les bases de l'éducation canine.",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArticle)
	articles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestUpdateArticle_RetitleToTakenSlugRejected(t *testing.T) {
	articles := new(MockArticleRepository)
	comments := new(MockCommentRepository)
	uc := newTestArticleUsecase(articles, comments)

	articles.On("FindByID", mock.Anything, "a1").Return(&domain.Article{
		ID: "a1", Title: "Ancien titre", Slug: "ancien-titre",
	}, nil)
	articles.On("FindBySlug", mock.Anything, "eduquer-son-chiot").Return(&domain.Article{
		ID: "a2", Slug: "eduquer-son-chiot",
	}, nil)

	_, err := uc.Update(context.Background(), "a1", ArticleInput{Title: "Éduquer son chiot"})
	assert.ErrorIs(t, err, domain.ErrInvalidArticle)
	articles.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestUpdateArticle_RetitleToFreeSlug(t *testing.T) {
	articles := new(MockArticleRepository)
	comments := new(MockCommentRepository)
	uc := newTestArticleUsecase(articles, comments)

	articles.On("FindByID", mock.Anything, "a1").Return(&domain.Article{
		ID: "a1", Title: "Ancien titre", Slug: "ancien-titre",
	}, nil)
	articles.On("FindBySlug", mock.Anything, "nouveau-titre").Return(nil, domain.ErrArticleNotFound)
	articles.On("Update", mock.Anything, mock.MatchedBy(func(a *domain.Article) bool {
		return a.Title == "Nouveau titre" && a.Slug == "nouveau-titre"
	})).Return(nil)

	article, err := uc.Update(context.Background(), "a1", ArticleInput{Title: "Nouveau titre"})
	require.NoError(t, err)
	assert.Equal(t, "nouveau-titre", article.Slug)
	articles.AssertExpectations(t)
}

func TestAddComment_InvalidInputStoresNothing(t *testing.T) {
	articles := new(MockArticleRepository)
	comments := new(MockCommentRepository)
	uc := newTestArticleUsecase(articles, comments)

	_, err := uc.AddComment(context.Background(), "a1", CommentInput{Name: "", Content: "vide"})
	assert.ErrorIs(t, err, domain.ErrInvalidComment)
	comments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}
