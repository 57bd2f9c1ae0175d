package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/article/domain"
	"github.com/mohamed-bella/dresseur-ma/pkg/slug"
)

// ArticleInput carries the author-supplied fields of an editorial piece.
type ArticleInput struct {
	Title    string
	Content  string
	ImageURL string
}

// CommentInput is a visitor-submitted comment on an article.
type CommentInput struct {
	Name    string
	Email   string
	Content string
}

// ArticleWithComments bundles the detail-page payload.
type ArticleWithComments struct {
	Article  *domain.Article
	Comments []*domain.Comment
}

type ArticleUsecase struct {
	articles domain.ArticleRepository
	comments domain.CommentRepository
	logger   *zap.Logger
}

func NewArticleUsecase(articles domain.ArticleRepository, comments domain.CommentRepository, logger *zap.Logger) *ArticleUsecase {
	return &ArticleUsecase{
		articles: articles,
		comments: comments,
		logger:   logger.Named("ArticleUsecase"),
	}
}

func (uc *ArticleUsecase) Create(ctx context.Context, authorName string, input ArticleInput) (*domain.Article, error) {
	if strings.TrimSpace(input.Title) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrInvalidArticle
	}

	articleSlug := slug.From(input.Title)
	if _, err := uc.articles.FindBySlug(ctx, articleSlug); err == nil {
		return nil, fmt.Errorf("%w: slug %q already taken", domain.ErrInvalidArticle, articleSlug)
	} else if !errors.Is(err, domain.ErrArticleNotFound) {
		return nil, fmt.Errorf("ArticleUsecase.Create: slug lookup failed: %w", err)
	}

	now := time.Now()
	article := &domain.Article{
		Title:      strings.TrimSpace(input.Title),
		Slug:       articleSlug,
		Content:    input.Content,
		ImageURL:   input.ImageURL,
		AuthorName: authorName,
		CommentIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.articles.Create(ctx, article); err != nil {
		return nil, fmt.Errorf("ArticleUsecase.Create: %w", err)
	}

	uc.logger.Info("article created",
		zap.String("article_id", article.ID),
		zap.String("slug", article.Slug))
	return article, nil
}

func (uc *ArticleUsecase) Update(ctx context.Context, id string, input ArticleInput) (*domain.Article, error) {
	article, err := uc.articles.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if title := strings.TrimSpace(input.Title); title != "" && title != article.Title {
		newSlug := slug.From(title)
		if other, err := uc.articles.FindBySlug(ctx, newSlug); err == nil {
			if other.ID != article.ID {
				return nil, fmt.Errorf("%w: slug %q already taken", domain.ErrInvalidArticle, newSlug)
			}
		} else if !errors.Is(err, domain.ErrArticleNotFound) {
			return nil, fmt.Errorf("ArticleUsecase.Update: slug lookup failed: %w", err)
		}
		article.Title = title
		article.Slug = newSlug
	}
	if strings.TrimSpace(input.Content) != "" {
		article.Content = input.Content
	}
	if input.ImageURL != "" {
		article.ImageURL = input.ImageURL
	}
	article.UpdatedAt = time.Now()

	if err := uc.articles.Update(ctx, article); err != nil {
		return nil, fmt.Errorf("ArticleUsecase.Update: %w", err)
	}
	return article, nil
}

// Delete removes the article only. Its comments stay in their collection;
// they are unreachable once the article is gone but cleanup is not our job.
func (uc *ArticleUsecase) Delete(ctx context.Context, id string) error {
	return uc.articles.Delete(ctx, id)
}

func (uc *ArticleUsecase) List(ctx context.Context, page, limit int64) ([]*domain.Article, int64, error) {
	return uc.articles.List(ctx, page, limit)
}

// GetBySlug loads the article and its comments for the detail page.
func (uc *ArticleUsecase) GetBySlug(ctx context.Context, articleSlug string) (*ArticleWithComments, error) {
	article, err := uc.articles.FindBySlug(ctx, articleSlug)
	if err != nil {
		return nil, err
	}
	comments, err := uc.comments.FindByArticleID(ctx, article.ID)
	if err != nil {
		return nil, fmt.Errorf("ArticleUsecase.GetBySlug: failed to load comments: %w", err)
	}
	return &ArticleWithComments{Article: article, Comments: comments}, nil
}

// AddComment stores a visitor comment and records its id on the article.
func (uc *ArticleUsecase) AddComment(ctx context.Context, articleID string, input CommentInput) (*domain.Comment, error) {
	if strings.TrimSpace(input.Name) == "" || strings.TrimSpace(input.Content) == "" {
		return nil, domain.ErrInvalidComment
	}
	article, err := uc.articles.FindByID(ctx, articleID)
	if err != nil {
		return nil, err
	}

	comment := &domain.Comment{
		ArticleID: article.ID,
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(input.Email),
		Content:   strings.TrimSpace(input.Content),
		CreatedAt: time.Now(),
	}
	if err := uc.comments.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("ArticleUsecase.AddComment: %w", err)
	}
	if err := uc.articles.AppendCommentID(ctx, article.ID, comment.ID); err != nil {
		uc.logger.Warn("failed to append comment reference to article",
			zap.String("article_id", article.ID),
			zap.String("comment_id", comment.ID),
			zap.Error(err))
	}

	uc.logger.Info("comment added",
		zap.String("article_id", article.ID),
		zap.String("comment_id", comment.ID))
	return comment, nil
}

func (uc *ArticleUsecase) DeleteComment(ctx context.Context, commentID string) error {
	return uc.comments.Delete(ctx, commentID)
}
