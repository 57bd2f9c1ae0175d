package domain

import "context"

type ArticleRepository interface {
	Create(ctx context.Context, article *Article) error
	Update(ctx context.Context, article *Article) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Article, error)
	FindBySlug(ctx context.Context, slug string) (*Article, error)
	List(ctx context.Context, page, limit int64) ([]*Article, int64, error)
	// AppendCommentID records a comment reference on the article.
	AppendCommentID(ctx context.Context, articleID, commentID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id string) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	FindByArticleID(ctx context.Context, articleID string) ([]*Comment, error)
}
