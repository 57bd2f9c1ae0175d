package domain

import "errors"

var (
	ErrArticleNotFound = errors.New("article not found")
	ErrCommentNotFound = errors.New("comment not found")
	ErrInvalidArticle  = errors.New("invalid article data")
	ErrInvalidComment  = errors.New("invalid comment data")
)
