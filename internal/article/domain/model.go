package domain

import "time"

// Article is an editorial piece written by an author account.
type Article struct {
	ID         string
	Title      string
	Slug       string
	Content    string
	ImageURL   string
	AuthorName string
	CommentIDs []string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Comment lives in its own collection and is referenced by id from the
// article. Deleting an article does not cascade to its comments.
type Comment struct {
	ID        string
	ArticleID string
	Name      string
	Email     string
	Content   string
	CreatedAt time.Time
}
