package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/article/domain"
	articleuc "github.com/mohamed-bella/dresseur-ma/internal/article/usecase"
)

type ArticleHandler struct {
	articles *articleuc.ArticleUsecase
	logger   *zap.Logger
}

func NewArticleHandler(articles *articleuc.ArticleUsecase, logger *zap.Logger) *ArticleHandler {
	return &ArticleHandler{articles: articles, logger: logger.Named("ArticleHandler")}
}

type commentResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type articleResponse struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Slug       string            `json:"slug"`
	Content    string            `json:"content,omitempty"`
	ImageURL   string            `json:"image_url,omitempty"`
	AuthorName string            `json:"author_name"`
	CreatedAt  string            `json:"created_at"`
	Comments   []commentResponse `json:"comments,omitempty"`
}

func toArticleResponse(a *domain.Article) articleResponse {
	return articleResponse{
		ID:         a.ID,
		Title:      a.Title,
		Slug:       a.Slug,
		Content:    a.Content,
		ImageURL:   a.ImageURL,
		AuthorName: a.AuthorName,
		CreatedAt:  a.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *ArticleHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	articles, total, err := h.articles.List(r.Context(), page, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out := make([]articleResponse, 0, len(articles))
	for _, a := range articles {
		resp := toArticleResponse(a)
		resp.Content = ""
		out = append(out, resp)
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"articles": out, "total": total})
}

func (h *ArticleHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	result, err := h.articles.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp := toArticleResponse(result.Article)
	resp.Comments = make([]commentResponse, 0, len(result.Comments))
	for _, c := range result.Comments {
		resp.Comments = append(resp.Comments, commentResponse{
			ID:        c.ID,
			Name:      c.Name,
			Content:   c.Content,
			CreatedAt: c.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondJSON(w, http.StatusOK, resp)
}

type articleRequest struct {
	Title      string `json:"title"`
	Content    string `json:"content"`
	ImageURL   string `json:"image_url"`
	AuthorName string `json:"author_name"`
}

func (h *ArticleHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidArticle)
		return
	}

	authorName := req.AuthorName
	if authorName == "" {
		authorName = "La rédaction"
	}

	article, err := h.articles.Create(r.Context(), authorName, articleuc.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toArticleResponse(article))
}

func (h *ArticleHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidArticle)
		return
	}

	article, err := h.articles.Update(r.Context(), chi.URLParam(r, "id"), articleuc.ArticleInput{
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toArticleResponse(article))
}

func (h *ArticleHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "article deleted")
}

// HandleAddComment accepts anonymous comments on an article.
func (h *ArticleHandler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidComment)
		return
	}

	comment, err := h.articles.AddComment(r.Context(), chi.URLParam(r, "id"), articleuc.CommentInput{
		Name:    req.Name,
		Email:   req.Email,
		Content: req.Content,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, commentResponse{
		ID:        comment.ID,
		Name:      comment.Name,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *ArticleHandler) HandleDeleteComment(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.DeleteComment(r.Context(), chi.URLParam(r, "commentID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "comment deleted")
}
