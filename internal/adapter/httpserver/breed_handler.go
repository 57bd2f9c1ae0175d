package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/breed/domain"
	breeduc "github.com/mohamed-bella/dresseur-ma/internal/breed/usecase"
)

type BreedHandler struct {
	breeds *breeduc.BreedUsecase
	logger *zap.Logger
}

func NewBreedHandler(breeds *breeduc.BreedUsecase, logger *zap.Logger) *BreedHandler {
	return &BreedHandler{breeds: breeds, logger: logger.Named("BreedHandler")}
}

type breedDetailsPayload struct {
	Origin      string `json:"origin"`
	SizeRange   string `json:"size_range"`
	WeightRange string `json:"weight_range"`
	LifeSpan    string `json:"life_span"`
	Temperament string `json:"temperament"`
	Care        string `json:"care"`
}

type breedResponse struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Slug     string              `json:"slug"`
	Summary  string              `json:"summary"`
	Content  string              `json:"content,omitempty"`
	ImageURL string              `json:"image_url,omitempty"`
	Details  breedDetailsPayload `json:"details"`
}

func toBreedResponse(b *domain.Breed) breedResponse {
	return breedResponse{
		ID:       b.ID,
		Name:     b.Name,
		Slug:     b.Slug,
		Summary:  b.Summary,
		Content:  b.Content,
		ImageURL: b.ImageURL,
		Details: breedDetailsPayload{
			Origin:      b.Details.Origin,
			SizeRange:   b.Details.SizeRange,
			WeightRange: b.Details.WeightRange,
			LifeSpan:    b.Details.LifeSpan,
			Temperament: b.Details.Temperament,
			Care:        b.Details.Care,
		},
	}
}

func (h *BreedHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	breeds, err := h.breeds.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	out := make([]breedResponse, 0, len(breeds))
	for _, b := range breeds {
		out = append(out, toBreedResponse(b))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *BreedHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	breed, err := h.breeds.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toBreedResponse(breed))
}

type breedRequest struct {
	Name     string              `json:"name"`
	Summary  string              `json:"summary"`
	Content  string              `json:"content"`
	ImageURL string              `json:"image_url"`
	Details  breedDetailsPayload `json:"details"`
}

func (req breedRequest) toInput() breeduc.BreedInput {
	return breeduc.BreedInput{
		Name:     req.Name,
		Summary:  req.Summary,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Details: domain.Details{
			Origin:      req.Details.Origin,
			SizeRange:   req.Details.SizeRange,
			WeightRange: req.Details.WeightRange,
			LifeSpan:    req.Details.LifeSpan,
			Temperament: req.Details.Temperament,
			Care:        req.Details.Care,
		},
	}
}

func (h *BreedHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req breedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidBreed)
		return
	}
	breed, err := h.breeds.Create(r.Context(), req.toInput())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toBreedResponse(breed))
}

func (h *BreedHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req breedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidBreed)
		return
	}
	breed, err := h.breeds.Update(r.Context(), chi.URLParam(r, "id"), req.toInput())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toBreedResponse(breed))
}

func (h *BreedHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.breeds.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "breed deleted")
}
