package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/breeder/domain"
	breederuc "github.com/mohamed-bella/dresseur-ma/internal/breeder/usecase"
)

type BreederHandler struct {
	breeders  *breederuc.BreederUsecase
	maxUpload int64
	logger    *zap.Logger
}

func NewBreederHandler(breeders *breederuc.BreederUsecase, maxUpload int64, logger *zap.Logger) *BreederHandler {
	return &BreederHandler{breeders: breeders, maxUpload: maxUpload, logger: logger.Named("BreederHandler")}
}

type dogResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Breed     string   `json:"breed"`
	AgeMonths int      `json:"age_months"`
	Price     float64  `json:"price"`
	Pedigree  bool     `json:"pedigree"`
	Images    []string `json:"images"`
}

type elevageResponse struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"owner_id"`
	Name         string        `json:"name"`
	Slug         string        `json:"slug"`
	Description  string        `json:"description"`
	Phone        string        `json:"phone"`
	Email        string        `json:"email"`
	City         string        `json:"city"`
	ProfileImage string        `json:"profile_image,omitempty"`
	CoverImage   string        `json:"cover_image,omitempty"`
	Dogs         []dogResponse `json:"dogs"`
}

func toElevageResponse(e *domain.Elevage) elevageResponse {
	dogs := make([]dogResponse, 0, len(e.Dogs))
	for _, d := range e.Dogs {
		dogs = append(dogs, dogResponse{
			ID:        d.ID,
			Name:      d.Name,
			Breed:     d.Breed,
			AgeMonths: d.AgeMonths,
			Price:     d.Price,
			Pedigree:  d.Pedigree,
			Images:    d.Images,
		})
	}
	return elevageResponse{
		ID:           e.ID,
		OwnerID:      e.OwnerID,
		Name:         e.Name,
		Slug:         e.Slug,
		Description:  e.Description,
		Phone:        e.Phone,
		Email:        e.Email,
		City:         e.City,
		ProfileImage: e.ProfileImage,
		CoverImage:   e.CoverImage,
		Dogs:         dogs,
	}
}

// HandleList is the public breeder directory, optionally filtered by city.
func (h *BreederHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	elevages, total, err := h.breeders.List(r.Context(), q.Get("city"), page, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	out := make([]elevageResponse, 0, len(elevages))
	for _, e := range elevages {
		out = append(out, toElevageResponse(e))
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"elevages": out, "total": total})
}

func (h *BreederHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	elevage, err := h.breeders.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toElevageResponse(elevage))
}

// HandleMine returns the authenticated owner's elevage profile.
func (h *BreederHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	elevage, err := h.breeders.GetByOwner(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toElevageResponse(elevage))
}

type elevageRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	City        string `json:"city"`
}

func (h *BreederHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req elevageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidElevage)
		return
	}

	elevage, err := h.breeders.Create(r.Context(), accountIDFrom(r.Context()), breederuc.CreateElevageInput{
		Name:        req.Name,
		Description: req.Description,
		Phone:       req.Phone,
		Email:       req.Email,
		City:        req.City,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toElevageResponse(elevage))
}

func (h *BreederHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name         *string `json:"name"`
		Description  *string `json:"description"`
		Phone        *string `json:"phone"`
		Email        *string `json:"email"`
		City         *string `json:"city"`
		ProfileImage *string `json:"profile_image"`
		CoverImage   *string `json:"cover_image"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidElevage)
		return
	}

	elevage, err := h.breeders.Update(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), breederuc.UpdateElevageInput{
		Name:         req.Name,
		Description:  req.Description,
		Phone:        req.Phone,
		Email:        req.Email,
		City:         req.City,
		ProfileImage: req.ProfileImage,
		CoverImage:   req.CoverImage,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toElevageResponse(elevage))
}

func (h *BreederHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.breeders.Delete(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), accountRoleFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "elevage deleted")
}

// HandleUploadImage sets the profile or cover image from a multipart
// "photo" file; ?kind=cover selects the cover slot.
func (h *BreederHandler) HandleUploadImage(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondError(w, h.logger, domain.ErrInvalidElevage)
		return
	}
	file, _, err := r.FormFile("photo")
	if err != nil {
		respondError(w, h.logger, domain.ErrInvalidElevage)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	elevage, err := h.breeders.UploadImage(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), r.URL.Query().Get("kind"), data)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toElevageResponse(elevage))
}

func (h *BreederHandler) HandleAddDog(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string   `json:"name"`
		Breed     string   `json:"breed"`
		AgeMonths int      `json:"age_months"`
		Price     float64  `json:"price"`
		Pedigree  bool     `json:"pedigree"`
		Images    []string `json:"images"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidElevage)
		return
	}

	dog, err := h.breeders.AddDog(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), breederuc.AddDogInput{
		Name:      req.Name,
		Breed:     req.Breed,
		AgeMonths: req.AgeMonths,
		Price:     req.Price,
		Pedigree:  req.Pedigree,
		Images:    req.Images,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, dogResponse{
		ID:        dog.ID,
		Name:      dog.Name,
		Breed:     dog.Breed,
		AgeMonths: dog.AgeMonths,
		Price:     dog.Price,
		Pedigree:  dog.Pedigree,
		Images:    dog.Images,
	})
}

func (h *BreederHandler) HandleRemoveDog(w http.ResponseWriter, r *http.Request) {
	err := h.breeders.RemoveDog(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), chi.URLParam(r, "dogID"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "dog removed")
}
