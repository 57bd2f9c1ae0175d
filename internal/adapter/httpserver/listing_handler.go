package httpserver

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	breeduc "github.com/mohamed-bella/dresseur-ma/internal/breed/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	listinguc "github.com/mohamed-bella/dresseur-ma/internal/listing/usecase"
)

type ListingHandler struct {
	listings  *listinguc.ListingUsecase
	photos    *listinguc.PhotoUsecase
	favorites *listinguc.FavoriteUsecase
	breeds    *breeduc.BreedUsecase
	maxUpload int64
	logger    *zap.Logger
}

func NewListingHandler(
	listings *listinguc.ListingUsecase,
	photos *listinguc.PhotoUsecase,
	favorites *listinguc.FavoriteUsecase,
	breeds *breeduc.BreedUsecase,
	maxUpload int64,
	logger *zap.Logger,
) *ListingHandler {
	return &ListingHandler{
		listings:  listings,
		photos:    photos,
		favorites: favorites,
		breeds:    breeds,
		maxUpload: maxUpload,
		logger:    logger.Named("ListingHandler"),
	}
}

type mediaResponse struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

type listingResponse struct {
	ID          string          `json:"id"`
	SellerID    string          `json:"seller_id"`
	SellerName  string          `json:"seller_name"`
	SellerEmail string          `json:"seller_email"`
	Breed       string          `json:"breed"`
	BreedImage  string          `json:"breed_image,omitempty"`
	Description string          `json:"description"`
	Price       float64         `json:"price"`
	Location    string          `json:"location"`
	Phone       string          `json:"phone"`
	Media       []mediaResponse `json:"media"`
	Status      string          `json:"status"`
	Views       int64           `json:"views"`
	Slug        string          `json:"slug"`
	CreatedAt   string          `json:"created_at"`
}

func toListingResponse(l *domain.Listing) listingResponse {
	media := make([]mediaResponse, 0, len(l.Media))
	for _, m := range l.Media {
		media = append(media, mediaResponse{URL: m.URL, Key: m.Key})
	}
	return listingResponse{
		ID:          l.ID,
		SellerID:    l.SellerID,
		SellerName:  l.SellerName,
		SellerEmail: l.SellerEmail,
		Breed:       l.Breed,
		Description: l.Description,
		Price:       l.Price,
		Location:    l.Location,
		Phone:       l.Phone,
		Media:       media,
		Status:      string(l.Status),
		Views:       l.Views,
		Slug:        l.Slug,
		CreatedAt:   l.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

type listingPage struct {
	Listings []listingResponse `json:"listings"`
	Total    int64             `json:"total"`
}

func toListingPage(listings []*domain.Listing, total int64) listingPage {
	out := make([]listingResponse, 0, len(listings))
	for _, l := range listings {
		out = append(out, toListingResponse(l))
	}
	return listingPage{Listings: out, Total: total}
}

// HandleSearch is the public browse endpoint. Only approved listings are
// visible here regardless of what the query asks for.
func (h *ListingHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{
		Breed:    q.Get("breed"),
		Location: q.Get("location"),
		Status:   domain.StatusApproved,
	}
	filter.MinPrice, _ = strconv.ParseFloat(q.Get("min_price"), 64)
	filter.MaxPrice, _ = strconv.ParseFloat(q.Get("max_price"), 64)
	filter.Page, _ = strconv.ParseInt(q.Get("page"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)

	listings, total, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingPage(listings, total))
}

// HandleDetail serves one listing by slug, decorated with the encyclopedia
// image of its breed when one exists.
func (h *ListingHandler) HandleDetail(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.GetBySlug(r.Context(), chi.URLParam(r, "slug"), accountIDFrom(r.Context()), accountRoleFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	resp := toListingResponse(listing)
	if h.breeds != nil {
		if url, err := h.breeds.ImageURL(r.Context(), listing.Breed); err == nil {
			resp.BreedImage = url
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleMine lists the authenticated seller's own listings, all statuses.
func (h *ListingHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	filter := domain.Filter{SellerID: accountIDFrom(r.Context())}
	listings, total, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingPage(listings, total))
}

type listingRequest struct {
	Breed       string  `json:"breed"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Location    string  `json:"location"`
	Phone       string  `json:"phone"`
}

func (h *ListingHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidListingData)
		return
	}

	listing, err := h.listings.Create(r.Context(), accountIDFrom(r.Context()), listinguc.CreateListingInput{
		Breed:       req.Breed,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Phone:       req.Phone,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toListingResponse(listing))
}

func (h *ListingHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Breed       *string  `json:"breed"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Location    *string  `json:"location"`
		Phone       *string  `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidListingData)
		return
	}

	listing, err := h.listings.Update(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), listinguc.UpdateListingInput{
		Breed:       req.Breed,
		Description: req.Description,
		Price:       req.Price,
		Location:    req.Location,
		Phone:       req.Phone,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	err := h.listings.Delete(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), accountRoleFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "listing deleted")
}

// HandleUploadPhotos accepts a multipart form with one or more "photos"
// files and attaches them to the listing.
func (h *ListingHandler) HandleUploadPhotos(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.maxUpload); err != nil {
		respondError(w, h.logger, domain.ErrInvalidListingData)
		return
	}

	fileHeaders := r.MultipartForm.File["photos"]
	if len(fileHeaders) == 0 {
		respondError(w, h.logger, domain.ErrInvalidListingData)
		return
	}

	files := make([][]byte, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		file, err := fh.Open()
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		data, err := io.ReadAll(io.LimitReader(file, h.maxUpload+1))
		file.Close()
		if err != nil {
			respondError(w, h.logger, err)
			return
		}
		files = append(files, data)
	}

	listing, err := h.photos.Attach(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), files)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleDeletePhoto(w http.ResponseWriter, r *http.Request) {
	listing, err := h.photos.Detach(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), r.URL.Query().Get("key"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *ListingHandler) HandleAddFavorite(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ListingID string `json:"listing_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.ListingID == "" {
		respondError(w, h.logger, domain.ErrListingNotFound)
		return
	}
	if err := h.favorites.Add(r.Context(), accountIDFrom(r.Context()), req.ListingID); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusCreated, "favorite added")
}

func (h *ListingHandler) HandleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := h.favorites.Remove(r.Context(), accountIDFrom(r.Context()), chi.URLParam(r, "listingID")); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "favorite removed")
}

func (h *ListingHandler) HandleListFavorites(w http.ResponseWriter, r *http.Request) {
	listings, err := h.favorites.List(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingPage(listings, int64(len(listings))))
}
