package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	accountuc "github.com/mohamed-bella/dresseur-ma/internal/account/usecase"
	articledomain "github.com/mohamed-bella/dresseur-ma/internal/article/domain"
	bookingdomain "github.com/mohamed-bella/dresseur-ma/internal/booking/domain"
	bookinguc "github.com/mohamed-bella/dresseur-ma/internal/booking/usecase"
	breeddomain "github.com/mohamed-bella/dresseur-ma/internal/breed/domain"
	breederdomain "github.com/mohamed-bella/dresseur-ma/internal/breeder/domain"
	breederuc "github.com/mohamed-bella/dresseur-ma/internal/breeder/usecase"
	listingdomain "github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	listinguc "github.com/mohamed-bella/dresseur-ma/internal/listing/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/media"
)

// envelope is the uniform JSON response shape. Every endpoint, success or
// failure, answers with it.
type envelope struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Data: data})
}

func respondMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: true, Message: message})
}

// respondError maps domain errors onto HTTP statuses in one place so every
// handler fails the same way.
func respondError(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := http.StatusInternalServerError
	message := "internal server error"

	switch {
	case errors.Is(err, listingdomain.ErrListingNotFound),
		errors.Is(err, listingdomain.ErrFavoriteNotFound),
		errors.Is(err, accountdomain.ErrSellerNotFound),
		errors.Is(err, accountdomain.ErrTrainerNotFound),
		errors.Is(err, breederdomain.ErrElevageNotFound),
		errors.Is(err, breederdomain.ErrDogNotFound),
		errors.Is(err, breeddomain.ErrBreedNotFound),
		errors.Is(err, articledomain.ErrArticleNotFound),
		errors.Is(err, articledomain.ErrCommentNotFound),
		errors.Is(err, bookingdomain.ErrRequestNotFound):
		status = http.StatusNotFound
		message = err.Error()

	case errors.Is(err, listingdomain.ErrDuplicateSlug):
		status = http.StatusConflict
		message = err.Error()

	case errors.Is(err, listingdomain.ErrInvalidListingData),
		errors.Is(err, listingdomain.ErrDuplicateFavorite),
		errors.Is(err, listingdomain.ErrNotPending),
		errors.Is(err, breederdomain.ErrInvalidElevage),
		errors.Is(err, breederuc.ErrElevageExists),
		errors.Is(err, breeddomain.ErrInvalidBreed),
		errors.Is(err, articledomain.ErrInvalidArticle),
		errors.Is(err, articledomain.ErrInvalidComment),
		errors.Is(err, bookingdomain.ErrInvalidRequest),
		errors.Is(err, bookingdomain.ErrInvalidContact),
		errors.Is(err, bookingdomain.ErrInvalidTransition),
		errors.Is(err, media.ErrUnsupportedType),
		errors.Is(err, media.ErrFileTooLarge),
		errors.Is(err, media.ErrDecodeFailed):
		status = http.StatusBadRequest
		message = err.Error()

	case errors.Is(err, listinguc.ErrForbidden),
		errors.Is(err, breederuc.ErrForbidden),
		errors.Is(err, bookinguc.ErrForbidden):
		status = http.StatusForbidden
		message = err.Error()

	case errors.Is(err, accountuc.ErrInvalidAssertion),
		errors.Is(err, accountuc.ErrInvalidCredentials),
		errors.Is(err, accountdomain.ErrInvalidIdentity),
		errors.Is(err, accountdomain.ErrSessionNotFound):
		status = http.StatusUnauthorized
		message = err.Error()

	default:
		logger.Error("unhandled error in HTTP handler", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: message})
}
