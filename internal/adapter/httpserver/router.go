package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	accountuc "github.com/mohamed-bella/dresseur-ma/internal/account/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/metrics"
)

// Handlers groups everything the router mounts.
type Handlers struct {
	Auth     *AuthHandler
	Listings *ListingHandler
	Breeders *BreederHandler
	Breeds   *BreedHandler
	Articles *ArticleHandler
	Bookings *BookingHandler
	Admin    *AdminHandler
}

// NewRouter wires all routes. Public browse endpoints stay anonymous;
// everything that mutates runs behind the session guards.
func NewRouter(h Handlers, identity *accountuc.IdentityUsecase, sessionSecret string, m *metrics.Manager, logger *zap.Logger) *chi.Mux {
	mux := chi.NewRouter()

	mux.Use(chimiddleware.RealIP)
	mux.Use(chimiddleware.Recoverer)
	mux.Use(Tracing)
	mux.Use(RequestLogger(logger, m))
	mux.Use(SessionLoader(identity, []byte(sessionSecret)))

	mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	// Auth.
	mux.Post("/api/auth/callback", h.Auth.HandleCallback)
	mux.Post("/api/auth/login", h.Auth.HandleStaticLogin)
	mux.Post("/api/auth/logout", h.Auth.HandleLogout)
	mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(logger))
		r.Get("/api/me", h.Auth.HandleMe)
		r.Patch("/api/me", h.Auth.HandleRename)
	})

	// Public catalog.
	mux.Get("/api/listings", h.Listings.HandleSearch)
	mux.Get("/api/listings/{slug}", h.Listings.HandleDetail)
	mux.Get("/api/elevages", h.Breeders.HandleList)
	mux.Get("/api/elevages/{slug}", h.Breeders.HandleDetail)
	mux.Get("/api/breeds", h.Breeds.HandleList)
	mux.Get("/api/breeds/{slug}", h.Breeds.HandleDetail)
	mux.Get("/api/articles", h.Articles.HandleList)
	mux.Get("/api/articles/{slug}", h.Articles.HandleDetail)
	mux.Post("/api/articles/{id}/comments", h.Articles.HandleAddComment)
	mux.Post("/api/providers/{providerID}/requests", h.Bookings.HandleCreateRequest)
	mux.Post("/api/contact", h.Bookings.HandleContact)

	// Seller space.
	mux.Group(func(r chi.Router) {
		r.Use(RequireRole(logger, accountdomain.RoleSeller, accountdomain.RoleAdmin))
		r.Get("/api/seller/listings", h.Listings.HandleMine)
		r.Post("/api/seller/listings", h.Listings.HandleCreate)
		r.Put("/api/seller/listings/{id}", h.Listings.HandleUpdate)
		r.Delete("/api/seller/listings/{id}", h.Listings.HandleDelete)
		r.Post("/api/seller/listings/{id}/photos", h.Listings.HandleUploadPhotos)
		r.Delete("/api/seller/listings/{id}/photos", h.Listings.HandleDeletePhoto)

		r.Get("/api/seller/elevage", h.Breeders.HandleMine)
		r.Post("/api/seller/elevage", h.Breeders.HandleCreate)
		r.Put("/api/seller/elevage/{id}", h.Breeders.HandleUpdate)
		r.Delete("/api/seller/elevage/{id}", h.Breeders.HandleDelete)
		r.Post("/api/seller/elevage/{id}/images", h.Breeders.HandleUploadImage)
		r.Post("/api/seller/elevage/{id}/dogs", h.Breeders.HandleAddDog)
		r.Delete("/api/seller/elevage/{id}/dogs/{dogID}", h.Breeders.HandleRemoveDog)

		r.Get("/api/seller/requests", h.Bookings.HandleInbox)
		r.Get("/api/seller/requests/unread", h.Bookings.HandleUnreadCount)
		r.Post("/api/seller/requests/{id}/read", h.Bookings.HandleMarkRead)
		r.Post("/api/seller/requests/{id}/decide", h.Bookings.HandleDecide)
	})

	// Favorites, open to every authenticated account.
	mux.Group(func(r chi.Router) {
		r.Use(RequireAuth(logger))
		r.Get("/api/favorites", h.Listings.HandleListFavorites)
		r.Post("/api/favorites", h.Listings.HandleAddFavorite)
		r.Delete("/api/favorites/{listingID}", h.Listings.HandleRemoveFavorite)
	})

	// Editorial back office.
	mux.Group(func(r chi.Router) {
		r.Use(RequireRole(logger, accountdomain.RoleAuthor, accountdomain.RoleAdmin))
		r.Post("/api/articles", h.Articles.HandleCreate)
		r.Put("/api/articles/{id}", h.Articles.HandleUpdate)
		r.Delete("/api/articles/{id}", h.Articles.HandleDelete)
	})

	// Admin back office.
	mux.Group(func(r chi.Router) {
		r.Use(RequireRole(logger, accountdomain.RoleAdmin))
		r.Get("/api/admin/dashboard", h.Admin.HandleDashboard)
		r.Get("/api/admin/listings/pending", h.Admin.HandleModerationQueue)
		r.Post("/api/admin/listings/{id}/approve", h.Admin.HandleApprove)
		r.Get("/api/admin/contacts", h.Bookings.HandleListContacts)
		r.Delete("/api/admin/comments/{commentID}", h.Articles.HandleDeleteComment)
		r.Post("/api/admin/breeds", h.Breeds.HandleCreate)
		r.Put("/api/admin/breeds/{id}", h.Breeds.HandleUpdate)
		r.Delete("/api/admin/breeds/{id}", h.Breeds.HandleDelete)
	})

	return mux
}
