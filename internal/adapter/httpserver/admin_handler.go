package httpserver

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	adminuc "github.com/mohamed-bella/dresseur-ma/internal/admin/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/listing/domain"
	listinguc "github.com/mohamed-bella/dresseur-ma/internal/listing/usecase"
)

type AdminHandler struct {
	listings *listinguc.ListingUsecase
	stats    *adminuc.StatsUsecase
	logger   *zap.Logger
}

func NewAdminHandler(listings *listinguc.ListingUsecase, stats *adminuc.StatsUsecase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		listings: listings,
		stats:    stats,
		logger:   logger.Named("AdminHandler"),
	}
}

// HandleModerationQueue lists pending listings, oldest submissions included.
func (h *AdminHandler) HandleModerationQueue(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.Filter{Status: domain.StatusPending}
	filter.Page, _ = strconv.ParseInt(q.Get("page"), 10, 64)
	filter.Limit, _ = strconv.ParseInt(q.Get("limit"), 10, 64)

	listings, total, err := h.listings.Search(r.Context(), filter)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingPage(listings, total))
}

func (h *AdminHandler) HandleApprove(w http.ResponseWriter, r *http.Request) {
	listing, err := h.listings.Approve(r.Context(), chi.URLParam(r, "id"), accountRoleFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toListingResponse(listing))
}

func (h *AdminHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.Dashboard(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
