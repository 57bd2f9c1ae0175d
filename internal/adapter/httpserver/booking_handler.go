package httpserver

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mohamed-bella/dresseur-ma/internal/booking/domain"
	bookinguc "github.com/mohamed-bella/dresseur-ma/internal/booking/usecase"
)

type BookingHandler struct {
	bookings *bookinguc.BookingUsecase
	logger   *zap.Logger
}

func NewBookingHandler(bookings *bookinguc.BookingUsecase, logger *zap.Logger) *BookingHandler {
	return &BookingHandler{bookings: bookings, logger: logger.Named("BookingHandler")}
}

type requestResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	Status    string `json:"status"`
	CreatedAt string `json:"created_at"`
}

func toRequestResponse(req *domain.Request) requestResponse {
	return requestResponse{
		ID:        req.ID,
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		Read:      req.Read,
		Status:    string(req.Status),
		CreatedAt: req.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleCreateRequest is the public booking form targeting one provider.
func (h *BookingHandler) HandleCreateRequest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidRequest)
		return
	}

	request, err := h.bookings.CreateRequest(r.Context(), chi.URLParam(r, "providerID"), bookinguc.RequestInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, toRequestResponse(request))
}

// HandleInbox lists the authenticated provider's booking requests.
func (h *BookingHandler) HandleInbox(w http.ResponseWriter, r *http.Request) {
	requests, err := h.bookings.ListForProvider(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	out := make([]requestResponse, 0, len(requests))
	for _, req := range requests {
		out = append(out, toRequestResponse(req))
	}
	respondJSON(w, http.StatusOK, out)
}

func (h *BookingHandler) HandleUnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.bookings.CountUnread(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int64{"unread": count})
}

func (h *BookingHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.bookings.MarkRead(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context())); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondMessage(w, http.StatusOK, "request marked read")
}

// HandleDecide accepts or rejects a pending request.
func (h *BookingHandler) HandleDecide(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidTransition)
		return
	}

	request, err := h.bookings.Decide(r.Context(), chi.URLParam(r, "id"), accountIDFrom(r.Context()), domain.RequestStatus(req.Status))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toRequestResponse(request))
}

// HandleContact is the site-wide contact form.
func (h *BookingHandler) HandleContact(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name    string `json:"name"`
		Email   string `json:"email"`
		Subject string `json:"subject"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, domain.ErrInvalidContact)
		return
	}

	message, err := h.bookings.SubmitContact(r.Context(), bookinguc.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusCreated, map[string]string{"id": message.ID})
}

// HandleListContacts pages through contact messages for the back office.
func (h *BookingHandler) HandleListContacts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, _ := strconv.ParseInt(q.Get("page"), 10, 64)
	limit, _ := strconv.ParseInt(q.Get("limit"), 10, 64)

	messages, total, err := h.bookings.ListContacts(r.Context(), page, limit)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	type contactPayload struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Email     string `json:"email"`
		Subject   string `json:"subject"`
		Message   string `json:"message"`
		CreatedAt string `json:"created_at"`
	}
	out := make([]contactPayload, 0, len(messages))
	for _, m := range messages {
		out = append(out, contactPayload{
			ID:        m.ID,
			Name:      m.Name,
			Email:     m.Email,
			Subject:   m.Subject,
			Message:   m.Message,
			CreatedAt: m.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{"contacts": out, "total": total})
}
