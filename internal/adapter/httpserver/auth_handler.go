package httpserver

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	accountuc "github.com/mohamed-bella/dresseur-ma/internal/account/usecase"
)

type AuthHandler struct {
	identity      *accountuc.IdentityUsecase
	sessionSecret []byte
	sessionTTL    time.Duration
	secureCookies bool
	logger        *zap.Logger
}

func NewAuthHandler(identity *accountuc.IdentityUsecase, sessionSecret string, sessionTTL time.Duration, secureCookies bool, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity:      identity,
		sessionSecret: []byte(sessionSecret),
		sessionTTL:    sessionTTL,
		secureCookies: secureCookies,
		logger:        logger.Named("AuthHandler"),
	}
}

type accountResponse struct {
	ID    string `json:"id"`
	Role  string `json:"role"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Image string `json:"image,omitempty"`
}

func toAccountResponse(a *accountuc.Account) accountResponse {
	return accountResponse{
		ID:    a.ID,
		Role:  string(a.Role),
		Name:  a.Name,
		Email: a.Email,
		Image: a.Image,
	}
}

// HandleCallback finishes an identity-provider login: it verifies the
// forwarded assertion, resolves it to an account and opens a session.
func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Assertion string `json:"assertion"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, accountuc.ErrInvalidAssertion)
		return
	}

	identity, err := h.identity.VerifyAssertion(req.Assertion)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	account, err := h.identity.Resolve(r.Context(), identity)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	if err := h.openSession(w, r, account); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

// HandleStaticLogin authenticates the configured back-office credentials.
func (h *AuthHandler) HandleStaticLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, accountuc.ErrInvalidCredentials)
		return
	}

	account, err := h.identity.StaticLogin(req.Email, req.Password)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	if err := h.openSession(w, r, account); err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, toAccountResponse(account))
}

func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		if sessionID, ok := verifySessionCookie(cookie.Value, h.sessionSecret); ok {
			if err := h.identity.DeleteSession(r.Context(), sessionID); err != nil {
				h.logger.Warn("failed to delete session on logout", zap.Error(err))
			}
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	respondMessage(w, http.StatusOK, "logged out")
}

// HandleMe returns the authenticated account behind the session.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id := accountIDFrom(r.Context())
	role := accountRoleFrom(r.Context())

	resp := accountResponse{ID: id, Role: string(role)}
	if role == accountdomain.RoleSeller {
		seller, err := h.identity.GetSeller(r.Context(), id)
		if err == nil {
			resp.Name = seller.Name
			resp.Email = seller.Email
			resp.Image = seller.Image
		}
	}
	respondJSON(w, http.StatusOK, resp)
}

// HandleRename updates a seller's display name, regenerating the slug.
func (h *AuthHandler) HandleRename(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, accountdomain.ErrSellerNotFound)
		return
	}

	seller, err := h.identity.RenameSeller(r.Context(), accountIDFrom(r.Context()), req.Name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"id":   seller.ID,
		"name": seller.Name,
		"slug": seller.Slug,
	})
}

func (h *AuthHandler) openSession(w http.ResponseWriter, r *http.Request, account *accountuc.Account) error {
	session, err := h.identity.CreateSession(r.Context(), account)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    signSessionID(session.ID, h.sessionSecret),
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
