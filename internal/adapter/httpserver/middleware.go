package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	accountdomain "github.com/mohamed-bella/dresseur-ma/internal/account/domain"
	accountuc "github.com/mohamed-bella/dresseur-ma/internal/account/usecase"
	"github.com/mohamed-bella/dresseur-ma/internal/platform/metrics"
)

const sessionCookieName = "dresseur_session"

type contextKey string

const (
	accountIDCtxKey   = contextKey("account_id")
	accountRoleCtxKey = contextKey("account_role")
)

func accountIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(accountIDCtxKey).(string)
	return id
}

func accountRoleFrom(ctx context.Context) accountdomain.Role {
	role, _ := ctx.Value(accountRoleCtxKey).(accountdomain.Role)
	return role
}

// signSessionID produces the cookie value "<id>.<hmac>". The session id is
// random, but the MAC keeps forged cookie values from triggering session
// lookups at all.
func signSessionID(id string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	return id + "." + hex.EncodeToString(mac.Sum(nil))
}

func verifySessionCookie(value string, secret []byte) (string, bool) {
	idx := strings.LastIndexByte(value, '.')
	if idx <= 0 {
		return "", false
	}
	id, sig := value[:idx], value[idx+1:]
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(id))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(sig), []byte(expected)) {
		return "", false
	}
	return id, true
}

// SessionLoader resolves the session cookie into account id and role on the
// request context. Requests without a valid session pass through anonymous;
// the guards below decide what that means per route.
func SessionLoader(identity *accountuc.IdentityUsecase, secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessionCookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			sessionID, ok := verifySessionCookie(cookie.Value, secret)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			session, err := identity.GetSession(r.Context(), sessionID)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), accountIDCtxKey, session.AccountID)
			ctx = context.WithValue(ctx, accountRoleCtxKey, session.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests.
func RequireAuth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if accountIDFrom(r.Context()) == "" {
				respondError(w, logger, accountdomain.ErrSessionNotFound)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole rejects authenticated requests whose role is not in the
// allowed set.
func RequireRole(logger *zap.Logger, roles ...accountdomain.Role) func(http.Handler) http.Handler {
	allowed := make(map[accountdomain.Role]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if accountIDFrom(r.Context()) == "" {
				respondError(w, logger, accountdomain.ErrSessionNotFound)
				return
			}
			if _, ok := allowed[accountRoleFrom(r.Context())]; !ok {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"success":false,"message":"insufficient role"}`))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// RequestLogger logs one line per request and feeds the latency and error
// metrics. The route pattern, not the raw path, is the metric label so
// cardinality stays bounded.
func RequestLogger(logger *zap.Logger, m *metrics.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			route := chi.RouteContext(r.Context()).RoutePattern()
			if route == "" {
				route = "unmatched"
			}
			elapsed := time.Since(start)

			if m != nil {
				m.HTTPLatency.WithLabelValues(route).Observe(elapsed.Seconds())
				if rec.status >= 500 {
					m.HTTPErrorsTotal.WithLabelValues(route, "server").Inc()
				} else if rec.status >= 400 {
					m.HTTPErrorsTotal.WithLabelValues(route, "client").Inc()
				}
			}

			logger.Info("http request",
				zap.String("method", r.Method),
				zap.String("route", route),
				zap.String("path", r.URL.Path),
				zap.Int("status", rec.status),
				zap.Duration("duration", elapsed))
		})
	}
}
