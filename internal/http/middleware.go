package http

import (
	"context"
	"net/http"
	"slices"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/owaisraza72/Full-Stack-E-Commerce/internal/domain"
	"github.com/owaisraza72/Full-Stack-E-Commerce/pkg/logger"
)

const tokenCookie = "token"

type userCtxKey struct{}

// Authenticator resolves a session token to its user.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
}

func ContextWithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

func UserFromContext(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userCtxKey{}).(*domain.User)
	return u
}

// RequestIDMiddleware reuses the id chi assigned (or the caller's
// X-Request-ID) and makes it visible to the logger and the client.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := middleware.GetReqID(r.Context())
		if requestID == "" {
			requestID = r.Header.Get("X-Request-ID")
		}
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := logger.WithRequestID(r.Context(), requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth loads the user behind the session cookie, falling back to a
// bearer token, and rejects the request when there is none.
func RequireAuth(a Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := tokenFromRequest(r)
			if token == "" {
				handleServiceError(w, r, errUnauthorized)
				return
			}
			u, err := a.Authenticate(r.Context(), token)
			if err != nil || u == nil {
				handleServiceError(w, r, errUnauthorized)
				return
			}
			next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), u)))
		})
	}
}

// RequireRole must run after RequireAuth.
func RequireRole(roles ...domain.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := UserFromContext(r.Context())
			if u == nil {
				handleServiceError(w, r, errUnauthorized)
				return
			}
			if !slices.Contains(roles, u.Role) {
				handleServiceError(w, r, errForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func tokenFromRequest(r *http.Request) string {
	if c, err := r.Cookie(tokenCookie); err == nil && c.Value != "" {
		return c.Value
	}
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	return ""
}

// currentUser is for handlers mounted behind RequireAuth.
func currentUser(w http.ResponseWriter, r *http.Request) (*domain.User, bool) {
	u := UserFromContext(r.Context())
	if u == nil {
		handleServiceError(w, r, errUnauthorized)
		return nil, false
	}
	return u, true
}
