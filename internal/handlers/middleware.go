package handlers

import (
	"context"
	"log"
	"net"
	"net/http"
	"strings"
	"time"

	"brightsteps/internal/models"
	"brightsteps/internal/security"
	"brightsteps/internal/service"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

const UserContextKey ContextKey = "user"

// Middleware holds dependencies for middleware functions.
type Middleware struct {
	authService    *service.AuthService
	limiter        *security.RateLimiter
	requestTimeout time.Duration
}

// NewMiddleware creates a new middleware instance.
func NewMiddleware(authService *service.AuthService, limiter *security.RateLimiter, requestTimeout time.Duration) *Middleware {
	return &Middleware{
		authService:    authService,
		limiter:        limiter,
		requestTimeout: requestTimeout,
	}
}

// RequireAuth accepts either a parent/admin session cookie or a
// student bearer token and puts the resolved user on the context.
func (m *Middleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := m.resolveUser(r)
		if user == nil {
			respondError(w, http.StatusUnauthorized, "Authentication required", "", nil)
			return
		}

		ctx := context.WithValue(r.Context(), UserContextKey, user)
		next(w, r.WithContext(ctx))
	}
}

// RequireRole narrows RequireAuth to the given roles.
func (m *Middleware) RequireRole(next http.HandlerFunc, roles ...models.Role) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		user := GetUserFromContext(r.Context())
		for _, role := range roles {
			if user.Role == role {
				next(w, r)
				return
			}
		}
		respondError(w, http.StatusForbidden, "Forbidden", "", nil)
	})
}

func (m *Middleware) resolveUser(r *http.Request) *models.User {
	ctx, cancel := context.WithTimeout(r.Context(), m.requestTimeout)
	defer cancel()

	if token := bearerToken(r); token != "" {
		user, err := m.authService.ValidateStudentToken(ctx, token)
		if err == nil {
			return user
		}
		return nil
	}

	cookie, err := r.Cookie("session_id")
	if err != nil {
		return nil
	}
	user, err := m.authService.ValidateSession(ctx, cookie.Value)
	if err != nil {
		return nil
	}
	return user
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return header[len(prefix):]
	}
	return ""
}

// RateLimit rejects clients exceeding the per-IP allowance. Used on
// the login and check-in endpoints.
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.limiter.Allow(clientIP(r)) {
			respondError(w, http.StatusTooManyRequests, "Too many requests", "", nil)
			return
		}
		next(w, r)
	}
}

// Timeout bounds the whole request with the configured ceiling.
func (m *Middleware) Timeout(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), m.requestTimeout)
		defer cancel()
		next(w, r.WithContext(ctx))
	}
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// Logging middleware logs HTTP requests.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetUserFromContext retrieves the user from the request context.
func GetUserFromContext(ctx context.Context) *models.User {
	user, ok := ctx.Value(UserContextKey).(*models.User)
	if !ok {
		return nil
	}
	return user
}
