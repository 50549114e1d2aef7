// Package auth provides the bearer-token middleware that resolves the acting
// user for every guarded route.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/askaris/askaris/internal/session"
	"github.com/uptrace/bunrouter"
	"go.uber.org/zap"
)

type contextKey struct{}

// Middleware resolves the Authorization header to a user ID via the session
// store and injects it into the request context.
type Middleware struct {
	sessions *session.Store
	logger   *zap.Logger
}

// New creates a new auth middleware.
func New(sessions *session.Store, logger *zap.Logger) *Middleware {
	return &Middleware{
		sessions: sessions,
		logger:   logger.Named("auth_middleware"),
	}
}

// AsRESTMiddleware wraps a bunrouter handler with token authentication.
func (m *Middleware) AsRESTMiddleware(next bunrouter.HandlerFunc) bunrouter.HandlerFunc {
	return func(w http.ResponseWriter, req bunrouter.Request) error {
		token, ok := bearerToken(req.Header.Get("Authorization"))
		if !ok {
			http.Error(w, "Missing or malformed Authorization header", http.StatusUnauthorized)
			return nil
		}

		userID, err := m.sessions.Lookup(req.Context(), token)
		if err != nil {
			if errors.Is(err, session.ErrSessionNotFound) {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return nil
			}

			m.logger.Error("Session lookup failed", zap.Error(err))
			http.Error(w, "Internal server error", http.StatusInternalServerError)
			return nil
		}

		ctx := context.WithValue(req.Context(), contextKey{}, userID)
		return next(w, req.WithContext(ctx))
	}
}

// UserID returns the authenticated user injected by the middleware.
func UserID(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(contextKey{}).(int64)
	return id, ok
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return "", false
	}

	token := strings.TrimSpace(strings.TrimPrefix(header, prefix))
	return token, token != ""
}
