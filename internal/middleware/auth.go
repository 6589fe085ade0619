package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"salon-booking-backend/internal/services"
	"salon-booking-backend/internal/sessions"
)

type contextKey string

const sessionKey contextKey = "session"

// SessionLoader resolves the session attached to a request
type SessionLoader interface {
	Load(r *http.Request) (*sessions.Session, bool)
}

// AdminOnly rejects requests that do not carry a live admin session
func AdminOnly(loader SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, ok := loader.Load(r)
			if !ok || !sess.Admin {
				respondError(w, services.ErrUnauthorized.Error(), http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionKey, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSession extracts the admin session from context
func GetSession(ctx context.Context) *sessions.Session {
	sess, ok := ctx.Value(sessionKey).(*sessions.Session)
	if !ok {
		return nil
	}
	return sess
}

// respondError sends an error response
func respondError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
