package server

import (
	"context"
	"log"
	"net/http"

	"authapp/internal/auth"
)

type ctxKey string

const userIDContextKey ctxKey = "userID"

// requireAuth is the only gate: it resolves the session cookie into a
// user ID or rejects the request. There are no per-route authorization
// levels beyond authenticated or not.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(auth.SessionCookieName)
		if err != nil || cookie.Value == "" {
			writeFailure(w, http.StatusUnauthorized, "Not authorized. Login again")
			return
		}

		claims, err := s.Tokens.Verify(cookie.Value)
		if err != nil {
			writeFailure(w, http.StatusUnauthorized, "Not authorized. Login again")
			return
		}

		revoked, err := s.Denylist.IsRevoked(r.Context(), claims.ID)
		if err != nil {
			log.Printf("auth gate: denylist check failed: %v", err)
			writeFailure(w, http.StatusInternalServerError, "Failed to validate session")
			return
		}
		if revoked {
			writeFailure(w, http.StatusUnauthorized, "Not authorized. Login again")
			return
		}

		ctx := context.WithValue(r.Context(), userIDContextKey, claims.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func userIDFromContext(ctx context.Context) string {
	if val, ok := ctx.Value(userIDContextKey).(string); ok {
		return val
	}
	return ""
}
