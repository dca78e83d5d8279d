package middleware

import (
	"context"
	"net/http"
	"strings"

	"herohub/internal/domain/auth"
	"herohub/internal/transport/http/api"
)

// SessionChecker reports whether a bearer token still maps to a live session.
type SessionChecker interface {
	SessionValid(ctx context.Context, userID, tokenHash string) (bool, error)
}

// Auth attaches the caller's identity when a valid bearer token is presented.
// Requests without one pass through anonymous; RequireAuth draws the line.
func Auth(secret string, sessions SessionChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			if sessions != nil {
				ok, err := sessions.SessionValid(r.Context(), claims.UserID, auth.HashToken(parts[1]))
				if err != nil || !ok {
					next.ServeHTTP(w, r)
					return
				}
			}

			ctx := WithUser(r.Context(), auth.UserContext{
				UserID:   claims.UserID,
				TenantID: claims.TenantID,
				Role:     claims.Role,
				Token:    parts[1],
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := GetUser(r.Context()); !ok {
			api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", GetRequestID(r.Context()))
			return
		}
		next.ServeHTTP(w, r)
	})
}
