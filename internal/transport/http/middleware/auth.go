package middleware

import (
	"context"
	"net/http"
	"strings"

	"dienstplan/internal/domain/auth"
)

// UserContext is the authenticated caller as seen by handlers.
type UserContext struct {
	UserID   string
	WorkerID string
	Role     string
}

// Auth parses a bearer token when present and attaches the caller to
// the context. Requests without a valid token pass through anonymous;
// route guards decide what requires authentication.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := auth.ParseToken(secret, parts[1])
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyUser, UserContext{
				UserID:   claims.UserID,
				WorkerID: claims.WorkerID,
				Role:     claims.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func GetUser(ctx context.Context) (UserContext, bool) {
	user, ok := ctx.Value(ctxKeyUser).(UserContext)
	return user, ok
}
