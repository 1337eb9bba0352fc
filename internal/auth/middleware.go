package auth

import (
	"context"
	"net/http"
	"time"
)

type contextKey string

const OrganizerIDKey contextKey = "organizer_id"

// OrganizerID returns the Discord ID set by AuthMiddleware.
func OrganizerID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(OrganizerIDKey).(string)
	return id, ok
}

// AuthMiddleware requires a valid auth_token cookie. Sessions with less than
// half of TokenDuration left are renewed.
func (h *AuthHandler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(TokenCookie)
		if err != nil {
			if err == http.ErrNoCookie {
				http.Error(w, "Unauthorized: No token found", http.StatusUnauthorized)
				return
			}
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}

		claims, err := h.parseToken(cookie.Value)
		if err != nil {
			http.Error(w, "Unauthorized: Invalid token", http.StatusUnauthorized)
			return
		}

		// Sliding session: refresh token if it's more than halfway through its duration
		if claims.ExpiresAt != nil && time.Until(claims.ExpiresAt.Time) < TokenDuration/2 {
			if newToken, err := h.GenerateToken(claims.Subject, claims.Username); err == nil {
				http.SetCookie(w, sessionCookie(newToken))
			}
		}

		ctx := context.WithValue(r.Context(), OrganizerIDKey, claims.Subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
