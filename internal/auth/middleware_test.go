package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/scriptink/writofest-api/internal/config"
)

func TestAuthMiddleware_SlidingSession(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg)

	var seenID string
	nextHandler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenID, _ = OrganizerID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("TokenRenewed", func(t *testing.T) {
		// Expires in 11 hours, less than TokenDuration/2 = 12 hours
		tokenString, _ := handler.signToken("42", "organizer", time.Now().Add(11*time.Hour))

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tokenString})
		rr := httptest.NewRecorder()

		handler.AuthMiddleware(nextHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		if seenID != "42" {
			t.Errorf("expected organizer id 42 in context, got %q", seenID)
		}

		found := false
		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookie {
				found = true
				if c.Value == tokenString {
					t.Errorf("expected new token value, but got the old one")
				}
				break
			}
		}
		if !found {
			t.Errorf("expected new auth_token cookie to be set")
		}
	})

	t.Run("TokenNotRenewed", func(t *testing.T) {
		// Expires in 13 hours, more than TokenDuration/2 = 12 hours
		tokenString, _ := handler.signToken("42", "organizer", time.Now().Add(13*time.Hour))

		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: tokenString})
		rr := httptest.NewRecorder()

		handler.AuthMiddleware(nextHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Errorf("expected status OK, got %v", rr.Code)
		}
		for _, c := range rr.Result().Cookies() {
			if c.Name == TokenCookie {
				t.Errorf("did not expect a new auth_token cookie to be set")
			}
		}
	})

	t.Run("NoCookie", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		rr := httptest.NewRecorder()

		handler.AuthMiddleware(nextHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})

	t.Run("InvalidToken", func(t *testing.T) {
		req, _ := http.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: TokenCookie, Value: "not-a-jwt"})
		rr := httptest.NewRecorder()

		handler.AuthMiddleware(nextHandler).ServeHTTP(rr, req)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("expected status 401, got %v", rr.Code)
		}
	})
}
