package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/scriptink/writofest-api/internal/config"
)

func TestAuthorize(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	handler := NewAuthHandler(cfg)

	t.Run("Authenticated", func(t *testing.T) {
		token, err := handler.GenerateToken("123456", "organizer")
		if err != nil {
			t.Fatalf("GenerateToken returned error: %v", err)
		}

		id, err := handler.Authorize(context.Background(), "theme=dark; auth_token="+token)
		if err != nil {
			t.Fatalf("Authorize returned error: %v", err)
		}
		if id != "123456" {
			t.Errorf("expected discord id 123456, got %s", id)
		}
	})

	t.Run("Unauthenticated", func(t *testing.T) {
		if _, err := handler.Authorize(context.Background(), ""); err == nil {
			t.Fatal("expected error for unauthenticated request, got nil")
		}
	})

	t.Run("WrongSecret", func(t *testing.T) {
		other := NewAuthHandler(&config.Config{JWTSecret: "other-secret"})
		token, _ := other.GenerateToken("123456", "organizer")

		if _, err := handler.Authorize(context.Background(), "auth_token="+token); err == nil {
			t.Fatal("expected error for token signed with another secret, got nil")
		}
	})

	t.Run("Expired", func(t *testing.T) {
		token, _ := handler.signToken("123456", "organizer", time.Now().Add(-time.Minute))

		if _, err := handler.Authorize(context.Background(), "auth_token="+token); err == nil {
			t.Fatal("expected error for expired token, got nil")
		}
	})
}

func TestAuthorize_NoSecretConfigured(t *testing.T) {
	signer := NewAuthHandler(&config.Config{JWTSecret: "test-secret"})
	token, _ := signer.GenerateToken("123456", "organizer")

	handler := NewAuthHandler(&config.Config{})
	if _, err := handler.Authorize(context.Background(), "auth_token="+token); err == nil {
		t.Fatal("expected error when no secret is configured, got nil")
	}
}

func TestHandleLogin(t *testing.T) {
	cfg := &config.Config{
		DiscordClientID:    "client-id",
		DiscordRedirectURL: "http://localhost:3000/auth/discord/callback",
	}
	handler := NewAuthHandler(cfg)

	req := httptest.NewRequest(http.MethodGet, "/auth/discord/login", nil)
	rr := httptest.NewRecorder()
	handler.HandleLogin(rr, req)

	if rr.Code != http.StatusTemporaryRedirect {
		t.Fatalf("expected redirect, got %d", rr.Code)
	}

	location := rr.Header().Get("Location")
	if !strings.HasPrefix(location, DiscordAuthorizeEndpoint) {
		t.Errorf("expected redirect to discord, got %s", location)
	}

	var state string
	for _, c := range rr.Result().Cookies() {
		if c.Name == stateCookie {
			state = c.Value
		}
	}
	if state == "" {
		t.Fatal("expected oauth_state cookie to be set")
	}
	if !strings.Contains(location, "state="+state) {
		t.Errorf("expected redirect to carry state %s, got %s", state, location)
	}
}

func TestHandleCallback_RejectsStateMismatch(t *testing.T) {
	handler := NewAuthHandler(&config.Config{JWTSecret: "test-secret"})

	req := httptest.NewRequest(http.MethodGet, "/auth/discord/callback?code=abc&state=forged", nil)
	req.AddCookie(&http.Cookie{Name: stateCookie, Value: "expected"})
	rr := httptest.NewRecorder()
	handler.HandleCallback(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
}
