package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/scriptink/writofest-api/internal/config"
	"github.com/scriptink/writofest-api/internal/logging"
	"golang.org/x/oauth2"
)

const (
	DiscordAuthorizeEndpoint = "https://discord.com/api/oauth2/authorize"
	DiscordTokenEndpoint     = "https://discord.com/api/oauth2/token"
	DiscordUserAPI           = "https://discord.com/api/users/@me"
	DiscordUserGuildsAPI     = "https://discord.com/api/users/@me/guilds"

	TokenCookie = "auth_token"
	stateCookie = "oauth_state"
)

// TokenDuration is the lifetime of an organizer session.
const TokenDuration = 24 * time.Hour

// Claims identify an organizer by Discord ID (the subject).
type Claims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// AuthHandler signs organizers in with Discord and guards the admin routes.
type AuthHandler struct {
	oauthConfig *oauth2.Config
	cfg         *config.Config
}

func NewAuthHandler(cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		oauthConfig: &oauth2.Config{
			ClientID:     cfg.DiscordClientID,
			ClientSecret: cfg.DiscordClientSecret,
			RedirectURL:  cfg.DiscordRedirectURL,
			Scopes:       []string{"identify", "guilds"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  DiscordAuthorizeEndpoint,
				TokenURL: DiscordTokenEndpoint,
			},
		},
		cfg: cfg,
	}
}

func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		http.Error(w, "Failed to start login", http.StatusInternalServerError)
		return
	}
	state := hex.EncodeToString(b)

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookie,
		Value:    state,
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
		Path:     "/",
	})
	http.Redirect(w, r, h.oauthConfig.AuthCodeURL(state, oauth2.AccessTypeOnline), http.StatusTemporaryRedirect)
}

func (h *AuthHandler) HandleCallback(w http.ResponseWriter, r *http.Request) {
	logger := logging.FromContext(r.Context())

	state, err := r.Cookie(stateCookie)
	if err != nil || state.Value == "" || state.Value != r.URL.Query().Get("state") {
		http.Error(w, "Invalid login state", http.StatusBadRequest)
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		http.Error(w, "Code not found", http.StatusBadRequest)
		return
	}

	token, err := h.oauthConfig.Exchange(r.Context(), code)
	if err != nil {
		logger.Error("discord token exchange failed", "error", err)
		http.Error(w, "Failed to exchange token", http.StatusInternalServerError)
		return
	}
	client := h.oauthConfig.Client(r.Context(), token)

	// Organizers must belong to the configured guild.
	if h.cfg.DiscordGuildID != "" {
		var guilds []struct {
			ID string `json:"id"`
		}
		if err := getJSON(client, DiscordUserGuildsAPI, &guilds); err != nil {
			logger.Error("discord guild lookup failed", "error", err)
			http.Error(w, "Failed to get user guilds", http.StatusInternalServerError)
			return
		}

		isMember := false
		for _, g := range guilds {
			if g.ID == h.cfg.DiscordGuildID {
				isMember = true
				break
			}
		}
		if !isMember {
			http.Error(w, "Access denied: You are not a member of the required guild.", http.StatusForbidden)
			return
		}
	}

	var discordUser struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := getJSON(client, DiscordUserAPI, &discordUser); err != nil {
		logger.Error("discord user lookup failed", "error", err)
		http.Error(w, "Failed to get user info", http.StatusInternalServerError)
		return
	}

	jwtToken, err := h.GenerateToken(discordUser.ID, discordUser.Username)
	if err != nil {
		http.Error(w, "Failed to generate token", http.StatusInternalServerError)
		return
	}

	http.SetCookie(w, sessionCookie(jwtToken))
	logger.Info("organizer signed in", "discord_id", discordUser.ID)
	w.Write([]byte(fmt.Sprintf("Welcome %s! You are logged in.", discordUser.Username)))
}

func getJSON(client *http.Client, url string, v any) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", url, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func sessionCookie(token string) *http.Cookie {
	return &http.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Expires:  time.Now().Add(TokenDuration),
		HttpOnly: true,
		Path:     "/",
	}
}

// GenerateToken signs a session token for the organizer.
func (h *AuthHandler) GenerateToken(discordID, username string) (string, error) {
	return h.signToken(discordID, username, time.Now().Add(TokenDuration))
}

func (h *AuthHandler) signToken(discordID, username string, expiresAt time.Time) (string, error) {
	claims := Claims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   discordID,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(h.cfg.JWTSecret))
}

func (h *AuthHandler) parseToken(tokenString string) (*Claims, error) {
	if h.cfg.JWTSecret == "" {
		return nil, errors.New("jwt secret not configured")
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthInput carries the session cookie into huma operations.
type AuthInput struct {
	Cookie string `header:"Cookie" doc:"Session cookie (auth_token)"`
}

// Authorize validates the auth_token cookie from a raw Cookie header and
// returns the organizer's Discord ID.
func (h *AuthHandler) Authorize(ctx context.Context, cookieHeader string) (string, error) {
	if cookieHeader == "" {
		return "", huma.Error401Unauthorized("Unauthorized: No token found")
	}

	cookies, err := http.ParseCookie(cookieHeader)
	if err != nil {
		return "", huma.Error401Unauthorized("Unauthorized: Malformed cookie")
	}

	for _, c := range cookies {
		if c.Name != TokenCookie {
			continue
		}
		claims, err := h.parseToken(c.Value)
		if err != nil {
			logging.FromContext(ctx).Info("rejected organizer token", "error", err)
			return "", huma.Error401Unauthorized("Unauthorized: Invalid token")
		}
		return claims.Subject, nil
	}
	return "", huma.Error401Unauthorized("Unauthorized: No token found")
}
