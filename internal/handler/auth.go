package handler

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/templui/ahorros/internal/config"
	"github.com/templui/ahorros/internal/ctxkeys"
	"github.com/templui/ahorros/internal/model"
	"github.com/templui/ahorros/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

type authHandler struct {
	authService       *service.AuthService
	googleOAuthConfig *oauth2.Config
	isProduction      bool
}

func NewAuthHandler(authService *service.AuthService, cfg *config.Config) *authHandler {
	return &authHandler{
		authService: authService,
		googleOAuthConfig: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.AppURL + "/auth/google/callback",
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email"},
			Endpoint:     google.Endpoint,
		},
		isProduction: cfg.IsProduction(),
	}
}

// GoogleAuth redirects to the Google consent screen
func (h *authHandler) GoogleAuth(w http.ResponseWriter, r *http.Request) {
	state := generateOAuthState()

	http.SetCookie(w, &http.Cookie{
		Name:     "oauth_state",
		Value:    state,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.isProduction,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})

	url := h.googleOAuthConfig.AuthCodeURL(state)
	http.Redirect(w, r, url, http.StatusTemporaryRedirect)
}

// GoogleCallback completes the OAuth flow and sets the session cookie
func (h *authHandler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	cookie, err := r.Cookie("oauth_state")
	if err != nil || cookie.Value != state || state == "" {
		slog.Warn("google oauth state validation failed", "error", err)
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "oauth authentication failed"})
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:   "oauth_state",
		Value:  "",
		Path:   "/",
		MaxAge: -1,
	})

	code := r.URL.Query().Get("code")
	if code == "" {
		slog.Warn("google oauth callback missing code")
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "oauth authentication failed"})
		return
	}

	email, err := h.googleEmail(r.Context(), code)
	if err != nil {
		slog.Error("google oauth failed", "error", err)
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "oauth authentication failed"})
		return
	}

	user, err := h.authService.AuthenticateOAuth(r.Context(), email, "google")
	if err != nil {
		slog.Error("oauth authentication failed", "error", err, "email", email)
		writeError(w, r, err)
		return
	}

	err = h.signIn(w, user)
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("user logged in with google oauth", "user_id", user.ID, "email", user.Email)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *authHandler) googleEmail(ctx context.Context, code string) (string, error) {
	token, err := h.googleOAuthConfig.Exchange(ctx, code)
	if err != nil {
		return "", err
	}

	client := h.googleOAuthConfig.Client(ctx, token)
	resp, err := client.Get(googleUserInfoURL)
	if err != nil {
		return "", err
	}
	defer func() {
		closeErr := resp.Body.Close()
		if closeErr != nil {
			slog.Error("failed to close response body", "error", closeErr)
		}
	}()

	var userInfo struct {
		Email string `json:"email"`
	}
	err = json.NewDecoder(resp.Body).Decode(&userInfo)
	if err != nil {
		return "", err
	}
	return userInfo.Email, nil
}

// DevSignIn signs in by email without a provider. Only routed in development.
func (h *authHandler) DevSignIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.authService.DevSignIn(r.Context(), req.Email)
	if err != nil {
		writeError(w, r, err)
		return
	}

	err = h.signIn(w, user)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user.Principal())
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *authHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ctxkeys.Principal(r.Context()))
}

func (h *authHandler) signIn(w http.ResponseWriter, user *model.User) error {
	token, expiry, err := h.authService.GenerateJWT(user)
	if err != nil {
		slog.Error("failed to generate JWT", "error", err, "user_id", user.ID)
		return err
	}
	h.authService.SetJWTCookie(w, token, expiry)
	return nil
}

func generateOAuthState() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
