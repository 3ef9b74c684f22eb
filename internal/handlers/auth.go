package handlers

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/finboardhq/finboard-portal/internal/common"
)

// SessionCookieName is the cookie carrying the session JWT.
const SessionCookieName = "finboard_session"

// JWTClaims holds the decoded JWT payload claims.
type JWTClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Iss   string `json:"iss"`
	Iat   int64  `json:"iat"`
	Exp   int64  `json:"exp"`
}

// ValidateJWT validates a JWT token string.
// If secret is non-empty, it verifies the HMAC-SHA256 signature.
// If secret is empty, signature verification is skipped (backwards compat).
// Always checks expiry.
func ValidateJWT(token string, secret []byte) (*JWTClaims, error) {
	parts := strings.SplitN(token, ".", 4)
	if len(parts) != 3 {
		return nil, fmt.Errorf("invalid JWT format: expected 3 parts, got %d", len(parts))
	}

	if len(secret) > 0 {
		sigInput := parts[0] + "." + parts[1]
		mac := hmac.New(sha256.New, secret)
		mac.Write([]byte(sigInput))
		expectedSig := mac.Sum(nil)

		actualSig, err := base64.RawURLEncoding.DecodeString(parts[2])
		if err != nil {
			return nil, fmt.Errorf("invalid JWT signature encoding: %w", err)
		}

		if !hmac.Equal(expectedSig, actualSig) {
			return nil, fmt.Errorf("invalid JWT signature")
		}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("invalid JWT payload encoding: %w", err)
	}

	var claims JWTClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("invalid JWT payload JSON: %w", err)
	}

	if claims.Exp == 0 {
		return nil, fmt.Errorf("JWT missing exp claim")
	}
	if claims.Exp < time.Now().Unix() {
		return nil, fmt.Errorf("JWT expired")
	}

	return &claims, nil
}

// IsLoggedIn checks the session cookie and validates the JWT.
// Returns (true, claims) if valid, (false, nil) otherwise.
func IsLoggedIn(r *http.Request, secret []byte) (bool, *JWTClaims) {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil || cookie.Value == "" {
		return false, nil
	}

	claims, err := ValidateJWT(cookie.Value, secret)
	if err != nil {
		return false, nil
	}

	return true, claims
}

// AuthHandler handles login and logout against the remote market API.
type AuthHandler struct {
	logger    *common.Logger
	apiURL    string
	jwtSecret []byte
	client    *http.Client
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(logger *common.Logger, apiURL string, jwtSecret []byte) *AuthHandler {
	return &AuthHandler{
		logger:    logger,
		apiURL:    strings.TrimSuffix(apiURL, "/"),
		jwtSecret: jwtSecret,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

// HandleLogin handles email/password login.
// It forwards credentials to the market API POST /auth/login/,
// sets the returned JWT as a session cookie, and redirects to /dashboard.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Redirect(w, r, "/auth?error=bad_request", http.StatusFound)
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	if username == "" || password == "" {
		http.Redirect(w, r, "/auth?error=missing_credentials", http.StatusFound)
		return
	}

	body := map[string]string{
		"username": username,
		"password": password,
	}
	bodyJSON, _ := json.Marshal(body)

	resp, err := h.client.Post(h.apiURL+"/auth/login/", "application/json", bytes.NewReader(bodyJSON))
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Err(err).Msg("failed to reach market API for login")
		}
		http.Redirect(w, r, "/auth?error=server_unavailable", http.StatusFound)
		return
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		if h.logger != nil {
			h.logger.Error().Err(err).Msg("failed to read market API login response")
		}
		http.Redirect(w, r, "/auth?error=auth_failed", http.StatusFound)
		return
	}

	if resp.StatusCode != http.StatusOK {
		if h.logger != nil {
			h.logger.Warn().Int("status", resp.StatusCode).Str("user", username).Msg("market API login rejected")
		}
		http.Redirect(w, r, "/auth?error=invalid_credentials", http.StatusFound)
		return
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(respBody, &result); err != nil || result.Token == "" {
		if h.logger != nil {
			h.logger.Error().Str("error", fmt.Sprintf("parse error or empty token: %v", err)).Msg("invalid market API login response")
		}
		http.Redirect(w, r, "/auth?error=auth_failed", http.StatusFound)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    result.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/dashboard", http.StatusFound)
}

// HandleLogout clears the session cookie and redirects to the login page.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	http.Redirect(w, r, "/auth", http.StatusFound)
}
