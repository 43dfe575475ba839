// auth.go implements HTTP handlers for password and Google sign-in, token refresh,
// session introspection, and logout.
package admin

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/igreja-admin/igreja-admin/internal/account"
	"github.com/igreja-admin/igreja-admin/internal/auth"
	"github.com/igreja-admin/igreja-admin/internal/auth/google"
	"github.com/igreja-admin/igreja-admin/internal/config"
	"github.com/igreja-admin/igreja-admin/internal/db/models"
	"github.com/igreja-admin/igreja-admin/internal/db/repositories"
	"github.com/igreja-admin/igreja-admin/internal/middleware"
	"github.com/igreja-admin/igreja-admin/internal/telemetry"
)

// AuthHandlers handles authentication-related endpoints
type AuthHandlers struct {
	cfg            *config.Config
	db             *sql.DB
	profileRepo    *repositories.ProfileRepository
	roleRepo       *repositories.RoleRepository
	provisioner    *account.Provisioner
	googleProvider *google.Provider

	sessionMu    sync.Mutex
	sessionStore map[string]*SessionState // guarded by sessionMu; in-memory for MVP, use Redis in production
}

// SessionState represents OAuth state during the Google sign-in flow
type SessionState struct {
	State     string
	CreatedAt time.Time
}

// stateTTL is how long a Google sign-in state stays valid.
const stateTTL = 5 * time.Minute

// storeState records an OAuth state and sweeps entries past their validity
// window so abandoned logins do not accumulate.
func (h *AuthHandlers) storeState(state string) {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()
	for s, ss := range h.sessionStore {
		if time.Since(ss.CreatedAt) > stateTTL {
			delete(h.sessionStore, s)
		}
	}
	h.sessionStore[state] = &SessionState{
		State:     state,
		CreatedAt: time.Now(),
	}
}

// consumeState removes the state and reports whether it was present and
// whether it had already expired. A state is single-use either way.
func (h *AuthHandlers) consumeState(state string) (found, expired bool) {
	h.sessionMu.Lock()
	defer h.sessionMu.Unlock()
	ss, ok := h.sessionStore[state]
	if !ok {
		return false, false
	}
	delete(h.sessionStore, state)
	return true, time.Since(ss.CreatedAt) > stateTTL
}

// NewAuthHandlers creates a new AuthHandlers instance
func NewAuthHandlers(cfg *config.Config, db *sql.DB) (*AuthHandlers, error) {
	profileRepo := repositories.NewProfileRepository(db)
	roleRepo := repositories.NewRoleRepository(db)

	h := &AuthHandlers{
		cfg:          cfg,
		db:           db,
		profileRepo:  profileRepo,
		roleRepo:     roleRepo,
		provisioner:  account.NewProvisioner(profileRepo, roleRepo, cfg.Auth.MasterEmail),
		sessionStore: make(map[string]*SessionState),
	}

	// Initialize the Google provider if enabled
	if cfg.Auth.Google.Enabled {
		provider, err := google.NewProvider(&cfg.Auth.Google)
		if err != nil {
			return nil, err
		}
		h.googleProvider = provider
	}

	return h, nil
}

// generateState generates a random state string for OAuth
func generateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

type registerRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name"`
}

// @Summary      Register with email and password
// @Description  Create an account with email and password. The first sign-in of the configured master email receives the master role; every other account starts as an unassigned member.
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body  registerRequest  true  "Registration payload"
// @Success      201  {object}  map[string]interface{}  "JWT token and profile"
// @Failure      400  {object}  map[string]interface{}  "Invalid payload or weak password"
// @Failure      409  {object}  map[string]interface{}  "Email already registered"
// @Router       /api/v1/auth/register [post]
// RegisterHandler creates a password-based account
// POST /api/v1/auth/register
func (h *AuthHandlers) RegisterHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados de cadastro inválidos"})
			return
		}

		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("A senha deve ter pelo menos %d caracteres", auth.MinPasswordLength),
			})
			return
		}

		profile, created, err := h.provisioner.EnsureProfile(c.Request.Context(), account.ProvisionRequest{
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: &hash,
		})
		if err != nil {
			if errors.Is(err, auth.ErrEmailTaken) {
				c.JSON(http.StatusConflict, gin.H{"error": auth.UserMessage(err)})
				return
			}
			slog.Error("registration failed", "email", req.Email, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao criar a conta"})
			return
		}

		// An existing Google-only account reaching this point means the email is
		// already in use but has no password set; treat it as taken rather than
		// silently signing the caller into someone else's account.
		if !created {
			c.JSON(http.StatusConflict, gin.H{"error": auth.UserMessage(auth.ErrEmailTaken)})
			return
		}

		token, err := auth.GenerateJWT(profile.ID, profile.Email, h.tokenTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar o token de acesso"})
			return
		}

		telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
		c.JSON(http.StatusCreated, gin.H{
			"token":      token,
			"expires_in": int(h.tokenTTL().Seconds()),
			"profile":    profileResponse(profile),
		})
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// @Summary      Sign in with email and password
// @Description  Verify credentials and return a JWT session token
// @Tags         Authentication
// @Accept       json
// @Produce      json
// @Param        request  body  loginRequest  true  "Credentials"
// @Success      200  {object}  map[string]interface{}  "JWT token and profile"
// @Failure      401  {object}  map[string]interface{}  "Invalid credentials"
// @Router       /api/v1/auth/login [post]
// LoginHandler verifies a password credential and issues a session token
// POST /api/v1/auth/login
func (h *AuthHandlers) LoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Dados de acesso inválidos"})
			return
		}

		profile, err := h.profileRepo.GetProfileByEmail(c.Request.Context(), req.Email)
		if err != nil {
			slog.Error("login lookup failed", "email", req.Email, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao processar a solicitação"})
			return
		}

		// A nil profile and a Google-only account (no password hash) fail the
		// same way as a wrong password so the response never reveals whether
		// the email exists.
		if profile == nil || profile.PasswordHash == nil || !auth.VerifyPassword(req.Password, *profile.PasswordHash) {
			telemetry.LoginAttemptsTotal.WithLabelValues("failure").Inc()
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.UserMessage(auth.ErrInvalidCredentials)})
			return
		}

		roles, err := h.roleRepo.ListAssignmentsByUser(c.Request.Context(), profile.ID)
		if err != nil {
			slog.Error("login role lookup failed", "user_id", profile.ID, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao carregar a sessão"})
			return
		}

		token, err := auth.GenerateJWT(profile.ID, profile.Email, h.tokenTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar o token de acesso"})
			return
		}

		telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()
		c.JSON(http.StatusOK, gin.H{
			"token":      token,
			"expires_in": int(h.tokenTTL().Seconds()),
			"profile":    profileResponse(&models.ProfileWithRoles{Profile: *profile, Roles: roles}),
		})
	}
}

// @Summary      Initiate Google sign-in
// @Description  Redirect the browser to Google's authorization endpoint to begin the OAuth flow
// @Tags         Authentication
// @Produce      json
// @Success      302  {object}  string  "Redirects to Google's authorization URL"
// @Failure      400  {object}  map[string]interface{}  "Google sign-in not configured"
// @Failure      500  {object}  map[string]interface{}  "Failed to generate state"
// @Router       /api/v1/auth/google [get]
// GoogleLoginHandler initiates the Google sign-in flow
// GET /api/v1/auth/google
func (h *AuthHandlers) GoogleLoginHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.googleProvider == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Login com Google não está habilitado"})
			return
		}

		// Generate state for CSRF protection
		state, err := generateState()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao iniciar o login"})
			return
		}

		h.storeState(state)

		c.Redirect(http.StatusFound, h.googleProvider.GetAuthURL(state))
	}
}

// @Summary      Google sign-in callback
// @Description  Handles the callback from Google after the user authorizes. Exchanges the authorization code for an ID token, provisions the profile on first sign-in, and redirects the browser to the frontend /auth/callback page with a JWT as a query parameter.
// @Tags         Authentication
// @Produce      json
// @Param        code   query  string  true   "Authorization code from Google"
// @Param        state  query  string  true   "State parameter for CSRF validation"
// @Success      302  {object}  string  "Redirects to frontend /auth/callback?token=<jwt>"
// @Failure      400  {object}  map[string]interface{}  "Invalid state or authorization code"
// @Router       /api/v1/auth/google/callback [get]
// GoogleCallbackHandler handles the Google OAuth callback
// GET /api/v1/auth/google/callback?code=...&state=...
func (h *AuthHandlers) GoogleCallbackHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Derive the frontend base URL once; used for both the success redirect and all
		// error redirects so the user always lands on the frontend callback page.
		frontendBase := deriveFrontendURL(h.cfg)

		// callbackError redirects the browser to the frontend /auth/callback page with
		// error details as query parameters. The frontend shows the message and
		// navigates back to /login. Falls back to a plain JSON response only when no
		// frontend URL can be derived.
		callbackError := func(errCode, description string) {
			if frontendBase == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": description})
				return
			}
			target := fmt.Sprintf(
				"%s/auth/callback?error=%s&error_description=%s",
				frontendBase,
				url.QueryEscape(errCode),
				url.QueryEscape(description),
			)
			c.Redirect(http.StatusFound, target)
		}

		if h.googleProvider == nil {
			callbackError("provider_not_configured", "Login com Google não está habilitado.")
			return
		}

		code := c.Query("code")
		state := c.Query("state")

		// Validate state
		found, expired := h.consumeState(state)
		if !found {
			callbackError("invalid_state", "Sessão de login inválida. Tente entrar novamente.")
			return
		}
		if expired {
			callbackError("state_expired", "Sessão de login expirada. Tente entrar novamente.")
			return
		}

		ctx := context.Background()

		token, err := h.googleProvider.ExchangeCode(ctx, code)
		if err != nil {
			callbackError("token_exchange_failed", "Não foi possível validar o código de autorização.")
			return
		}

		rawIDToken, ok := token.Extra("id_token").(string)
		if !ok {
			callbackError("no_id_token", "O Google não retornou um token de identidade.")
			return
		}

		idToken, err := h.googleProvider.VerifyIDToken(ctx, rawIDToken)
		if err != nil {
			callbackError("id_token_invalid", "O token de identidade não pôde ser verificado.")
			return
		}

		sub, email, name, err := h.googleProvider.ExtractUserInfo(idToken)
		if err != nil {
			callbackError("user_info_failed", "Não foi possível ler os dados da conta Google.")
			return
		}

		profile, _, err := h.provisioner.EnsureProfile(ctx, account.ProvisionRequest{
			Email:     email,
			Name:      name,
			GoogleSub: &sub,
		})
		if err != nil {
			slog.Error("google sign-in provisioning failed", "email", email, "error", err)
			callbackError("provisioning_failed", "Não foi possível criar ou localizar a sua conta.")
			return
		}

		jwtToken, err := auth.GenerateJWT(profile.ID, profile.Email, h.tokenTTL())
		if err != nil {
			callbackError("jwt_failed", "Erro ao gerar o token de acesso.")
			return
		}

		telemetry.LoginAttemptsTotal.WithLabelValues("success").Inc()

		// Redirect the browser to the frontend callback page with the JWT in the query
		// string. This completes the authorization code flow so the SPA can store the token.
		redirectTarget := fmt.Sprintf("%s/auth/callback?token=%s", frontendBase, url.QueryEscape(jwtToken))
		c.Redirect(http.StatusFound, redirectTarget)
	}
}

// @Summary      Refresh JWT token
// @Description  Exchange an existing JWT token for a fresh one with extended expiration
// @Tags         Authentication
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "New JWT token with extended expiration"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized - invalid or missing token"
// @Router       /api/v1/auth/refresh [post]
// RefreshHandler refreshes an existing JWT token
// POST /api/v1/auth/refresh
// Authorization: Bearer <existing_jwt>
func (h *AuthHandlers) RefreshHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := middleware.SessionProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.UserMessage(auth.ErrUnauthenticated)})
			return
		}

		newToken, err := auth.GenerateJWT(profile.ID, profile.Email, h.tokenTTL())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Erro ao gerar o token de acesso"})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"token":      newToken,
			"expires_in": int(h.tokenTTL().Seconds()),
		})
	}
}

// @Summary      Get current user
// @Description  Retrieve the authenticated user's profile, role assignments, and tenant assignment state
// @Tags         Authentication
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Current profile with roles"
// @Failure      401  {object}  map[string]interface{}  "Unauthorized - user not authenticated"
// @Router       /api/v1/auth/me [get]
// MeHandler returns the current authenticated user's profile and roles
// GET /api/v1/auth/me
func (h *AuthHandlers) MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		profile := middleware.SessionProfile(c)
		if profile == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": auth.UserMessage(auth.ErrUnauthenticated)})
			return
		}

		c.JSON(http.StatusOK, gin.H{"profile": profileResponse(profile)})
	}
}

// @Summary      Logout
// @Description  Ends the session. Tokens are stateless, so the server only acknowledges; the SPA drops the stored token and navigates to /login.
// @Tags         Authentication
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "Logout acknowledged with frontend redirect hint"
// @Router       /api/v1/auth/logout [post]
// LogoutHandler acknowledges a logout request
// POST /api/v1/auth/logout
func (h *AuthHandlers) LogoutHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message":  "Sessão encerrada",
			"redirect": "/login",
		})
	}
}

// tokenTTL returns the configured session token lifetime, defaulting to 24 hours.
func (h *AuthHandlers) tokenTTL() time.Duration {
	if h.cfg.Auth.TokenTTL > 0 {
		return h.cfg.Auth.TokenTTL
	}
	return 24 * time.Hour
}

// profileResponse builds the JSON shape shared by register, login, and /auth/me.
// The unassigned flag tells the SPA to route the user to the holding page until
// an administrator links a church.
func profileResponse(p *models.ProfileWithRoles) gin.H {
	_, err := account.ResolveTenant(p)
	return gin.H{
		"id":         p.ID,
		"email":      p.Email,
		"name":       p.Name,
		"avatar_url": p.AvatarURL,
		"church_id":  p.ChurchID,
		"roles":      p.RoleNames(),
		"unassigned": errors.Is(err, auth.ErrUnassigned),
	}
}

// deriveFrontendURL returns the browser-facing base URL of the frontend SPA.
// It tries (in order):
//  1. cfg.Server.PublicURL — set explicitly to the frontend's public address
//  2. The origin (scheme + host) of the registered Google callback URL
//  3. cfg.Server.BaseURL — internal backend address, last resort.
func deriveFrontendURL(cfg *config.Config) string {
	if cfg.Server.PublicURL != "" {
		return strings.TrimRight(cfg.Server.PublicURL, "/")
	}
	if cfg.Auth.Google.RedirectURL != "" {
		if u, err := url.Parse(cfg.Auth.Google.RedirectURL); err == nil {
			return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
		}
	}
	return strings.TrimRight(cfg.Server.BaseURL, "/")
}
