package handlers

import (
	"log/slog"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sincherer/wui/internal/clients"
	"github.com/sincherer/wui/internal/config"
	"github.com/sincherer/wui/internal/models"
	"github.com/sincherer/wui/internal/services"
	"github.com/sincherer/wui/internal/validation"
)

// tokenLinePattern extracts the session token from the CLI's account
// creation output.
var tokenLinePattern = regexp.MustCompile(`Token: (\w+)`)

// AuthHandler handles surge credential login and Vercel token verification.
type AuthHandler struct {
	cfg    *config.Config
	surge  *services.SurgeCLI
	vercel *clients.VercelClient
	logger *slog.Logger
}

func NewAuthHandler(cfg *config.Config, surge *services.SurgeCLI, vercel *clients.VercelClient, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		cfg:    cfg,
		surge:  surge,
		vercel: vercel,
		logger: logger,
	}
}

// setSessionCookie stores the CLI-issued token client-side. No server-side
// session exists; the token's validity is entirely the provider's business.
func (h *AuthHandler) setSessionCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(
		h.cfg.Surge.CookieName,
		token,
		24*60*60,
		"/",
		"",
		h.cfg.Server.IsProduction(),
		true,
	)
}

// SurgeAuth authenticates the user against surge via the local CLI.
// POST /api/auth/surge/:websiteId
//
// A failed login is not immediately fatal: the handler falls back to
// creating an account with the same credentials before giving up, so a
// first-time user and a returning user go through the same request.
func (h *AuthHandler) SurgeAuth(c *gin.Context) {
	if _, err := validation.ValidateWebsiteID(c.Param("websiteId")); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_WEBSITE_ID",
			"Invalid website ID format", err.Error(), "ValidationError")
		return
	}

	var req models.SurgeAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_CREDENTIALS",
			"Invalid credentials", "Both email and password are required", "ValidationError")
		return
	}
	if err := validation.ValidateCredentials(req.Email, req.Password); err != nil {
		respondError(c, http.StatusBadRequest, "MISSING_CREDENTIALS",
			"Invalid credentials", "Both email and password are required", "ValidationError")
		return
	}

	ctx := c.Request.Context()

	if err := h.surge.CheckInstalled(ctx); err != nil {
		respondError(c, http.StatusInternalServerError, "SURGE_CLI_MISSING",
			"Surge CLI not installed", "Install with: npm install -g surge", "ConfigurationError")
		return
	}

	email := validation.SanitizeEmail(req.Email)
	password := validation.SanitizePassword(req.Password)

	if err := h.surge.CheckNetwork(ctx); err != nil {
		respondError(c, http.StatusBadGateway, "NETWORK_UNREACHABLE",
			"Network error - please check your connection", "Cannot reach Surge servers", "UpstreamError")
		return
	}

	// Existing session short-circuits the login attempt entirely.
	who := h.surge.WhoAmI(ctx, email)
	if !who.Failed() && strings.Contains(who.Stdout, email) {
		tok := h.surge.Token(ctx, email)
		token := strings.TrimSpace(tok.Stdout)
		if !tok.Failed() && token != "" {
			h.setSessionCookie(c, token)
			c.JSON(http.StatusOK, gin.H{
				"success":   true,
				"message":   "Already authenticated with Surge",
				"user":      strings.TrimSpace(who.Stdout),
				"token":     token,
				"timestamp": timestamp(),
			})
			return
		}
		h.logger.Warn("token retrieval failed for existing session, attempting login")
	}

	login := h.surge.Login(ctx, email, password)
	loginOK := !login.Failed()
	if loginOK && !h.surge.IsAuthenticated(ctx, email) {
		// Zero exit but the identity check does not name the principal;
		// treated the same as a failed login.
		h.logger.Warn("login verification failed", "exit_code", login.ExitCode)
		loginOK = false
	}

	if !loginOK {
		h.attemptAccountCreation(c, email, password, login)
		return
	}

	h.issueToken(c, email)
}

// issueToken retrieves and returns the session token after a verified login.
func (h *AuthHandler) issueToken(c *gin.Context, email string) {
	ctx := c.Request.Context()

	tok := h.surge.Token(ctx, email)
	if tok.Failed() {
		respondError(c, http.StatusBadGateway, "TOKEN_RETRIEVAL_ERROR",
			"Authentication failed", tok.ErrorOutput(), "UpstreamError")
		return
	}
	token := strings.TrimSpace(tok.Stdout)
	if token == "" || strings.Contains(strings.ToLower(token), "error") {
		respondError(c, http.StatusUnauthorized, "TOKEN_RETRIEVAL_ERROR",
			"Token retrieval failed", "Invalid credentials", "AuthenticationError")
		return
	}

	who := h.surge.WhoAmI(ctx, email)
	user := strings.TrimSpace(who.Stdout)
	if who.Failed() || user == "" || strings.Contains(user, "not logged") {
		respondError(c, http.StatusUnauthorized, "USER_VERIFICATION_ERROR",
			"User verification failed", "Please login again", "AuthenticationError")
		return
	}

	h.setSessionCookie(c, token)
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "Authenticated with Surge",
		"user":      user,
		"token":     token,
		"timestamp": timestamp(),
	})
}

// attemptAccountCreation is the fallback after a failed login: issue a
// token directly from the credentials, which creates the account when it
// does not exist yet.
func (h *AuthHandler) attemptAccountCreation(c *gin.Context, email, password string, login *services.CallResult) {
	h.logger.Info("login failed, attempting automatic account creation")

	create := h.surge.TokenWithCredentials(c.Request.Context(), email, password)
	if !create.Failed() {
		match := tokenLinePattern.FindStringSubmatch(create.Stdout)
		if match == nil {
			respondError(c, http.StatusInternalServerError, "TOKEN_EXTRACTION_ERROR",
				"Token extraction failed", "Could not extract token from Surge response", "UpstreamError")
			return
		}

		h.setSessionCookie(c, match[1])
		c.JSON(http.StatusCreated, gin.H{
			"success":   true,
			"status":    "SURGE_ACCOUNT_CREATED",
			"token":     match[1],
			"email":     email,
			"timestamp": timestamp(),
		})
		return
	}

	// Creation failed too; classify the original login output to pick the
	// user-facing message.
	loginOutput := login.ErrorOutput()
	switch services.ClassifyAuthOutput(loginOutput) {
	case services.KindConflict:
		respondError(c, http.StatusUnauthorized, "SURGE_AUTH_FAILED",
			"Domain is already taken", loginOutput, "AuthenticationError")
	case services.KindAuthentication:
		respondError(c, http.StatusUnauthorized, "SURGE_AUTH_FAILED",
			"Invalid credentials", loginOutput, "AuthenticationError")
	case services.KindUpstream:
		respondError(c, http.StatusBadGateway, "SURGE_AUTH_FAILED",
			"Network error - please check your connection", loginOutput, "UpstreamError")
	default:
		respondError(c, http.StatusInternalServerError, "SURGE_CREATION_FAILED",
			"Automatic account creation failed", create.ErrorOutput(), "AuthenticationError")
	}
}

// VercelAuth verifies a Vercel API token.
// POST /api/auth/vercel
func (h *AuthHandler) VercelAuth(c *gin.Context) {
	var req models.VercelAuthRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Token == "" {
		respondError(c, http.StatusBadRequest, "MISSING_TOKEN",
			"Missing Vercel API token", "", "ValidationError")
		return
	}

	// Format check happens before any outbound call.
	if err := validation.ValidateVercelToken(req.Token); err != nil {
		respondError(c, http.StatusUnauthorized, "INVALID_TOKEN_FORMAT",
			"Invalid token format", "", "ValidationError")
		return
	}

	identity, err := h.vercel.VerifyToken(c.Request.Context(), req.Token)
	if err != nil {
		switch err {
		case clients.ErrInvalidCredentials:
			respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS",
				"Invalid Vercel credentials", "", "AuthenticationError")
		case clients.ErrInvalidUserData:
			respondError(c, http.StatusBadGateway, "INVALID_USER_DATA",
				"Invalid user data from Vercel API", "Missing required user fields in response", "UpstreamError")
		default:
			respondError(c, http.StatusBadGateway, "INVALID_API_RESPONSE",
				"Invalid response from Vercel API", "Failed to parse authentication response", "UpstreamError")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": models.VercelUser{
			ID:    identity.ID,
			Name:  identity.Name,
			Email: identity.Email,
		},
		"timestamp": timestamp(),
	})
}
