package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandlers contains all authentication-related HTTP handlers
type AuthHandlers struct {
	authService *services.AuthService
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

// NewAuthHandlers creates auth handlers with injected dependencies
func NewAuthHandlers(authService *services.AuthService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *AuthHandlers {
	return &AuthHandlers{
		authService: authService,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// LoginRequest is the body of POST /auth/login
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// PostLogin handles POST /api/v1/auth/login
func (h *AuthHandlers) PostLogin(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_login_request", "")
	defer marker.Complete()
	log := h.logger.WithContext(logging.ChannelAuth, c.Request.Context())
	log.Debug("Received login request", "method", c.Request.Method, "path", c.Request.URL.Path)

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		marker.SetError(err)
		log.Warn("Login attempt failed", "error", err.Error(), "duration", time.Since(start))
		respondError(c, err)
		return
	}

	maxAge := int(time.Until(result.ExpiresAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.AuthCookieName, result.Token, maxAge, "/", "", c.Request.TLS != nil, true)

	marker.SetSuccess(true)
	log.Info("Login succeeded", "duration", time.Since(start))
	c.JSON(http.StatusOK, result)
}

// PostLogout handles POST /api/v1/auth/logout by clearing the auth cookie
func (h *AuthHandlers) PostLogout(c *gin.Context) {
	c.SetCookie(middleware.AuthCookieName, "", -1, "/", "", c.Request.TLS != nil, true)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetMe handles GET /api/v1/auth/me
func (h *AuthHandlers) GetMe(c *gin.Context) {
	claims, ok := middleware.GetEditorClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subject":   claims.Subject,
		"role":      claims.Role,
		"expiresAt": claims.ExpiresAt.Time,
	})
}
