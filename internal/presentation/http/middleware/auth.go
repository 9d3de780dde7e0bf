package middleware

import (
	"net/http"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
	"github.com/gin-gonic/gin"
)

const (
	// AuthCookieName holds the editor token for browser clients
	AuthCookieName = "editor_auth"
	claimsKey      = "editorClaims"
)

// TokenValidator checks editor tokens
type TokenValidator interface {
	ValidateToken(token string) (*security.EditorClaims, error)
}

// EditorAuthMiddleware requires a valid editor token. The token is read from
// the Authorization header, then the auth cookie, then the token query
// parameter, which websocket clients use.
func EditorAuthMiddleware(validator TokenValidator, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			logger.WithContext(logging.ChannelAuth, c.Request.Context()).Debug("Request without editor token", "path", c.Request.URL.Path)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			logger.WithContext(logging.ChannelAuth, c.Request.Context()).Warn("Rejected editor token", "path", c.Request.URL.Path, "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// GetEditorClaims returns the claims stored by EditorAuthMiddleware
func GetEditorClaims(c *gin.Context) (*security.EditorClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*security.EditorClaims)
	return claims, ok
}

func bearerToken(c *gin.Context) string {
	if authHeader := c.GetHeader("Authorization"); len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(AuthCookieName); err == nil && cookie != "" {
		return cookie
	}
	return c.Query("token")
}
