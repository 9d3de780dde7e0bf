package services

import (
	"errors"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrLoginDisabled      = errors.New("editor login is not configured")
)

// AuthConfig holds the single editor account and token settings
type AuthConfig struct {
	Username     string
	PasswordHash string
	JWTSecret    string
	TokenTTL     time.Duration
}

// AuthService handles editor login and token validation
type AuthService struct {
	config      AuthConfig
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
	now         func() time.Time
}

// AuthResult holds authentication result data
type AuthResult struct {
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewAuthService creates a new authentication service. An empty secret is
// replaced with a random one, which invalidates tokens across restarts.
func NewAuthService(config AuthConfig, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) (*AuthService, error) {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if perfTracker == nil {
		perfTracker = performance.NewTracker(nil, logger.Perf())
	}
	if config.JWTSecret == "" {
		secret, err := security.GenerateSecureKey(32)
		if err != nil {
			return nil, err
		}
		config.JWTSecret = secret
		logger.Auth().Warn("JWT_SECRET not set; using an ephemeral signing key")
	}
	if config.TokenTTL <= 0 {
		config.TokenTTL = 12 * time.Hour
	}
	if config.PasswordHash == "" {
		logger.Auth().Warn("EDITOR_PASSWORD_HASH not set; editor login is disabled")
	}
	return &AuthService{
		config:      config,
		logger:      logger,
		perfTracker: perfTracker,
		now:         func() time.Time { return time.Now().UTC() },
	}, nil
}

// Login checks the editor credentials and issues a signed token
func (a *AuthService) Login(username, password string) (*AuthResult, error) {
	marker := a.perfTracker.StartOperation("auth:login", username)
	defer marker.Complete()

	if a.config.PasswordHash == "" {
		marker.SetSuccess(false)
		return nil, ErrLoginDisabled
	}
	if username != a.config.Username {
		marker.SetSuccess(false)
		a.logger.LogAuthOperation("login", username, false, map[string]any{"reason": "unknown user"})
		return nil, ErrInvalidCredentials
	}
	if err := security.CheckPassword(a.config.PasswordHash, password); err != nil {
		marker.SetSuccess(false)
		a.logger.LogAuthOperation("login", username, false, map[string]any{"reason": "password mismatch"})
		return nil, ErrInvalidCredentials
	}

	token, expires, err := security.GenerateEditorToken(username, a.config.JWTSecret, a.config.TokenTTL, a.now())
	if err != nil {
		marker.SetError(err)
		a.logger.LogError(logging.ChannelAuth, "login", err, map[string]any{"subject": username})
		return nil, err
	}
	a.logger.LogAuthOperation("login", username, true, map[string]any{"expires": expires})
	marker.SetSuccess(true)
	return &AuthResult{Token: token, Role: security.RoleEditor, ExpiresAt: expires}, nil
}

// ValidateToken checks a bearer token and returns its claims
func (a *AuthService) ValidateToken(token string) (*security.EditorClaims, error) {
	return security.ValidateEditorToken(token, a.config.JWTSecret)
}
