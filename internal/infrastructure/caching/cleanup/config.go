package cleanup

import (
	"time"

	"github.com/AtRiskMedia/pagetree-go/pkg/config"
)

// Config holds cleanup worker configuration, sourced from the central config package.
type Config struct {
	CleanupInterval    time.Duration
	VerboseReporting   bool
	SessionIdleTimeout time.Duration
}

// NewConfig reads the already-initialized values in pkg/config
func NewConfig() *Config {
	return &Config{
		CleanupInterval:    config.CleanupInterval,
		VerboseReporting:   config.CleanupVerbose,
		SessionIdleTimeout: config.SessionIdleTimeout,
	}
}
