// Package cleanup provides the background worker that evicts idle editing
// sessions and expired cached documents
package cleanup

import (
	"context"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
)

// EvictFunc is told about every session the worker drops
type EvictFunc func(sessionID string)

// Worker handles background cache cleanup operations
type Worker struct {
	sessions  *stores.SessionStore
	documents *stores.DocumentStore
	config    *Config
	logger    *logging.ChanneledLogger
	onEvict   EvictFunc
}

// NewWorker creates a new cleanup worker with injected configuration
func NewWorker(sessions *stores.SessionStore, documents *stores.DocumentStore, config *Config, logger *logging.ChanneledLogger, onEvict EvictFunc) *Worker {
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Worker{
		sessions:  sessions,
		documents: documents,
		config:    config,
		logger:    logger,
		onEvict:   onEvict,
	}
}

// Start runs the cleanup loop until ctx is cancelled
func (w *Worker) Start(ctx context.Context) {
	ticker := time.NewTicker(w.config.CleanupInterval)
	defer ticker.Stop()

	w.logger.Cache().Info("Cache cleanup worker started",
		"interval", w.config.CleanupInterval, "verbose", w.config.VerboseReporting)

	for {
		select {
		case <-ctx.Done():
			w.logger.Cache().Info("Cache cleanup worker stopping")
			return
		case <-ticker.C:
			w.RunOnce(time.Now().UTC())
		}
	}
}

// RunOnce performs a single cleanup pass and returns the number of items
// removed
func (w *Worker) RunOnce(now time.Time) int {
	start := time.Now()
	var totalCleaned int

	if w.sessions != nil {
		evicted := w.sessions.PurgeIdle(w.config.SessionIdleTimeout, now)
		for _, id := range evicted {
			w.logger.Cache().Info("Evicted idle editing session", "sessionId", id, "idleTimeout", w.config.SessionIdleTimeout)
			if w.onEvict != nil {
				w.onEvict(id)
			}
		}
		totalCleaned += len(evicted)
	}

	if w.documents != nil {
		totalCleaned += w.documents.PurgeExpired()
	}

	duration := time.Since(start)
	if totalCleaned > 0 {
		w.logger.Cache().Info("Cache cleanup finished", "cleaned", totalCleaned, "duration", duration)
	} else if w.config.VerboseReporting {
		sessions, documents := 0, 0
		if w.sessions != nil {
			sessions = w.sessions.Len()
		}
		if w.documents != nil {
			documents = w.documents.Len()
		}
		w.logger.Cache().Info("Cache cleanup completed, nothing expired",
			"sessions", sessions, "documents", documents, "duration", duration)
	}
	return totalCleaned
}
