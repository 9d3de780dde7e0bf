// Package handlers provides HTTP request handlers for the presentation layer.
package handlers

import (
	"errors"
	"net/http"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/starters"
	"github.com/gin-gonic/gin"
)

// statusFor maps service and domain errors onto HTTP status codes
func statusFor(err error) int {
	var validationErr *treestore.ValidationError
	switch {
	case errors.Is(err, services.ErrSessionNotFound),
		errors.Is(err, services.ErrDocumentNotFound),
		errors.Is(err, treestore.ErrNodeNotFound),
		errors.Is(err, starters.ErrUnknownStarter):
		return http.StatusNotFound
	case errors.Is(err, treestore.ErrCycle),
		errors.Is(err, treestore.ErrLocked),
		errors.Is(err, treestore.ErrRootMove),
		errors.Is(err, treestore.ErrRootExists),
		errors.Is(err, treestore.ErrDuplicateID),
		errors.Is(err, repositories.ErrSlugTaken),
		errors.Is(err, services.ErrSaveInProgress),
		errors.Is(err, services.ErrEmptyTree):
		return http.StatusConflict
	case errors.Is(err, treestore.ErrUnknownBreakpoint),
		errors.Is(err, treestore.ErrInvalidProps),
		errors.Is(err, treestore.ErrInvalidNode),
		errors.Is(err, treestore.ErrInvalidSizing),
		errors.Is(err, services.ErrNotImageNode),
		errors.Is(err, media.ErrEmptyImage),
		errors.Is(err, media.ErrUnsupportedImage):
		return http.StatusBadRequest
	case errors.Is(err, media.ErrImageTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &validationErr),
		errors.Is(err, document.ErrMalformed),
		errors.Is(err, document.ErrUnsupportedVersion):
		return http.StatusUnprocessableEntity
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, stores.ErrSessionLimit),
		errors.Is(err, services.ErrLoginDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// respondError writes err as a JSON error body. Internal errors are not
// echoed to the client.
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	body := gin.H{"error": err.Error()}
	var validationErr *treestore.ValidationError
	if errors.As(err, &validationErr) {
		problems := validationErr.Problems()
		details := make([]string, len(problems))
		for i, p := range problems {
			details[i] = p.Error()
		}
		body["details"] = details
	}
	c.JSON(status, body)
}
