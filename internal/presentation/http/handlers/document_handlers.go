package handlers

import (
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/gin-gonic/gin"
)

// DocumentHandlers serves stored page documents
type DocumentHandlers struct {
	documentService *services.DocumentService
	logger          *logging.ChanneledLogger
	perfTracker     *performance.Tracker
}

// NewDocumentHandlers creates document handlers with injected dependencies
func NewDocumentHandlers(documentService *services.DocumentService, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *DocumentHandlers {
	return &DocumentHandlers{
		documentService: documentService,
		logger:          logger,
		perfTracker:     perfTracker,
	}
}

// GetAllDocuments handles GET /api/v1/documents
func (h *DocumentHandlers) GetAllDocuments(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("get_all_documents_request", "")
	defer marker.Complete()

	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Database().Info("Get all documents request completed", "count", len(docs), "duration", time.Since(start))
	c.JSON(http.StatusOK, gin.H{"documents": docs, "count": len(docs)})
}

// GetDocument handles GET /api/v1/documents/:id. The body is returned as
// stored.
func (h *DocumentHandlers) GetDocument(c *gin.Context) {
	doc, err := h.documentService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"document": doc.Summary(), "body": doc.Body})
}

// DeleteDocument handles DELETE /api/v1/documents/:id
func (h *DocumentHandlers) DeleteDocument(c *gin.Context) {
	if err := h.documentService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetPublishedPage handles GET /pages/:slug, the public rendering of a
// saved document
func (h *DocumentHandlers) GetPublishedPage(c *gin.Context) {
	slug := c.Param("slug")
	marker := h.perfTracker.StartOperation("get_published_page_request", slug)
	defer marker.Complete()

	page, err := h.documentService.RenderPublished(c.Request.Context(), slug)
	if err != nil {
		marker.SetError(err)
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			h.logger.LogError(logging.ChannelRender, "render_published", err, map[string]any{"slug": slug})
		}
		c.Data(status, "text/plain; charset=utf-8", []byte(http.StatusText(status)))
		return
	}

	marker.SetSuccess(true)
	c.Header("Cache-Control", "public, max-age=60")
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}
