package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/starters"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/templates"
	"github.com/gin-gonic/gin"
)

// EditorHandlers serves editing sessions
type EditorHandlers struct {
	editorService *services.EditorService
	starters      *starters.Provider
	logger        *logging.ChanneledLogger
	perfTracker   *performance.Tracker
}

// NewEditorHandlers creates editor handlers with injected dependencies
func NewEditorHandlers(editorService *services.EditorService, starterProvider *starters.Provider, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *EditorHandlers {
	return &EditorHandlers{
		editorService: editorService,
		starters:      starterProvider,
		logger:        logger,
		perfTracker:   perfTracker,
	}
}

// OpenSessionRequest names the document or starter a session begins from
type OpenSessionRequest struct {
	DocumentID string `json:"documentId"`
	Starter    string `json:"starter"`
}

// PointerRequest carries a node id for select and hover
type PointerRequest struct {
	NodeID string `json:"nodeId"`
}

// SaveRequest optionally renames the document being saved
type SaveRequest struct {
	Title string `json:"title"`
	Slug  string `json:"slug"`
}

// GetStarters handles GET /api/v1/starters
func (h *EditorHandlers) GetStarters(c *gin.Context) {
	summaries := h.starters.Summaries()
	c.JSON(http.StatusOK, gin.H{"starters": summaries, "count": len(summaries)})
}

// PostSession handles POST /api/v1/editor/sessions
func (h *EditorHandlers) PostSession(c *gin.Context) {
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_session_request", "")
	defer marker.Complete()

	var req OpenSessionRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			marker.SetSuccess(false)
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
			return
		}
	}

	view, err := h.editorService.OpenSession(c.Request.Context(), req.DocumentID, req.Starter)
	if err != nil {
		marker.SetError(err)
		h.logger.WithContext(logging.ChannelEditor, c.Request.Context()).Warn("Failed to open session",
			"documentId", req.DocumentID, "starter", req.Starter, "error", err.Error())
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.WithContext(logging.ChannelEditor, c.Request.Context()).Info("Open session request completed",
		"sessionId", view.SessionID, "duration", time.Since(start))
	c.JSON(http.StatusCreated, view)
}

// DeleteSession handles DELETE /api/v1/editor/sessions/:id
func (h *EditorHandlers) DeleteSession(c *gin.Context) {
	if err := h.editorService.CloseSession(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSession handles GET /api/v1/editor/sessions/:id
func (h *EditorHandlers) GetSession(c *gin.Context) {
	view, err := h.editorService.GetState(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// PostSelect handles POST /api/v1/editor/sessions/:id/select
func (h *EditorHandlers) PostSelect(c *gin.Context) {
	var req PointerRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondView(c, "select")(h.editorService.SelectNode(c.Param("id"), req.NodeID))
}

// PostHover handles POST /api/v1/editor/sessions/:id/hover
func (h *EditorHandlers) PostHover(c *gin.Context) {
	var req PointerRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondView(c, "hover")(h.editorService.HoverNode(c.Param("id"), req.NodeID))
}

// PostUndo handles POST /api/v1/editor/sessions/:id/undo
func (h *EditorHandlers) PostUndo(c *gin.Context) {
	view, applied, err := h.editorService.Undo(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "session": view})
}

// PostRedo handles POST /api/v1/editor/sessions/:id/redo
func (h *EditorHandlers) PostRedo(c *gin.Context) {
	view, applied, err := h.editorService.Redo(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"applied": applied, "session": view})
}

// PostSave handles POST /api/v1/editor/sessions/:id/save
func (h *EditorHandlers) PostSave(c *gin.Context) {
	sessionID := c.Param("id")
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_save_request", sessionID)
	defer marker.Complete()

	var req SaveRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		marker.SetSuccess(false)
		return
	}

	doc, err := h.editorService.Save(c.Request.Context(), sessionID, req.Title, req.Slug)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.Perf().Info("Performance for PostSave request", "duration", time.Since(start), "sessionId", sessionID, "success", true)
	c.JSON(http.StatusOK, gin.H{"document": doc.Summary()})
}

// GetRender handles GET /api/v1/editor/sessions/:id/render. The mode query
// parameter selects preview (default) or publish; page=true returns a full
// HTML document instead of JSON.
func (h *EditorHandlers) GetRender(c *gin.Context) {
	sessionID := c.Param("id")
	marker := h.perfTracker.StartOperation("get_render_request", sessionID)
	defer marker.Complete()

	mode, err := templates.ParseMode(c.Query("mode"))
	if err != nil {
		marker.SetSuccess(false)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	bp, err := parseBreakpoint(c.Query("breakpoint"))
	if err != nil {
		marker.SetSuccess(false)
		respondError(c, err)
		return
	}

	result, err := h.editorService.Render(sessionID, templates.Options{Mode: mode, Breakpoint: bp})
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}
	marker.SetSuccess(true)

	if c.Query("page") == "true" {
		view, err := h.editorService.GetState(sessionID)
		if err != nil {
			respondError(c, err)
			return
		}
		page, err := result.Page(view.Document.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
		return
	}
	c.JSON(http.StatusOK, result)
}

// respondView returns a writer for the common (view, err) result
func (h *EditorHandlers) respondView(c *gin.Context, operation string) func(*services.SessionView, error) {
	return func(view *services.SessionView, err error) {
		if err != nil {
			h.logger.WithContext(logging.ChannelEditor, c.Request.Context()).Debug("Editor request failed",
				"operation", operation, "sessionId", c.Param("id"), "error", err.Error())
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return false
	}
	return true
}

// parseBreakpoint reads an optional breakpoint, defaulting to desktop
func parseBreakpoint(raw string) (pagetree.Breakpoint, error) {
	if raw == "" {
		return pagetree.BreakpointDesktop, nil
	}
	bp, err := pagetree.ParseBreakpoint(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q", treestore.ErrUnknownBreakpoint, raw)
	}
	return bp, nil
}
