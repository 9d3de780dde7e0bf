package handlers

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/application/services"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/gin-gonic/gin"
)

// StylesRequest is the body of PATCH .../styles
type StylesRequest struct {
	Breakpoint string            `json:"breakpoint"`
	Styles     map[string]string `json:"styles" binding:"required"`
}

// MetaRequest is the body of PATCH .../meta
type MetaRequest struct {
	Breakpoint string              `json:"breakpoint"`
	WidthMode  pagetree.SizingMode `json:"widthMode"`
	HeightMode pagetree.SizingMode `json:"heightMode"`
}

// LockRequest is the body of PUT .../lock
type LockRequest struct {
	Locked bool `json:"locked"`
}

// InsertRequest is the body of POST .../nodes. A missing index appends.
type InsertRequest struct {
	ParentID string            `json:"parentId"`
	Index    *int              `json:"index"`
	Node     services.NodeSpec `json:"node"`
}

// MoveRequest is the body of POST .../nodes/:nodeId/move
type MoveRequest struct {
	ParentID string `json:"parentId" binding:"required"`
	Index    *int   `json:"index"`
}

// PatchStyles handles PATCH /api/v1/editor/sessions/:id/nodes/:nodeId/styles
func (h *EditorHandlers) PatchStyles(c *gin.Context) {
	var req StylesRequest
	if !bindJSON(c, &req) {
		return
	}
	bp, err := parseBreakpoint(req.Breakpoint)
	if err != nil {
		respondError(c, err)
		return
	}
	h.respondView(c, "update_styles")(h.editorService.UpdateNodeStyles(c.Param("id"), c.Param("nodeId"), bp, pagetree.StyleMap(req.Styles)))
}

// DeleteStyles handles DELETE .../nodes/:nodeId/styles?breakpoint=&key=
func (h *EditorHandlers) DeleteStyles(c *gin.Context) {
	bp, err := parseBreakpoint(c.Query("breakpoint"))
	if err != nil {
		respondError(c, err)
		return
	}
	keys := c.QueryArray("key")
	if len(keys) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "at least one key is required"})
		return
	}
	h.respondView(c, "remove_styles")(h.editorService.RemoveNodeStyles(c.Param("id"), c.Param("nodeId"), bp, keys))
}

// PatchMeta handles PATCH .../nodes/:nodeId/meta
func (h *EditorHandlers) PatchMeta(c *gin.Context) {
	var req MetaRequest
	if !bindJSON(c, &req) {
		return
	}
	bp, err := parseBreakpoint(req.Breakpoint)
	if err != nil {
		respondError(c, err)
		return
	}
	meta := pagetree.SizingMeta{WidthMode: req.WidthMode, HeightMode: req.HeightMode}
	h.respondView(c, "update_meta")(h.editorService.UpdateNodeMeta(c.Param("id"), c.Param("nodeId"), bp, meta))
}

// PatchProps handles PATCH .../nodes/:nodeId/props; the body is a partial
// props object
func (h *EditorHandlers) PatchProps(c *gin.Context) {
	var partial map[string]any
	if !bindJSON(c, &partial) {
		return
	}
	h.respondView(c, "update_props")(h.editorService.UpdateNodeProps(c.Param("id"), c.Param("nodeId"), partial))
}

// PutLock handles PUT .../nodes/:nodeId/lock
func (h *EditorHandlers) PutLock(c *gin.Context) {
	var req LockRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondView(c, "set_locked")(h.editorService.SetLocked(c.Param("id"), c.Param("nodeId"), req.Locked))
}

// PostNode handles POST .../nodes
func (h *EditorHandlers) PostNode(c *gin.Context) {
	var req InsertRequest
	if !bindJSON(c, &req) {
		return
	}
	id, view, err := h.editorService.InsertNode(c.Param("id"), req.Node, req.ParentID, indexOrAppend(req.Index))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"nodeId": id, "session": view})
}

// PostMove handles POST .../nodes/:nodeId/move
func (h *EditorHandlers) PostMove(c *gin.Context) {
	var req MoveRequest
	if !bindJSON(c, &req) {
		return
	}
	h.respondView(c, "move")(h.editorService.MoveNode(c.Param("id"), c.Param("nodeId"), req.ParentID, indexOrAppend(req.Index)))
}

// PostDuplicate handles POST .../nodes/:nodeId/duplicate
func (h *EditorHandlers) PostDuplicate(c *gin.Context) {
	id, view, err := h.editorService.DuplicateNode(c.Param("id"), c.Param("nodeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"nodeId": id, "session": view})
}

// DeleteNode handles DELETE .../nodes/:nodeId
func (h *EditorHandlers) DeleteNode(c *gin.Context) {
	h.respondView(c, "delete")(h.editorService.DeleteNode(c.Param("id"), c.Param("nodeId")))
}

// GetResolve handles GET .../nodes/:nodeId/resolve?breakpoint=
func (h *EditorHandlers) GetResolve(c *gin.Context) {
	bp, err := parseBreakpoint(c.Query("breakpoint"))
	if err != nil {
		respondError(c, err)
		return
	}
	res, err := h.editorService.ResolveNode(c.Param("id"), c.Param("nodeId"), bp)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// GetClasses handles GET .../nodes/:nodeId/classes, the responsive class
// list of one node
func (h *EditorHandlers) GetClasses(c *gin.Context) {
	res, err := h.editorService.CompileNode(c.Param("id"), c.Param("nodeId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"classes": res.Classes, "classString": res.ClassString(), "inline": res.Inline})
}

// PostImage handles POST .../nodes/:nodeId/image as a multipart upload in
// the "file" field
func (h *EditorHandlers) PostImage(c *gin.Context) {
	sessionID, nodeID := c.Param("id"), c.Param("nodeId")
	start := time.Now()
	marker := h.perfTracker.StartOperation("post_image_request", sessionID)
	defer marker.Complete()

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		marker.SetSuccess(false)
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": media.ErrImageTooLarge.Error()})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "multipart field \"file\" is required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		marker.SetError(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return
	}

	view, err := h.editorService.UploadImage(c.Request.Context(), sessionID, nodeID, data)
	if err != nil {
		marker.SetError(err)
		respondError(c, err)
		return
	}

	marker.SetSuccess(true)
	h.logger.WithContext(logging.ChannelMedia, c.Request.Context()).Info("Image upload request completed",
		"sessionId", sessionID, "nodeId", nodeID, "filename", header.Filename, "bytes", len(data), "duration", time.Since(start))
	c.JSON(http.StatusOK, view)
}

func indexOrAppend(index *int) int {
	if index == nil {
		return -1
	}
	return *index
}
