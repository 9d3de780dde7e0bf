package services

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/content"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/responsive"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/tailwind"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/templates"
)

const untitledPage = "Untitled page"

// NodeResolution is the effective styling of one node at one breakpoint
type NodeResolution struct {
	NodeID       string                `json:"nodeId"`
	Breakpoint   pagetree.Breakpoint   `json:"breakpoint"`
	Styles       pagetree.StyleMap     `json:"styles"`
	Meta         pagetree.SizingMeta   `json:"meta"`
	Overrides    []string              `json:"overrides"`
	Presentation tailwind.Presentation `json:"presentation"`
}

// Save writes the session's tree to its document, creating the document on
// first save. A failed write leaves the session dirty.
func (s *EditorService) Save(ctx context.Context, sessionID, title, slug string) (*content.PageDocument, error) {
	if !s.saveLock.TryLock(sessionID) {
		return nil, ErrSaveInProgress
	}
	defer s.saveLock.Unlock(sessionID)

	marker := s.perfTracker.StartOperation("editor:save", sessionID)
	defer marker.Complete()

	var saved *content.PageDocument
	var undoDepth, redoDepth int
	err := s.with(sessionID, func(store *treestore.Store, meta *stores.DocumentMeta) error {
		state := store.Tree()
		if state.RootNodeID == "" {
			return ErrEmptyTree
		}
		doc, err := document.FromState(state, s.now())
		if err != nil {
			return fmt.Errorf("failed to build document: %w", err)
		}
		body, err := doc.Encode()
		if err != nil {
			return fmt.Errorf("failed to encode document: %w", err)
		}

		next := *meta
		if title = strings.TrimSpace(title); title != "" {
			next.Title = title
		}
		if next.Title == "" {
			next.Title = untitledPage
		}
		if slug = Slugify(slug); slug != "" {
			next.Slug = slug
		}
		if next.Slug == "" {
			next.Slug = Slugify(next.Title)
		}
		if next.DocumentID == "" {
			next.DocumentID = security.GenerateULID()
		}

		pd := &content.PageDocument{
			ID:      next.DocumentID,
			Slug:    next.Slug,
			Title:   next.Title,
			Version: doc.Version,
			Body:    body,
		}
		if existing, err := s.documents.FindByID(ctx, pd.ID); err == nil && existing != nil {
			pd.Created = existing.Created
		}
		if err := s.documents.Save(ctx, pd); err != nil {
			return err
		}

		*meta = next
		store.MarkClean()
		undoDepth, redoDepth = store.HistoryDepth()
		saved = pd.Clone()
		return nil
	})
	if err != nil {
		marker.SetError(err)
		s.logger.Editor().Error("Failed to save session", "sessionId", sessionID, "error", err.Error())
		return nil, err
	}

	s.logger.Editor().Info("Session saved", "sessionId", sessionID, "documentId", saved.ID, "slug", saved.Slug,
		"bytes", len(saved.Body))
	s.broadcaster.Broadcast(messaging.TreeEvent{
		Type:      messaging.EventTreeChanged,
		SessionID: sessionID,
		Operation: "save",
		UndoDepth: undoDepth,
		RedoDepth: redoDepth,
		Timestamp: s.now().UnixMilli(),
	})
	marker.SetSuccess(true)
	return saved, nil
}

// Render renders the session's current tree
func (s *EditorService) Render(sessionID string, opts templates.Options) (*templates.Result, error) {
	var state *pagetree.PageTreeState
	var title string
	err := s.with(sessionID, func(store *treestore.Store, meta *stores.DocumentMeta) error {
		state = store.Tree()
		title = meta.Title
		return nil
	})
	if err != nil {
		return nil, err
	}
	if opts.Title == "" {
		opts.Title = title
	}
	return s.renderer.Render(state, opts)
}

// ResolveNode returns the effective styles of a node at bp together with
// the compiled classes and the keys the breakpoint overrides
func (s *EditorService) ResolveNode(sessionID, nodeID string, bp pagetree.Breakpoint) (*NodeResolution, error) {
	if bp == "" {
		bp = pagetree.BreakpointDesktop
	}
	if !bp.IsValid() {
		return nil, fmt.Errorf("%w: %q", treestore.ErrUnknownBreakpoint, bp)
	}
	node, err := s.node(sessionID, nodeID)
	if err != nil {
		return nil, err
	}
	return &NodeResolution{
		NodeID:       nodeID,
		Breakpoint:   bp,
		Styles:       responsive.Resolve(node, bp),
		Meta:         responsive.ResolveMeta(node, bp),
		Overrides:    responsive.Overrides(node, bp),
		Presentation: s.compiler.CompileNode(node, bp),
	}, nil
}

// CompileNode compiles a node for every breakpoint at once
func (s *EditorService) CompileNode(sessionID, nodeID string) (*tailwind.ResponsivePresentation, error) {
	node, err := s.node(sessionID, nodeID)
	if err != nil {
		return nil, err
	}
	out := s.compiler.CompileResponsive(node)
	return &out, nil
}

// UploadImage converts data to a data URL and stores it on an Image node's
// src or a Navbar's logo. The tree is not touched when processing fails.
func (s *EditorService) UploadImage(ctx context.Context, sessionID, nodeID string, data []byte) (*SessionView, error) {
	node, err := s.node(sessionID, nodeID)
	if err != nil {
		return nil, err
	}
	if node.Type != pagetree.NodeTypeImage && node.Type != pagetree.NodeTypeNavbar {
		return nil, fmt.Errorf("%w: %s is a %s", ErrNotImageNode, nodeID, node.Type)
	}

	dataURL, err := s.images.ToDataURL(data)
	if err != nil {
		s.logger.Media().Warn("Image upload rejected", "sessionId", sessionID, "nodeId", nodeID, "error", err.Error())
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	partial := map[string]any{"src": dataURL}
	if node.Type == pagetree.NodeTypeNavbar {
		partial = map[string]any{"logoSrc": dataURL, "logoType": "image"}
	}
	s.logger.Media().Info("Image upload processed", "sessionId", sessionID, "nodeId", nodeID,
		"inputBytes", len(data), "dataUrlBytes", len(dataURL))
	return s.mutate(sessionID, "upload_image", nodeID, func(store *treestore.Store) error {
		if _, ok := store.Node(nodeID); !ok {
			return fmt.Errorf("%w: %s", treestore.ErrNodeNotFound, nodeID)
		}
		return store.UpdateNodeProps(nodeID, partial)
	})
}

func (s *EditorService) node(sessionID, nodeID string) (*pagetree.Node, error) {
	var node *pagetree.Node
	err := s.with(sessionID, func(store *treestore.Store, _ *stores.DocumentMeta) error {
		n, ok := store.Node(nodeID)
		if !ok {
			return fmt.Errorf("%w: %s", treestore.ErrNodeNotFound, nodeID)
		}
		node = n
		return nil
	})
	return node, err
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with hyphens
func Slugify(s string) string {
	return strings.Trim(slugInvalid.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), "-"), "-")
}
