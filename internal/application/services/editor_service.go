// Package services provides application-level services that orchestrate
// editing sessions, stored documents and authentication.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/repositories"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/tailwind"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/caching/stores"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/media"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/messaging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/persistence/document"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/starters"
	"github.com/AtRiskMedia/pagetree-go/internal/presentation/templates"
)

var (
	ErrSessionNotFound  = errors.New("editing session not found")
	ErrDocumentNotFound = errors.New("document not found")
	ErrSaveInProgress   = errors.New("a save is already running for this session")
	ErrEmptyTree        = errors.New("cannot save an empty tree")
	ErrNotImageNode     = errors.New("node does not accept an image")
)

// DefaultStarter is opened when neither a document nor a starter is named
const DefaultStarter = "blank"

// SessionView is the state of an editing session as returned to clients
type SessionView struct {
	SessionID     string                  `json:"sessionId"`
	Document      stores.DocumentMeta     `json:"document"`
	State         *pagetree.PageTreeState `json:"state"`
	CanUndo       bool                    `json:"canUndo"`
	CanRedo       bool                    `json:"canRedo"`
	UndoDepth     int                     `json:"undoDepth"`
	RedoDepth     int                     `json:"redoDepth"`
	NextUndoLabel string                  `json:"nextUndoLabel,omitempty"`
}

// NodeSpec describes a node to insert. An empty ID is generated.
type NodeSpec struct {
	ID     string                     `json:"id,omitempty"`
	Type   string                     `json:"type"`
	Props  map[string]any             `json:"props,omitempty"`
	Styles *pagetree.ResponsiveStyles `json:"styles,omitempty"`
}

// EditorService runs editing sessions: each session owns a tree store whose
// mutations are serialised and broadcast to the session's websocket clients
type EditorService struct {
	sessions     *stores.SessionStore
	documents    repositories.PageDocumentRepository
	starters     *starters.Provider
	compiler     *tailwind.Compiler
	renderer     *templates.Renderer
	images       *media.ImageProcessor
	broadcaster  messaging.Broadcaster
	saveLock     *caching.SaveLock
	historyLimit int
	logger       *logging.ChanneledLogger
	perfTracker  *performance.Tracker
	now          func() time.Time
}

// NewEditorService creates the editor service
func NewEditorService(
	sessions *stores.SessionStore,
	documents repositories.PageDocumentRepository,
	starterProvider *starters.Provider,
	compiler *tailwind.Compiler,
	renderer *templates.Renderer,
	images *media.ImageProcessor,
	broadcaster messaging.Broadcaster,
	historyLimit int,
	logger *logging.ChanneledLogger,
	perfTracker *performance.Tracker,
) *EditorService {
	if broadcaster == nil {
		broadcaster = messaging.NopBroadcaster{}
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	if perfTracker == nil {
		perfTracker = performance.NewTracker(nil, logger.Perf())
	}
	return &EditorService{
		sessions:     sessions,
		documents:    documents,
		starters:     starterProvider,
		compiler:     compiler,
		renderer:     renderer,
		images:       images,
		broadcaster:  broadcaster,
		saveLock:     caching.NewSaveLock(),
		historyLimit: historyLimit,
		logger:       logger,
		perfTracker:  perfTracker,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// OpenSession starts a session on a stored document, or on a starter when
// documentID is empty. Nothing is registered when loading fails.
func (s *EditorService) OpenSession(ctx context.Context, documentID, starterName string) (*SessionView, error) {
	marker := s.perfTracker.StartOperation("editor:open_session", documentID)
	defer marker.Complete()

	store := treestore.New(treestore.WithHistoryLimit(s.historyLimit), treestore.WithIDGenerator(security.GenerateULID))
	var meta stores.DocumentMeta

	if documentID != "" {
		stored, err := s.documents.FindByID(ctx, documentID)
		if err != nil {
			marker.SetError(err)
			return nil, fmt.Errorf("failed to load document %s: %w", documentID, err)
		}
		if stored == nil {
			marker.SetSuccess(false)
			return nil, fmt.Errorf("%w: %s", ErrDocumentNotFound, documentID)
		}
		doc, err := document.Decode(stored.Body)
		if err != nil {
			marker.SetError(err)
			return nil, fmt.Errorf("failed to decode document %s: %w", documentID, err)
		}
		nodes, root, err := doc.ToTree()
		if err != nil {
			marker.SetError(err)
			return nil, fmt.Errorf("failed to read document %s: %w", documentID, err)
		}
		if err := store.LoadTree(nodes, root); err != nil {
			marker.SetError(err)
			s.logger.Editor().Warn("Stored document failed validation", "documentId", documentID, "error", err.Error())
			return nil, err
		}
		meta = stores.DocumentMeta{DocumentID: stored.ID, Slug: stored.Slug, Title: stored.Title}
	} else {
		if starterName == "" {
			starterName = DefaultStarter
		}
		starter, err := s.starters.Load(starterName)
		if err != nil {
			marker.SetError(err)
			return nil, err
		}
		if err := store.LoadTree(starter.Nodes, starter.RootNodeID); err != nil {
			marker.SetError(err)
			return nil, fmt.Errorf("failed to load starter %s: %w", starterName, err)
		}
		meta = stores.DocumentMeta{Title: starter.Title}
	}

	session := stores.NewEditorSession(security.GenerateULID(), store, meta)
	if err := s.sessions.Add(session); err != nil {
		marker.SetError(err)
		return nil, err
	}

	s.logger.Editor().Info("Editing session opened", "sessionId", session.ID, "documentId", meta.DocumentID,
		"starter", starterName, "nodes", store.Len())
	marker.SetSuccess(true)
	return s.GetState(session.ID)
}

// CloseSession discards a session and disconnects its clients
func (s *EditorService) CloseSession(sessionID string) error {
	if !s.sessions.Remove(sessionID) {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	s.broadcaster.CloseSession(sessionID)
	s.logger.Editor().Info("Editing session closed", "sessionId", sessionID)
	return nil
}

// HasSession reports whether the session is live
func (s *EditorService) HasSession(sessionID string) bool {
	_, ok := s.sessions.Get(sessionID)
	return ok
}

// GetState returns a snapshot of the session
func (s *EditorService) GetState(sessionID string) (*SessionView, error) {
	var view *SessionView
	err := s.with(sessionID, func(store *treestore.Store, meta *stores.DocumentMeta) error {
		view = snapshot(sessionID, store, meta)
		return nil
	})
	return view, err
}

// SelectNode moves the selection pointer
func (s *EditorService) SelectNode(sessionID, nodeID string) (*SessionView, error) {
	return s.mutate(sessionID, "select", nodeID, func(store *treestore.Store) error {
		store.SelectNode(nodeID)
		return nil
	})
}

// HoverNode moves the hover pointer
func (s *EditorService) HoverNode(sessionID, nodeID string) (*SessionView, error) {
	return s.mutate(sessionID, "hover", nodeID, func(store *treestore.Store) error {
		store.HoverNode(nodeID)
		return nil
	})
}

// UpdateNodeStyles merges partial into one breakpoint layer
func (s *EditorService) UpdateNodeStyles(sessionID, nodeID string, bp pagetree.Breakpoint, partial pagetree.StyleMap) (*SessionView, error) {
	return s.mutate(sessionID, "update_styles", nodeID, func(store *treestore.Store) error {
		return store.UpdateNodeStyles(nodeID, bp, partial)
	})
}

// RemoveNodeStyles deletes keys from one breakpoint layer
func (s *EditorService) RemoveNodeStyles(sessionID, nodeID string, bp pagetree.Breakpoint, keys []string) (*SessionView, error) {
	return s.mutate(sessionID, "remove_styles", nodeID, func(store *treestore.Store) error {
		return store.RemoveNodeStyles(nodeID, bp, keys...)
	})
}

// UpdateNodeMeta sets the sizing hints of one breakpoint
func (s *EditorService) UpdateNodeMeta(sessionID, nodeID string, bp pagetree.Breakpoint, meta pagetree.SizingMeta) (*SessionView, error) {
	return s.mutate(sessionID, "update_meta", nodeID, func(store *treestore.Store) error {
		return store.UpdateNodeMeta(nodeID, bp, meta)
	})
}

// UpdateNodeProps merges partial into the node's props
func (s *EditorService) UpdateNodeProps(sessionID, nodeID string, partial map[string]any) (*SessionView, error) {
	return s.mutate(sessionID, "update_props", nodeID, func(store *treestore.Store) error {
		return store.UpdateNodeProps(nodeID, partial)
	})
}

// SetLocked toggles structural protection
func (s *EditorService) SetLocked(sessionID, nodeID string, locked bool) (*SessionView, error) {
	return s.mutate(sessionID, "set_locked", nodeID, func(store *treestore.Store) error {
		return store.SetLocked(nodeID, locked)
	})
}

// InsertNode builds a node from spec and inserts it under parentID
func (s *EditorService) InsertNode(sessionID string, spec NodeSpec, parentID string, index int) (string, *SessionView, error) {
	node, err := buildNode(spec)
	if err != nil {
		return "", nil, err
	}
	var newID string
	view, err := s.mutate(sessionID, "insert", spec.ID, func(store *treestore.Store) error {
		id, err := store.InsertNode(node, parentID, index)
		newID = id
		return err
	})
	return newID, view, err
}

// MoveNode reparents or reorders a node
func (s *EditorService) MoveNode(sessionID, nodeID, parentID string, index int) (*SessionView, error) {
	return s.mutate(sessionID, "move", nodeID, func(store *treestore.Store) error {
		return store.MoveNode(nodeID, parentID, index)
	})
}

// DeleteNode removes a node and its subtree
func (s *EditorService) DeleteNode(sessionID, nodeID string) (*SessionView, error) {
	return s.mutate(sessionID, "delete", nodeID, func(store *treestore.Store) error {
		return store.DeleteNode(nodeID)
	})
}

// DuplicateNode copies a subtree next to the original
func (s *EditorService) DuplicateNode(sessionID, nodeID string) (string, *SessionView, error) {
	var newID string
	view, err := s.mutate(sessionID, "duplicate", nodeID, func(store *treestore.Store) error {
		id, err := store.DuplicateNode(nodeID)
		newID = id
		return err
	})
	return newID, view, err
}

// Undo reverts the most recent change. applied is false when there was
// nothing to undo.
func (s *EditorService) Undo(sessionID string) (view *SessionView, applied bool, err error) {
	view, err = s.mutate(sessionID, "undo", "", func(store *treestore.Store) error {
		applied = store.Undo()
		return nil
	})
	return view, applied, err
}

// Redo reapplies the most recently undone change
func (s *EditorService) Redo(sessionID string) (view *SessionView, applied bool, err error) {
	view, err = s.mutate(sessionID, "redo", "", func(store *treestore.Store) error {
		applied = store.Redo()
		return nil
	})
	return view, applied, err
}

// with runs fn under the session lock
func (s *EditorService) with(sessionID string, fn func(*treestore.Store, *stores.DocumentMeta) error) error {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return session.Do(fn)
}

// mutate applies fn under the session lock, then notifies the session's
// clients. A failed mutation leaves the tree untouched and is not broadcast.
func (s *EditorService) mutate(sessionID, operation, nodeID string, fn func(*treestore.Store) error) (*SessionView, error) {
	marker := s.perfTracker.StartOperation("editor:"+operation, sessionID)
	defer marker.Complete()
	start := time.Now()

	var view *SessionView
	err := s.with(sessionID, func(store *treestore.Store, meta *stores.DocumentMeta) error {
		if err := fn(store); err != nil {
			return err
		}
		view = snapshot(sessionID, store, meta)
		return nil
	})
	if err != nil {
		marker.SetError(err)
		s.logger.Editor().Warn("Editor operation rejected", "sessionId", sessionID, "operation", operation,
			"nodeId", nodeID, "error", err.Error())
		return nil, err
	}

	s.logger.History().Debug("Editor operation applied", "sessionId", sessionID, "operation", operation,
		"nodeId", nodeID, "undoDepth", view.UndoDepth, "redoDepth", view.RedoDepth, "duration", time.Since(start))
	s.broadcaster.Broadcast(messaging.TreeEvent{
		Type:      messaging.EventTreeChanged,
		SessionID: sessionID,
		Operation: operation,
		NodeID:    nodeID,
		IsDirty:   view.State.IsDirty,
		UndoDepth: view.UndoDepth,
		RedoDepth: view.RedoDepth,
		Timestamp: s.now().UnixMilli(),
	})
	marker.SetSuccess(true)
	return view, nil
}

func snapshot(sessionID string, store *treestore.Store, meta *stores.DocumentMeta) *SessionView {
	past, future := store.HistoryDepth()
	return &SessionView{
		SessionID:     sessionID,
		Document:      *meta,
		State:         store.Tree(),
		CanUndo:       past > 0,
		CanRedo:       future > 0,
		UndoDepth:     past,
		RedoDepth:     future,
		NextUndoLabel: store.NextUndoLabel(),
	}
}

func buildNode(spec NodeSpec) (*pagetree.Node, error) {
	t, err := pagetree.ParseNodeType(spec.Type)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", treestore.ErrInvalidNode, err)
	}
	node, err := pagetree.NewNode(spec.ID, t)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", treestore.ErrInvalidNode, err)
	}
	if len(spec.Props) > 0 {
		props, err := pagetree.MergeProps(node.Props, spec.Props)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", treestore.ErrInvalidProps, err)
		}
		node.Props = props
	}
	if spec.Styles != nil {
		node.Styles = spec.Styles.Clone()
		node.Styles.Normalize()
	}
	return node, nil
}
