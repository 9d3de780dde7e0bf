// Package treestore owns the page tree of one editing session and exposes
// the only sanctioned way to mutate it. Every mutation is atomic: it either
// applies fully, recording a single undo step, or is rejected untouched.
//
// A Store is not safe for concurrent use; callers serialise access.
package treestore

import (
	"fmt"
	"reflect"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/oklog/ulid/v2"
)

// DefaultHistoryLimit bounds the undo log when no limit is configured
const DefaultHistoryLimit = 100

// Option configures a Store
type Option func(*Store)

// WithHistoryLimit caps the number of undo steps kept; zero or less keeps all
func WithHistoryLimit(limit int) Option {
	return func(s *Store) { s.historyLimit = limit }
}

// WithIDGenerator replaces the ULID generator used for new node ids
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// Store holds one PageTreeState
type Store struct {
	state        *pagetree.PageTreeState
	historyLimit int
	newID        func() string
}

// New creates an empty store
func New(opts ...Option) *Store {
	s := &Store{
		state:        pagetree.NewPageTreeState(),
		historyLimit: DefaultHistoryLimit,
		newID:        func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadTree replaces the whole state with the given nodes. The input is
// validated first and rejected with a *ValidationError if malformed.
// orderIndex values are rebuilt from each children list. History, selection,
// hover and the dirty flag are reset.
func (s *Store) LoadTree(nodes []*pagetree.Node, rootNodeID string) error {
	byID := make(map[string]*pagetree.Node, len(nodes))
	for _, n := range nodes {
		if n == nil {
			return newValidationError(fmt.Errorf("nil node in input"))
		}
		if _, dup := byID[n.ID]; dup {
			return newValidationError(fmt.Errorf("duplicate node id %s", n.ID))
		}
		c := n.Clone()
		if c.Props == nil && c.Type.IsValid() {
			c.Props, _ = pagetree.NewProps(c.Type)
		}
		c.Styles.Normalize()
		byID[n.ID] = c
	}

	if err := Validate(byID, rootNodeID, false); err != nil {
		return err
	}

	for _, n := range byID {
		for i, childID := range n.Children {
			byID[childID].OrderIndex = i
		}
	}
	if root, ok := byID[rootNodeID]; ok {
		root.OrderIndex = 0
	}

	s.state = &pagetree.PageTreeState{
		Nodes:      byID,
		RootNodeID: rootNodeID,
	}
	return nil
}

// State returns a deep copy of the current state
func (s *Store) State() *pagetree.PageTreeState {
	return s.state.Clone()
}

// Tree returns a deep copy of the state without its history, for callers
// that only read nodes and pointers
func (s *Store) Tree() *pagetree.PageTreeState {
	return s.state.CloneTree()
}

// Node returns a copy of the node with the given id
func (s *Store) Node(id string) (*pagetree.Node, bool) {
	n, ok := s.state.Nodes[id]
	if !ok {
		return nil, false
	}
	return n.Clone(), true
}

// RootNodeID returns the id of the root, empty for an empty tree
func (s *Store) RootNodeID() string { return s.state.RootNodeID }

// SelectedNodeID returns the selected node id, empty when none
func (s *Store) SelectedNodeID() string { return s.state.SelectedNodeID }

// HoveredNodeID returns the hovered node id, empty when none
func (s *Store) HoveredNodeID() string { return s.state.HoveredNodeID }

// IsDirty reports whether there are changes since the last load or save
func (s *Store) IsDirty() bool { return s.state.IsDirty }

// MarkClean clears the dirty flag after a successful save
func (s *Store) MarkClean() { s.state.IsDirty = false }

// Len returns the number of nodes in the tree
func (s *Store) Len() int { return len(s.state.Nodes) }

// Children returns the ordered child ids of a node
func (s *Store) Children(id string) []string {
	n, ok := s.state.Nodes[id]
	if !ok {
		return nil
	}
	return append([]string{}, n.Children...)
}

// Ancestors returns the ids from the node's parent up to the root
func (s *Store) Ancestors(id string) []string {
	var out []string
	n, ok := s.state.Nodes[id]
	for ok && n.ParentID != "" {
		out = append(out, n.ParentID)
		if len(out) > len(s.state.Nodes) {
			break
		}
		n, ok = s.state.Nodes[n.ParentID]
	}
	return out
}

// CheckInvariants validates the current tree, including orderIndex
func (s *Store) CheckInvariants() error {
	return Validate(s.state.Nodes, s.state.RootNodeID, true)
}

// SelectNode sets the selection pointer. An empty id clears it; an unknown
// id is ignored. Selection is not recorded in history.
func (s *Store) SelectNode(id string) {
	if id == "" {
		s.state.SelectedNodeID = ""
		return
	}
	if _, ok := s.state.Nodes[id]; ok {
		s.state.SelectedNodeID = id
	}
}

// HoverNode sets the hover pointer with the same rules as SelectNode
func (s *Store) HoverNode(id string) {
	if id == "" {
		s.state.HoveredNodeID = ""
		return
	}
	if _, ok := s.state.Nodes[id]; ok {
		s.state.HoveredNodeID = id
	}
}

// UpdateNodeStyles shallow-merges partial into the node's style layer for
// the breakpoint. An unknown node id is a no-op.
func (s *Store) UpdateNodeStyles(id string, bp pagetree.Breakpoint, partial pagetree.StyleMap) error {
	if !bp.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownBreakpoint, bp)
	}
	n, ok := s.state.Nodes[id]
	if !ok {
		return nil
	}

	current := n.Styles.Layer(bp)
	changed := false
	for k, v := range partial {
		if old, exists := current[k]; !exists || old != v {
			changed = true
			break
		}
	}
	if !changed {
		return nil
	}

	c := s.begin("update styles")
	c.touch(id)
	n.Styles.SetLayer(bp, current.Merge(partial))
	c.commit()
	return nil
}

// RemoveNodeStyles deletes keys from the node's style layer for the
// breakpoint. An override layer left empty becomes absent.
func (s *Store) RemoveNodeStyles(id string, bp pagetree.Breakpoint, keys ...string) error {
	if !bp.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownBreakpoint, bp)
	}
	n, ok := s.state.Nodes[id]
	if !ok {
		return nil
	}

	current := n.Styles.Layer(bp)
	next := current.Clone()
	removed := false
	for _, k := range keys {
		if _, exists := next[k]; exists {
			delete(next, k)
			removed = true
		}
	}
	if !removed {
		return nil
	}

	c := s.begin("remove styles")
	c.touch(id)
	n.Styles.SetLayer(bp, next)
	c.commit()
	return nil
}

// UpdateNodeMeta sets the sizing hints for a breakpoint. Empty fields in
// meta leave the stored value untouched.
func (s *Store) UpdateNodeMeta(id string, bp pagetree.Breakpoint, meta pagetree.SizingMeta) error {
	if err := validateMeta(bp, meta); err != nil {
		return err
	}
	n, ok := s.state.Nodes[id]
	if !ok {
		return nil
	}

	current := n.Styles.Meta[bp]
	next := current
	if meta.WidthMode != "" {
		next.WidthMode = meta.WidthMode
	}
	if meta.HeightMode != "" {
		next.HeightMode = meta.HeightMode
	}
	if next == current {
		return nil
	}

	c := s.begin("update sizing")
	c.touch(id)
	if n.Styles.Meta == nil {
		n.Styles.Meta = make(map[pagetree.Breakpoint]pagetree.SizingMeta)
	}
	n.Styles.Meta[bp] = next
	c.commit()
	return nil
}

func validateMeta(bp pagetree.Breakpoint, meta pagetree.SizingMeta) error {
	if !bp.IsValid() {
		return fmt.Errorf("%w: %q", ErrUnknownBreakpoint, bp)
	}
	if meta.WidthMode != "" && !meta.WidthMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSizing, meta.WidthMode)
	}
	if meta.HeightMode != "" && !meta.HeightMode.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidSizing, meta.HeightMode)
	}
	return nil
}

// UpdateNodeProps shallow-merges partial into the node's typed props. An
// unknown node id or a merge that changes nothing is a no-op; keys or values
// the props variant cannot hold are rejected with ErrInvalidProps.
func (s *Store) UpdateNodeProps(id string, partial map[string]any) error {
	n, ok := s.state.Nodes[id]
	if !ok || len(partial) == 0 {
		return nil
	}
	props := n.Props
	if props == nil {
		var err error
		if props, err = pagetree.NewProps(n.Type); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidProps, err)
		}
	}
	merged, err := pagetree.MergeProps(props, partial)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidProps, err)
	}
	if reflect.DeepEqual(merged, props) {
		return nil
	}

	c := s.begin("update props")
	c.touch(id)
	n.Props = merged
	c.commit()
	return nil
}

// SetLocked toggles structural protection on a node
func (s *Store) SetLocked(id string, locked bool) error {
	n, ok := s.state.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if n.Locked == locked {
		return nil
	}
	label := "unlock node"
	if locked {
		label = "lock node"
	}
	c := s.begin(label)
	c.touch(id)
	n.Locked = locked
	c.commit()
	return nil
}
