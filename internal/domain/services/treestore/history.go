package treestore

import (
	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

// change records the prior value of everything a mutation touches so that
// the mutation can be undone as a single step
type change struct {
	store *Store
	snap  pagetree.Snapshot
}

func (s *Store) begin(label string) *change {
	return &change{
		store: s,
		snap: pagetree.Snapshot{
			Label:      label,
			Nodes:      make(map[string]*pagetree.Node),
			RootNodeID: s.state.RootNodeID,
		},
	}
}

// touch must be called before a node is modified, created or removed
func (c *change) touch(id string) {
	if _, recorded := c.snap.Nodes[id]; recorded {
		return
	}
	c.snap.Nodes[id] = c.store.state.Nodes[id].Clone()
}

// reindex rewrites orderIndex of the parent's children to match their
// position, touching only the ones that change
func (c *change) reindex(parent *pagetree.Node) {
	for i, childID := range parent.Children {
		child, ok := c.store.state.Nodes[childID]
		if !ok || child.OrderIndex == i {
			continue
		}
		c.touch(childID)
		child.OrderIndex = i
	}
}

func (c *change) commit() {
	s := c.store
	s.state.History.Past = append(s.state.History.Past, c.snap)
	if over := len(s.state.History.Past) - s.historyLimit; s.historyLimit > 0 && over > 0 {
		s.state.History.Past = append([]pagetree.Snapshot(nil), s.state.History.Past[over:]...)
	}
	s.state.History.Future = nil
	s.state.IsDirty = true
	s.clearDanglingPointers()
}

// capture reads the current value of every node the snapshot covers
func (s *Store) capture(snap pagetree.Snapshot) pagetree.Snapshot {
	inverse := pagetree.Snapshot{
		Label:      snap.Label,
		Nodes:      make(map[string]*pagetree.Node, len(snap.Nodes)),
		RootNodeID: s.state.RootNodeID,
	}
	for id := range snap.Nodes {
		inverse.Nodes[id] = s.state.Nodes[id].Clone()
	}
	return inverse
}

func (s *Store) apply(snap pagetree.Snapshot) {
	for id, n := range snap.Nodes {
		if n == nil {
			delete(s.state.Nodes, id)
			continue
		}
		s.state.Nodes[id] = n.Clone()
	}
	s.state.RootNodeID = snap.RootNodeID
}

// Undo reverts the most recent mutation. It returns false when there is
// nothing to undo.
func (s *Store) Undo() bool {
	past := s.state.History.Past
	if len(past) == 0 {
		return false
	}
	snap := past[len(past)-1]
	s.state.History.Past = past[:len(past)-1]

	s.state.History.Future = append(s.state.History.Future, s.capture(snap))
	s.apply(snap)
	s.state.IsDirty = true
	s.clearDanglingPointers()
	return true
}

// Redo reapplies the most recently undone mutation. It returns false when
// there is nothing to redo.
func (s *Store) Redo() bool {
	future := s.state.History.Future
	if len(future) == 0 {
		return false
	}
	snap := future[len(future)-1]
	s.state.History.Future = future[:len(future)-1]

	s.state.History.Past = append(s.state.History.Past, s.capture(snap))
	s.apply(snap)
	s.state.IsDirty = true
	s.clearDanglingPointers()
	return true
}

// CanUndo reports whether Undo would change the state
func (s *Store) CanUndo() bool { return len(s.state.History.Past) > 0 }

// CanRedo reports whether Redo would change the state
func (s *Store) CanRedo() bool { return len(s.state.History.Future) > 0 }

// HistoryDepth returns the number of undoable and redoable steps
func (s *Store) HistoryDepth() (past, future int) {
	return len(s.state.History.Past), len(s.state.History.Future)
}

// NextUndoLabel names the mutation Undo would revert
func (s *Store) NextUndoLabel() string {
	if past := s.state.History.Past; len(past) > 0 {
		return past[len(past)-1].Label
	}
	return ""
}

func (s *Store) clearDanglingPointers() {
	if _, ok := s.state.Nodes[s.state.SelectedNodeID]; !ok {
		s.state.SelectedNodeID = ""
	}
	if _, ok := s.state.Nodes[s.state.HoveredNodeID]; !ok {
		s.state.HoveredNodeID = ""
	}
}
