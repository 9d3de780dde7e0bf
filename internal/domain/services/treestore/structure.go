package treestore

import (
	"fmt"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

// InsertNode adds a new leaf node under parentID at index (clamped to the
// valid range). An empty node id is generated. An empty parentID makes the
// node the root of an empty tree.
func (s *Store) InsertNode(node *pagetree.Node, parentID string, index int) (string, error) {
	if node == nil || !node.Type.IsValid() {
		return "", fmt.Errorf("%w: missing or unknown type", ErrInvalidNode)
	}
	if len(node.Children) > 0 {
		return "", fmt.Errorf("%w: only leaf nodes can be inserted", ErrInvalidNode)
	}
	if node.Props != nil && node.Props.NodeType() != node.Type {
		return "", fmt.Errorf("%w: %s props on %s node", ErrInvalidProps, node.Props.NodeType(), node.Type)
	}
	for bp, meta := range node.Styles.Meta {
		if err := validateMeta(bp, meta); err != nil {
			return "", err
		}
	}

	fresh := node.Clone()
	if fresh.ID == "" {
		fresh.ID = s.newID()
	}
	if _, exists := s.state.Nodes[fresh.ID]; exists {
		return "", fmt.Errorf("%w: %s", ErrDuplicateID, fresh.ID)
	}
	if fresh.Props == nil {
		fresh.Props, _ = pagetree.NewProps(fresh.Type)
	}
	fresh.Styles.Normalize()
	fresh.Children = []string{}

	if parentID == "" {
		if s.state.RootNodeID != "" {
			return "", ErrRootExists
		}
		c := s.begin("insert root")
		c.touch(fresh.ID)
		fresh.ParentID = ""
		fresh.OrderIndex = 0
		s.state.Nodes[fresh.ID] = fresh
		s.state.RootNodeID = fresh.ID
		c.commit()
		return fresh.ID, nil
	}

	parent, ok := s.state.Nodes[parentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %s", ErrNodeNotFound, parentID)
	}
	if parent.Locked {
		return "", fmt.Errorf("%w: parent %s", ErrLocked, parentID)
	}

	c := s.begin("insert node")
	c.touch(parentID)
	c.touch(fresh.ID)
	fresh.ParentID = parentID
	s.state.Nodes[fresh.ID] = fresh
	parent.Children = insertAt(parent.Children, fresh.ID, index)
	fresh.OrderIndex = -1
	c.reindex(parent)
	c.commit()
	return fresh.ID, nil
}

// MoveNode detaches a node from its parent and attaches it under
// newParentID at index. The index is interpreted after detaching and is
// clamped. The move is rejected when it would make the node its own
// ancestor, when the node or either parent is locked, or when the node is
// the root.
func (s *Store) MoveNode(id, newParentID string, index int) error {
	node, ok := s.state.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	newParent, ok := s.state.Nodes[newParentID]
	if !ok {
		return fmt.Errorf("%w: parent %s", ErrNodeNotFound, newParentID)
	}
	if id == s.state.RootNodeID {
		return ErrRootMove
	}
	if node.Locked {
		return fmt.Errorf("%w: %s", ErrLocked, id)
	}
	if newParent.Locked {
		return fmt.Errorf("%w: parent %s", ErrLocked, newParentID)
	}
	if id == newParentID || s.isAncestor(id, newParentID) {
		return fmt.Errorf("%w: %s into %s", ErrCycle, id, newParentID)
	}

	oldParent, ok := s.state.Nodes[node.ParentID]
	if !ok {
		return fmt.Errorf("%w: parent %s of %s", ErrNodeNotFound, node.ParentID, id)
	}
	if oldParent.Locked {
		return fmt.Errorf("%w: parent %s", ErrLocked, oldParent.ID)
	}

	if oldParent.ID == newParentID {
		next := insertAt(removeID(oldParent.Children, id), id, index)
		if sameOrder(next, oldParent.Children) {
			return nil
		}
		c := s.begin("reorder node")
		c.touch(oldParent.ID)
		oldParent.Children = next
		c.reindex(oldParent)
		c.commit()
		return nil
	}

	c := s.begin("move node")
	c.touch(oldParent.ID)
	c.touch(newParentID)
	c.touch(id)
	oldParent.Children = removeID(oldParent.Children, id)
	c.reindex(oldParent)
	newParent.Children = insertAt(newParent.Children, id, index)
	node.ParentID = newParentID
	node.OrderIndex = -1
	c.reindex(newParent)
	c.commit()
	return nil
}

// DeleteNode removes a node and all of its descendants. Selection and hover
// pointing into the removed subtree are cleared. Deleting the root empties
// the tree. The delete is rejected if any node in the subtree or the
// node's parent is locked.
func (s *Store) DeleteNode(id string) error {
	target, ok := s.state.Nodes[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if id != s.state.RootNodeID {
		if parent, ok := s.state.Nodes[target.ParentID]; ok && parent.Locked {
			return fmt.Errorf("%w: parent %s", ErrLocked, parent.ID)
		}
	}
	subtree := s.subtree(id)
	for _, sid := range subtree {
		if s.state.Nodes[sid].Locked {
			return fmt.Errorf("%w: %s", ErrLocked, sid)
		}
	}

	c := s.begin("delete node")
	node := s.state.Nodes[id]
	if id == s.state.RootNodeID {
		s.state.RootNodeID = ""
	} else if parent, ok := s.state.Nodes[node.ParentID]; ok {
		c.touch(parent.ID)
		parent.Children = removeID(parent.Children, id)
		c.reindex(parent)
	}
	for _, sid := range subtree {
		c.touch(sid)
		delete(s.state.Nodes, sid)
	}
	c.commit()
	return nil
}

// DuplicateNode deep-copies a subtree with fresh ids and inserts the copy
// immediately after the original. It returns the id of the new subtree root.
func (s *Store) DuplicateNode(id string) (string, error) {
	node, ok := s.state.Nodes[id]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	if id == s.state.RootNodeID {
		return "", ErrRootMove
	}
	parent, ok := s.state.Nodes[node.ParentID]
	if !ok {
		return "", fmt.Errorf("%w: parent %s of %s", ErrNodeNotFound, node.ParentID, id)
	}
	if parent.Locked {
		return "", fmt.Errorf("%w: parent %s", ErrLocked, parent.ID)
	}

	subtree := s.subtree(id)
	idMap := make(map[string]string, len(subtree))
	for _, sid := range subtree {
		idMap[sid] = s.newID()
	}

	c := s.begin("duplicate node")
	c.touch(parent.ID)
	for _, sid := range subtree {
		orig := s.state.Nodes[sid]
		cp := orig.Clone()
		cp.ID = idMap[sid]
		cp.Locked = false
		if sid == id {
			cp.ParentID = parent.ID
		} else {
			cp.ParentID = idMap[orig.ParentID]
		}
		for i, childID := range orig.Children {
			cp.Children[i] = idMap[childID]
		}
		c.touch(cp.ID)
		s.state.Nodes[cp.ID] = cp
	}
	parent.Children = insertAt(parent.Children, idMap[id], node.OrderIndex+1)
	s.state.Nodes[idMap[id]].OrderIndex = -1
	c.reindex(parent)
	c.commit()
	return idMap[id], nil
}

// isAncestor reports whether ancestorID appears on the parent chain of id
func (s *Store) isAncestor(ancestorID, id string) bool {
	n, ok := s.state.Nodes[id]
	for steps := 0; ok && n.ParentID != "" && steps <= len(s.state.Nodes); steps++ {
		if n.ParentID == ancestorID {
			return true
		}
		n, ok = s.state.Nodes[n.ParentID]
	}
	return false
}

// subtree returns id followed by all of its descendants, depth first
func (s *Store) subtree(id string) []string {
	var out []string
	seen := make(map[string]bool)
	stack := []string{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		n, ok := s.state.Nodes[cur]
		if !ok {
			continue
		}
		out = append(out, cur)
		for i := len(n.Children) - 1; i >= 0; i-- {
			stack = append(stack, n.Children[i])
		}
	}
	return out
}

func insertAt(ids []string, id string, index int) []string {
	if index < 0 || index > len(ids) {
		index = len(ids)
	}
	out := make([]string, 0, len(ids)+1)
	out = append(out, ids[:index]...)
	out = append(out, id)
	return append(out, ids[index:]...)
}

func removeID(ids []string, id string) []string {
	out := make([]string, 0, len(ids))
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func sameOrder(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
