package treestore

import (
	"fmt"
	"sort"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"go.uber.org/multierr"
)

// Validate checks the structural invariants of a node set: a single root,
// every child reference resolving, parent pointers agreeing with children
// lists, each node listed exactly once, every node reachable from the root
// and no cycles. When strictOrder is set, orderIndex must also match each
// node's position among its siblings.
func Validate(nodes map[string]*pagetree.Node, rootNodeID string, strictOrder bool) error {
	var errs error

	if len(nodes) == 0 {
		if rootNodeID != "" {
			errs = multierr.Append(errs, fmt.Errorf("root %s not found in empty tree", rootNodeID))
		}
		return wrapProblems(errs)
	}

	root, ok := nodes[rootNodeID]
	if rootNodeID == "" || !ok {
		errs = multierr.Append(errs, fmt.Errorf("root %q not found", rootNodeID))
		return wrapProblems(errs)
	}
	if root.ParentID != "" {
		errs = multierr.Append(errs, fmt.Errorf("root %s has parent %s", rootNodeID, root.ParentID))
	}

	// Stable iteration keeps error output deterministic.
	ids := make([]string, 0, len(nodes))
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	listedBy := make(map[string]string, len(nodes))
	for _, id := range ids {
		n := nodes[id]
		if n == nil {
			errs = multierr.Append(errs, fmt.Errorf("node %s is nil", id))
			continue
		}
		if n.ID != id {
			errs = multierr.Append(errs, fmt.Errorf("node keyed %s carries id %s", id, n.ID))
		}
		if !n.Type.IsValid() {
			errs = multierr.Append(errs, fmt.Errorf("node %s has unknown type %q", id, n.Type))
		} else if n.Props != nil && n.Props.NodeType() != n.Type {
			errs = multierr.Append(errs, fmt.Errorf("node %s of type %s carries %s props", id, n.Type, n.Props.NodeType()))
		}

		seen := make(map[string]bool, len(n.Children))
		for pos, childID := range n.Children {
			if seen[childID] {
				errs = multierr.Append(errs, fmt.Errorf("node %s lists child %s more than once", id, childID))
				continue
			}
			seen[childID] = true

			child, exists := nodes[childID]
			if !exists || child == nil {
				errs = multierr.Append(errs, fmt.Errorf("node %s references missing child %s", id, childID))
				continue
			}
			if prev, dup := listedBy[childID]; dup {
				errs = multierr.Append(errs, fmt.Errorf("node %s is listed by both %s and %s", childID, prev, id))
			}
			listedBy[childID] = id
			if child.ParentID != id {
				errs = multierr.Append(errs, fmt.Errorf("node %s is listed by %s but points to parent %q", childID, id, child.ParentID))
			}
			if strictOrder && child.OrderIndex != pos {
				errs = multierr.Append(errs, fmt.Errorf("node %s has orderIndex %d at position %d", childID, child.OrderIndex, pos))
			}
		}
	}

	for _, id := range ids {
		n := nodes[id]
		if n == nil || id == rootNodeID {
			continue
		}
		if n.ParentID == "" {
			errs = multierr.Append(errs, fmt.Errorf("node %s has no parent", id))
			continue
		}
		if _, ok := listedBy[id]; !ok {
			errs = multierr.Append(errs, fmt.Errorf("node %s is not listed by its parent %s", id, n.ParentID))
		}
	}

	// Walk from the root; anything unvisited is detached or sits on a cycle.
	visited := make(map[string]bool, len(nodes))
	stack := []string{rootNodeID}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[id] {
			errs = multierr.Append(errs, fmt.Errorf("cycle detected at node %s", id))
			continue
		}
		visited[id] = true
		n := nodes[id]
		if n == nil {
			continue
		}
		for _, childID := range n.Children {
			if _, ok := nodes[childID]; ok {
				stack = append(stack, childID)
			}
		}
	}
	for _, id := range ids {
		if !visited[id] {
			errs = multierr.Append(errs, fmt.Errorf("node %s is unreachable from root %s", id, rootNodeID))
		}
	}

	return wrapProblems(errs)
}

func wrapProblems(errs error) error {
	if errs == nil {
		return nil
	}
	return newValidationError(errs)
}
