// Package responsive resolves the effective styles of a node for a
// breakpoint by cascading the override layer over the desktop base.
package responsive

import (
	"sort"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

// Resolve returns the effective style map of node at bp. Desktop is returned
// as-is (copied); tablet and mobile overlay only their own layer on top of
// desktop. Mobile never inherits from tablet. Unknown breakpoints resolve as
// desktop. The result is always a fresh map.
func Resolve(node *pagetree.Node, bp pagetree.Breakpoint) pagetree.StyleMap {
	if node == nil {
		return pagetree.StyleMap{}
	}
	base := node.Styles.Desktop
	switch bp {
	case pagetree.BreakpointTablet, pagetree.BreakpointMobile:
		return base.Merge(node.Styles.Layer(bp))
	default:
		return base.Merge(nil)
	}
}

// ResolveMeta returns the effective sizing hints of node at bp using the
// same two-tier cascade, field by field, defaulting to auto.
func ResolveMeta(node *pagetree.Node, bp pagetree.Breakpoint) pagetree.SizingMeta {
	out := pagetree.DefaultSizingMeta()
	if node == nil || node.Styles.Meta == nil {
		return out
	}
	apply := func(m pagetree.SizingMeta) {
		if m.WidthMode != "" {
			out.WidthMode = m.WidthMode
		}
		if m.HeightMode != "" {
			out.HeightMode = m.HeightMode
		}
	}
	if desktop, ok := node.Styles.Meta[pagetree.BreakpointDesktop]; ok {
		apply(desktop)
	}
	if bp == pagetree.BreakpointTablet || bp == pagetree.BreakpointMobile {
		if override, ok := node.Styles.Meta[bp]; ok {
			apply(override)
		}
	}
	return out
}

// ResolveTree resolves every node of the state at bp, keyed by node id
func ResolveTree(state *pagetree.PageTreeState, bp pagetree.Breakpoint) map[string]pagetree.StyleMap {
	out := make(map[string]pagetree.StyleMap, len(state.Nodes))
	for id, n := range state.Nodes {
		out[id] = Resolve(n, bp)
	}
	return out
}

// Overrides lists the keys a breakpoint layer sets explicitly, which the
// editor uses to badge overridden properties
func Overrides(node *pagetree.Node, bp pagetree.Breakpoint) []string {
	if node == nil || bp == pagetree.BreakpointDesktop {
		return nil
	}
	layer := node.Styles.Layer(bp)
	keys := make([]string, 0, len(layer))
	for k := range layer {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
