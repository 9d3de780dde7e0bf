// Package document converts page trees to and from the versioned JSON
// document format used for persistence and export.
package document

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

// CurrentVersion is written by FromState. Version 1 documents named the root
// "rootId" and are still accepted.
const CurrentVersion = 2

var (
	ErrUnsupportedVersion = errors.New("unsupported document version")
	ErrMalformed          = errors.New("malformed document")
)

// Document is the persisted form of a page tree
type Document struct {
	Version    int            `json:"version"`
	Timestamp  int64          `json:"timestamp"` // unix milliseconds
	RootNodeID string         `json:"rootNodeId"`
	Nodes      []DocumentNode `json:"nodes"`
}

// DocumentNode is a node with every style layer spelled out
type DocumentNode struct {
	ID         string          `json:"id"`
	Type       string          `json:"type"`
	ParentID   string          `json:"parentId,omitempty"`
	Props      json.RawMessage `json:"props"`
	Styles     DocumentStyles  `json:"styles"`
	Children   []string        `json:"children"`
	OrderIndex int             `json:"orderIndex"`
	Locked     bool            `json:"locked,omitempty"`
}

// DocumentStyles always carries the three layers and a __meta entry per
// breakpoint. Desktop meta is filled with defaults; tablet and mobile meta
// only carry the fields they override so that reloading keeps the cascade.
type DocumentStyles struct {
	Desktop map[string]string                           `json:"desktop"`
	Tablet  map[string]string                           `json:"tablet"`
	Mobile  map[string]string                           `json:"mobile"`
	Meta    map[pagetree.Breakpoint]pagetree.SizingMeta `json:"__meta"`
}

// FromState builds a document from the tree part of a state. Nodes are
// written in depth-first order from the root.
func FromState(state *pagetree.PageTreeState, now time.Time) (*Document, error) {
	doc := &Document{
		Version:    CurrentVersion,
		Timestamp:  now.UnixMilli(),
		RootNodeID: state.RootNodeID,
		Nodes:      make([]DocumentNode, 0, len(state.Nodes)),
	}
	for _, id := range writeOrder(state) {
		n := state.Nodes[id]
		props := json.RawMessage("{}")
		if n.Props != nil {
			raw, err := json.Marshal(n.Props)
			if err != nil {
				return nil, fmt.Errorf("failed to encode props of %s: %w", id, err)
			}
			props = raw
		}
		doc.Nodes = append(doc.Nodes, DocumentNode{
			ID:         n.ID,
			Type:       string(n.Type),
			ParentID:   n.ParentID,
			Props:      props,
			Styles:     explicitStyles(n.Styles),
			Children:   append([]string{}, n.Children...),
			OrderIndex: n.OrderIndex,
			Locked:     n.Locked,
		})
	}
	return doc, nil
}

func writeOrder(state *pagetree.PageTreeState) []string {
	order := make([]string, 0, len(state.Nodes))
	seen := make(map[string]bool, len(state.Nodes))
	var walk func(id string)
	walk = func(id string) {
		n, ok := state.Nodes[id]
		if !ok || seen[id] {
			return
		}
		seen[id] = true
		order = append(order, id)
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(state.RootNodeID)

	var rest []string
	for id := range state.Nodes {
		if !seen[id] {
			rest = append(rest, id)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

func explicitStyles(s pagetree.ResponsiveStyles) DocumentStyles {
	out := DocumentStyles{
		Desktop: nonNil(s.Desktop),
		Tablet:  nonNil(s.Tablet),
		Mobile:  nonNil(s.Mobile),
		Meta:    make(map[pagetree.Breakpoint]pagetree.SizingMeta, len(pagetree.Breakpoints)),
	}
	desktop := pagetree.DefaultSizingMeta()
	if stored, ok := s.Meta[pagetree.BreakpointDesktop]; ok {
		if stored.WidthMode != "" {
			desktop.WidthMode = stored.WidthMode
		}
		if stored.HeightMode != "" {
			desktop.HeightMode = stored.HeightMode
		}
	}
	out.Meta[pagetree.BreakpointDesktop] = desktop
	out.Meta[pagetree.BreakpointTablet] = s.Meta[pagetree.BreakpointTablet]
	out.Meta[pagetree.BreakpointMobile] = s.Meta[pagetree.BreakpointMobile]
	return out
}

func nonNil(m pagetree.StyleMap) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Encode serialises the document
func (d *Document) Encode() ([]byte, error) {
	return json.Marshal(d)
}

// Decode parses a stored document, accepting the legacy root key
func Decode(data []byte) (*Document, error) {
	var raw struct {
		Document
		LegacyRootID string `json:"rootId"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	doc := raw.Document
	if doc.Version > CurrentVersion || doc.Version < 0 {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}
	if doc.RootNodeID == "" {
		doc.RootNodeID = raw.LegacyRootID
	}
	if doc.RootNodeID == "" && len(doc.Nodes) > 0 {
		return nil, fmt.Errorf("%w: nodes without a root id", ErrMalformed)
	}
	return &doc, nil
}

// ToTree converts the document back into nodes ready for loading into a
// tree store. Props are decoded into the variant of each node type.
func (d *Document) ToTree() ([]*pagetree.Node, string, error) {
	nodes := make([]*pagetree.Node, 0, len(d.Nodes))
	for _, dn := range d.Nodes {
		t, err := pagetree.ParseNodeType(dn.Type)
		if err != nil {
			return nil, "", fmt.Errorf("%w: node %s: %v", ErrMalformed, dn.ID, err)
		}
		props, err := pagetree.DecodeProps(t, dn.Props)
		if err != nil {
			return nil, "", fmt.Errorf("%w: node %s: %v", ErrMalformed, dn.ID, err)
		}
		n := &pagetree.Node{
			ID:         dn.ID,
			Type:       t,
			ParentID:   dn.ParentID,
			Props:      props,
			Styles:     compactStyles(dn.Styles),
			Children:   append([]string{}, dn.Children...),
			OrderIndex: dn.OrderIndex,
			Locked:     dn.Locked,
		}
		nodes = append(nodes, n)
	}
	return nodes, d.RootNodeID, nil
}

// compactStyles drops the explicit defaults FromState writes
func compactStyles(s DocumentStyles) pagetree.ResponsiveStyles {
	out := pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap(s.Desktop).Clone(),
		Tablet:  pagetree.StyleMap(s.Tablet).Clone(),
		Mobile:  pagetree.StyleMap(s.Mobile).Clone(),
	}
	for bp, meta := range s.Meta {
		if !bp.IsValid() || meta == (pagetree.SizingMeta{}) {
			continue
		}
		if bp == pagetree.BreakpointDesktop && meta == pagetree.DefaultSizingMeta() {
			continue
		}
		if out.Meta == nil {
			out.Meta = make(map[pagetree.Breakpoint]pagetree.SizingMeta)
		}
		out.Meta[bp] = meta
	}
	out.Normalize()
	return out
}
