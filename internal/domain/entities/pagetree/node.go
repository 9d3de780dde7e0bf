package pagetree

import (
	"encoding/json"
	"fmt"
)

// NodeType tags the role a node plays on the page
type NodeType string

const (
	NodeTypeSection    NodeType = "Section"
	NodeTypeContainer  NodeType = "Container"
	NodeTypeNavbar     NodeType = "Navbar"
	NodeTypeImage      NodeType = "Image"
	NodeTypeHeading    NodeType = "Heading"
	NodeTypeParagraph  NodeType = "Paragraph"
	NodeTypeButton     NodeType = "Button"
	NodeTypeSearchForm NodeType = "SearchForm"
)

// NodeTypes lists the closed set of node types
var NodeTypes = []NodeType{
	NodeTypeSection, NodeTypeContainer, NodeTypeNavbar, NodeTypeImage,
	NodeTypeHeading, NodeTypeParagraph, NodeTypeButton, NodeTypeSearchForm,
}

// IsValid reports whether t belongs to the closed set
func (t NodeType) IsValid() bool {
	for _, known := range NodeTypes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseNodeType converts a raw name into a NodeType
func ParseNodeType(s string) (NodeType, error) {
	t := NodeType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("unknown node type %q", s)
	}
	return t, nil
}

// Node is a single element of the page tree
type Node struct {
	ID         string           `json:"id"`
	Type       NodeType         `json:"type"`
	ParentID   string           `json:"parentId,omitempty"`
	Props      Props            `json:"props"`
	Styles     ResponsiveStyles `json:"styles"`
	Children   []string         `json:"children"`
	OrderIndex int              `json:"orderIndex"`
	Locked     bool             `json:"locked,omitempty"`
}

// NewNode creates a node of the given type with zero props and empty styles
func NewNode(id string, t NodeType) (*Node, error) {
	props, err := NewProps(t)
	if err != nil {
		return nil, err
	}
	return &Node{
		ID:       id,
		Type:     t,
		Props:    props,
		Styles:   NewResponsiveStyles(),
		Children: []string{},
	}, nil
}

// Clone returns a deep copy of the node
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	c := *n
	c.Props = CloneProps(n.Props)
	c.Styles = n.Styles.Clone()
	c.Children = append([]string{}, n.Children...)
	return &c
}

// ChildIndex returns the position of id among the children, or -1
func (n *Node) ChildIndex(id string) int {
	for i, child := range n.Children {
		if child == id {
			return i
		}
	}
	return -1
}

// UnmarshalJSON decodes a node, routing props into the variant that matches
// its type
func (n *Node) UnmarshalJSON(data []byte) error {
	type alias struct {
		ID         string           `json:"id"`
		Type       NodeType         `json:"type"`
		ParentID   string           `json:"parentId,omitempty"`
		Props      json.RawMessage  `json:"props"`
		Styles     ResponsiveStyles `json:"styles"`
		Children   []string         `json:"children"`
		OrderIndex int              `json:"orderIndex"`
		Locked     bool             `json:"locked,omitempty"`
	}
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	props, err := DecodeProps(a.Type, a.Props)
	if err != nil {
		return err
	}
	a.Styles.Normalize()
	if a.Children == nil {
		a.Children = []string{}
	}
	*n = Node{
		ID:         a.ID,
		Type:       a.Type,
		ParentID:   a.ParentID,
		Props:      props,
		Styles:     a.Styles,
		Children:   a.Children,
		OrderIndex: a.OrderIndex,
		Locked:     a.Locked,
	}
	return nil
}
