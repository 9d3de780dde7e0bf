package pagetree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeJSONRoutesPropsByType(t *testing.T) {
	raw := `{
		"id": "hero",
		"type": "Image",
		"parentId": "root",
		"props": {"src": "/a.webp", "alt": "Lobby"},
		"styles": {"desktop": {"width": "100%"}, "tablet": {}},
		"orderIndex": 2
	}`
	var n Node
	require.NoError(t, json.Unmarshal([]byte(raw), &n))

	assert.Equal(t, NodeTypeImage, n.Type)
	assert.Equal(t, &ImageProps{Src: "/a.webp", Alt: "Lobby"}, n.Props)
	assert.Nil(t, n.Styles.Tablet)
	assert.NotNil(t, n.Children)
	assert.Equal(t, 2, n.OrderIndex)

	out, err := json.Marshal(&n)
	require.NoError(t, err)
	var back Node
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, n, back)
}

func TestNodeJSONRejectsUnknownType(t *testing.T) {
	var n Node
	assert.Error(t, json.Unmarshal([]byte(`{"id":"x","type":"Marquee"}`), &n))
}

func TestNodeCloneIsDeep(t *testing.T) {
	n, err := NewNode("a", NodeTypeHeading)
	require.NoError(t, err)
	n.Children = append(n.Children, "b")
	n.Styles.Desktop["fontSize"] = "24px"

	c := n.Clone()
	c.Children[0] = "z"
	c.Styles.Desktop["fontSize"] = "12px"
	c.Props.(*HeadingProps).Text = "changed"

	assert.Equal(t, "b", n.Children[0])
	assert.Equal(t, "24px", n.Styles.Desktop["fontSize"])
	assert.Empty(t, n.Props.(*HeadingProps).Text)
	assert.Equal(t, 0, n.ChildIndex("b"))
	assert.Equal(t, -1, n.ChildIndex("missing"))
}

func TestStateCloneIsIndependent(t *testing.T) {
	s := NewPageTreeState()
	n, _ := NewNode("root", NodeTypeSection)
	s.Nodes["root"] = n
	s.RootNodeID = "root"
	s.History.Past = []Snapshot{{Label: "x", Nodes: map[string]*Node{"root": nil}}}

	c := s.Clone()
	delete(c.Nodes, "root")
	c.History.Past[0].Label = "y"

	assert.Contains(t, s.Nodes, "root")
	assert.Equal(t, "x", s.History.Past[0].Label)
}
