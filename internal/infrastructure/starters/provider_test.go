package starters

import (
	"fmt"
	"testing"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("n%d", n)
	}
}

func TestNewProviderParsesEmbeddedStarters(t *testing.T) {
	p, err := NewProvider()
	require.NoError(t, err)
	assert.Equal(t, []string{"blank", "hotel-landing"}, p.Names())

	summaries := p.Summaries()
	require.Len(t, summaries, 2)
	assert.Equal(t, 1, summaries[0].NodeCount)
	assert.Greater(t, summaries[1].NodeCount, 5)
}

func TestStartersLoadIntoTreeStore(t *testing.T) {
	p, err := NewProvider()
	require.NoError(t, err)

	for _, name := range p.Names() {
		t.Run(name, func(t *testing.T) {
			starter, err := p.Load(name)
			require.NoError(t, err)

			store := treestore.New()
			require.NoError(t, store.LoadTree(starter.Nodes, starter.RootNodeID))
			assert.NoError(t, store.CheckInvariants())
			assert.False(t, store.IsDirty())
		})
	}
}

func TestLoadRemapsIDs(t *testing.T) {
	p, err := NewProvider(WithIDGenerator(counter()))
	require.NoError(t, err)

	first, err := p.Load("hotel-landing")
	require.NoError(t, err)
	second, err := p.Load("hotel-landing")
	require.NoError(t, err)

	assert.NotEqual(t, first.RootNodeID, second.RootNodeID)
	byID := map[string]*pagetree.Node{}
	for _, n := range first.Nodes {
		byID[n.ID] = n
	}
	root := byID[first.RootNodeID]
	require.NotNil(t, root)
	for i, child := range root.Children {
		require.Contains(t, byID, child)
		assert.Equal(t, root.ID, byID[child].ParentID)
		assert.Equal(t, i, byID[child].OrderIndex)
	}
}

func TestLoadReturnsPrivateCopies(t *testing.T) {
	p, err := NewProvider()
	require.NoError(t, err)

	a, _ := p.Load("blank")
	a.Nodes[0].Styles.Desktop["display"] = "grid"
	b, _ := p.Load("blank")
	assert.Equal(t, "flex", b.Nodes[0].Styles.Desktop["display"])
}

func TestLoadUnknown(t *testing.T) {
	p, err := NewProvider()
	require.NoError(t, err)
	_, err = p.Load("castle")
	assert.ErrorIs(t, err, ErrUnknownStarter)
}

func TestHotelLandingContent(t *testing.T) {
	s, err := Parse(mustRead(t, "templates/hotel-landing.yaml"))
	require.NoError(t, err)

	byID := map[string]*pagetree.Node{}
	for _, n := range s.Nodes {
		byID[n.ID] = n
	}

	nav := byID["nav"].Props.(*pagetree.NavbarProps)
	assert.Len(t, nav.Links, 3)
	assert.True(t, nav.Sticky)

	heading := byID["hero-title"].Props.(*pagetree.HeadingProps)
	assert.Equal(t, 1, heading.Level)

	assert.True(t, byID["search"].Locked)
	assert.Equal(t, pagetree.SizingFill, byID["search"].Styles.Meta[pagetree.BreakpointMobile].WidthMode)
	assert.Equal(t, "48px", byID["hero-title"].Styles.Tablet["fontSize"])
}

func TestParseRejects(t *testing.T) {
	cases := map[string]string{
		"no name":      "root: {id: a, type: Section}",
		"no root":      "name: x",
		"bad type":     "name: x\nroot: {id: a, type: Marquee}",
		"duplicate id": "name: x\nroot: {id: a, type: Section, children: [{id: a, type: Heading}]}",
		"missing id":   "name: x\nroot: {id: a, type: Section, children: [{type: Heading}]}",
		"bad props":    "name: x\nroot: {id: a, type: Heading, props: {level: high}}",
		"not yaml":     "name: [",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(src))
			assert.Error(t, err)
		})
	}
}

func mustRead(t *testing.T, name string) []byte {
	t.Helper()
	data, err := templateFS.ReadFile(name)
	require.NoError(t, err)
	return data
}
