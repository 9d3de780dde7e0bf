package document

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/responsive"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/treestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleState(t *testing.T) *pagetree.PageTreeState {
	t.Helper()
	s := treestore.New()
	root, _ := pagetree.NewNode("root", pagetree.NodeTypeSection)
	root.Children = []string{"title", "hero"}
	title, _ := pagetree.NewNode("title", pagetree.NodeTypeHeading)
	title.ParentID = "root"
	title.Props = &pagetree.HeadingProps{Text: "Welcome", Level: 1}
	hero, _ := pagetree.NewNode("hero", pagetree.NodeTypeImage)
	hero.ParentID = "root"
	hero.Styles.Desktop["width"] = "100%"
	hero.Styles.Mobile = pagetree.StyleMap{"width": "auto"}
	hero.Styles.Meta = map[pagetree.Breakpoint]pagetree.SizingMeta{
		pagetree.BreakpointDesktop: {WidthMode: pagetree.SizingFill},
	}
	require.NoError(t, s.LoadTree([]*pagetree.Node{root, title, hero}, "root"))
	s.SelectNode("title")
	require.NoError(t, s.UpdateNodeStyles("title", pagetree.BreakpointTablet, pagetree.StyleMap{"fontSize": "24px"}))
	return s.State()
}

func TestFromStateWritesEveryLayer(t *testing.T) {
	now := time.UnixMilli(1_700_000_000_123)
	doc, err := FromState(sampleState(t), now)
	require.NoError(t, err)

	assert.Equal(t, CurrentVersion, doc.Version)
	assert.Equal(t, int64(1_700_000_000_123), doc.Timestamp)
	assert.Equal(t, "root", doc.RootNodeID)
	require.Len(t, doc.Nodes, 3)
	assert.Equal(t, []string{"root", "title", "hero"}, []string{doc.Nodes[0].ID, doc.Nodes[1].ID, doc.Nodes[2].ID})

	data, err := doc.Encode()
	require.NoError(t, err)
	var generic map[string]any
	require.NoError(t, json.Unmarshal(data, &generic))
	nodes := generic["nodes"].([]any)
	rootStyles := nodes[0].(map[string]any)["styles"].(map[string]any)
	for _, key := range []string{"desktop", "tablet", "mobile"} {
		assert.Equal(t, map[string]any{}, rootStyles[key], "%s layer is written explicitly", key)
	}
	meta := rootStyles["__meta"].(map[string]any)
	assert.Equal(t, map[string]any{"widthMode": "auto", "heightMode": "auto"}, meta["desktop"])
	assert.Equal(t, map[string]any{}, meta["tablet"])

	heroMeta := nodes[2].(map[string]any)["styles"].(map[string]any)["__meta"].(map[string]any)
	assert.Equal(t, map[string]any{"widthMode": "fill", "heightMode": "auto"}, heroMeta["desktop"])
}

func TestRoundTripPreservesTree(t *testing.T) {
	state := sampleState(t)
	doc, err := FromState(state, time.Now())
	require.NoError(t, err)
	data, err := doc.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	nodes, root, err := decoded.ToTree()
	require.NoError(t, err)

	s := treestore.New()
	require.NoError(t, s.LoadTree(nodes, root))
	loaded := s.State()

	assert.Empty(t, loaded.SelectedNodeID, "loading resets selection")
	assert.False(t, s.CanUndo(), "loading resets history")
	assert.Equal(t, &pagetree.HeadingProps{Text: "Welcome", Level: 1}, loaded.Nodes["title"].Props)
	for id, n := range state.Nodes {
		for _, bp := range pagetree.Breakpoints {
			assert.Equal(t, responsive.Resolve(n, bp), responsive.Resolve(loaded.Nodes[id], bp), "%s@%s", id, bp)
			assert.Equal(t, responsive.ResolveMeta(n, bp), responsive.ResolveMeta(loaded.Nodes[id], bp), "%s@%s", id, bp)
		}
	}
	assert.Nil(t, loaded.Nodes["root"].Styles.Meta, "explicit defaults are compacted away")
}

func TestDecodeLegacyRootKey(t *testing.T) {
	doc, err := Decode([]byte(`{"version":1,"timestamp":1,"rootId":"r","nodes":[{"id":"r","type":"Section","props":null,"styles":{"desktop":{}},"children":[]}]}`))
	require.NoError(t, err)
	assert.Equal(t, "r", doc.RootNodeID)

	nodes, root, err := doc.ToTree()
	require.NoError(t, err)
	assert.Equal(t, "r", root)
	assert.Equal(t, &pagetree.SectionProps{}, nodes[0].Props)
}

func TestDecodeRejections(t *testing.T) {
	_, err := Decode([]byte(`{"version":3,"rootNodeId":"r","nodes":[]}`))
	assert.ErrorIs(t, err, ErrUnsupportedVersion)

	_, err = Decode([]byte(`{not json`))
	assert.ErrorIs(t, err, ErrMalformed)

	_, err = Decode([]byte(`{"version":2,"nodes":[{"id":"a","type":"Section"}]}`))
	assert.ErrorIs(t, err, ErrMalformed)

	doc, err := Decode([]byte(`{"version":2,"rootNodeId":"a","nodes":[{"id":"a","type":"Ticker"}]}`))
	require.NoError(t, err)
	_, _, err = doc.ToTree()
	assert.ErrorIs(t, err, ErrMalformed)
}

func TestEmptyTreeRoundTrip(t *testing.T) {
	doc, err := FromState(pagetree.NewPageTreeState(), time.Now())
	require.NoError(t, err)
	data, err := doc.Encode()
	require.NoError(t, err)
	back, err := Decode(data)
	require.NoError(t, err)
	nodes, root, err := back.ToTree()
	require.NoError(t, err)
	assert.Empty(t, nodes)
	assert.Empty(t, root)
}
