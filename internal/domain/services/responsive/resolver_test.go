package responsive

import (
	"testing"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/stretchr/testify/assert"
)

func styledNode() *pagetree.Node {
	n, _ := pagetree.NewNode("hero", pagetree.NodeTypeContainer)
	n.Styles = pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"paddingTop": "40px", "gap": "24px", "display": "flex"},
		Tablet:  pagetree.StyleMap{"gap": "16px", "flexDirection": "column"},
		Mobile:  pagetree.StyleMap{"paddingTop": "16px"},
		Meta: map[pagetree.Breakpoint]pagetree.SizingMeta{
			pagetree.BreakpointDesktop: {WidthMode: pagetree.SizingFixed},
			pagetree.BreakpointMobile:  {WidthMode: pagetree.SizingFill, HeightMode: pagetree.SizingHug},
		},
	}
	return n
}

func TestResolveDesktopIsVerbatim(t *testing.T) {
	n := styledNode()
	got := Resolve(n, pagetree.BreakpointDesktop)
	assert.Equal(t, n.Styles.Desktop, got)

	got["gap"] = "0"
	assert.Equal(t, "24px", n.Styles.Desktop["gap"], "resolution returns a fresh map")
}

func TestResolveCascade(t *testing.T) {
	n := styledNode()

	tablet := Resolve(n, pagetree.BreakpointTablet)
	assert.Equal(t, pagetree.StyleMap{
		"paddingTop":    "40px",
		"gap":           "16px",
		"display":       "flex",
		"flexDirection": "column",
	}, tablet)

	mobile := Resolve(n, pagetree.BreakpointMobile)
	assert.Equal(t, pagetree.StyleMap{
		"paddingTop": "16px",
		"gap":        "24px",
		"display":    "flex",
	}, mobile, "mobile never inherits tablet overrides")
}

func TestResolveCascadeProperty(t *testing.T) {
	n := styledNode()
	for _, bp := range []pagetree.Breakpoint{pagetree.BreakpointTablet, pagetree.BreakpointMobile} {
		resolved := Resolve(n, bp)
		layer := n.Styles.Layer(bp)
		for k, v := range layer {
			assert.Equal(t, v, resolved[k], "%s overrides %s", bp, k)
		}
		for k, v := range n.Styles.Desktop {
			if _, overridden := layer[k]; !overridden {
				assert.Equal(t, v, resolved[k], "%s inherits %s", bp, k)
			}
		}
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	n := styledNode()
	for _, bp := range pagetree.Breakpoints {
		assert.Equal(t, Resolve(n, bp), Resolve(n, bp))
		assert.Equal(t, ResolveMeta(n, bp), ResolveMeta(n, bp))
	}
}

func TestResolveEdgeCases(t *testing.T) {
	assert.Equal(t, pagetree.StyleMap{}, Resolve(nil, pagetree.BreakpointMobile))

	n := styledNode()
	assert.Equal(t, Resolve(n, pagetree.BreakpointDesktop), Resolve(n, "watch"))

	bare, _ := pagetree.NewNode("b", pagetree.NodeTypeImage)
	assert.Equal(t, pagetree.StyleMap{}, Resolve(bare, pagetree.BreakpointTablet))
}

func TestResolveMeta(t *testing.T) {
	n := styledNode()
	assert.Equal(t, pagetree.SizingMeta{WidthMode: pagetree.SizingFixed, HeightMode: pagetree.SizingAuto},
		ResolveMeta(n, pagetree.BreakpointDesktop))
	assert.Equal(t, pagetree.SizingMeta{WidthMode: pagetree.SizingFixed, HeightMode: pagetree.SizingAuto},
		ResolveMeta(n, pagetree.BreakpointTablet))
	assert.Equal(t, pagetree.SizingMeta{WidthMode: pagetree.SizingFill, HeightMode: pagetree.SizingHug},
		ResolveMeta(n, pagetree.BreakpointMobile))

	bare, _ := pagetree.NewNode("b", pagetree.NodeTypeImage)
	assert.Equal(t, pagetree.DefaultSizingMeta(), ResolveMeta(bare, pagetree.BreakpointMobile))
}

func TestResolveTreeAndOverrides(t *testing.T) {
	st := pagetree.NewPageTreeState()
	st.Nodes["hero"] = styledNode()
	st.RootNodeID = "hero"

	resolved := ResolveTree(st, pagetree.BreakpointMobile)
	assert.Equal(t, "16px", resolved["hero"]["paddingTop"])

	assert.Equal(t, []string{"flexDirection", "gap"}, Overrides(st.Nodes["hero"], pagetree.BreakpointTablet))
	assert.Nil(t, Overrides(st.Nodes["hero"], pagetree.BreakpointDesktop))
}
