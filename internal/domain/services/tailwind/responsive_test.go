package tailwind

import (
	"testing"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/stretchr/testify/assert"
)

func nodeWith(styles pagetree.ResponsiveStyles) *pagetree.Node {
	n, _ := pagetree.NewNode("n", pagetree.NodeTypeContainer)
	n.Styles = styles
	n.Styles.Normalize()
	return n
}

func TestCompileResponsiveOrdering(t *testing.T) {
	c := NewCompiler(DefaultVariants())
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"display": "flex", "gap": "24px"},
		Tablet:  pagetree.StyleMap{"gap": "16px"},
		Mobile:  pagetree.StyleMap{"gap": "8px", "display": "block"},
	})

	got := c.CompileResponsive(n)
	assert.Equal(t, []string{"flex", "gap-6", "max-lg:gap-4", "max-md:block", "max-md:gap-2"}, got.Classes)
}

func TestCompileResponsiveMobileDoesNotInheritTablet(t *testing.T) {
	c := NewCompiler(Variants{})
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"gap": "24px"},
		Tablet:  pagetree.StyleMap{"gap": "16px", "textAlign": "center"},
	})

	got := c.CompileResponsive(n)
	assert.Equal(t, []string{"gap-6", "max-lg:gap-4", "max-lg:text-center", "max-md:gap-6", "max-md:text-start"}, got.Classes)
}

func TestCompileResponsiveSizingModes(t *testing.T) {
	c := NewCompiler(DefaultVariants())
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"width": "640px"},
		Meta: map[pagetree.Breakpoint]pagetree.SizingMeta{
			pagetree.BreakpointDesktop: {WidthMode: pagetree.SizingFixed},
			pagetree.BreakpointMobile:  {WidthMode: pagetree.SizingFill},
		},
	})

	got := c.CompileResponsive(n)
	assert.Equal(t, []string{"w-[640px]", "max-md:w-full"}, got.Classes)
}

func TestCompileResponsiveInlinePerTier(t *testing.T) {
	c := NewCompiler(DefaultVariants())
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"paddingTop": "40px", "backgroundColor": "#fff"},
		Tablet:  pagetree.StyleMap{"paddingTop": "24px"},
		Mobile:  pagetree.StyleMap{"paddingTop": "16px"},
	})

	got := c.CompileResponsive(n)
	assert.Equal(t, "40px", got.Inline[pagetree.BreakpointDesktop]["padding-top"])
	assert.Equal(t, "24px", got.Inline[pagetree.BreakpointTablet]["padding-top"])
	assert.Equal(t, "16px", got.Inline[pagetree.BreakpointMobile]["padding-top"])
	assert.Equal(t, "#fff", got.Inline[pagetree.BreakpointMobile]["background-color"])

	assert.Equal(t, pagetree.StyleMap{"padding-top": "24px"}, got.InlineOverrides(pagetree.BreakpointTablet))
	assert.Equal(t, pagetree.StyleMap{"padding-top": "16px"}, got.InlineOverrides(pagetree.BreakpointMobile))
	assert.Equal(t, "background-color: #fff; padding-top: 40px", got.InlineString(pagetree.BreakpointDesktop))
}

func TestInlineOverridesResetsDroppedDeclarations(t *testing.T) {
	p := ResponsivePresentation{Inline: map[pagetree.Breakpoint]pagetree.StyleMap{
		pagetree.BreakpointDesktop: {"color": "red"},
		pagetree.BreakpointTablet:  {"color": "blue"},
		pagetree.BreakpointMobile:  {},
	}}
	assert.Equal(t, pagetree.StyleMap{"color": "initial"}, p.InlineOverrides(pagetree.BreakpointMobile))
}

func TestCompileResponsiveCustomVariants(t *testing.T) {
	c := NewCompiler(Variants{Tablet: "md:", Mobile: "sm:"})
	assert.Equal(t, Variants{Tablet: "md:", Mobile: "sm:"}, c.Variants())

	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"fontSize": "24px"},
		Mobile:  pagetree.StyleMap{"fontSize": "16px"},
	})
	assert.Equal(t, "text-2xl sm:text-base", c.CompileResponsive(n).ClassString())
}

func TestCompileResponsiveNilNode(t *testing.T) {
	got := NewCompiler(DefaultVariants()).CompileResponsive(nil)
	assert.Empty(t, got.Classes)
}

func TestCompileNodeUsesActiveBreakpoint(t *testing.T) {
	c := NewCompiler(DefaultVariants())
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"gap": "24px", "paddingTop": "40px"},
		Mobile:  pagetree.StyleMap{"paddingTop": "16px"},
	})
	got := c.CompileNode(n, pagetree.BreakpointMobile)
	assert.Equal(t, []string{"gap-6"}, got.Classes)
	assert.Equal(t, pagetree.StyleMap{"padding-top": "16px"}, got.Inline)
}

func TestCompileResponsiveIsDeterministic(t *testing.T) {
	c := NewCompiler(DefaultVariants())
	n := nodeWith(pagetree.ResponsiveStyles{
		Desktop: pagetree.StyleMap{"display": "grid", "gap": "12px", "width": "100%", "textAlign": "left"},
		Tablet:  pagetree.StyleMap{"display": "flex", "width": "auto"},
		Mobile:  pagetree.StyleMap{"display": "none"},
	})
	first := c.CompileResponsive(n)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, c.CompileResponsive(n))
	}
}
