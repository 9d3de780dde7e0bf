package tailwind

import (
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/responsive"
)

// ResponsivePresentation is a node compiled for all breakpoints at once.
// Classes holds the desktop tokens followed by the prefixed tablet tokens and
// then the prefixed mobile tokens. Inline holds the resolved pass-through
// declarations of every breakpoint.
type ResponsivePresentation struct {
	Classes []string                                  `json:"classes"`
	Inline  map[pagetree.Breakpoint]pagetree.StyleMap `json:"inline"`
}

// ClassString joins the class tokens for a class attribute
func (p ResponsivePresentation) ClassString() string {
	return strings.Join(p.Classes, " ")
}

// InlineString renders the inline declarations of one breakpoint
func (p ResponsivePresentation) InlineString(bp pagetree.Breakpoint) string {
	return inlineString(p.Inline[bp])
}

// InlineOverrides returns the declarations of bp whose value differs from
// the tier that applies above it (desktop for tablet, tablet for mobile)
func (p ResponsivePresentation) InlineOverrides(bp pagetree.Breakpoint) pagetree.StyleMap {
	var above pagetree.StyleMap
	switch bp {
	case pagetree.BreakpointTablet:
		above = p.Inline[pagetree.BreakpointDesktop]
	case pagetree.BreakpointMobile:
		above = p.Inline[pagetree.BreakpointTablet]
	default:
		return p.Inline[pagetree.BreakpointDesktop].Clone()
	}
	out := pagetree.StyleMap{}
	for k, v := range p.Inline[bp] {
		if above[k] != v {
			out[k] = v
		}
	}
	for k := range above {
		if _, ok := p.Inline[bp][k]; !ok {
			out[k] = "initial"
		}
	}
	return out
}

// CompileResponsive compiles node at every breakpoint. A narrower tier only
// emits tokens for properties whose outcome differs from what the wider tiers
// already apply, and emits a reset token when it drops a value. Because
// max-width variants stack, the mobile tier is compared against the tablet
// outcome so that mobile never picks up a tablet-only override.
func (c *Compiler) CompileResponsive(node *pagetree.Node) ResponsivePresentation {
	out := ResponsivePresentation{
		Classes: []string{},
		Inline:  make(map[pagetree.Breakpoint]pagetree.StyleMap, len(pagetree.Breakpoints)),
	}
	if node == nil {
		return out
	}

	tiers := make(map[pagetree.Breakpoint]map[string]string, len(pagetree.Breakpoints))
	for _, bp := range pagetree.Breakpoints {
		tokens, inline := compileTokens(responsive.Resolve(node, bp), responsive.ResolveMeta(node, bp))
		tiers[bp] = tokens
		out.Inline[bp] = inline
	}

	desktop := tiers[pagetree.BreakpointDesktop]
	for _, prop := range tokenOrder {
		if token := desktop[prop]; token != "" {
			out.Classes = append(out.Classes, token)
		}
	}

	tabletTokens, effective := overrideTier(c.variants.Tablet, tiers[pagetree.BreakpointTablet], desktop)
	out.Classes = append(out.Classes, tabletTokens...)
	mobileTokens, _ := overrideTier(c.variants.Mobile, tiers[pagetree.BreakpointMobile], effective)
	out.Classes = append(out.Classes, mobileTokens...)

	return out
}

// overrideTier returns the prefixed tokens needed to turn inherited into
// target, and the per-property outcome once they apply
func overrideTier(prefix string, target, inherited map[string]string) ([]string, map[string]string) {
	var tokens []string
	effective := make(map[string]string, len(inherited))
	for k, v := range inherited {
		effective[k] = v
	}
	for _, prop := range tokenOrder {
		want, have := target[prop], inherited[prop]
		switch {
		case want == have:
		case want != "":
			tokens = append(tokens, prefix+want)
			effective[prop] = want
		case have != resetTokens[prop]:
			tokens = append(tokens, prefix+resetTokens[prop])
			effective[prop] = resetTokens[prop]
		}
	}
	return tokens, effective
}
