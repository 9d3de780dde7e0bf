// Package pagetree provides the domain entities of the responsive page tree:
// nodes, their typed props and their per-breakpoint style layers.
package pagetree

import "fmt"

// Breakpoint identifies one of the responsive style tiers
type Breakpoint string

const (
	BreakpointDesktop Breakpoint = "desktop"
	BreakpointTablet  Breakpoint = "tablet"
	BreakpointMobile  Breakpoint = "mobile"
)

// Breakpoints lists every tier from widest to narrowest
var Breakpoints = []Breakpoint{BreakpointDesktop, BreakpointTablet, BreakpointMobile}

// IsValid reports whether the breakpoint is one of the known tiers
func (b Breakpoint) IsValid() bool {
	switch b {
	case BreakpointDesktop, BreakpointTablet, BreakpointMobile:
		return true
	}
	return false
}

// ParseBreakpoint converts a raw name into a Breakpoint
func ParseBreakpoint(s string) (Breakpoint, error) {
	b := Breakpoint(s)
	if !b.IsValid() {
		return "", fmt.Errorf("unknown breakpoint %q", s)
	}
	return b, nil
}

// StyleMap maps a CSS-like property name to its string value
type StyleMap map[string]string

// Clone returns an independent copy. A nil map stays nil.
func (m StyleMap) Clone() StyleMap {
	if m == nil {
		return nil
	}
	out := make(StyleMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Merge returns a copy of m with every key of partial written over it.
// Keys absent from partial are left untouched.
func (m StyleMap) Merge(partial StyleMap) StyleMap {
	out := make(StyleMap, len(m)+len(partial))
	for k, v := range m {
		out[k] = v
	}
	for k, v := range partial {
		out[k] = v
	}
	return out
}

// Equal reports whether both maps hold the same keys and values
func (m StyleMap) Equal(other StyleMap) bool {
	if len(m) != len(other) {
		return false
	}
	for k, v := range m {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// SizingMode is the sizing hint the editor attaches to width and height
type SizingMode string

const (
	SizingAuto  SizingMode = "auto"
	SizingFixed SizingMode = "fixed"
	SizingFill  SizingMode = "fill"
	SizingHug   SizingMode = "hug"
)

// IsValid reports whether the mode is known
func (m SizingMode) IsValid() bool {
	switch m {
	case SizingAuto, SizingFixed, SizingFill, SizingHug:
		return true
	}
	return false
}

// SizingMeta holds the sizing hints for one breakpoint
type SizingMeta struct {
	WidthMode  SizingMode `json:"widthMode,omitempty" yaml:"widthMode,omitempty"`
	HeightMode SizingMode `json:"heightMode,omitempty" yaml:"heightMode,omitempty"`
}

// DefaultSizingMeta is used when no hints are stored
func DefaultSizingMeta() SizingMeta {
	return SizingMeta{WidthMode: SizingAuto, HeightMode: SizingAuto}
}

// ResponsiveStyles stores a node's style layers. Desktop is the base layer;
// Tablet and Mobile are optional overrides cascading from Desktop.
type ResponsiveStyles struct {
	Desktop StyleMap                  `json:"desktop"`
	Tablet  StyleMap                  `json:"tablet,omitempty"`
	Mobile  StyleMap                  `json:"mobile,omitempty"`
	Meta    map[Breakpoint]SizingMeta `json:"__meta,omitempty"`
}

// NewResponsiveStyles returns styles with an empty desktop layer
func NewResponsiveStyles() ResponsiveStyles {
	return ResponsiveStyles{Desktop: StyleMap{}}
}

// Layer returns the raw layer stored for a breakpoint, nil when absent
func (s ResponsiveStyles) Layer(bp Breakpoint) StyleMap {
	switch bp {
	case BreakpointTablet:
		return s.Tablet
	case BreakpointMobile:
		return s.Mobile
	default:
		return s.Desktop
	}
}

// SetLayer replaces the layer for a breakpoint. Empty override layers are
// dropped so that they read as absent.
func (s *ResponsiveStyles) SetLayer(bp Breakpoint, layer StyleMap) {
	switch bp {
	case BreakpointTablet:
		if len(layer) == 0 {
			layer = nil
		}
		s.Tablet = layer
	case BreakpointMobile:
		if len(layer) == 0 {
			layer = nil
		}
		s.Mobile = layer
	default:
		if layer == nil {
			layer = StyleMap{}
		}
		s.Desktop = layer
	}
}

// Normalize makes sure Desktop is present
func (s *ResponsiveStyles) Normalize() {
	if s.Desktop == nil {
		s.Desktop = StyleMap{}
	}
	if len(s.Tablet) == 0 {
		s.Tablet = nil
	}
	if len(s.Mobile) == 0 {
		s.Mobile = nil
	}
	if len(s.Meta) == 0 {
		s.Meta = nil
	}
}

// Clone returns a deep copy
func (s ResponsiveStyles) Clone() ResponsiveStyles {
	out := ResponsiveStyles{
		Desktop: s.Desktop.Clone(),
		Tablet:  s.Tablet.Clone(),
		Mobile:  s.Mobile.Clone(),
	}
	if s.Meta != nil {
		out.Meta = make(map[Breakpoint]SizingMeta, len(s.Meta))
		for k, v := range s.Meta {
			out.Meta[k] = v
		}
	}
	return out
}
