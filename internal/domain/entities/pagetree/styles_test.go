package pagetree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBreakpoint(t *testing.T) {
	for _, bp := range Breakpoints {
		got, err := ParseBreakpoint(string(bp))
		require.NoError(t, err)
		assert.Equal(t, bp, got)
	}
	_, err := ParseBreakpoint("watch")
	assert.Error(t, err)
}

func TestStyleMapMerge(t *testing.T) {
	base := StyleMap{"paddingTop": "40px", "color": "red"}
	merged := base.Merge(StyleMap{"paddingTop": "16px", "gap": "8px"})

	assert.Equal(t, StyleMap{"paddingTop": "16px", "color": "red", "gap": "8px"}, merged)
	assert.Equal(t, "40px", base["paddingTop"], "merge must not modify the receiver")

	var empty StyleMap
	assert.Equal(t, StyleMap{}, empty.Merge(nil))
}

func TestStyleMapCloneKeepsNil(t *testing.T) {
	var m StyleMap
	assert.Nil(t, m.Clone())

	src := StyleMap{"a": "1"}
	c := src.Clone()
	c["a"] = "2"
	assert.Equal(t, "1", src["a"])
}

func TestStyleMapEqual(t *testing.T) {
	assert.True(t, StyleMap{"a": "1"}.Equal(StyleMap{"a": "1"}))
	assert.False(t, StyleMap{"a": "1"}.Equal(StyleMap{"a": "2"}))
	assert.False(t, StyleMap{"a": "1"}.Equal(StyleMap{"b": "1"}))
	assert.True(t, StyleMap(nil).Equal(StyleMap{}))
}

func TestSetLayerDropsEmptyOverrides(t *testing.T) {
	s := NewResponsiveStyles()
	s.SetLayer(BreakpointTablet, StyleMap{"gap": "4px"})
	assert.Equal(t, StyleMap{"gap": "4px"}, s.Layer(BreakpointTablet))

	s.SetLayer(BreakpointTablet, StyleMap{})
	assert.Nil(t, s.Tablet)

	s.SetLayer(BreakpointDesktop, nil)
	assert.NotNil(t, s.Desktop)
}

func TestResponsiveStylesCloneIsDeep(t *testing.T) {
	s := ResponsiveStyles{
		Desktop: StyleMap{"width": "100%"},
		Mobile:  StyleMap{"width": "auto"},
		Meta:    map[Breakpoint]SizingMeta{BreakpointMobile: {WidthMode: SizingFill}},
	}
	c := s.Clone()
	c.Desktop["width"] = "50%"
	c.Meta[BreakpointMobile] = SizingMeta{WidthMode: SizingHug}

	assert.Equal(t, "100%", s.Desktop["width"])
	assert.Equal(t, SizingFill, s.Meta[BreakpointMobile].WidthMode)
}

func TestNormalize(t *testing.T) {
	s := ResponsiveStyles{Tablet: StyleMap{}, Meta: map[Breakpoint]SizingMeta{}}
	s.Normalize()
	assert.NotNil(t, s.Desktop)
	assert.Nil(t, s.Tablet)
	assert.Nil(t, s.Meta)
}
