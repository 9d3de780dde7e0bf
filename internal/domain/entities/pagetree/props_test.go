package pagetree

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPropsCoversEveryType(t *testing.T) {
	for _, nt := range NodeTypes {
		p, err := NewProps(nt)
		require.NoError(t, err)
		assert.Equal(t, nt, p.NodeType())
	}
	_, err := NewProps("Carousel")
	assert.Error(t, err)
}

func TestDecodeProps(t *testing.T) {
	p, err := DecodeProps(NodeTypeHeading, json.RawMessage(`{"text":"Welcome","level":1,"extra":true}`))
	require.NoError(t, err)
	h, ok := p.(*HeadingProps)
	require.True(t, ok)
	assert.Equal(t, "Welcome", h.Text)
	assert.Equal(t, 1, h.Level)

	p, err = DecodeProps(NodeTypeImage, json.RawMessage(`null`))
	require.NoError(t, err)
	assert.Equal(t, &ImageProps{}, p)

	_, err = DecodeProps(NodeTypeHeading, json.RawMessage(`{"level":"one"}`))
	assert.Error(t, err)
}

func TestMergeProps(t *testing.T) {
	orig := &ButtonProps{Label: "Book", Href: "/book"}

	merged, err := MergeProps(orig, map[string]any{"label": "Book now"})
	require.NoError(t, err)
	assert.Equal(t, &ButtonProps{Label: "Book now", Href: "/book"}, merged)
	assert.Equal(t, "Book", orig.Label)

	_, err = MergeProps(orig, map[string]any{"colour": "red"})
	assert.Error(t, err, "unknown keys are rejected")

	_, err = MergeProps(orig, map[string]any{"label": 42})
	assert.Error(t, err, "wrong value shapes are rejected")
}

func TestCloneNavbarProps(t *testing.T) {
	orig := &NavbarProps{Links: []NavLink{{Label: "Home", Href: "/"}}}
	c := CloneProps(orig).(*NavbarProps)
	c.Links[0].Label = "Start"
	assert.Equal(t, "Home", orig.Links[0].Label)
}

func TestPropsToMap(t *testing.T) {
	m, err := PropsToMap(&ParagraphProps{Text: "hi", Markdown: true})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"text": "hi", "markdown": true}, m)

	m, err = PropsToMap(nil)
	require.NoError(t, err)
	assert.Empty(t, m)
}
