package templates

import (
	"strings"
	"testing"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func addNode(t *testing.T, s *pagetree.PageTreeState, id string, typ pagetree.NodeType, parent string, props pagetree.Props) *pagetree.Node {
	t.Helper()
	n, err := pagetree.NewNode(id, typ)
	require.NoError(t, err)
	if props != nil {
		n.Props = props
	}
	n.ParentID = parent
	if parent != "" {
		p := s.Nodes[parent]
		n.OrderIndex = len(p.Children)
		p.Children = append(p.Children, id)
	} else {
		s.RootNodeID = id
	}
	s.Nodes[id] = n
	return n
}

func sampleTree(t *testing.T) *pagetree.PageTreeState {
	s := pagetree.NewPageTreeState()
	root := addNode(t, s, "page", pagetree.NodeTypeSection, "", &pagetree.SectionProps{Anchor: "top", Label: "Landing"})
	root.Styles.Desktop = pagetree.StyleMap{"display": "flex", "gap": "24px", "backgroundColor": "#fff"}
	root.Styles.Tablet = pagetree.StyleMap{"gap": "16px", "backgroundColor": "#eee"}
	addNode(t, s, "title", pagetree.NodeTypeHeading, "page", &pagetree.HeadingProps{Text: "Rooms & Suites", Level: 1})
	addNode(t, s, "copy", pagetree.NodeTypeParagraph, "page", &pagetree.ParagraphProps{Text: "<b>plain</b>"})
	return s
}

func TestRenderPreviewInlineStyles(t *testing.T) {
	r := NewRenderer(nil, nil)
	s := sampleTree(t)
	s.SelectedNodeID = "title"

	out, err := r.Render(s, Options{Mode: ModePreview, Breakpoint: pagetree.BreakpointTablet})
	require.NoError(t, err)

	assert.Equal(t, 3, out.NodeCount)
	assert.Empty(t, out.CSS)
	assert.Contains(t, out.HTML, `<section data-node-id="page" class="flex gap-4" style="background-color: #eee" id="top" aria-label="Landing">`)
	assert.Contains(t, out.HTML, `<h1 data-node-id="title" data-selected="true">Rooms &amp; Suites</h1>`)
	assert.Contains(t, out.HTML, `&lt;b&gt;plain&lt;/b&gt;`)
	assert.True(t, strings.HasSuffix(out.HTML, "</section>"))
}

func TestRenderPublishScopedStyleSheet(t *testing.T) {
	r := NewRenderer(nil, nil)
	s := sampleTree(t)
	s.SelectedNodeID = "title"

	out, err := r.Render(s, Options{Mode: ModePublish})
	require.NoError(t, err)

	assert.Contains(t, out.HTML, `class="flex gap-6 max-lg:gap-4 max-md:gap-6"`)
	assert.NotContains(t, out.HTML, "style=")
	assert.NotContains(t, out.HTML, "data-selected")
	assert.Contains(t, out.CSS, `[data-node-id="page"]{background-color:#fff}`)
	assert.Contains(t, out.CSS, "@media (max-width: 1023px){\n[data-node-id=\"page\"]{background-color:#eee}\n}")
	// mobile falls back to the desktop value, undoing the tablet rule
	assert.Contains(t, out.CSS, "@media (max-width: 767px){\n[data-node-id=\"page\"]{background-color:#fff}\n}")
	assert.NotContains(t, out.CSS, `"title"`)
}

func TestRenderEmptyTree(t *testing.T) {
	r := NewRenderer(nil, nil)
	out, err := r.Render(pagetree.NewPageTreeState(), Options{})
	require.NoError(t, err)
	assert.Equal(t, "", out.HTML)
	assert.Zero(t, out.NodeCount)

	_, err = r.Render(pagetree.NewPageTreeState(), Options{Mode: ModePreview, Breakpoint: "watch"})
	assert.Error(t, err)
}

func TestRenderSkipsMissingChildrenAndCycles(t *testing.T) {
	r := NewRenderer(nil, nil)
	s := pagetree.NewPageTreeState()
	root := addNode(t, s, "page", pagetree.NodeTypeContainer, "", nil)
	child := addNode(t, s, "box", pagetree.NodeTypeContainer, "page", nil)
	root.Children = append(root.Children, "ghost")
	child.Children = append(child.Children, "page")

	out, err := r.Render(s, Options{})
	require.NoError(t, err)
	assert.Equal(t, 2, out.NodeCount)
	assert.Equal(t, `<div data-node-id="page"><div data-node-id="box"></div></div>`, out.HTML)
}

func TestRenderMarkdownParagraph(t *testing.T) {
	r := NewRenderer(nil, nil)
	s := pagetree.NewPageTreeState()
	addNode(t, s, "copy", pagetree.NodeTypeParagraph, "", &pagetree.ParagraphProps{
		Text:     "Stay **longer**\n\n<script>alert(1)</script>\n\n[x](javascript:alert(1))",
		Markdown: true,
	})

	out, err := r.Render(s, Options{})
	require.NoError(t, err)
	assert.Contains(t, out.HTML, `<div data-node-id="copy" class="prose">`)
	assert.Contains(t, out.HTML, "<strong>longer</strong>")
	assert.NotContains(t, out.HTML, "<script>")
	assert.NotContains(t, out.HTML, "javascript:")
}

func TestRenderElements(t *testing.T) {
	r := NewRenderer(nil, nil)
	s := pagetree.NewPageTreeState()
	addNode(t, s, "page", pagetree.NodeTypeSection, "", nil)
	addNode(t, s, "nav", pagetree.NodeTypeNavbar, "page", &pagetree.NavbarProps{
		LogoType: "text",
		LogoText: "Seaside",
		Sticky:   true,
		Links:    []pagetree.NavLink{{Label: "Rooms", Href: "/rooms"}, {Label: "Bad", Href: "javascript:alert(1)"}},
	})
	addNode(t, s, "img", pagetree.NodeTypeImage, "page", &pagetree.ImageProps{Src: "data:image/webp;base64,AAAA", ObjectFit: "cover"})
	addNode(t, s, "cta", pagetree.NodeTypeButton, "page", &pagetree.ButtonProps{Label: "Book", Href: "https://example.com", Target: "_blank", Variant: "outline"})
	addNode(t, s, "search", pagetree.NodeTypeSearchForm, "page", &pagetree.SearchFormProps{ShowDates: true, ShowGuests: true})
	addNode(t, s, "deep", pagetree.NodeTypeHeading, "page", &pagetree.HeadingProps{Text: "x", Level: 9})

	out, err := r.Render(s, Options{})
	require.NoError(t, err)
	html := out.HTML

	assert.Contains(t, html, `<nav data-node-id="nav" class="sticky top-0">`)
	assert.Contains(t, html, `<span>Seaside</span>`)
	assert.Contains(t, html, `<a href="/rooms">Rooms</a>`)
	assert.Contains(t, html, `<li><a>Bad</a></li>`)
	assert.Contains(t, html, `<img data-node-id="img" class="object-cover" src="data:image/webp;base64,AAAA" alt="" loading="lazy">`)
	assert.Contains(t, html, `class="btn btn-outline" href="https://example.com" target="_blank" rel="noopener noreferrer" role="button">Book</a>`)
	assert.Contains(t, html, `<form data-node-id="search" action="/search" method="get" role="search">`)
	assert.Contains(t, html, `name="checkin"`)
	assert.Contains(t, html, `name="guests"`)
	assert.Contains(t, html, `<button type="submit">Search</button>`)
	assert.Contains(t, html, `<h6 data-node-id="deep">x</h6>`)
}

func TestSafeURL(t *testing.T) {
	cases := []struct {
		in    string
		image bool
		want  string
	}{
		{"https://a.test/x", false, "https://a.test/x"},
		{"/rooms", false, "/rooms"},
		{"#book", false, "#book"},
		{"rooms/deluxe", false, "rooms/deluxe"},
		{"mailto:desk@a.test", false, "mailto:desk@a.test"},
		{"mailto:desk@a.test", true, ""},
		{"JavaScript:alert(1)", false, ""},
		{"//evil.test", false, ""},
		{"data:image/png;base64,AA", true, "data:image/png;base64,AA"},
		{"data:image/png;base64,AA", false, ""},
		{"data:text/html,x", true, ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, safeURL(tc.in, tc.image), tc.in)
	}
}

func TestDeclarationsDropUnsafeValues(t *testing.T) {
	got := declarations(pagetree.StyleMap{
		"color":            "red",
		"background-image": `url("x")}</style><script>`,
		"padding":          "expression(alert(1))",
	}, ":", ";")
	assert.Equal(t, "color:red", got)
	assert.Equal(t, `background-image: url("https://a.test/x.png"); color: red`,
		safeInline(pagetree.StyleMap{"color": "red", "background-image": `url("https://a.test/x.png")`}))
}

func TestPage(t *testing.T) {
	res := &Result{HTML: `<p data-node-id="a">hi</p>`, CSS: `[data-node-id="a"]{color:red}`}
	page, err := res.Page("Seaside <Hotel>")
	require.NoError(t, err)
	assert.Contains(t, page, "<title>Seaside &lt;Hotel&gt;</title>")
	assert.Contains(t, page, `<p data-node-id="a">hi</p>`)
	assert.Contains(t, page, `color:red`)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("")
	require.NoError(t, err)
	assert.Equal(t, ModePreview, m)
	m, err = ParseMode("publish")
	require.NoError(t, err)
	assert.Equal(t, ModePublish, m)
	_, err = ParseMode("print")
	assert.Error(t, err)
}
