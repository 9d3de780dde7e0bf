// Package templates renders a page tree to HTML, either as a responsive
// published page or as a live preview of one breakpoint
package templates

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/tailwind"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/observability/logging"
	"github.com/yuin/goldmark"
)

// Mode selects how styles are applied
type Mode string

const (
	// ModePublish emits responsive classes for every tier and moves inline
	// declarations into a scoped style sheet
	ModePublish Mode = "publish"
	// ModePreview resolves one breakpoint and writes inline styles on each
	// element
	ModePreview Mode = "preview"
)

// ParseMode converts a raw name into a Mode; empty means preview
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case "", ModePreview:
		return ModePreview, nil
	case ModePublish:
		return ModePublish, nil
	}
	return "", fmt.Errorf("unknown render mode %q", s)
}

// Options controls one render
type Options struct {
	Mode       Mode
	Breakpoint pagetree.Breakpoint
	Title      string
}

// Result is a rendered tree. CSS is only set in publish mode.
type Result struct {
	HTML      string `json:"html"`
	CSS       string `json:"css,omitempty"`
	NodeCount int    `json:"nodeCount"`
}

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
{{- if .CSS}}
<style>{{.CSS}}</style>
{{- end}}
</head>
<body>
{{.Body}}
</body>
</html>
`))

// Page wraps the result in a complete HTML document
func (r *Result) Page(title string) (string, error) {
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title string
		CSS   template.CSS
		Body  template.HTML
	}{title, template.CSS(r.CSS), template.HTML(r.HTML)})
	if err != nil {
		return "", fmt.Errorf("failed to render page: %w", err)
	}
	return buf.String(), nil
}

// Renderer turns page trees into HTML
type Renderer struct {
	compiler *tailwind.Compiler
	markdown goldmark.Markdown
	logger   *logging.ChanneledLogger
}

// NewRenderer creates a renderer using compiler for class generation
func NewRenderer(compiler *tailwind.Compiler, logger *logging.ChanneledLogger) *Renderer {
	if compiler == nil {
		compiler = tailwind.NewCompiler(tailwind.DefaultVariants())
	}
	if logger == nil {
		logger = logging.NewDiscardLogger()
	}
	return &Renderer{
		compiler: compiler,
		markdown: goldmark.New(),
		logger:   logger,
	}
}

// Render walks the tree from its root. An empty tree renders to nothing.
func (r *Renderer) Render(state *pagetree.PageTreeState, opts Options) (*Result, error) {
	start := time.Now()
	if opts.Mode == "" {
		opts.Mode = ModePreview
	}
	if opts.Mode == ModePreview {
		if opts.Breakpoint == "" {
			opts.Breakpoint = pagetree.BreakpointDesktop
		}
		if !opts.Breakpoint.IsValid() {
			return nil, fmt.Errorf("unknown breakpoint %q", opts.Breakpoint)
		}
	}
	if state == nil || state.RootNodeID == "" {
		return &Result{}, nil
	}

	w := &walk{
		renderer: r,
		state:    state,
		opts:     opts,
		visited:  make(map[string]bool, len(state.Nodes)),
		sheet:    newStyleSheet(),
	}
	w.node(state.RootNodeID)

	out := &Result{HTML: w.buf.String(), NodeCount: len(w.visited)}
	if opts.Mode == ModePublish {
		out.CSS = w.sheet.String()
	}
	r.logger.Render().Info("Rendered page tree", "mode", opts.Mode, "breakpoint", opts.Breakpoint,
		"nodes", out.NodeCount, "bytes", len(out.HTML), "duration", time.Since(start))
	return out, nil
}

// walk holds the state of one render pass
type walk struct {
	renderer *Renderer
	state    *pagetree.PageTreeState
	opts     Options
	visited  map[string]bool
	sheet    *styleSheet
	buf      strings.Builder
}

// attrs is the styling of one element
type attrs struct {
	nodeID  string
	classes []string
	style   string
	extra   [][2]string
}

func (w *walk) node(id string) {
	n, ok := w.state.Nodes[id]
	if !ok || w.visited[id] {
		return
	}
	w.visited[id] = true

	a := w.styleFor(n)
	if w.opts.Mode == ModePreview {
		if id == w.state.SelectedNodeID {
			a.extra = append(a.extra, [2]string{"data-selected", "true"})
		}
		if id == w.state.HoveredNodeID {
			a.extra = append(a.extra, [2]string{"data-hovered", "true"})
		}
	}

	switch props := n.Props.(type) {
	case *pagetree.SectionProps:
		w.section(n, props, a)
	case *pagetree.ContainerProps:
		w.container(n, props, a)
	case *pagetree.NavbarProps:
		w.navbar(n, props, a)
	case *pagetree.ImageProps:
		w.image(props, a)
	case *pagetree.HeadingProps:
		w.heading(props, a)
	case *pagetree.ParagraphProps:
		w.paragraph(props, a)
	case *pagetree.ButtonProps:
		w.button(props, a)
	case *pagetree.SearchFormProps:
		w.searchForm(props, a)
	default:
		w.renderer.logger.Render().Debug("Skipping node with unknown props", "nodeId", id, "type", n.Type)
	}
}

func (w *walk) children(n *pagetree.Node) {
	for _, child := range n.Children {
		w.node(child)
	}
}

// styleFor compiles a node's styles for the current mode
func (w *walk) styleFor(n *pagetree.Node) attrs {
	a := attrs{nodeID: n.ID}
	if w.opts.Mode == ModePublish {
		p := w.renderer.compiler.CompileResponsive(n)
		a.classes = p.Classes
		for _, bp := range pagetree.Breakpoints {
			w.sheet.add(n.ID, bp, p.InlineOverrides(bp))
		}
		return a
	}
	p := w.renderer.compiler.CompileNode(n, w.opts.Breakpoint)
	a.classes = p.Classes
	a.style = safeInline(p.Inline)
	return a
}
