package templates

import (
	"html/template"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

var objectFitClasses = map[string]string{
	"contain":    "object-contain",
	"cover":      "object-cover",
	"fill":       "object-fill",
	"none":       "object-none",
	"scale-down": "object-scale-down",
}

var buttonVariantClasses = map[string]string{
	"primary":   "btn btn-primary",
	"secondary": "btn btn-secondary",
	"outline":   "btn btn-outline",
	"link":      "btn btn-link",
}

func escape(s string) string {
	return template.HTMLEscapeString(s)
}

// open writes an opening tag carrying the node's styling plus attributes.
// Attributes with an empty value are omitted, except alt.
func (w *walk) open(tag string, a attrs, extraClasses []string, attributes ...[2]string) {
	b := &w.buf
	b.WriteString("<" + tag)
	if a.nodeID != "" {
		b.WriteString(` data-node-id="` + escape(a.nodeID) + `"`)
	}
	classes := append(append([]string{}, extraClasses...), a.classes...)
	if len(classes) > 0 {
		b.WriteString(` class="` + escape(strings.Join(classes, " ")) + `"`)
	}
	if a.style != "" {
		b.WriteString(` style="` + escape(a.style) + `"`)
	}
	for _, kv := range append(attributes, a.extra...) {
		if kv[1] == "" && kv[0] != "alt" {
			continue
		}
		b.WriteString(" " + kv[0] + `="` + escape(kv[1]) + `"`)
	}
	b.WriteString(">")
}

func (w *walk) close(tag string) {
	w.buf.WriteString("</" + tag + ">")
}

func (w *walk) text(s string) {
	w.buf.WriteString(escape(s))
}

func (w *walk) section(n *pagetree.Node, p *pagetree.SectionProps, a attrs) {
	w.open("section", a, nil, [2]string{"id", p.Anchor}, [2]string{"aria-label", p.Label})
	w.children(n)
	w.close("section")
}

func (w *walk) container(n *pagetree.Node, p *pagetree.ContainerProps, a attrs) {
	w.open("div", a, nil, [2]string{"aria-label", p.Label})
	w.children(n)
	w.close("div")
}

func (w *walk) navbar(n *pagetree.Node, p *pagetree.NavbarProps, a attrs) {
	var extra []string
	if p.Sticky {
		extra = []string{"sticky", "top-0"}
	}
	w.open("nav", a, extra)

	switch {
	case p.LogoType == "image" && safeURL(p.LogoSrc, true) != "":
		w.open("a", attrs{}, []string{"navbar-logo"}, [2]string{"href", "/"})
		w.open("img", attrs{}, nil, [2]string{"src", safeURL(p.LogoSrc, true)}, [2]string{"alt", p.LogoText})
		w.close("a")
	case p.LogoText != "":
		w.open("a", attrs{}, []string{"navbar-logo"}, [2]string{"href", "/"})
		w.open("span", attrs{}, nil)
		w.text(p.LogoText)
		w.close("span")
		w.close("a")
	}

	if len(p.Links) > 0 {
		w.open("ul", attrs{}, []string{"navbar-links"})
		for _, link := range p.Links {
			w.open("li", attrs{}, nil)
			w.open("a", attrs{}, nil, [2]string{"href", safeURL(link.Href, false)})
			w.text(link.Label)
			w.close("a")
			w.close("li")
		}
		w.close("ul")
	}

	w.children(n)
	w.close("nav")
}

func (w *walk) image(p *pagetree.ImageProps, a attrs) {
	var extra []string
	if class, ok := objectFitClasses[strings.ToLower(p.ObjectFit)]; ok {
		extra = []string{class}
	}
	w.open("img", a, extra,
		[2]string{"src", safeURL(p.Src, true)},
		[2]string{"alt", p.Alt},
		[2]string{"loading", "lazy"})
}

func (w *walk) heading(p *pagetree.HeadingProps, a attrs) {
	level := p.Level
	if level == 0 {
		level = 2
	}
	if level < 1 {
		level = 1
	}
	if level > 6 {
		level = 6
	}
	tag := "h" + strconv.Itoa(level)
	w.open(tag, a, nil)
	w.text(p.Text)
	w.close(tag)
}

func (w *walk) paragraph(p *pagetree.ParagraphProps, a attrs) {
	if !p.Markdown {
		w.open("p", a, nil)
		w.text(p.Text)
		w.close("p")
		return
	}
	w.open("div", a, []string{"prose"})
	html, err := w.renderer.renderMarkdown(p.Text)
	if err != nil {
		w.renderer.logger.Render().Warn("Falling back to plain text for markdown paragraph", "nodeId", a.nodeID, "error", err)
		w.open("p", attrs{}, nil)
		w.text(p.Text)
		w.close("p")
	} else {
		w.buf.WriteString(html)
	}
	w.close("div")
}

func (w *walk) button(p *pagetree.ButtonProps, a attrs) {
	classes, ok := buttonVariantClasses[strings.ToLower(p.Variant)]
	if !ok {
		classes = buttonVariantClasses["primary"]
	}
	var target, rel string
	switch p.Target {
	case "_blank":
		target, rel = "_blank", "noopener noreferrer"
	case "_self", "_parent", "_top":
		target = p.Target
	}
	href := safeURL(p.Href, false)
	if href == "" {
		href = "#"
	}
	w.open("a", a, strings.Fields(classes),
		[2]string{"href", href},
		[2]string{"target", target},
		[2]string{"rel", rel},
		[2]string{"role", "button"})
	w.text(p.Label)
	w.close("a")
}

func (w *walk) searchForm(p *pagetree.SearchFormProps, a attrs) {
	action := safeURL(p.Action, false)
	if action == "" {
		action = "/search"
	}
	placeholder := p.Placeholder
	if placeholder == "" {
		placeholder = "Where are you going?"
	}
	label := p.ButtonLabel
	if label == "" {
		label = "Search"
	}

	w.open("form", a, nil, [2]string{"action", action}, [2]string{"method", "get"}, [2]string{"role", "search"})
	w.open("input", attrs{}, nil, [2]string{"type", "search"}, [2]string{"name", "q"},
		[2]string{"placeholder", placeholder}, [2]string{"aria-label", placeholder})
	if p.ShowDates {
		w.open("input", attrs{}, nil, [2]string{"type", "date"}, [2]string{"name", "checkin"}, [2]string{"aria-label", "Check-in"})
		w.open("input", attrs{}, nil, [2]string{"type", "date"}, [2]string{"name", "checkout"}, [2]string{"aria-label", "Check-out"})
	}
	if p.ShowGuests {
		w.open("input", attrs{}, nil, [2]string{"type", "number"}, [2]string{"name", "guests"},
			[2]string{"min", "1"}, [2]string{"value", "2"}, [2]string{"aria-label", "Guests"})
	}
	w.open("button", attrs{}, nil, [2]string{"type", "submit"})
	w.text(label)
	w.close("button")
	w.close("form")
}

// safeURL returns u when its scheme is allowed, otherwise "". Images may
// also use inline data URLs.
func safeURL(u string, image bool) string {
	u = strings.TrimSpace(u)
	if u == "" {
		return ""
	}
	lower := strings.ToLower(u)
	switch {
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return u
	case strings.HasPrefix(lower, "mailto:"), strings.HasPrefix(lower, "tel:"):
		if image {
			return ""
		}
		return u
	case strings.HasPrefix(lower, "data:image/"):
		if image {
			return u
		}
		return ""
	case strings.HasPrefix(u, "//"):
		return ""
	case strings.HasPrefix(u, "/"), strings.HasPrefix(u, "#"), strings.HasPrefix(u, "?"), strings.HasPrefix(u, "./"):
		return u
	}
	// bare relative paths have no scheme separator before the first slash
	if i := strings.IndexAny(u, ":/"); i == -1 || u[i] == '/' {
		return u
	}
	return ""
}
