package templates

import (
	"regexp"
	"sort"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
)

// media queries matching the max-lg and max-md variants
var mediaQueries = map[pagetree.Breakpoint]string{
	pagetree.BreakpointTablet: "@media (max-width: 1023px)",
	pagetree.BreakpointMobile: "@media (max-width: 767px)",
}

var selectorSafeID = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// styleSheet collects per-node declarations for publish mode, scoped by the
// data-node-id attribute
type styleSheet struct {
	rules map[pagetree.Breakpoint][]string
}

func newStyleSheet() *styleSheet {
	return &styleSheet{rules: make(map[pagetree.Breakpoint][]string, len(pagetree.Breakpoints))}
}

func (s *styleSheet) add(nodeID string, bp pagetree.Breakpoint, decls pagetree.StyleMap) {
	body := declarations(decls, ":", ";")
	if body == "" || !selectorSafeID.MatchString(nodeID) {
		return
	}
	s.rules[bp] = append(s.rules[bp], `[data-node-id="`+nodeID+`"]{`+body+`}`)
}

func (s *styleSheet) String() string {
	var b strings.Builder
	for _, rule := range s.rules[pagetree.BreakpointDesktop] {
		b.WriteString(rule)
		b.WriteByte('\n')
	}
	for _, bp := range []pagetree.Breakpoint{pagetree.BreakpointTablet, pagetree.BreakpointMobile} {
		if len(s.rules[bp]) == 0 {
			continue
		}
		b.WriteString(mediaQueries[bp])
		b.WriteString("{\n")
		for _, rule := range s.rules[bp] {
			b.WriteString(rule)
			b.WriteByte('\n')
		}
		b.WriteString("}\n")
	}
	return b.String()
}

// declarations joins safe declarations in property order
func declarations(m pagetree.StyleMap, assign, sep string) string {
	keys := make([]string, 0, len(m))
	for k, v := range m {
		if safeDeclaration(k, v) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + assign + m[k]
	}
	return strings.Join(parts, sep)
}

// safeInline renders declarations for a style attribute
func safeInline(m pagetree.StyleMap) string {
	return declarations(m, ": ", "; ")
}

// safeDeclaration rejects values that could close the declaration, the
// rule or the surrounding element
func safeDeclaration(prop, value string) bool {
	if prop == "" || value == "" {
		return false
	}
	if strings.ContainsAny(prop, ":;{}<>\"'\\ ") {
		return false
	}
	lower := strings.ToLower(value)
	if strings.ContainsAny(value, ";{}<>\\") || strings.Contains(lower, "expression(") || strings.Contains(lower, "javascript:") {
		return false
	}
	return true
}
