// Package tailwind compiles resolved style maps into Tailwind class tokens
// plus inline pass-through declarations. Compilation is total: unknown
// properties and unusable values are dropped, never reported.
package tailwind

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/domain/services/responsive"
)

// Presentation is the compiled form of one style map
type Presentation struct {
	Classes []string          `json:"classes"`
	Inline  pagetree.StyleMap `json:"inline"`
}

// ClassString joins the class tokens for a class attribute
func (p Presentation) ClassString() string {
	return strings.Join(p.Classes, " ")
}

// InlineString renders the inline declarations for a style attribute,
// ordered by property name
func (p Presentation) InlineString() string {
	return inlineString(p.Inline)
}

func inlineString(m pagetree.StyleMap) string {
	if len(m) == 0 {
		return ""
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + ": " + m[k]
	}
	return strings.Join(parts, "; ")
}

// Variants holds the responsive prefixes for the narrower tiers
type Variants struct {
	Tablet string
	Mobile string
}

// DefaultVariants targets Tailwind's max-width variants so that desktop
// tokens are the unprefixed base
func DefaultVariants() Variants {
	return Variants{Tablet: "max-lg:", Mobile: "max-md:"}
}

// Compiler compiles styles with a fixed set of responsive variants
type Compiler struct {
	variants Variants
}

// NewCompiler creates a compiler; empty variant prefixes fall back to the
// defaults
func NewCompiler(variants Variants) *Compiler {
	def := DefaultVariants()
	if variants.Tablet == "" {
		variants.Tablet = def.Tablet
	}
	if variants.Mobile == "" {
		variants.Mobile = def.Mobile
	}
	return &Compiler{variants: variants}
}

// Variants returns the prefixes in use
func (c *Compiler) Variants() Variants { return c.variants }

// Compile maps a flat style map to tokens and inline declarations
func Compile(styles pagetree.StyleMap, meta pagetree.SizingMeta) Presentation {
	tokens, inline := compileTokens(styles, meta)
	out := Presentation{Classes: make([]string, 0, len(tokens)), Inline: inline}
	for _, prop := range tokenOrder {
		if token := tokens[prop]; token != "" {
			out.Classes = append(out.Classes, token)
		}
	}
	return out
}

// compileTokens returns the token of every token-eligible property that
// produced one, keyed by property, plus the inline declarations
func compileTokens(styles pagetree.StyleMap, meta pagetree.SizingMeta) (map[string]string, pagetree.StyleMap) {
	props := normalizeKeys(styles)
	tokens := make(map[string]string, len(tokenOrder))
	inline := pagetree.StyleMap{}

	for _, prop := range tokenOrder {
		raw, ok := props[prop]
		if _, isDim := dimensionPrefixes[prop]; isDim {
			if token := dimensionToken(prop, raw, ok, meta); token != "" {
				tokens[prop] = token
			}
			continue
		}
		if !ok {
			continue
		}
		value, usable := cleanValue(raw)
		if !usable {
			continue
		}
		if token := propertyToken(prop, value); token != "" {
			tokens[prop] = token
		}
	}

	for prop, cssName := range passThrough {
		raw, ok := props[prop]
		if !ok {
			continue
		}
		value, usable := cleanValue(raw)
		if !usable {
			continue
		}
		if prop == "backgroundImage" {
			value = wrapURL(value)
		}
		inline[cssName] = value
	}

	return tokens, inline
}

// CompileNode resolves node at bp and compiles the result, which is what a
// live preview of a single breakpoint needs
func (c *Compiler) CompileNode(node *pagetree.Node, bp pagetree.Breakpoint) Presentation {
	return Compile(responsive.Resolve(node, bp), responsive.ResolveMeta(node, bp))
}

func propertyToken(prop, value string) string {
	switch prop {
	case "display":
		return lookupOrArbitrary(displayTokens, prop, value)
	case "justifyContent":
		return lookupOrArbitrary(justifyTokens, prop, value)
	case "alignItems":
		return lookupOrArbitrary(alignItemsTokens, prop, value)
	case "alignSelf":
		return lookupOrArbitrary(alignSelfTokens, prop, value)
	case "textAlign":
		return lookupOrArbitrary(textAlignTokens, prop, value)
	case "gap", "rowGap", "columnGap", "margin", "marginTop", "marginRight", "marginBottom", "marginLeft":
		return spacingToken(spacingPrefixes[prop], value)
	case "borderRadius":
		return radiusToken(value)
	case "fontSize":
		if px, ok := parsePixels(value); ok {
			if token, found := fontSizeScale[px]; found {
				return token
			}
		}
		return arbitrary("text", value)
	case "fontWeight":
		if token, found := fontWeightTokens[strings.ToLower(value)]; found {
			return token
		}
		return arbitrary("font", value)
	}
	return ""
}

func lookupOrArbitrary(table map[string]string, prop, value string) string {
	if token, ok := table[strings.ToLower(value)]; ok {
		return token
	}
	safe, ok := sanitizeArbitrary(value)
	if !ok {
		return ""
	}
	return "[" + cssNames[prop] + ":" + safe + "]"
}

func spacingToken(prefix, value string) string {
	if strings.EqualFold(value, "auto") && strings.HasPrefix(prefix, "m") {
		return prefix + "-auto"
	}
	negative := false
	magnitude := value
	if strings.HasPrefix(value, "-") {
		negative = true
		magnitude = value[1:]
	}
	if px, ok := parsePixels(magnitude); ok {
		if unit, found := spacingScale[px]; found {
			if negative && px != 0 {
				if !strings.HasPrefix(prefix, "m") {
					return arbitrary(prefix, value)
				}
				return "-" + prefix + "-" + unit
			}
			return prefix + "-" + unit
		}
	}
	return arbitrary(prefix, value)
}

func radiusToken(value string) string {
	if value == "50%" {
		return "rounded-full"
	}
	if px, ok := parsePixels(value); ok {
		if token, found := radiusScale[px]; found {
			return token
		}
		if px > 9999 {
			return "rounded-full"
		}
	}
	return arbitrary("rounded", value)
}

var dimensionPattern = regexp.MustCompile(`^-?(\d+(\.\d+)?|\.\d+)(px|%|rem|em|vw|vh|dvh|svh|lvh|ch)$`)
var calcPattern = regexp.MustCompile(`^(calc|min|max|clamp)\(.+\)$`)

// dimensionToken handles width, height, maxWidth and minHeight. Sizing
// hints win over stored values for width and height: fill stretches and hug
// shrinks to content; auto and fixed defer to the style value.
func dimensionToken(prop, raw string, present bool, meta pagetree.SizingMeta) string {
	prefix := dimensionPrefixes[prop]
	mode := pagetree.SizingMode("")
	switch prop {
	case "width":
		mode = meta.WidthMode
	case "height":
		mode = meta.HeightMode
	}
	switch mode {
	case pagetree.SizingFill:
		return prefix + "-full"
	case pagetree.SizingHug:
		return prefix + "-fit"
	}

	if !present {
		return ""
	}
	value, usable := cleanValue(raw)
	if !usable {
		return ""
	}
	if token, ok := dimensionKeywords[prop][strings.ToLower(value)]; ok {
		return token
	}
	if value == "0" || dimensionPattern.MatchString(value) || calcPattern.MatchString(value) {
		if px, ok := parsePixels(value); ok && px == 0 {
			return prefix + "-0"
		}
		return arbitrary(prefix, value)
	}
	return ""
}

// parsePixels reads "16", "16px" or "1rem" as a whole number of pixels
func parsePixels(value string) (int, bool) {
	v := strings.TrimSpace(strings.ToLower(value))
	multiplier := 1.0
	switch {
	case strings.HasSuffix(v, "px"):
		v = strings.TrimSuffix(v, "px")
	case strings.HasSuffix(v, "rem"):
		v = strings.TrimSuffix(v, "rem")
		multiplier = 16
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	px := f * multiplier
	if px != math.Trunc(px) || px > math.MaxInt32 {
		return 0, false
	}
	return int(px), true
}

// arbitrary emits a bracketed token carrying the raw value, or nothing when
// the value cannot live inside a class name
func arbitrary(prefix, value string) string {
	safe, ok := sanitizeArbitrary(value)
	if !ok {
		return ""
	}
	return prefix + "-[" + safe + "]"
}

func sanitizeArbitrary(value string) (string, bool) {
	if strings.ContainsAny(value, "[]\"'<>`\\{};") {
		return "", false
	}
	fields := strings.Fields(value)
	if len(fields) == 0 {
		return "", false
	}
	return strings.Join(fields, "_"), true
}

// cleanValue trims a raw value and rejects the placeholders editors leave
// behind
func cleanValue(raw string) (string, bool) {
	v := strings.TrimSpace(raw)
	switch strings.ToLower(v) {
	case "", "undefined", "null", "nan":
		return "", false
	}
	return v, true
}

func wrapURL(value string) string {
	if strings.Contains(value, "(") {
		return value
	}
	return `url("` + strings.ReplaceAll(value, `"`, `%22`) + `")`
}

// normalizeKeys accepts camelCase or kebab-case names; camelCase wins when
// both spellings are present
func normalizeKeys(styles pagetree.StyleMap) map[string]string {
	out := make(map[string]string, len(styles))
	for k, v := range styles {
		if strings.Contains(k, "-") {
			out[camelize(k)] = v
		}
	}
	for k, v := range styles {
		if !strings.Contains(k, "-") {
			out[k] = v
		}
	}
	return out
}

func camelize(name string) string {
	parts := strings.Split(strings.Trim(name, "-"), "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] == "" {
			continue
		}
		parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
	}
	return strings.Join(parts, "")
}
