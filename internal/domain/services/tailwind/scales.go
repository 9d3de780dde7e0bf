package tailwind

// spacingScale maps pixel values to Tailwind spacing units
var spacingScale = map[int]string{
	0:  "0",
	4:  "1",
	8:  "2",
	12: "3",
	16: "4",
	20: "5",
	24: "6",
	32: "8",
	40: "10",
	48: "12",
	64: "16",
	80: "20",
	96: "24",
}

var radiusScale = map[int]string{
	0:    "rounded-none",
	2:    "rounded-sm",
	4:    "rounded",
	6:    "rounded-md",
	8:    "rounded-lg",
	12:   "rounded-xl",
	16:   "rounded-2xl",
	24:   "rounded-3xl",
	9999: "rounded-full",
}

var fontSizeScale = map[int]string{
	12:  "text-xs",
	14:  "text-sm",
	16:  "text-base",
	18:  "text-lg",
	20:  "text-xl",
	24:  "text-2xl",
	30:  "text-3xl",
	36:  "text-4xl",
	48:  "text-5xl",
	60:  "text-6xl",
	72:  "text-7xl",
	96:  "text-8xl",
	128: "text-9xl",
}

var fontWeightTokens = map[string]string{
	"100":    "font-thin",
	"200":    "font-extralight",
	"300":    "font-light",
	"400":    "font-normal",
	"normal": "font-normal",
	"500":    "font-medium",
	"600":    "font-semibold",
	"700":    "font-bold",
	"bold":   "font-bold",
	"800":    "font-extrabold",
	"900":    "font-black",
}

var displayTokens = map[string]string{
	"block":        "block",
	"inline-block": "inline-block",
	"inline":       "inline",
	"flex":         "flex",
	"inline-flex":  "inline-flex",
	"grid":         "grid",
	"inline-grid":  "inline-grid",
	"contents":     "contents",
	"table":        "table",
	"none":         "hidden",
}

var justifyTokens = map[string]string{
	"flex-start":    "justify-start",
	"start":         "justify-start",
	"center":        "justify-center",
	"flex-end":      "justify-end",
	"end":           "justify-end",
	"space-between": "justify-between",
	"space-around":  "justify-around",
	"space-evenly":  "justify-evenly",
	"stretch":       "justify-stretch",
	"normal":        "justify-normal",
}

var alignItemsTokens = map[string]string{
	"flex-start": "items-start",
	"start":      "items-start",
	"center":     "items-center",
	"flex-end":   "items-end",
	"end":        "items-end",
	"stretch":    "items-stretch",
	"baseline":   "items-baseline",
}

var alignSelfTokens = map[string]string{
	"auto":       "self-auto",
	"flex-start": "self-start",
	"start":      "self-start",
	"center":     "self-center",
	"flex-end":   "self-end",
	"end":        "self-end",
	"stretch":    "self-stretch",
	"baseline":   "self-baseline",
}

var textAlignTokens = map[string]string{
	"left":    "text-left",
	"center":  "text-center",
	"right":   "text-right",
	"justify": "text-justify",
	"start":   "text-start",
	"end":     "text-end",
}

// dimensionKeywords maps keyword values of each dimensional property to
// their dedicated token
var dimensionKeywords = map[string]map[string]string{
	"width": {
		"auto":        "w-auto",
		"100%":        "w-full",
		"100vw":       "w-screen",
		"fit-content": "w-fit",
		"min-content": "w-min",
		"max-content": "w-max",
	},
	"height": {
		"auto":        "h-auto",
		"100%":        "h-full",
		"100vh":       "h-screen",
		"fit-content": "h-fit",
		"min-content": "h-min",
		"max-content": "h-max",
	},
	"maxWidth": {
		"none":        "max-w-none",
		"100%":        "max-w-full",
		"fit-content": "max-w-fit",
		"min-content": "max-w-min",
		"max-content": "max-w-max",
	},
	"minHeight": {
		"0":           "min-h-0",
		"100%":        "min-h-full",
		"100vh":       "min-h-screen",
		"fit-content": "min-h-fit",
		"min-content": "min-h-min",
		"max-content": "min-h-max",
	},
}

var dimensionPrefixes = map[string]string{
	"width":     "w",
	"height":    "h",
	"maxWidth":  "max-w",
	"minHeight": "min-h",
}

var spacingPrefixes = map[string]string{
	"gap":          "gap",
	"rowGap":       "gap-y",
	"columnGap":    "gap-x",
	"margin":       "m",
	"marginTop":    "mt",
	"marginRight":  "mr",
	"marginBottom": "mb",
	"marginLeft":   "ml",
}

// passThrough maps style properties applied inline to their CSS names
var passThrough = map[string]string{
	"backgroundColor":    "background-color",
	"backgroundImage":    "background-image",
	"backgroundSize":     "background-size",
	"backgroundPosition": "background-position",
	"backgroundRepeat":   "background-repeat",
	"color":              "color",
	"padding":            "padding",
	"paddingTop":         "padding-top",
	"paddingRight":       "padding-right",
	"paddingBottom":      "padding-bottom",
	"paddingLeft":        "padding-left",
	"flexDirection":      "flex-direction",
	"flexWrap":           "flex-wrap",
}

// tokenOrder fixes the order in which properties are emitted
var tokenOrder = []string{
	"display",
	"justifyContent", "alignItems", "alignSelf",
	"gap", "rowGap", "columnGap",
	"margin", "marginTop", "marginRight", "marginBottom", "marginLeft",
	"width", "height", "maxWidth", "minHeight",
	"borderRadius",
	"fontSize", "fontWeight", "textAlign",
}

// cssNames maps token-eligible properties to CSS names for arbitrary
// property tokens
var cssNames = map[string]string{
	"display":        "display",
	"justifyContent": "justify-content",
	"alignItems":     "align-items",
	"alignSelf":      "align-self",
	"textAlign":      "text-align",
}

// resetTokens restore a property to its initial value when a narrower tier
// drops a value a wider tier set
var resetTokens = map[string]string{
	"display":        "[display:revert]",
	"justifyContent": "justify-normal",
	"alignItems":     "items-stretch",
	"alignSelf":      "self-auto",
	"gap":            "gap-0",
	"rowGap":         "gap-y-0",
	"columnGap":      "gap-x-0",
	"margin":         "m-0",
	"marginTop":      "mt-0",
	"marginRight":    "mr-0",
	"marginBottom":   "mb-0",
	"marginLeft":     "ml-0",
	"width":          "w-auto",
	"height":         "h-auto",
	"maxWidth":       "max-w-none",
	"minHeight":      "min-h-0",
	"borderRadius":   "rounded-none",
	"fontSize":       "[font-size:inherit]",
	"fontWeight":     "font-normal",
	"textAlign":      "text-start",
}
