package pagetree

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Props is the typed property set of a node. Each NodeType has exactly one
// implementation.
type Props interface {
	NodeType() NodeType
}

// SectionProps configures a top-level page section
type SectionProps struct {
	Anchor string `json:"anchor,omitempty"`
	Label  string `json:"label,omitempty"`
}

// ContainerProps configures a generic layout container
type ContainerProps struct {
	Label string `json:"label,omitempty"`
}

// NavLink is a single navbar entry
type NavLink struct {
	Label string `json:"label"`
	Href  string `json:"href"`
}

// NavbarProps configures the site navigation bar
type NavbarProps struct {
	Links    []NavLink `json:"links,omitempty"`
	LogoType string    `json:"logoType,omitempty"` // "text" or "image"
	LogoText string    `json:"logoText,omitempty"`
	LogoSrc  string    `json:"logoSrc,omitempty"`
	Sticky   bool      `json:"sticky,omitempty"`
}

// ImageProps configures an image element
type ImageProps struct {
	Src       string `json:"src,omitempty"`
	Alt       string `json:"alt,omitempty"`
	ObjectFit string `json:"objectFit,omitempty"`
}

// HeadingProps configures a heading; Level is 1-6 and defaults to 2
type HeadingProps struct {
	Text  string `json:"text,omitempty"`
	Level int    `json:"level,omitempty"`
}

// ParagraphProps configures a block of body copy
type ParagraphProps struct {
	Text     string `json:"text,omitempty"`
	Markdown bool   `json:"markdown,omitempty"`
}

// ButtonProps configures a call-to-action link styled as a button
type ButtonProps struct {
	Label   string `json:"label,omitempty"`
	Href    string `json:"href,omitempty"`
	Target  string `json:"target,omitempty"`
	Variant string `json:"variant,omitempty"`
}

// SearchFormProps configures the hotel search form
type SearchFormProps struct {
	Action      string `json:"action,omitempty"`
	Placeholder string `json:"placeholder,omitempty"`
	ButtonLabel string `json:"buttonLabel,omitempty"`
	ShowDates   bool   `json:"showDates,omitempty"`
	ShowGuests  bool   `json:"showGuests,omitempty"`
}

func (SectionProps) NodeType() NodeType    { return NodeTypeSection }
func (ContainerProps) NodeType() NodeType  { return NodeTypeContainer }
func (NavbarProps) NodeType() NodeType     { return NodeTypeNavbar }
func (ImageProps) NodeType() NodeType      { return NodeTypeImage }
func (HeadingProps) NodeType() NodeType    { return NodeTypeHeading }
func (ParagraphProps) NodeType() NodeType  { return NodeTypeParagraph }
func (ButtonProps) NodeType() NodeType     { return NodeTypeButton }
func (SearchFormProps) NodeType() NodeType { return NodeTypeSearchForm }

// NewProps returns the zero props variant for a node type
func NewProps(t NodeType) (Props, error) {
	switch t {
	case NodeTypeSection:
		return &SectionProps{}, nil
	case NodeTypeContainer:
		return &ContainerProps{}, nil
	case NodeTypeNavbar:
		return &NavbarProps{}, nil
	case NodeTypeImage:
		return &ImageProps{}, nil
	case NodeTypeHeading:
		return &HeadingProps{}, nil
	case NodeTypeParagraph:
		return &ParagraphProps{}, nil
	case NodeTypeButton:
		return &ButtonProps{}, nil
	case NodeTypeSearchForm:
		return &SearchFormProps{}, nil
	}
	return nil, fmt.Errorf("unknown node type %q", t)
}

// DecodeProps decodes raw JSON into the props variant of the node type.
// Empty input yields the zero variant; unknown fields are ignored.
func DecodeProps(t NodeType, raw json.RawMessage) (Props, error) {
	props, err := NewProps(t)
	if err != nil {
		return nil, err
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return props, nil
	}
	if err := json.Unmarshal(trimmed, props); err != nil {
		return nil, fmt.Errorf("failed to decode %s props: %w", t, err)
	}
	return props, nil
}

// DecodePropsMap converts an untyped map (from YAML or a request body) into
// the props variant of the node type
func DecodePropsMap(t NodeType, m map[string]any) (Props, error) {
	if len(m) == 0 {
		return NewProps(t)
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s props: %w", t, err)
	}
	return DecodeProps(t, raw)
}

// PropsToMap flattens a typed props value into an untyped map
func PropsToMap(p Props) (map[string]any, error) {
	out := map[string]any{}
	if p == nil {
		return out, nil
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode props: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("failed to flatten props: %w", err)
	}
	return out, nil
}

// MergeProps shallow-merges partial over p and returns a new value of the
// same variant. Keys that the variant does not declare, or values of the
// wrong shape, are rejected and p is left untouched.
func MergeProps(p Props, partial map[string]any) (Props, error) {
	if p == nil {
		return nil, fmt.Errorf("cannot merge into nil props")
	}
	base, err := PropsToMap(p)
	if err != nil {
		return nil, err
	}
	for k, v := range partial {
		base[k] = v
	}
	raw, err := json.Marshal(base)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged props: %w", err)
	}

	out, err := NewProps(p.NodeType())
	if err != nil {
		return nil, err
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return nil, fmt.Errorf("invalid %s props: %w", p.NodeType(), err)
	}
	return out, nil
}

// CloneProps returns a deep copy of p
func CloneProps(p Props) Props {
	switch v := p.(type) {
	case nil:
		return nil
	case *SectionProps:
		c := *v
		return &c
	case *ContainerProps:
		c := *v
		return &c
	case *NavbarProps:
		c := *v
		if v.Links != nil {
			c.Links = append([]NavLink(nil), v.Links...)
		}
		return &c
	case *ImageProps:
		c := *v
		return &c
	case *HeadingProps:
		c := *v
		return &c
	case *ParagraphProps:
		c := *v
		return &c
	case *ButtonProps:
		c := *v
		return &c
	case *SearchFormProps:
		c := *v
		return &c
	}
	return p
}
