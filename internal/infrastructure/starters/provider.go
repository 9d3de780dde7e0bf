// Package starters provides the built-in page templates a new editing
// session can start from
package starters

import (
	"embed"
	"errors"
	"fmt"
	"path"
	"sort"

	"github.com/AtRiskMedia/pagetree-go/internal/domain/entities/pagetree"
	"github.com/AtRiskMedia/pagetree-go/internal/infrastructure/security"
	"gopkg.in/yaml.v3"
)

//go:embed templates/*.yaml
var templateFS embed.FS

// ErrUnknownStarter is returned by Load for a name that is not registered
var ErrUnknownStarter = errors.New("unknown starter template")

// Starter is a ready-to-load tree
type Starter struct {
	Name       string
	Title      string
	Nodes      []*pagetree.Node
	RootNodeID string
}

// Summary describes a starter without its nodes
type Summary struct {
	Name      string `json:"name"`
	Title     string `json:"title"`
	NodeCount int    `json:"nodeCount"`
}

type starterFile struct {
	Name  string      `yaml:"name"`
	Title string      `yaml:"title"`
	Root  starterNode `yaml:"root"`
}

type starterNode struct {
	ID       string         `yaml:"id"`
	Type     string         `yaml:"type"`
	Locked   bool           `yaml:"locked"`
	Props    map[string]any `yaml:"props"`
	Styles   starterStyles  `yaml:"styles"`
	Children []starterNode  `yaml:"children"`
}

type starterStyles struct {
	Desktop map[string]string                           `yaml:"desktop"`
	Tablet  map[string]string                           `yaml:"tablet"`
	Mobile  map[string]string                           `yaml:"mobile"`
	Meta    map[pagetree.Breakpoint]pagetree.SizingMeta `yaml:"meta"`
}

// Provider holds the parsed starters
type Provider struct {
	starters map[string]*Starter
	newID    func() string
}

// Option configures a Provider
type Option func(*Provider)

// WithIDGenerator replaces the ULID generator used when a starter is loaded
func WithIDGenerator(gen func() string) Option {
	return func(p *Provider) { p.newID = gen }
}

// NewProvider parses every embedded template
func NewProvider(opts ...Option) (*Provider, error) {
	p := &Provider{starters: map[string]*Starter{}, newID: security.GenerateULID}
	for _, opt := range opts {
		opt(p)
	}

	entries, err := templateFS.ReadDir("templates")
	if err != nil {
		return nil, fmt.Errorf("failed to list starter templates: %w", err)
	}
	for _, entry := range entries {
		data, err := templateFS.ReadFile(path.Join("templates", entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read starter %s: %w", entry.Name(), err)
		}
		starter, err := Parse(data)
		if err != nil {
			return nil, fmt.Errorf("starter %s: %w", entry.Name(), err)
		}
		p.starters[starter.Name] = starter
	}
	return p, nil
}

// Parse decodes one YAML starter definition into a flat node list
func Parse(data []byte) (*Starter, error) {
	var file starterFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to decode starter: %w", err)
	}
	if file.Name == "" {
		return nil, errors.New("starter has no name")
	}
	if file.Root.ID == "" {
		return nil, errors.New("starter has no root node")
	}

	starter := &Starter{Name: file.Name, Title: file.Title, RootNodeID: file.Root.ID}
	seen := map[string]bool{}
	if err := flatten(file.Root, "", 0, &starter.Nodes, seen); err != nil {
		return nil, err
	}
	return starter, nil
}

func flatten(sn starterNode, parentID string, index int, out *[]*pagetree.Node, seen map[string]bool) error {
	if sn.ID == "" {
		return fmt.Errorf("node under %q has no id", parentID)
	}
	if seen[sn.ID] {
		return fmt.Errorf("duplicate node id %q", sn.ID)
	}
	seen[sn.ID] = true

	t, err := pagetree.ParseNodeType(sn.Type)
	if err != nil {
		return fmt.Errorf("node %q: %w", sn.ID, err)
	}
	props, err := pagetree.DecodePropsMap(t, sn.Props)
	if err != nil {
		return fmt.Errorf("node %q: %w", sn.ID, err)
	}

	node := &pagetree.Node{
		ID:       sn.ID,
		Type:     t,
		ParentID: parentID,
		Props:    props,
		Styles: pagetree.ResponsiveStyles{
			Desktop: sn.Styles.Desktop,
			Tablet:  sn.Styles.Tablet,
			Mobile:  sn.Styles.Mobile,
			Meta:    sn.Styles.Meta,
		},
		Children:   make([]string, 0, len(sn.Children)),
		OrderIndex: index,
		Locked:     sn.Locked,
	}
	node.Styles.Normalize()
	*out = append(*out, node)

	for i, child := range sn.Children {
		node.Children = append(node.Children, child.ID)
		if err := flatten(child, sn.ID, i, out, seen); err != nil {
			return err
		}
	}
	return nil
}

// Names lists the registered starters, sorted
func (p *Provider) Names() []string {
	names := make([]string, 0, len(p.starters))
	for name := range p.starters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Summaries describes every registered starter, sorted by name
func (p *Provider) Summaries() []Summary {
	out := make([]Summary, 0, len(p.starters))
	for _, name := range p.Names() {
		s := p.starters[name]
		out = append(out, Summary{Name: s.Name, Title: s.Title, NodeCount: len(s.Nodes)})
	}
	return out
}

// Load returns a private copy of the named starter with fresh node ids
func (p *Provider) Load(name string) (*Starter, error) {
	src, ok := p.starters[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStarter, name)
	}

	ids := make(map[string]string, len(src.Nodes))
	for _, n := range src.Nodes {
		ids[n.ID] = p.newID()
	}

	out := &Starter{Name: src.Name, Title: src.Title, RootNodeID: ids[src.RootNodeID], Nodes: make([]*pagetree.Node, len(src.Nodes))}
	for i, n := range src.Nodes {
		c := n.Clone()
		c.ID = ids[n.ID]
		if n.ParentID != "" {
			c.ParentID = ids[n.ParentID]
		}
		for j, child := range n.Children {
			c.Children[j] = ids[child]
		}
		out.Nodes[i] = c
	}
	return out, nil
}
