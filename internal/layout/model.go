// Package layout describes the workbench panel arrangement: a static tree of
// rows, columns and tab sets, shared by the web and terminal surfaces.
package layout

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// NodeType is the kind of a layout node.
type NodeType string

// Node types.
const (
	NodeRow    NodeType = "row"
	NodeColumn NodeType = "column"
	NodeTabSet NodeType = "tabset"
	NodeTab    NodeType = "tab"
)

// Component names registered by the workbench.
const (
	ComponentSQL     = "sql"
	ComponentResults = "results"
	ComponentImport  = "import"
	ComponentStats   = "stats"
)

// RunQueryKey is the shortcut that runs the editor contents. "mod" is Ctrl or
// Cmd in the browser; the terminal binds Alt+Enter.
const RunQueryKey = "mod+enter"

// Node is one element of the layout tree.
type Node struct {
	Type      NodeType `json:"type" yaml:"type"`
	Weight    float64  `json:"weight,omitempty" yaml:"weight,omitempty"`
	Name      string   `json:"name,omitempty" yaml:"name,omitempty"`
	Component string   `json:"component,omitempty" yaml:"component,omitempty"`
	Children  []Node   `json:"children,omitempty" yaml:"children,omitempty"`
}

// Global holds layout-wide flags.
type Global struct {
	TabEnablePopout bool `json:"tabEnablePopout" yaml:"tabEnablePopout"`
}

// Model is a full layout.
type Model struct {
	Global Global `json:"global" yaml:"global"`
	Layout Node   `json:"layout" yaml:"layout"`
}

func tabset(weight float64, name, component string) Node {
	return Node{
		Type:     NodeTabSet,
		Weight:   weight,
		Children: []Node{{Type: NodeTab, Name: name, Component: component}},
	}
}

// Default returns the built-in arrangement: SQL over Results on the left,
// Import over Stats on the right.
func Default() Model {
	return Model{
		Global: Global{TabEnablePopout: false},
		Layout: Node{
			Type:   NodeRow,
			Weight: 100,
			Children: []Node{
				{
					Type:   NodeColumn,
					Weight: 70,
					Children: []Node{
						tabset(50, "SQL", ComponentSQL),
						tabset(50, "Results", ComponentResults),
					},
				},
				{
					Type:   NodeColumn,
					Weight: 30,
					Children: []Node{
						tabset(50, "Import", ComponentImport),
						tabset(50, "Stats", ComponentStats),
					},
				},
			},
		},
	}
}

// Load decodes a layout from YAML or JSON and validates it.
func Load(r io.Reader) (Model, error) {
	var m Model
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&m); err != nil {
		if errors.Is(err, io.EOF) {
			return Model{}, errors.New("layout file is empty")
		}
		return Model{}, fmt.Errorf("failed to parse layout: %w", err)
	}
	if err := m.Validate(); err != nil {
		return Model{}, err
	}
	return m, nil
}

// LoadFile loads a layout from path.
func LoadFile(path string) (Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return Model{}, fmt.Errorf("failed to open layout: %w", err)
	}
	defer func() { _ = f.Close() }()
	return Load(f)
}

// Validate checks structure. The root is a row or column and children of rows
// and columns carry positive weights. Tab sets hold only tabs, and every tab
// names a component that appears nowhere else.
func (m Model) Validate() error {
	if m.Layout.Type != NodeRow && m.Layout.Type != NodeColumn {
		return fmt.Errorf("layout root must be a row or column, got %q", m.Layout.Type)
	}
	seen := map[string]bool{}
	return validate(m.Layout, "layout", seen)
}

func validate(n Node, path string, seen map[string]bool) error {
	if n.Weight < 0 {
		return fmt.Errorf("%s: weight must not be negative", path)
	}

	switch n.Type {
	case NodeRow, NodeColumn:
		if len(n.Children) == 0 {
			return fmt.Errorf("%s: %s has no children", path, n.Type)
		}
		for i, c := range n.Children {
			if c.Type == NodeTab {
				return fmt.Errorf("%s.children[%d]: tab must be inside a tabset", path, i)
			}
			if c.Weight <= 0 {
				return fmt.Errorf("%s.children[%d]: weight must be positive", path, i)
			}
			if err := validate(c, fmt.Sprintf("%s.children[%d]", path, i), seen); err != nil {
				return err
			}
		}
	case NodeTabSet:
		if len(n.Children) == 0 {
			return fmt.Errorf("%s: tabset has no tabs", path)
		}
		for i, c := range n.Children {
			if c.Type != NodeTab {
				return fmt.Errorf("%s.children[%d]: tabset may only contain tabs", path, i)
			}
			if err := validate(c, fmt.Sprintf("%s.children[%d]", path, i), seen); err != nil {
				return err
			}
		}
	case NodeTab:
		name := strings.ToLower(strings.TrimSpace(n.Component))
		if name == "" {
			return fmt.Errorf("%s: tab %q has no component", path, n.Name)
		}
		if seen[name] {
			return fmt.Errorf("%s: component %q appears more than once", path, n.Component)
		}
		seen[name] = true
	default:
		return fmt.Errorf("%s: unknown node type %q", path, n.Type)
	}
	return nil
}

// Components lists tab components in tree order.
func (m Model) Components() []string {
	var out []string
	var walk func(Node)
	walk = func(n Node) {
		if n.Type == NodeTab {
			out = append(out, n.Component)
			return
		}
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(m.Layout)
	return out
}
