package workbench

import (
	"fmt"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/notifier"
)

// topicComponents maps notifier topics to the panel that shows them.
var topicComponents = map[notifier.Topic]string{
	notifier.TopicResults: layout.ComponentResults,
	notifier.TopicTables:  layout.ComponentImport,
	notifier.TopicStats:   layout.ComponentStats,
}

// NodeView is a layout node prepared for rendering.
type NodeView struct {
	Class    string
	Flex     string
	Children []NodeView
	Tabs     []TabView
}

// IsTabSet reports whether the node renders as a tab strip.
func (n NodeView) IsTabSet() bool { return n.Class == "tabset" }

// TabView is one tab with its rendered body.
type TabView struct {
	Name      string
	Component string
	Active    bool
	Body      templ.Component
}

func flex(weight float64) string {
	if weight <= 0 {
		weight = 1
	}
	return fmt.Sprintf("%g 1 0", weight)
}
