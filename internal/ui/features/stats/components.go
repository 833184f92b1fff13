package stats

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

// PanelView is the stats panel content.
type PanelView struct {
	Entries []Entry
	Warning string
}

// Entry is one flattened statistic.
type Entry struct {
	Key   string
	Value string
}

var templates = common.Parse("stats", `
{{define "panel"}}<div id="{{panelID "stats"}}" class="panel stats">
<div class="toolbar"><button type="button" data-indicator:refreshing data-attr:disabled="$refreshing" data-on:click="@get('/api/stats')">Refresh</button>{{if .Warning}}<span class="hint">{{.Warning}}</span>{{end}}</div>
<dl class="stats">{{range .Entries}}<dt>{{.Key}}</dt><dd>{{.Value}}</dd>{{end}}</dl>
</div>{{end}}
`)

// Panel renders the stats panel.
func Panel(v PanelView) templ.Component {
	return common.Template(templates, "panel", v)
}
