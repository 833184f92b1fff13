package results

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

var templates = common.Parse("results", `
{{define "results"}}<div id="{{panelID "results"}}" class="panel results">
{{if .Empty}}<div class="empty"><div><h3>No results</h3><p>Run a query to see some data</p></div></div>
{{else}}<div class="pager">
<span>{{if .Total}}Rows {{comma .First}}–{{comma .Last}} of {{comma .Total}}{{else}}0 rows{{end}} in {{.Elapsed}}</span>
{{if .Dropped}}<span class="hint">{{plural .Dropped "empty column"}} hidden</span>{{end}}
<button type="button" {{if not .HasPrev}}disabled{{end}} data-on:click="@get('/api/results?offset={{.PrevOffset}}')">Prev</button>
<button type="button" {{if not .HasNext}}disabled{{end}} data-on:click="@get('/api/results?offset={{.NextOffset}}')">Next</button>
</div>
<table class="grid">
<thead><tr><th class="marker"></th>{{range .Columns}}<th style="min-width: {{.Width}}px" title="{{.Icon}}"><span class="glyph">{{.Glyph}}</span>{{.Title}}</th>{{end}}</tr></thead>
<tbody>{{range .Rows}}<tr><td class="marker">{{.Number}}</td>{{range .Cells}}<td{{if .Numeric}} class="num"{{end}} data-raw="{{.Raw}}"{{if .Background}} style="background: {{.Background}}"{{end}}>{{.Display}}</td>{{end}}</tr>{{end}}</tbody>
</table>
{{end}}</div>{{end}}
`)

// Results renders the results panel.
func Results(v ResultView) templ.Component {
	return common.Template(templates, "results", v)
}
