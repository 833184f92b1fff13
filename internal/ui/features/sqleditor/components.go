package sqleditor

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

var templates = common.Parse("sqleditor", `
{{define "editor"}}<div id="{{panelID "sql"}}" class="panel sql-editor" data-signals="{{.Signals}}">
<textarea name="sql" spellcheck="false" data-bind:sql data-on:keydown="(evt.ctrlKey || evt.metaKey) && evt.key === 'Enter' && (evt.preventDefault(), @post('/api/sql/execute'))">{{.SQL}}</textarea>
<div class="toolbar">
<button type="button" data-indicator:running data-attr:disabled="$running" data-on:click="@post('/api/sql/execute')">Run</button>
<span class="hint">Ctrl/Cmd+Enter</span>
</div>
</div>{{end}}
`)

// Editor renders the SQL editor panel.
func Editor(v EditorView) templ.Component {
	return common.Template(templates, "editor", v)
}
