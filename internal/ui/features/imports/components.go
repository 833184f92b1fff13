package imports

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

var templates = common.Parse("imports", `
{{define "panel"}}<div id="{{panelID "import"}}" class="panel import">
<form id="import-form" class="dropzone" enctype="multipart/form-data" data-on:submit="@post('/api/import', {contentType: 'form'})">
<p>Drag files here, or <label>browse<input type="file" name="files" multiple hidden accept="{{.Accept}}" data-on:change="el.form.requestSubmit()"></label></p>
<p class="hint">{{.Description}}, at most {{.MaxFiles}} files</p>
</form>
{{template "outcomes" .Outcomes}}
{{template "tables" .Tables}}
</div>{{end}}

{{define "outcomes"}}<ul id="import-outcomes" class="outcomes">{{range .}}<li class="outcome-{{.Status}}{{if .Oversize}} outcome-oversize{{end}}">{{.Message}}</li>{{end}}</ul>{{end}}

{{define "tables"}}<div id="import-tables">{{if .}}<h4>Tables</h4><ul>{{range .}}<li><code>{{.Name}}</code> <span class="hint">{{.Columns}} columns, ~{{comma .Rows}} rows</span></li>{{end}}</ul>{{end}}</div>{{end}}
`)

// Panel renders the import panel.
func Panel(v PanelView) templ.Component {
	return common.Template(templates, "panel", v)
}

// Outcomes renders the report of the last upload.
func Outcomes(v []OutcomeView) templ.Component {
	return common.Template(templates, "outcomes", v)
}

// Tables renders the registered table list.
func Tables(v []TableView) templ.Component {
	return common.Template(templates, "tables", v)
}
