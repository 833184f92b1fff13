package workbench

import (
	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/ui/features/common"
)

var templates = common.Parse("workbench", `
{{define "workbench"}}<main id="workbench" data-init="@get('/updates')">{{template "node" .}}</main>{{end}}

{{define "node"}}{{if .IsTabSet}}<section class="tabset" style="flex: {{.Flex}}">
<nav class="tabset-tabs">{{range .Tabs}}<span class="tabset-tab{{if .Active}} active{{end}}" data-tab="{{.Component}}">{{.Name}}</span>{{end}}</nav>
{{range .Tabs}}<div class="tabset-body" data-tab="{{.Component}}"{{if not .Active}} hidden{{end}}>{{render .Body}}</div>{{end}}
</section>{{else}}<div class="{{.Class}}" style="flex: {{.Flex}}">{{range .Children}}{{template "node" .}}{{end}}</div>{{end}}{{end}}
`)

// Workbench renders the arranged panels.
func Workbench(root NodeView) templ.Component {
	return common.Template(templates, "workbench", root)
}
