package common

import (
	"net/http"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/leapbench/internal/layout"
	"github.com/leapstack-labs/leapbench/internal/ui/resources"
)

var templates = Parse("common", `
{{define "page"}}<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}} - LeapBench</title>
<link rel="stylesheet" href="{{static "app.css"}}">
<script type="module" src="{{.Datastar}}"></script>
<script src="{{static "app.js"}}" defer></script>
</head>
<body>
<div id="toast"></div>
{{if .IsDev}}<div data-init="@get('/reload', {retryMaxCount: 1000, retryInterval: 20, retryMaxWaitMs: 200})"></div>{{end}}
{{render .Body}}
</body>
</html>
{{end}}

{{define "toast"}}<div id="toast">{{if .Message}}<div class="toast toast-{{.Level}}" role="alert" data-init="setTimeout(() => el.remove(), 5000)">{{.Message}}</div>{{end}}</div>{{end}}

{{define "missing"}}<div id="{{panelID .Name}}" class="panel panel-missing">{{.Text}}</div>{{end}}
`)

type pageView struct {
	PageData
	Datastar string
}

// Page renders the full HTML document.
func Page(data PageData) templ.Component {
	return Template(templates, "page", pageView{PageData: data, Datastar: resources.DatastarScript})
}

// ToastComponent renders the toast slot. An empty message clears it.
func ToastComponent(t Toast) templ.Component {
	if t.Level == "" {
		t.Level = ToastInfo
	}
	return Template(templates, "toast", t)
}

// ErrorToast renders err as an error toast.
func ErrorToast(err error) templ.Component {
	return ToastComponent(Toast{Level: ToastError, Message: err.Error()})
}

// PanelMessage renders a panel holding only a line of text.
func PanelMessage(component, text string) templ.Component {
	return Template(templates, "missing", struct{ Name, Text string }{component, text})
}

// MissingPanel is the fallback for components the factory does not know.
func MissingPanel(name string) Panel {
	return func(_ *http.Request) (templ.Component, error) {
		return PanelMessage(name, layout.NotFoundText(name)), nil
	}
}
