package common

import (
	"context"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/a-h/templ"
	"github.com/dustin/go-humanize"

	"github.com/leapstack-labs/leapbench/internal/ui/resources"
)

// Funcs are the helpers available to every feature template.
var Funcs = template.FuncMap{
	"static":  resources.StaticPath,
	"panelID": PanelID,
	"comma":   humanize.Comma,
	"bytes": func(n int64) string {
		return humanize.Bytes(uint64(max(n, 0)))
	},
	"plural": func(n int64, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return humanize.Comma(n) + " " + word + "s"
	},
	"lower": strings.ToLower,
	// render inlines a nested component; Template rebinds it to the request context.
	"render": renderFunc(context.Background()),
}

func renderFunc(ctx context.Context) func(templ.Component) (template.HTML, error) {
	return func(c templ.Component) (template.HTML, error) {
		if c == nil {
			return "", nil
		}
		var sb strings.Builder
		if err := c.Render(ctx, &sb); err != nil {
			return "", err
		}
		return template.HTML(sb.String()), nil //nolint:gosec // output of our own escaped templates
	}
}

// Parse builds a template set with the shared helpers.
func Parse(name, text string) *template.Template {
	return template.Must(template.New(name).Funcs(Funcs).Parse(text))
}

// Template adapts a named html/template to a templ.Component.
func Template(t *template.Template, name string, data any) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		// Parsed sets are never executed directly, so they can always be cloned.
		tc, err := t.Clone()
		if err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		tc.Funcs(template.FuncMap{"render": renderFunc(ctx)})
		if err := tc.ExecuteTemplate(w, name, data); err != nil {
			return fmt.Errorf("failed to render %s: %w", name, err)
		}
		return nil
	})
}
