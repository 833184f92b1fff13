package common

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type requestKey struct{}

func TestTemplate_NestedComponentSeesRequestContext(t *testing.T) {
	inner := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		id, _ := ctx.Value(requestKey{}).(string)
		_, err := io.WriteString(w, "<span>"+id+"</span>")
		return err
	})
	set := Parse("nested", `{{define "outer"}}<div>{{render .}}</div>{{end}}`)
	outer := Template(set, "outer", inner)

	for _, id := range []string{"first", "second"} {
		ctx := context.WithValue(context.Background(), requestKey{}, id)
		var sb strings.Builder
		require.NoError(t, outer.Render(ctx, &sb))
		assert.Equal(t, "<div><span>"+id+"</span></div>", sb.String())
	}
}

func TestTemplate_Error(t *testing.T) {
	set := Parse("errors", `{{define "broken"}}{{.Missing.Field}}{{end}}`)
	var sb strings.Builder
	err := Template(set, "broken", struct{}{}).Render(context.Background(), &sb)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to render broken")
}
