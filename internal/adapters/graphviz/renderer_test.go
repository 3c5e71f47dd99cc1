package graphviz_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/conductor/internal/adapters/graphviz"
	"go.trai.ch/conductor/internal/core/domain"
)

const graph = `digraph monorepo {
  "acme/app" -> "acme/log";
}
`

func TestRenderer_Render(t *testing.T) {
	r := graphviz.NewRenderer()

	var dot bytes.Buffer
	require.NoError(t, r.Render(context.Background(), graph, graphviz.FormatDOT, &dot))
	assert.Equal(t, graph, dot.String())

	var svg bytes.Buffer
	require.NoError(t, r.Render(context.Background(), graph, graphviz.FormatSVG, &svg))
	assert.Contains(t, svg.String(), "<svg")
	assert.Contains(t, svg.String(), "acme/log")
}

func TestRenderer_Render_Errors(t *testing.T) {
	r := graphviz.NewRenderer()

	err := r.Render(context.Background(), graph, "png", &bytes.Buffer{})
	assert.ErrorContains(t, err, domain.ErrUnknownGraphFormat.Error())

	err = r.Render(context.Background(), "digraph {", graphviz.FormatDOT, &bytes.Buffer{})
	assert.ErrorContains(t, err, domain.ErrGraphRenderFailed.Error())
}
