// Package graphviz renders DOT graphs with an embedded Graphviz.
package graphviz

import (
	"bytes"
	"context"
	"io"

	"github.com/goccy/go-graphviz"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

// Supported output formats.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
)

var _ ports.GraphRenderer = (*Renderer)(nil)

// Renderer implements ports.GraphRenderer.
type Renderer struct{}

// NewRenderer creates a new Renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render validates dot and writes it to w in format. The dot format is the
// source itself once it parses.
func (r *Renderer) Render(ctx context.Context, dot, format string, w io.Writer) error {
	if format != FormatDOT && format != FormatSVG {
		return zerr.With(domain.ErrUnknownGraphFormat, "format", format)
	}

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return zerr.Wrap(err, domain.ErrGraphRenderFailed.Error())
	}
	defer func() { _ = g.Close() }()

	if format == FormatDOT {
		if _, err := io.WriteString(w, dot); err != nil {
			return zerr.Wrap(err, domain.ErrGraphRenderFailed.Error())
		}
		return nil
	}

	gv, err := graphviz.New(ctx)
	if err != nil {
		return zerr.Wrap(err, domain.ErrGraphRenderFailed.Error())
	}
	defer func() { _ = gv.Close() }()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return zerr.Wrap(err, domain.ErrGraphRenderFailed.Error())
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		return zerr.Wrap(err, domain.ErrGraphRenderFailed.Error())
	}
	return nil
}
