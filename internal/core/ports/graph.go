package ports

import (
	"context"
	"io"
)

// GraphRenderer defines the interface for rendering DOT graphs.
//
//go:generate mockgen -source=graph.go -destination=mocks/mock_graph.go -package=mocks
type GraphRenderer interface {
	// Render writes the graph described by dot to w in the given format ("dot" or "svg").
	Render(ctx context.Context, dot, format string, w io.Writer) error
}
