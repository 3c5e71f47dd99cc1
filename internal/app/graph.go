package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/zerr"
)

// GraphOptions configuration for the Graph method.
type GraphOptions struct {
	// Format is "dot" or "svg".
	Format string
	// OutputFile receives the graph instead of w when set.
	OutputFile string
}

// Graph renders the dependencies between monorepo members. Dev links are
// drawn dashed.
func (a *App) Graph(ctx context.Context, w io.Writer, opts GraphOptions) error {
	m, err := a.load()
	if err != nil {
		return err
	}

	format := opts.Format
	if format == "" {
		format = "dot"
	}

	if opts.OutputFile == "" {
		return a.renderer.Render(ctx, MemberGraph(m), format, w)
	}

	f, err := os.Create(opts.OutputFile) //nolint:gosec // Path is given by the user
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphRenderFailed.Error()), "path", opts.OutputFile)
	}
	if err := a.renderer.Render(ctx, MemberGraph(m), format, f); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrGraphRenderFailed.Error()), "path", opts.OutputFile)
	}
	a.logger.Info("Wrote dependency graph to " + opts.OutputFile)
	return nil
}

// MemberGraph returns the DOT source of the member dependency graph.
func MemberGraph(m *domain.Monorepo) string {
	members := slices.Clone(m.Members)
	slices.SortFunc(members, func(a, b *domain.Package) int { return strings.Compare(a.Name, b.Name) })

	var b strings.Builder
	b.WriteString("digraph monorepo {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box];\n")
	for _, p := range members {
		fmt.Fprintf(&b, "  %s [label=%s];\n", quote(p.PrettyName), quote(p.PrettyName+`\n`+string(p.MemberType)))
	}
	for _, p := range members {
		for _, target := range memberTargets(m, p.Requires) {
			fmt.Fprintf(&b, "  %s -> %s;\n", quote(p.PrettyName), quote(target))
		}
		for _, target := range memberTargets(m, p.DevRequires) {
			fmt.Fprintf(&b, "  %s -> %s [style=dashed];\n", quote(p.PrettyName), quote(target))
		}
	}
	b.WriteString("}\n")
	return b.String()
}

func memberTargets(m *domain.Monorepo, links []domain.Link) []string {
	var targets []string
	for _, l := range links {
		if member := m.Member(l.Target); member != nil {
			targets = append(targets, member.PrettyName)
		}
	}
	slices.Sort(targets)
	return slices.Compact(targets)
}

// quote returns s as a DOT string literal. Escape sequences already in s are kept.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}
