// Package phpscan discovers the classes, interfaces, traits and enums
// declared in PHP source files using the tree-sitter PHP grammar.
package phpscan

import (
	"context"
	"os"
	"regexp"
	"runtime"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

var _ ports.ClassScanner = (*Scanner)(nil)

// declarationHint cheaply rules out files that cannot declare a class.
var declarationHint = regexp.MustCompile(`(?i)\b(?:class|interface|trait|enum)\s`)

var declarationTypes = map[string]bool{
	"class_declaration":     true,
	"interface_declaration": true,
	"trait_declaration":     true,
	"enum_declaration":      true,
}

// Scanner implements ports.ClassScanner. Files are parsed concurrently with
// at most Limit parsers in flight.
type Scanner struct {
	Limit   int
	parsers sync.Pool
}

// NewScanner creates a Scanner bounded by GOMAXPROCS.
func NewScanner() *Scanner {
	return &Scanner{
		Limit: runtime.GOMAXPROCS(0),
		parsers: sync.Pool{
			New: func() any {
				parser := sitter.NewParser()
				parser.SetLanguage(php.GetLanguage())
				return parser
			},
		},
	}
}

// ScanFiles returns the declared symbols of every file, indexed like paths.
func (s *Scanner) ScanFiles(ctx context.Context, paths []string) ([][]string, error) {
	results := make([][]string, len(paths))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(s.Limit, 1))

	for i, path := range paths {
		g.Go(func() error {
			classes, err := s.scanFile(ctx, path)
			if err != nil {
				return err
			}
			results[i] = classes
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) scanFile(ctx context.Context, path string) ([]string, error) {
	src, err := os.ReadFile(path) //nolint:gosec // Path comes from the autoload walker
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
	}
	if !declarationHint.Match(src) {
		return nil, nil
	}

	parser, _ := s.parsers.Get().(*sitter.Parser)
	defer s.parsers.Put(parser)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrScanFailed.Error()), "path", path)
	}
	defer tree.Close()

	var classes []string
	collect(tree.RootNode(), src, "", &classes)

	return slices.Compact(classes), nil
}

// collect walks node's children, tracking the active namespace. A namespace
// statement without a body applies to the siblings that follow it.
func collect(node *sitter.Node, src []byte, namespace string, classes *[]string) {
	for i := range int(node.NamedChildCount()) {
		child := node.NamedChild(i)
		kind := child.Type()

		switch {
		case kind == "namespace_definition":
			var name string
			if n := child.ChildByFieldName("name"); n != nil {
				name = n.Content(src)
			}
			if body := child.ChildByFieldName("body"); body != nil {
				collect(body, src, name, classes)
			} else {
				namespace = name
			}
		case declarationTypes[kind]:
			if n := child.ChildByFieldName("name"); n != nil {
				*classes = append(*classes, qualify(namespace, n.Content(src)))
			}
		default:
			collect(child, src, namespace, classes)
		}
	}
}

func qualify(namespace, name string) string {
	namespace = strings.Trim(strings.TrimSpace(namespace), `\`)
	if namespace == "" {
		return name
	}
	return namespace + `\` + name
}
