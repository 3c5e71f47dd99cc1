// Package manifest edits monorepo.json and composer.json files in place,
// keeping key order and unrelated content intact.
package manifest

import (
	"bytes"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"go.trai.ch/conductor/internal/core/domain"
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.ManifestWriter = (*Writer)(nil)

// prettyOptions matches the four-space layout of generated PHP manifests.
var prettyOptions = &pretty.Options{Width: 80, Indent: "    "}

// defaultMonorepo is written by Create.
const defaultMonorepo = `{
	"version": "1.0.0",
	"require": {},
	"require-dev": {},
	"config": {"monorepo": {"app-dirs": ["src/*"], "lib-dirs": ["lib/*"]}}
}`

// Writer implements ports.ManifestWriter.
type Writer struct{}

// NewWriter creates a new Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// Update applies changes to the manifest at path. New links are inserted in
// sorted order, with platform packages first.
func (w *Writer) Update(path string, changes []ports.ManifestChange) (bool, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return false, zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}
	if !gjson.ValidBytes(data) {
		return false, zerr.With(domain.ErrManifestParseFailed, "path", path)
	}

	updated := data
	for _, change := range changes {
		updated, err = applyChange(updated, change)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", path)
		}
	}

	if bytes.Equal(updated, data) {
		return false, nil
	}

	if err := writeFile(path, updated); err != nil {
		return false, err
	}
	return true, nil
}

// Create writes the default monorepo.json into dir.
func (w *Writer) Create(dir string) error {
	path := filepath.Join(dir, domain.MonorepoFileName)
	if _, err := os.Stat(path); err == nil {
		return zerr.With(domain.ErrMonorepoExists, "path", path)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return zerr.With(zerr.Wrap(err, domain.ErrManifestReadFailed.Error()), "path", path)
	}

	return writeFile(path, []byte(defaultMonorepo))
}

func applyChange(data []byte, change ports.ManifestChange) ([]byte, error) {
	key := change.Section + "." + escapeKey(change.Package)
	current := gjson.GetBytes(data, key)

	if change.Remove {
		if !current.Exists() {
			return data, nil
		}
		return sjson.DeleteBytes(data, key)
	}

	if current.Exists() {
		if current.String() == change.Constraint {
			return data, nil
		}
		return sjson.SetBytes(data, key, change.Constraint)
	}

	links := make(map[string]string)
	var names []string
	section := gjson.GetBytes(data, escapeKey(change.Section))
	if section.Exists() && !section.IsObject() {
		// An empty PHP array is written as [].
		if !section.IsArray() || len(section.Array()) > 0 {
			return nil, zerr.With(domain.ErrManifestParseFailed, "section", change.Section)
		}
	}
	section.ForEach(func(name, constraint gjson.Result) bool {
		links[name.String()] = constraint.String()
		names = append(names, name.String())
		return true
	})
	links[change.Package] = change.Constraint
	names = append(names, change.Package)
	slices.SortFunc(names, compareLinks)

	return sjson.SetRawBytes(data, escapeKey(change.Section), encodeLinks(names, links))
}

// compareLinks orders platform packages before regular packages, php first.
func compareLinks(a, b string) int {
	rank := func(name string) int {
		switch {
		case name == "php":
			return 0
		case domain.IsPlatformPackage(name):
			return 1
		default:
			return 2
		}
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra - rb
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

func encodeLinks(names []string, links map[string]string) []byte {
	out := []byte("{}")
	for _, name := range names {
		// Sequential sjson sets append keys in insertion order.
		out, _ = sjson.SetBytes(out, escapeKey(name), links[name])
	}
	return out
}

// escapeKey escapes gjson path metacharacters so package names are used verbatim.
func escapeKey(key string) string {
	var b strings.Builder
	for _, r := range key {
		switch r {
		case '.', '*', '?', '|', '#', '@', '\\', '!', '=', '<', '>', '%':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func writeFile(path string, data []byte) error {
	formatted := pretty.PrettyOptions(data, prettyOptions)
	if err := os.WriteFile(path, formatted, domain.FilePerm); err != nil { //nolint:gosec // Manifests are world-readable
		return zerr.With(zerr.Wrap(err, domain.ErrManifestWriteFailed.Error()), "path", path)
	}
	return nil
}
