package domain

import (
	"bytes"
	"encoding/json"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/zerr"
)

// Autoload section keys as they appear in manifests.
const (
	SectionPSR0     = "psr-0"
	SectionPSR4     = "psr-4"
	SectionClassmap = "classmap"
	SectionFiles    = "files"
	SectionExclude  = "exclude-from-classmap"
)

// AutoloadSpec is a package's autoload declaration. Namespace maps are keyed by
// namespace prefix and hold paths relative to the package install path.
type AutoloadSpec struct {
	PSR0                map[string][]string
	PSR4                map[string][]string
	Classmap            []string
	Files               []string
	ExcludeFromClassmap []string

	malformed []string
}

// IsEmpty reports whether the spec declares nothing.
func (a AutoloadSpec) IsEmpty() bool {
	return len(a.PSR0) == 0 && len(a.PSR4) == 0 && len(a.Classmap) == 0 &&
		len(a.Files) == 0 && len(a.ExcludeFromClassmap) == 0 && len(a.malformed) == 0
}

// Malformed returns the sections that were neither an object nor an array.
func (a AutoloadSpec) Malformed() []string {
	return slices.Clone(a.malformed)
}

// Merge returns a spec containing a's declarations followed by o's.
func (a AutoloadSpec) Merge(o AutoloadSpec) AutoloadSpec {
	out := AutoloadSpec{
		PSR0:                mergeNamespaces(a.PSR0, o.PSR0),
		PSR4:                mergeNamespaces(a.PSR4, o.PSR4),
		Classmap:            append(slices.Clone(a.Classmap), o.Classmap...),
		Files:               append(slices.Clone(a.Files), o.Files...),
		ExcludeFromClassmap: append(slices.Clone(a.ExcludeFromClassmap), o.ExcludeFromClassmap...),
		malformed:           append(slices.Clone(a.malformed), o.malformed...),
	}
	return out
}

func mergeNamespaces(a, b map[string][]string) map[string][]string {
	if len(a) == 0 && len(b) == 0 {
		return nil
	}
	out := make(map[string][]string, len(a)+len(b))
	for ns, paths := range a {
		out[ns] = slices.Clone(paths)
	}
	for ns, paths := range b {
		out[ns] = append(out[ns], paths...)
	}
	return out
}

// UnmarshalJSON decodes an autoload object. Malformed sections are recorded
// rather than rejected so validation can name the package that declared them.
func (a *AutoloadSpec) UnmarshalJSON(data []byte) error {
	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		// An empty PHP array is encoded as [].
		var empty []any
		if json.Unmarshal(data, &empty) == nil && len(empty) == 0 {
			return nil
		}
		return err
	}

	*a = AutoloadSpec{}
	for _, key := range slices.Sorted(maps.Keys(sections)) {
		raw := sections[key]
		var ok bool
		switch key {
		case SectionPSR0:
			a.PSR0, ok = decodeNamespaces(raw)
		case SectionPSR4:
			a.PSR4, ok = decodeNamespaces(raw)
		case SectionClassmap:
			a.Classmap, ok = decodePathList(raw)
		case SectionFiles:
			a.Files, ok = decodePathList(raw)
		case SectionExclude:
			a.ExcludeFromClassmap, ok = decodePathList(raw)
		default:
			ok = true
		}
		if !ok {
			a.malformed = append(a.malformed, key)
		}
	}
	return nil
}

func decodeNamespaces(raw json.RawMessage) (map[string][]string, bool) {
	trimmed := bytes.TrimSpace(raw)
	if bytes.Equal(trimmed, []byte("[]")) {
		return nil, true
	}
	var entries map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil, false
	}
	out := make(map[string][]string, len(entries))
	for ns, value := range entries {
		paths, ok := decodePaths(value)
		if !ok {
			return nil, false
		}
		out[ns] = paths
	}
	return out, true
}

func decodePathList(raw json.RawMessage) ([]string, bool) {
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, true
	}
	var assoc map[string]string
	if err := json.Unmarshal(raw, &assoc); err == nil {
		out := make([]string, 0, len(assoc))
		for _, k := range slices.Sorted(maps.Keys(assoc)) {
			out = append(out, assoc[k])
		}
		return out, true
	}
	return nil, false
}

func decodePaths(raw json.RawMessage) ([]string, bool) {
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return []string{single}, true
	}
	var many []string
	if err := json.Unmarshal(raw, &many); err == nil {
		return many, true
	}
	return nil, false
}

// MarshalJSON encodes the spec in manifest form. Single-path namespaces are
// written as strings.
func (a AutoloadSpec) MarshalJSON() ([]byte, error) {
	out := make(map[string]any)
	if len(a.PSR0) > 0 {
		out[SectionPSR0] = encodeNamespaces(a.PSR0)
	}
	if len(a.PSR4) > 0 {
		out[SectionPSR4] = encodeNamespaces(a.PSR4)
	}
	if len(a.Classmap) > 0 {
		out[SectionClassmap] = a.Classmap
	}
	if len(a.Files) > 0 {
		out[SectionFiles] = a.Files
	}
	if len(a.ExcludeFromClassmap) > 0 {
		out[SectionExclude] = a.ExcludeFromClassmap
	}
	return json.Marshal(out)
}

func encodeNamespaces(m map[string][]string) map[string]any {
	out := make(map[string]any, len(m))
	for ns, paths := range m {
		if len(paths) == 1 {
			out[ns] = paths[0]
			continue
		}
		out[ns] = paths
	}
	return out
}

// ValidateAutoload checks the rules that must hold before any scanning starts.
// field is "autoload" or "autoload-dev".
func ValidateAutoload(pkg, targetDir, field string, spec AutoloadSpec) error {
	if len(spec.malformed) > 0 {
		return annotate(ErrAutoloadNotArray, pkg, field+"."+spec.malformed[0])
	}

	if len(spec.PSR4) > 0 && targetDir != "" {
		return annotate(ErrPSR4TargetDir, pkg, field+"."+SectionPSR4)
	}

	for _, ns := range slices.Sorted(maps.Keys(spec.PSR4)) {
		if ns != "" && !strings.HasSuffix(ns, `\`) {
			err := annotate(ErrPSR4Separator, pkg, field+"."+SectionPSR4)
			return zerr.With(zerr.With(err, "namespace", ns), "expected", ns+`\`)
		}
	}
	return nil
}

func annotate(err error, pkg, field string) error {
	return zerr.With(zerr.With(err, "package", pkg), "field", field)
}

// Standard identifies a namespace mapping convention.
type Standard string

const (
	// PSR0 maps namespace prefixes to directories and translates underscores in class names.
	PSR0 Standard = "psr-0"
	// PSR4 maps namespace prefixes ending in a separator directly to a directory.
	PSR4 Standard = "psr-4"
)

// Ambiguity is a class offered by more than one file. Paths[0] is the winner.
type Ambiguity struct {
	Class string
	Paths []string
}

// AutoloadFile is an entry of the files autoload, required eagerly by the bootstrap.
type AutoloadFile struct {
	ID   string
	Path string
}

// AutoloadTable is the resolved autoload state of one package. All paths are absolute.
type AutoloadTable struct {
	PSR0     map[string][]string
	PSR4     map[string][]string
	Classmap map[string]string
	Files    []AutoloadFile

	ambiguities map[string][]string
}

// NewAutoloadTable returns an empty table.
func NewAutoloadTable() *AutoloadTable {
	return &AutoloadTable{
		PSR0:        make(map[string][]string),
		PSR4:        make(map[string][]string),
		Classmap:    make(map[string]string),
		ambiguities: make(map[string][]string),
	}
}

// AddClass attributes class to path unless it is already attributed. A
// differing path is recorded as an ambiguity and reported false.
func (t *AutoloadTable) AddClass(class, path string) bool {
	existing, ok := t.Classmap[class]
	if !ok {
		t.Classmap[class] = path
		return true
	}
	if existing == path {
		return true
	}
	contenders := t.ambiguities[class]
	if !slices.Contains(contenders, path) {
		t.ambiguities[class] = append(contenders, path)
	}
	return false
}

// Classes returns the attributed class names in sorted order.
func (t *AutoloadTable) Classes() []string {
	return slices.Sorted(maps.Keys(t.Classmap))
}

// Ambiguities lists every contested class, sorted by class name.
func (t *AutoloadTable) Ambiguities() []Ambiguity {
	out := make([]Ambiguity, 0, len(t.ambiguities))
	for _, class := range slices.Sorted(maps.Keys(t.ambiguities)) {
		paths := append([]string{t.Classmap[class]}, t.ambiguities[class]...)
		out = append(out, Ambiguity{Class: class, Paths: paths})
	}
	return out
}
