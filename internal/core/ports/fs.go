package ports

import "iter"

// FileWalker defines the interface for enumerating files.
//
//go:generate mockgen -source=fs.go -destination=mocks/mock_fs.go -package=mocks
type FileWalker interface {
	// WalkFiles yields every regular file below root in lexical order,
	// skipping directories whose base name is in ignores. A read failure is
	// yielded with a non-nil error and ends the sequence.
	WalkFiles(root string, ignores []string) iter.Seq2[string, error]
}

// Hasher defines the interface for content fingerprints.
type Hasher interface {
	// HashBytes fingerprints data.
	HashBytes(data ...[]byte) string

	// HashFile fingerprints the content of the file at path.
	HashFile(path string) (string, error)
}
