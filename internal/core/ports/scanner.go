package ports

import "context"

// ClassScanner defines the interface for discovering declared classes in source files.
//
//go:generate mockgen -source=scanner.go -destination=mocks/mock_scanner.go -package=mocks
type ClassScanner interface {
	// ScanFiles returns the fully qualified classes, interfaces, traits and
	// enums declared in each file. The result is indexed like paths.
	ScanFiles(ctx context.Context, paths []string) ([][]string, error)
}
