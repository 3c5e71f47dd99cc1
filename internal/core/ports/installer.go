package ports

import (
	"context"

	"go.trai.ch/conductor/internal/core/domain"
)

// InstallationManager defines the interface for placing packages into a vendor directory.
//
//go:generate mockgen -source=installer.go -destination=mocks/mock_installer.go -package=mocks
type InstallationManager interface {
	// Execute applies ops inside vendorDir in order.
	Execute(ctx context.Context, vendorDir string, ops []domain.Operation) error

	// InstallPath returns where p lives inside vendorDir.
	InstallPath(vendorDir string, p *domain.Package) string
}
