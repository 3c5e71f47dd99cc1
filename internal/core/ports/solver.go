package ports

import (
	"context"

	"go.trai.ch/conductor/internal/core/domain"
)

// Solver defines the interface for the constraint solver.
//
//go:generate mockgen -source=solver.go -destination=mocks/mock_solver.go -package=mocks
type Solver interface {
	// Solve picks one version per required package from pool and returns the
	// operations against req.Present. Unsatisfiable requests fail with
	// *domain.SolverProblems.
	Solve(ctx context.Context, req *domain.Request, pool *domain.PackageIndex) (*domain.LockTransaction, error)
}
