package resolve

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/solver"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the solve orchestrator Graft node.
const NodeID graft.ID = "engine.resolve"

func init() {
	graft.Register(graft.Node[*Orchestrator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			solver.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Orchestrator, error) {
			s, err := graft.Dep[ports.Solver](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			tracer, err := graft.Dep[ports.Tracer](ctx)
			if err != nil {
				return nil, err
			}

			return NewOrchestrator(s, log, tracer), nil
		},
	})
}
