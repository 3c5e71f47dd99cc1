package reconcile

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/installer" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/autoload"
)

// NodeID is the unique identifier for the reconciler Graft node.
const NodeID graft.ID = "engine.reconcile"

func init() {
	graft.Register(graft.Node[*Reconciler]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			installer.NodeID,
			store.InstalledNodeID,
			autoload.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Reconciler, error) {
			manager, err := graft.Dep[ports.InstallationManager](ctx)
			if err != nil {
				return nil, err
			}

			installed, err := graft.Dep[ports.InstalledStore](ctx)
			if err != nil {
				return nil, err
			}

			generator, err := graft.Dep[*autoload.Generator](ctx)
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

			return NewReconciler(manager, installed, generator, log, tracer), nil
		},
	})
}
