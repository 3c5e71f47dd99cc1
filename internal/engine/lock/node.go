package lock

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/config"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/manifest"  //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/store"     //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the lock writer Graft node.
const NodeID graft.ID = "engine.lock"

func init() {
	graft.Register(graft.Node[*Writer]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			store.LockNodeID,
			manifest.NodeID,
			config.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Writer, error) {
			lockStore, err := graft.Dep[ports.LockStore](ctx)
			if err != nil {
				return nil, err
			}

			manifests, err := graft.Dep[ports.ManifestWriter](ctx)
			if err != nil {
				return nil, err
			}

			loader, err := graft.Dep[ports.MonorepoLoader](ctx)
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

			return NewWriter(lockStore, manifests, loader, log, tracer), nil
		},
	})
}
