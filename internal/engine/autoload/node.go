package autoload

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/fs"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/installer" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/logger"    //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/phpscan"   //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/adapters/telemetry" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the autoload generator Graft node.
const NodeID graft.ID = "engine.autoload"

func init() {
	graft.Register(graft.Node[*Generator]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			phpscan.NodeID,
			fs.WalkerNodeID,
			fs.HasherNodeID,
			installer.NodeID,
			logger.NodeID,
			telemetry.TracerNodeID,
		},
		Run: func(ctx context.Context) (*Generator, error) {
			scanner, err := graft.Dep[ports.ClassScanner](ctx)
			if err != nil {
				return nil, err
			}

			walker, err := graft.Dep[ports.FileWalker](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			manager, err := graft.Dep[ports.InstallationManager](ctx)
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

			return NewGenerator(scanner, walker, hasher, manager, log, tracer), nil
		},
	})
}
