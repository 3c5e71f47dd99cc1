package installer

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/fs"
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the installation manager Graft node.
const NodeID graft.ID = "adapter.installation_manager"

func init() {
	graft.Register(graft.Node[ports.InstallationManager]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.WalkerNodeID},
		Run: func(ctx context.Context) (ports.InstallationManager, error) {
			walker, err := graft.Dep[ports.FileWalker](ctx)
			if err != nil {
				return nil, err
			}
			return NewManager(walker), nil
		},
	})
}
