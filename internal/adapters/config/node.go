package config

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/fs"
	"go.trai.ch/conductor/internal/adapters/logger"
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the monorepo loader Graft node.
const NodeID graft.ID = "adapter.config_loader"

func init() {
	graft.Register(graft.Node[ports.MonorepoLoader]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{logger.NodeID, fs.HasherNodeID, fs.ResolverNodeID},
		Run: func(ctx context.Context) (ports.MonorepoLoader, error) {
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}
			resolver, err := graft.Dep[*fs.Resolver](ctx)
			if err != nil {
				return nil, err
			}
			return NewLoader(log, hasher, resolver), nil
		},
	})
}
