package app

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/adapters/config"   //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/graphviz" //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/logger"   //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/manifest" //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/store"    //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/adapters/watcher"  //nolint:depguard // Wired in app layer
	"go.trai.ch/conductor/internal/core/ports"
	"go.trai.ch/conductor/internal/engine/autoload"
	"go.trai.ch/conductor/internal/engine/lock"
	"go.trai.ch/conductor/internal/engine/reconcile"
	"go.trai.ch/conductor/internal/engine/resolve"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			config.NodeID,
			store.LockNodeID,
			store.InstalledNodeID,
			manifest.NodeID,
			resolve.NodeID,
			lock.NodeID,
			reconcile.NodeID,
			autoload.NodeID,
			graphviz.NodeID,
			watcher.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	loader, err := graft.Dep[ports.MonorepoLoader](ctx)
	if err != nil {
		return nil, err
	}

	locks, err := graft.Dep[ports.LockStore](ctx)
	if err != nil {
		return nil, err
	}

	installed, err := graft.Dep[ports.InstalledStore](ctx)
	if err != nil {
		return nil, err
	}

	manifests, err := graft.Dep[ports.ManifestWriter](ctx)
	if err != nil {
		return nil, err
	}

	orchestrator, err := graft.Dep[*resolve.Orchestrator](ctx)
	if err != nil {
		return nil, err
	}

	writer, err := graft.Dep[*lock.Writer](ctx)
	if err != nil {
		return nil, err
	}

	reconciler, err := graft.Dep[*reconcile.Reconciler](ctx)
	if err != nil {
		return nil, err
	}

	generator, err := graft.Dep[*autoload.Generator](ctx)
	if err != nil {
		return nil, err
	}

	renderer, err := graft.Dep[ports.GraphRenderer](ctx)
	if err != nil {
		return nil, err
	}

	watchers, err := graft.Dep[watcher.Factory](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return New(
		loader,
		locks,
		installed,
		manifests,
		orchestrator,
		writer,
		reconciler,
		generator,
		renderer,
		watchers,
		log,
	), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return &Components{
		App:    app,
		Logger: log,
	}, nil
}
