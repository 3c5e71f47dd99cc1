package store

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/core/ports"
)

const (
	// LockNodeID is the unique identifier for the lockfile store Graft node.
	LockNodeID graft.ID = "adapter.lock_store"
	// InstalledNodeID is the unique identifier for the install state store Graft node.
	InstalledNodeID graft.ID = "adapter.installed_store"
)

func init() {
	graft.Register(graft.Node[ports.LockStore]{
		ID:        LockNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.LockStore, error) {
			return NewLockStore(), nil
		},
	})

	graft.Register(graft.Node[ports.InstalledStore]{
		ID:        InstalledNodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.InstalledStore, error) {
			return NewInstalledStore(), nil
		},
	})
}
