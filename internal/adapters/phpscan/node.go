package phpscan

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/conductor/internal/core/ports"
)

// NodeID is the unique identifier for the class scanner Graft node.
const NodeID graft.ID = "adapter.class_scanner"

func init() {
	graft.Register(graft.Node[ports.ClassScanner]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ClassScanner, error) {
			return NewScanner(), nil
		},
	})
}
