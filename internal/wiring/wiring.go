// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "go.trai.ch/conductor/internal/adapters/config"
	_ "go.trai.ch/conductor/internal/adapters/fs"
	_ "go.trai.ch/conductor/internal/adapters/graphviz"
	_ "go.trai.ch/conductor/internal/adapters/installer"
	_ "go.trai.ch/conductor/internal/adapters/logger"
	_ "go.trai.ch/conductor/internal/adapters/manifest"
	_ "go.trai.ch/conductor/internal/adapters/phpscan"
	_ "go.trai.ch/conductor/internal/adapters/solver"
	_ "go.trai.ch/conductor/internal/adapters/store"
	_ "go.trai.ch/conductor/internal/adapters/telemetry"
	_ "go.trai.ch/conductor/internal/adapters/watcher"
	// Register app and engine nodes.
	_ "go.trai.ch/conductor/internal/app"
	_ "go.trai.ch/conductor/internal/engine/autoload"
	_ "go.trai.ch/conductor/internal/engine/lock"
	_ "go.trai.ch/conductor/internal/engine/reconcile"
	_ "go.trai.ch/conductor/internal/engine/resolve"
)
