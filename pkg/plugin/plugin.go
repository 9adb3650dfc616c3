// Package plugin loads out-of-process storage backends over
// github.com/hashicorp/go-plugin, the same handshake+gRPC-broker
// pattern the teacher uses to load UI/chat plugins, narrowed to the
// one thing a privacy core needs from a plugin: an
// internal/store.ListStore, internal/store.RosterStore and
// internal/store.SessionDirectory triple. A backend plugin is a
// separate binary so an operator can swap sqlite for, say, a
// Postgres- or Redis-backed implementation without relinking the
// daemon.
package plugin

import (
	"context"

	"github.com/meszmate/privacy/internal/store"
)

// Backend is the interface every backend plugin binary implements.
// Unlike the teacher's Plugin (which exposed Start/Stop lifecycle
// hooks for a long-running UI extension), a storage backend has no
// independent lifecycle beyond Init/Close: it either serves the three
// contracts or it doesn't.
type Backend interface {
	// Name returns the backend's registration name, matched against
	// BackendConfig.Enabled.
	Name() string

	// Version returns the backend's version string, logged on load.
	Version() string

	// Init prepares the backend (opening connections, running
	// migrations) given its dataDir.
	Init(ctx context.Context, dataDir string) error

	// Close releases any resources Init acquired.
	Close() error

	// Lists, Roster and Sessions dispense the three narrow contracts
	// the core depends on. A backend that only wants to serve one
	// contract (e.g. an alternate RosterStore while keeping the
	// built-in sqlite ListStore) may return nil from the others; the
	// host then falls back to the in-process default for that
	// contract.
	Lists() store.ListStore
	Roster() store.RosterStore
	Sessions() store.SessionDirectory
}
