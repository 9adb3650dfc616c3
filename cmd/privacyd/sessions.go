package main

import (
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/store"
)

// sessionRegistry is the standalone binary's stand-in for a real
// server's connection table: it satisfies both store.SessionDirectory
// and store.Router with the same sync.RWMutex-guarded map idiom used
// throughout this module (cache.Cache, rosterstore.Store,
// presence.Tracker). A host with real client connections replaces this
// with its own connection manager; it only needs to implement these
// two narrow methods to plug into command.Handler and
// sideeffect.Emitter.
type sessionRegistry struct {
	mu   sync.RWMutex
	full map[string][]jid.JID // bare JID -> bound full JIDs
}

func newSessionRegistry() *sessionRegistry {
	return &sessionRegistry{full: make(map[string][]jid.JID)}
}

func (r *sessionRegistry) Bind(full jid.JID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bare := full.Bare().String()
	r.full[bare] = append(r.full[bare], full)
}

func (r *sessionRegistry) Unbind(full jid.JID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	bare := full.Bare().String()
	sessions := r.full[bare]
	for i, f := range sessions {
		if f.Equal(full) {
			r.full[bare] = append(sessions[:i], sessions[i+1:]...)
			break
		}
	}
	if len(r.full[bare]) == 0 {
		delete(r.full, bare)
	}
}

// SessionsOf implements store.SessionDirectory.
func (r *sessionRegistry) SessionsOf(bare jid.JID) []store.Target {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sessions := r.full[bare.Bare().String()]
	out := make([]store.Target, 0, len(sessions))
	for _, f := range sessions {
		out = append(out, store.Target{Full: f})
	}
	return out
}

// Send implements store.Router. The standalone binary has no real
// transport, so it is a no-op; a host embedding this package supplies
// its own Router that actually writes to the wire.
func (r *sessionRegistry) Send(target store.Target, stanza any) error {
	return nil
}
