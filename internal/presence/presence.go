// Package presence tracks, per bound session, whether initial
// presence has been sent yet — the one fact C5's invisible command
// needs (§4.5.5: "If the session is past initial presence, broadcast
// an unavailable presence"). Adapted from the teacher's
// xmpp/presence.Manager, narrowed from a full show/status/priority
// roster down to the single boolean this core consults.
package presence

import (
	"sync"

	"mellium.im/xmpp/jid"
)

// Tracker is a sync.RWMutex-guarded set of full JIDs that have sent at
// least one presence stanza, matching the teacher's single-mutex
// map-based Manager shape.
type Tracker struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{seen: make(map[string]struct{})}
}

// MarkPresent records that full has sent presence. Idempotent: the
// first call is the one that matters, later calls are no-ops in
// effect.
func (t *Tracker) MarkPresent(full jid.JID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.seen[full.String()] = struct{}{}
}

// PastInitial reports whether full has sent presence at least once.
func (t *Tracker) PastInitial(full jid.JID) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.seen[full.String()]
	return ok
}

// Evict forgets full on connection teardown.
func (t *Tracker) Evict(full jid.JID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.seen, full.String())
}
