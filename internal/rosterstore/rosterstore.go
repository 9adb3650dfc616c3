// Package rosterstore is the default in-memory store.RosterStore
// (spec §6), adapted from the teacher's xmpp/roster.Manager. The
// teacher's Manager tracks one client's own contacts; this Store
// tracks many accounts' rosters (one per owner bare JID) since the
// privacy core runs server-side and needs (owner, other) lookups for
// arbitrary local accounts.
package rosterstore

import (
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/store"
)

// Item is one contact record kept for a particular owner account.
type Item struct {
	JID          jid.JID
	Subscription store.Subscription
	Groups       []string
}

// Store is a sync.RWMutex-guarded, map-of-map roster store: owner bare
// JID to contact bare JID to *Item, mirroring the teacher's
// single-mutex/map-of-pointer Manager shape.
type Store struct {
	mu    sync.RWMutex
	items map[string]map[string]*Item
}

// New returns an empty Store.
func New() *Store {
	return &Store{items: make(map[string]map[string]*Item)}
}

// Set installs or replaces item as one of owner's contacts.
func (s *Store) Set(owner jid.JID, item Item) {
	s.mu.Lock()
	defer s.mu.Unlock()
	bare := owner.Bare().String()
	if s.items[bare] == nil {
		s.items[bare] = make(map[string]*Item)
	}
	s.items[bare][item.JID.Bare().String()] = &item
}

// Remove deletes contact from owner's roster.
func (s *Store) Remove(owner, contact jid.JID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m := s.items[owner.Bare().String()]; m != nil {
		delete(m, contact.Bare().String())
		if len(m) == 0 {
			delete(s.items, owner.Bare().String())
		}
	}
}

// ClearOwner discards every contact recorded for owner.
func (s *Store) ClearOwner(owner jid.JID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, owner.Bare().String())
}

// Lookup implements store.RosterStore: a contact absent from owner's
// roster reports ok=false, which callers treat as SubscriptionNone
// (§4.2).
func (s *Store) Lookup(owner, other jid.JID) (store.RosterRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.items[owner.Bare().String()]
	if m == nil {
		return store.RosterRecord{}, false
	}
	it, ok := m[other.Bare().String()]
	if !ok {
		return store.RosterRecord{}, false
	}
	return store.RosterRecord{Subscription: it.Subscription, Groups: it.Groups}, true
}

// GroupQuery implements store.RosterStore: toOnly selects contacts
// whose subscription carries the "to" bit, otherwise contacts whose
// subscription carries the "from" bit (§4.7).
func (s *Store) GroupQuery(owner jid.JID, toOnly bool) []store.RosterEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m := s.items[owner.Bare().String()]
	out := make([]store.RosterEntry, 0, len(m))
	for _, it := range m {
		if toOnly && !it.Subscription.HasTo() {
			continue
		}
		if !toOnly && !it.Subscription.HasFrom() {
			continue
		}
		out = append(out, store.RosterEntry{JID: it.JID, Groups: it.Groups, Subscription: it.Subscription})
	}
	return out
}
