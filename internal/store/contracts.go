// Package store declares the external collaborators the privacy core
// treats as out-of-process contracts per spec §1 and §6: the
// persistent list store, the roster store, session discovery, and the
// network write path. This package defines interfaces only — no
// collaborator is implemented here except the sqlite-backed ListStore
// in internal/storage/sqlite and the in-memory RosterStore in
// internal/rosterstore, both of which exist to give a standalone
// binary something to run against.
package store

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
)

// Subscription mirrors the four roster subscription states a
// RosterRecord can carry. Pending ("ask") bits are deliberately not
// represented here: §4.2 requires comparing only the to/from bits.
type Subscription int

const (
	SubscriptionNone Subscription = iota
	SubscriptionTo
	SubscriptionFrom
	SubscriptionBoth
)

// HasTo reports whether the subscription lets the owner see the
// other party's presence (the "to" bit).
func (s Subscription) HasTo() bool { return s == SubscriptionTo || s == SubscriptionBoth }

// HasFrom reports whether the subscription lets the other party see
// the owner's presence (the "from" bit).
func (s Subscription) HasFrom() bool { return s == SubscriptionFrom || s == SubscriptionBoth }

// RosterRecord is what a roster lookup for (owner, other) yields.
type RosterRecord struct {
	Subscription Subscription
	Groups       []string
}

// RosterStore is the external roster collaborator (§6). A lookup for
// a JID absent from the roster returns ok=false; the evaluator treats
// that the same as SubscriptionNone (§4.2).
type RosterStore interface {
	Lookup(owner, other jid.JID) (RosterRecord, bool)

	// GroupQuery enumerates the owner's roster restricted by
	// subscription direction: toOnly selects items with subscription
	// in {to, both} (the contacts the owner can see); otherwise items
	// with subscription in {from, both} (the contacts that can see the
	// owner) are returned. Used by the side-effect emitter to walk a
	// group/subscription predicate into concrete counterparties (§4.7).
	GroupQuery(owner jid.JID, toOnly bool) []RosterEntry
}

// RosterEntry is one roster contact as returned by GroupQuery.
type RosterEntry struct {
	JID          jid.JID
	Groups       []string
	Subscription Subscription
}

// ListStore is the persistent list store contract (§6).
type ListStore interface {
	ListAll(bare jid.JID) ([]*model.List, error)
	Load(bare jid.JID, name string) (*model.List, bool, error)
	LoadDefault(bare jid.JID) (*model.List, bool, error)

	// Store persists list for bare. An empty-items list removes the
	// stored list (§3 lifecycle). The Privacy and Blocking command
	// handlers call Store before they update the cache: when it fails
	// they reply service-unavailable and leave the cache unchanged, so
	// the rejected change is not in the in-memory view either. The
	// invisible and visible handlers update the cache first and ignore
	// a Store error.
	Store(bare jid.JID, list *model.List) error
}

// Target identifies one bound session for routing purposes — the
// "network write path" collaborator reduced to what the side-effect
// emitter and broadcast logic need.
type Target struct {
	Full jid.JID
}

// SessionDirectory is the session-discovery collaborator (§1): given a
// bare JID, enumerate the account's currently bound sessions.
type SessionDirectory interface {
	SessionsOf(bare jid.JID) []Target
}

// Router is the network write path, reduced to "deliver this value to
// this session". What stanza actually is (an IQ, a message, a raw
// presence) is opaque to the core; the host's Router implementation
// knows how to encode it.
type Router interface {
	Send(target Target, stanza any) error
}
