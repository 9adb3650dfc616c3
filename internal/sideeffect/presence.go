package sideeffect

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/predicate"
	"github.com/meszmate/privacy/internal/store"
)

// Deliver sends each presence event through the Router, targeting the
// event's To JID. Send errors are swallowed: presence regeneration is
// best-effort and has no admin-reply path to surface a failure to
// (§4.7 runs after the admin reply has already gone out).
func (e *Emitter) Deliver(events []PresenceEvent) {
	if e.Router == nil {
		return
	}
	for _, ev := range events {
		_ = e.Router.Send(store.Target{Full: ev.To}, ev)
	}
}

// PresenceEvent is one synthesized presence the host's Router must
// deliver after a list mutation (§4.7 Presence regeneration).
type PresenceEvent struct {
	From        jid.JID
	To          jid.JID
	Unavailable bool
}

// Regenerate walks the newly effective list's presence-denying items
// and returns the presence events the host must send. owner is the
// JID the list is effective for (a full JID for an active list, the
// bare JID for a default list).
//
// For a presence-in deny, the event flows from each matching
// counterparty to owner (the counterparty's presence is hidden from
// owner). For a presence-out deny, the event flows from owner to each
// matching counterparty (owner's presence is hidden from them).
func (e *Emitter) Regenerate(owner jid.JID, list *model.List) []PresenceEvent {
	if list.Empty() {
		return nil
	}
	var events []PresenceEvent
	seenIn := make(map[string]struct{})
	seenOut := make(map[string]struct{})

	for _, it := range list.Items {
		if it.Action != model.Deny {
			continue
		}
		if it.StanzaMask.Has(model.KindPresenceIn) {
			for _, other := range e.counterparties(owner, it, true) {
				key := other.String()
				if _, dup := seenIn[key]; dup {
					continue
				}
				seenIn[key] = struct{}{}
				events = append(events, PresenceEvent{From: other, To: owner, Unavailable: true})
			}
		}
		if it.StanzaMask.Has(model.KindPresenceOut) {
			for _, other := range e.counterparties(owner, it, false) {
				key := other.String()
				if _, dup := seenOut[key]; dup {
					continue
				}
				seenOut[key] = struct{}{}
				events = append(events, PresenceEvent{From: owner, To: other, Unavailable: true})
			}
		}
	}
	return events
}

// counterparties resolves item's predicate into the set of concrete
// JIDs it denies presence to/from (§4.7): the literal value for a jid
// predicate; a roster walk, filtered by the predicate, for
// group/subscription; every contact in the queried direction for a
// bare catch-all (predicate_kind=none).
//
// toOnly selects the "to"-items of the roster (contacts owner can
// see, consulted for presence-in) versus the "from"-items (contacts
// that can see owner, consulted for presence-out) — see
// store.RosterStore.GroupQuery.
func (e *Emitter) counterparties(owner jid.JID, it model.Item, toOnly bool) []jid.JID {
	switch it.PredicateKind {
	case model.PredicateJID:
		j, err := jid.Parse(it.PredicateValue)
		if err != nil {
			return nil
		}
		return []jid.JID{j}

	case model.PredicateGroup, model.PredicateSubscription:
		if e.Roster == nil {
			return nil
		}
		var out []jid.JID
		for _, entry := range e.Roster.GroupQuery(owner.Bare(), toOnly) {
			rec := store.RosterRecord{Subscription: entry.Subscription, Groups: entry.Groups}
			if it.PredicateKind == model.PredicateGroup {
				if predicate.MatchGroup(rec, true, it.PredicateValue) {
					out = append(out, entry.JID)
				}
				continue
			}
			if predicate.MatchSubscription(rec, true, it.PredicateValue) {
				out = append(out, entry.JID)
			}
		}
		return out

	default: // PredicateNone: catch-all, affects every contact in this direction.
		if e.Roster == nil {
			return nil
		}
		var out []jid.JID
		for _, entry := range e.Roster.GroupQuery(owner.Bare(), toOnly) {
			out = append(out, entry.JID)
		}
		return out
	}
}
