package engine

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/predicate"
	"github.com/meszmate/privacy/internal/store"
)

// state is the resumable per-evaluation cursor described in spec §5:
// rather than re-entering Evaluate from scratch when a roster fetch
// is pending, the engine keeps the list, stanza, and current item
// index alive in state and resumes the loop at idx once the fetch
// completes.
type state struct {
	list   *model.List
	stanza Stanza
	dir    model.Direction
	owner  jid.JID
	other  jid.JID
	roster RosterSource
	idx    int
}

// Suspension is returned by Evaluate (and by Suspension.Resume) when a
// group/subscription predicate needs a roster record that was not
// immediately available. The caller must eventually call Resume (or
// Await, for the completion-callback style) with the fetched record.
type Suspension struct {
	st          *state
	pendingItem model.Item
	await       func(fn func(rec store.RosterRecord, found bool))
}

// Resume supplies the roster fetch result for the item that caused
// the suspension and continues evaluation from there. It may itself
// return another Suspension if a later item also needs a roster
// fetch.
func (s *Suspension) Resume(rec store.RosterRecord, found bool) (model.Action, *Suspension) {
	if matchesRosterPredicate(s.pendingItem, rec, found) {
		return s.pendingItem.Action, nil
	}
	s.st.idx++
	return s.st.run()
}

// Await wires Resume into the RosterSource's own completion callback
// and invokes fn with the eventual (action, suspension) pair — fn
// should itself call susp.Await again if the returned suspension is
// non-nil, to drain a list with more than one asynchronous predicate.
func (s *Suspension) Await(fn func(model.Action, *Suspension)) {
	s.await(func(rec store.RosterRecord, found bool) {
		fn(s.Resume(rec, found))
	})
}

func matchesRosterPredicate(item model.Item, rec store.RosterRecord, found bool) bool {
	if item.PredicateKind == model.PredicateGroup {
		return predicate.MatchGroup(rec, found, item.PredicateValue)
	}
	return predicate.MatchSubscription(rec, found, item.PredicateValue)
}

// Evaluate runs the ordered match engine from spec §4.3 against list
// for one stanza, in direction dir, where owner is the full JID whose
// list is being applied and other is the counterparty. If no item
// requires a deferred roster fetch, the returned Suspension is nil and
// the Action is final. Otherwise the Action return value must be
// ignored and the caller must drive the returned Suspension to
// completion.
func Evaluate(list *model.List, stanza Stanza, dir model.Direction, owner, other jid.JID, roster RosterSource) (model.Action, *Suspension) {
	if owner.Bare().Equal(other.Bare()) {
		return model.Allow, nil
	}
	st := &state{list: list, stanza: stanza, dir: dir, owner: owner, other: other, roster: roster}
	return st.run()
}

func (s *state) run() (model.Action, *Suspension) {
	wireType := s.stanza.WireType()
	subtype := s.stanza.PresenceSubtype()

	for ; s.idx < len(s.list.Items); s.idx++ {
		item := s.list.Items[s.idx]
		kind := wireType.Kind(s.dir)

		if !predicate.StanzaKindGate(item.StanzaMask, kind, subtype, item.ProbeFlag) {
			continue
		}

		// §4.3 step 2: a catch-all (no predicate, no probe flag)
		// outbound-presence deny never fires against a directed
		// presence — directed presences bypass catch-all invisibility
		// filters.
		if wireType == model.WirePresence && s.dir == model.DirectionOut &&
			item.PredicateKind == model.PredicateNone && !item.ProbeFlag && s.stanza.Directed() {
			continue
		}

		switch item.PredicateKind {
		case model.PredicateNone:
			return item.Action, nil

		case model.PredicateJID:
			if predicate.MatchJID(s.other, item.PredicateValue) {
				return item.Action, nil
			}

		case model.PredicateGroup, model.PredicateSubscription:
			fetch := s.roster.Fetch(s.owner, s.other)
			if !fetch.Ready {
				return model.Allow, &Suspension{st: s, pendingItem: item, await: fetch.Await}
			}
			if matchesRosterPredicate(item, fetch.Record, fetch.Found) {
				return item.Action, nil
			}
		}
	}

	return model.Allow, nil
}
