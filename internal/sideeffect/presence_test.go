package sideeffect

import (
	"testing"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/store"
)

func mustJID(t *testing.T, s string) jid.JID {
	t.Helper()
	j, err := jid.Parse(s)
	if err != nil {
		t.Fatalf("jid.Parse(%q): %v", s, err)
	}
	return j
}

type fakeRoster struct {
	entries []store.RosterEntry
}

func (f fakeRoster) Lookup(owner, other jid.JID) (store.RosterRecord, bool) {
	return store.RosterRecord{}, false
}

func (f fakeRoster) GroupQuery(owner jid.JID, toOnly bool) []store.RosterEntry {
	return f.entries
}

func TestRegenerateJIDPredicateProducesOneEvent(t *testing.T) {
	owner := mustJID(t, "romeo@example.com/orchard")
	target := mustJID(t, "juliet@example.com")
	list := model.NewList("x", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: target.String(), StanzaMask: model.MaskPresenceOut},
	}, false, false)

	e := &Emitter{Roster: fakeRoster{}}
	events := e.Regenerate(owner, list)
	if len(events) != 1 {
		t.Fatalf("expected exactly one presence event, got %d: %+v", len(events), events)
	}
	if !events[0].To.Equal(target) || !events[0].Unavailable {
		t.Fatalf("unexpected event: %+v", events[0])
	}
}

func TestRegenerateCatchAllWalksRoster(t *testing.T) {
	owner := mustJID(t, "romeo@example.com/orchard")
	a := mustJID(t, "juliet@example.com")
	b := mustJID(t, "tybalt@example.com")
	list := model.NewList("invisible", []model.Item{
		{Order: 0, Action: model.Deny, StanzaMask: model.MaskPresenceOut},
	}, false, true)

	e := &Emitter{Roster: fakeRoster{entries: []store.RosterEntry{{JID: a}, {JID: b}}}}
	events := e.Regenerate(owner, list)
	if len(events) != 2 {
		t.Fatalf("expected one event per roster entry, got %d", len(events))
	}
}

func TestRegenerateDedupesAcrossItems(t *testing.T) {
	owner := mustJID(t, "romeo@example.com/orchard")
	target := mustJID(t, "juliet@example.com")
	list := model.NewList("x", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: target.String(), StanzaMask: model.MaskPresenceOut},
		{Order: 1, Action: model.Deny, StanzaMask: model.MaskPresenceOut},
	}, false, false)

	e := &Emitter{Roster: fakeRoster{entries: []store.RosterEntry{{JID: target}}}}
	events := e.Regenerate(owner, list)
	if len(events) != 1 {
		t.Fatalf("expected the duplicate target to be deduped into one event, got %d", len(events))
	}
}

func TestRegenerateEmptyListProducesNoEvents(t *testing.T) {
	e := &Emitter{}
	if events := e.Regenerate(mustJID(t, "romeo@example.com"), model.NewList("x", nil, false, false)); events != nil {
		t.Fatalf("expected no events for an empty list, got %+v", events)
	}
}
