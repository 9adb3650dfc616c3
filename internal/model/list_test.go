package model

import "testing"

func TestNewListSortsStably(t *testing.T) {
	items := []Item{
		{Order: 2, Action: Allow},
		{Order: 1, Action: Deny},
		{Order: 1, Action: Allow},
	}
	l := NewList("x", items, false, false)
	if l.Items[0].Order != 1 || l.Items[1].Order != 1 || l.Items[2].Order != 2 {
		t.Fatalf("expected items sorted ascending by order, got %+v", l.Items)
	}
	if l.Items[0].Action != Deny || l.Items[1].Action != Allow {
		t.Fatalf("expected items sharing an order to keep submission order, got %+v", l.Items)
	}
}

func TestPrependKeepsNameAndPutsItemFirst(t *testing.T) {
	l := NewList("work", []Item{{Order: 5, Action: Allow}}, true, false)
	l2 := l.Prepend(Item{Order: 4, Action: Deny})
	if l2.Name != "work" || !l2.Default {
		t.Fatalf("expected Prepend to preserve Name/Default, got %+v", l2)
	}
	if len(l2.Items) != 2 || l2.Items[0].Order != 4 {
		t.Fatalf("expected the prepended item first, got %+v", l2.Items)
	}
	if len(l.Items) != 1 {
		t.Fatalf("expected the receiver to be left untouched, got %+v", l.Items)
	}
}

func TestEmptyAndFilter(t *testing.T) {
	l := NewList("x", nil, false, false)
	if !l.Empty() {
		t.Fatalf("expected a list with no items to be Empty")
	}
	l2 := NewList("x", []Item{{Order: 0, Action: Allow}, {Order: 1, Action: Deny}}, false, false)
	filtered := l2.Filter(func(it Item) bool { return it.Action == Deny })
	if len(filtered.Items) != 1 || filtered.Items[0].Action != Deny {
		t.Fatalf("unexpected filtered items: %+v", filtered.Items)
	}
}

func TestIsBlockingAndInvisibilityShape(t *testing.T) {
	blocking := Item{PredicateKind: PredicateJID, Action: Deny, StanzaMask: 0}
	if !blocking.IsBlockingShape() {
		t.Fatalf("expected a jid/deny/no-mask item to be blocking-shape")
	}
	invisible := Item{PredicateKind: PredicateNone, Action: Deny, StanzaMask: MaskPresenceOut, ProbeFlag: true}
	if !invisible.IsInvisibilityShape() || !invisible.IsInvisibilityProbeShape() {
		t.Fatalf("expected a none/deny/presence-out item to be invisibility-shape and probe-shape")
	}
	if blocking.IsInvisibilityShape() || invisible.IsBlockingShape() {
		t.Fatalf("shapes must not cross-classify")
	}
}
