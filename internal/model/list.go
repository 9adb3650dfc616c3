package model

import "sort"

// List is an identified, ordered collection of items (§3 PrivacyList).
// Once constructed via NewList (which WithItems, Filter and Prepend
// all go through), Items is never mutated in
// place: every change produces a new *List that atomically replaces
// the prior cache binding (§5 Shared-resource policy).
type List struct {
	Name      string
	Items     []Item
	Default   bool
	Transient bool
}

// NewList sorts items by Order ascending (stable, so items sharing an
// Order keep their relative submission order — §8 P3) and returns an
// immutable List value.
func NewList(name string, items []Item, isDefault, transient bool) *List {
	sorted := make([]Item, len(items))
	copy(sorted, items)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Order < sorted[j].Order })
	return &List{Name: name, Items: sorted, Default: isDefault, Transient: transient}
}

// Empty reports whether the list has no items. The store contract
// (§3 lifecycle, §6) treats an empty-items list as a deletion marker.
func (l *List) Empty() bool {
	return l == nil || len(l.Items) == 0
}

// WithItems returns a new *List with a different item set, preserving
// Name/Default/Transient. The receiver is left untouched.
func (l *List) WithItems(items []Item) *List {
	return NewList(l.Name, items, l.Default, l.Transient)
}

// Filter returns a new *List containing only the items for which keep
// returns true, preserving relative order.
func (l *List) Filter(keep func(Item) bool) *List {
	out := make([]Item, 0, len(l.Items))
	for _, it := range l.Items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return l.WithItems(out)
}

// Prepend returns a new *List with item added to the current items.
// The result is re-sorted by Order, so item comes first only when its
// Order is at most the current lowest Order (a tie keeps it ahead);
// choosing such an Order, and renumbering when there is no room, is the
// caller's job — see command.Block and command.Invisible.
func (l *List) Prepend(item Item) *List {
	items := make([]Item, 0, len(l.Items)+1)
	items = append(items, item)
	items = append(items, l.Items...)
	return l.WithItems(items)
}

// LowestOrder returns the lowest Order value in the list, and ok=false
// if the list has no items.
func (l *List) LowestOrder() (uint32, bool) {
	if len(l.Items) == 0 {
		return 0, false
	}
	return l.Items[0].Order, true
}
