package model

// PredicateKind is the shape of a PrivacyItem's predicate, §3.
type PredicateKind int

const (
	PredicateNone PredicateKind = iota
	PredicateJID
	PredicateGroup
	PredicateSubscription
)

func (k PredicateKind) String() string {
	switch k {
	case PredicateJID:
		return "jid"
	case PredicateGroup:
		return "group"
	case PredicateSubscription:
		return "subscription"
	default:
		return "none"
	}
}

// ParsePredicateKind maps the wire attribute value of an item's "type"
// attribute onto a PredicateKind. ok is false for anything other than
// the three recognised values.
func ParsePredicateKind(s string) (PredicateKind, bool) {
	switch s {
	case "jid":
		return PredicateJID, true
	case "group":
		return PredicateGroup, true
	case "subscription":
		return PredicateSubscription, true
	default:
		return PredicateNone, false
	}
}

// Item is a single ordered rule within a PrivacyList (§3 PrivacyItem).
type Item struct {
	Order           uint32
	Action          Action
	PredicateKind   PredicateKind
	PredicateValue  string
	StanzaMask      StanzaMask
	ProbeFlag       bool
}

// IsBlockingShape classifies item per §4.1: predicate_kind=jid,
// action=deny, and an empty stanza mask. Classification never reads
// any state beyond the item itself.
func (it Item) IsBlockingShape() bool {
	return it.PredicateKind == PredicateJID && it.Action == Deny && it.StanzaMask == 0
}

// IsInvisibilityShape classifies item per §4.1: predicate_kind=none,
// action=deny, stanza_mask={presence-out}, regardless of ProbeFlag.
func (it Item) IsInvisibilityShape() bool {
	return it.PredicateKind == PredicateNone && it.Action == Deny && it.StanzaMask == MaskPresenceOut
}

// IsInvisibilityProbeShape narrows IsInvisibilityShape to items that
// additionally restrict themselves to presence probes.
func (it Item) IsInvisibilityProbeShape() bool {
	return it.IsInvisibilityShape() && it.ProbeFlag
}

// Clone returns a value copy of the item. Items carry no reference
// fields, so this is just a documentation aid at call sites that want
// to make copy-on-write explicit.
func (it Item) Clone() Item {
	return it
}
