package predicate

import "github.com/meszmate/privacy/internal/store"

// MatchSubscription implements §4.2's subscription predicate: compare
// only the to/from bits (pending "ask" bits are already masked out by
// store.Subscription), and treat an absent roster record as
// SubscriptionNone so that `subscription=none` rules still fire for
// strangers.
func MatchSubscription(rec store.RosterRecord, found bool, want string) bool {
	actual := store.SubscriptionNone
	if found {
		actual = rec.Subscription
	}
	switch want {
	case "none":
		return actual == store.SubscriptionNone
	case "to":
		return actual == store.SubscriptionTo
	case "from":
		return actual == store.SubscriptionFrom
	case "both":
		return actual == store.SubscriptionBoth
	default:
		return false
	}
}

// MatchGroup implements §4.2's group predicate: the rule's group name
// must be one of the RosterRecord's groups. A record absent from the
// roster (found=false) never matches any group.
func MatchGroup(rec store.RosterRecord, found bool, group string) bool {
	if !found {
		return false
	}
	for _, g := range rec.Groups {
		if g == group {
			return true
		}
	}
	return false
}
