package predicate

import (
	"testing"

	"github.com/meszmate/privacy/internal/store"
)

func TestMatchSubscription(t *testing.T) {
	cases := []struct {
		name  string
		rec   store.RosterRecord
		found bool
		want  string
		ok    bool
	}{
		{"none absent record", store.RosterRecord{}, false, "none", true},
		{"to matches to", store.RosterRecord{Subscription: store.SubscriptionTo}, true, "to", true},
		{"to does not match both", store.RosterRecord{Subscription: store.SubscriptionBoth}, true, "to", false},
		{"from matches from", store.RosterRecord{Subscription: store.SubscriptionFrom}, true, "from", true},
		{"both matches both", store.RosterRecord{Subscription: store.SubscriptionBoth}, true, "both", true},
		{"unknown value never matches", store.RosterRecord{Subscription: store.SubscriptionBoth}, true, "bogus", false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := MatchSubscription(c.rec, c.found, c.want)
			if got != c.ok {
				t.Fatalf("MatchSubscription(%+v, %v, %q) = %v, want %v", c.rec, c.found, c.want, got, c.ok)
			}
		})
	}
}

func TestMatchGroup(t *testing.T) {
	rec := store.RosterRecord{Groups: []string{"friends", "work"}}
	if !MatchGroup(rec, true, "work") {
		t.Fatalf("expected group match for work")
	}
	if MatchGroup(rec, true, "family") {
		t.Fatalf("did not expect group match for family")
	}
	if MatchGroup(rec, false, "work") {
		t.Fatalf("an absent roster record must never match a group")
	}
}
