package pipeline

import (
	"testing"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/engine"
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

type fakeStanza struct {
	wire     model.WireType
	from, to jid.JID
}

func (s fakeStanza) WireType() model.WireType              { return s.wire }
func (s fakeStanza) PresenceSubtype() model.PresenceSubtype { return model.PresenceNone }
func (s fakeStanza) From() jid.JID                          { return s.from }
func (s fakeStanza) To() jid.JID                             { return s.to }
func (s fakeStanza) Directed() bool                          { return false }

type noopRoster struct{}

func (noopRoster) Fetch(owner, other jid.JID) engine.RosterFetch {
	return engine.ReadyFetch(store.RosterRecord{}, false)
}

// fakeListStore is a minimal store.ListStore backing only LoadDefault,
// standing in for a persisted default that predates this process's
// cache (no admin IQ has warmed it yet).
type fakeListStore struct {
	bare   jid.JID
	def    *model.List
	hasDef bool
}

func (f *fakeListStore) ListAll(bare jid.JID) ([]*model.List, error) { return nil, nil }
func (f *fakeListStore) Load(bare jid.JID, name string) (*model.List, bool, error) {
	return nil, false, nil
}
func (f *fakeListStore) LoadDefault(bare jid.JID) (*model.List, bool, error) {
	if f.hasDef && bare.Equal(f.bare) {
		return f.def, true, nil
	}
	return nil, false, nil
}
func (f *fakeListStore) Store(bare jid.JID, list *model.List) error { return nil }

func TestIngressAllowsWithNoEffectiveList(t *testing.T) {
	h := &Hooks{Cache: cache.New(), Roster: noopRoster{}}
	recipient := mustJID(t, "romeo@example.com/orchard")
	sender := mustJID(t, "juliet@example.com")

	v := h.Ingress(fakeStanza{wire: model.WireMessage, from: sender, to: recipient}, recipient)
	if v.Action != model.Allow {
		t.Fatalf("expected Allow with no effective list, got %v", v.Action)
	}
}

func TestIngressDeniesWhenRecipientListDenies(t *testing.T) {
	c := cache.New()
	recipient := mustJID(t, "romeo@example.com/orchard")
	sender := mustJID(t, "juliet@example.com")
	c.SetActive(recipient, model.NewList("x", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: sender.String()},
	}, false, false))

	h := &Hooks{Cache: c, Roster: noopRoster{}}
	v := h.Ingress(fakeStanza{wire: model.WireMessage, from: sender, to: recipient}, recipient)
	if v.Action != model.Deny {
		t.Fatalf("expected Deny, got %v", v.Action)
	}
	if !v.Owner.Equal(recipient) {
		t.Fatalf("expected the verdict to be owned by the recipient, got %v", v.Owner)
	}
}

func TestDeliverRecipientDenyShortCircuitsEgress(t *testing.T) {
	c := cache.New()
	recipient := mustJID(t, "romeo@example.com/orchard")
	sender := mustJID(t, "juliet@example.com/phone")
	c.SetActive(recipient, model.NewList("x", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: sender.Bare().String()},
	}, false, false))
	c.SetActive(sender, model.NewList("y", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: "nobody@example.com"},
	}, false, false))

	h := &Hooks{Cache: c, Roster: noopRoster{}}
	v := h.Deliver(fakeStanza{wire: model.WireMessage, from: sender, to: recipient}, true, true)
	if v.Action != model.Deny || !v.Owner.Equal(recipient) {
		t.Fatalf("expected recipient-side deny to short-circuit, got %+v", v)
	}
}

func TestIngressFallsBackToStoreOnColdCacheDefault(t *testing.T) {
	recipient := mustJID(t, "romeo@example.com/orchard")
	sender := mustJID(t, "juliet@example.com")

	persisted := model.NewList("home", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: sender.String()},
	}, true, false)
	ls := &fakeListStore{bare: recipient.Bare(), def: persisted, hasDef: true}

	c := cache.New()
	if _, ok := c.GetDefault(recipient.Bare()); ok {
		t.Fatalf("test setup invariant violated: cache must be cold")
	}

	h := &Hooks{Cache: c, Store: ls, Roster: noopRoster{}}
	v := h.Ingress(fakeStanza{wire: model.WireMessage, from: sender, to: recipient}, recipient)
	if v.Action != model.Deny {
		t.Fatalf("expected a persisted-but-uncached default to still deny, got %v", v.Action)
	}

	cached, ok := c.GetDefault(recipient.Bare())
	if !ok || cached.Name != "home" {
		t.Fatalf("expected the store fallback to warm the cache, got %+v ok=%v", cached, ok)
	}
}

func TestCloseEvictsSession(t *testing.T) {
	c := cache.New()
	full := mustJID(t, "romeo@example.com/orchard")
	c.SetActive(full, model.NewList("x", nil, false, false))
	c.MarkBlockListUser(full)

	h := &Hooks{Cache: c, Roster: noopRoster{}}
	h.Close(full)

	if _, ok := c.GetActive(full); ok {
		t.Fatalf("expected Close to evict the active binding")
	}
	if c.IsBlockListUser(full) {
		t.Fatalf("expected Close to evict block-list-user membership")
	}
}
