package cache

import (
	"testing"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
)

func mustJID(t *testing.T, s string) jid.JID {
	t.Helper()
	j, err := jid.Parse(s)
	if err != nil {
		t.Fatalf("jid.Parse(%q): %v", s, err)
	}
	return j
}

func TestEffectivePrefersActiveOverDefault(t *testing.T) {
	c := New()
	full := mustJID(t, "romeo@example.com/orchard")
	bare := full.Bare()

	def := model.NewList("default", nil, true, false)
	active := model.NewList("active", nil, false, false)

	c.SetDefault(bare, def)
	if got := c.Effective(full); got == nil || got.Name != "default" {
		t.Fatalf("expected default list before any active binding, got %+v", got)
	}

	c.SetActive(full, active)
	if got := c.Effective(full); got == nil || got.Name != "active" {
		t.Fatalf("expected active list to take precedence, got %+v", got)
	}
}

func TestEffectiveNilWhenNeitherBound(t *testing.T) {
	c := New()
	full := mustJID(t, "romeo@example.com/orchard")
	if got := c.Effective(full); got != nil {
		t.Fatalf("expected nil effective list, got %+v", got)
	}
}

func TestGetDefaultNegativeCacheMiss(t *testing.T) {
	c := New()
	bare := mustJID(t, "romeo@example.com")

	c.SetDefault(bare, nil)
	if _, ok := c.GetDefault(bare); ok {
		t.Fatalf("a nil SetDefault must install a cached miss, not a hit")
	}

	c.EvictDefault(bare)
	if _, ok := c.GetDefault(bare); ok {
		t.Fatalf("EvictDefault must forget the cached miss entirely")
	}
}

func TestEvictSessionRemovesActiveAndBlockSubs(t *testing.T) {
	c := New()
	full := mustJID(t, "romeo@example.com/orchard")

	c.SetActive(full, model.NewList("x", nil, false, false))
	c.MarkBlockListUser(full)

	c.EvictSession(full)

	if _, ok := c.GetActive(full); ok {
		t.Fatalf("expected active binding to be gone after EvictSession")
	}
	if c.IsBlockListUser(full) {
		t.Fatalf("expected block-list-user membership to be gone after EvictSession")
	}
}

func TestIsCachedWithName(t *testing.T) {
	c := New()
	full := mustJID(t, "romeo@example.com/orchard")
	c.SetActive(full, model.NewList("block", nil, false, false))

	if !c.IsCachedWithName(full, "block") {
		t.Fatalf("expected IsCachedWithName to match the installed active list's name")
	}
	if c.IsCachedWithName(full, "other") {
		t.Fatalf("did not expect IsCachedWithName to match a different name")
	}
}
