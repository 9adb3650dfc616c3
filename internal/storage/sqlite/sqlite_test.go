package sqlite

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

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(":memory:", "")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestStoreLoadRoundtrip(t *testing.T) {
	db := openTestDB(t)
	bare := mustJID(t, "romeo@example.com")

	list := model.NewList("work", []model.Item{
		{Order: 0, Action: model.Deny, PredicateKind: model.PredicateJID, PredicateValue: "juliet@example.com"},
	}, false, false)

	if err := db.Store(bare, list); err != nil {
		t.Fatalf("Store: %v", err)
	}

	loaded, found, err := db.Load(bare, "work")
	if err != nil || !found {
		t.Fatalf("Load: found=%v err=%v", found, err)
	}
	if len(loaded.Items) != 1 || loaded.Items[0].PredicateValue != "juliet@example.com" {
		t.Fatalf("unexpected loaded items: %+v", loaded.Items)
	}
}

func TestStoreOnlyOneDefaultPerAccount(t *testing.T) {
	db := openTestDB(t)
	bare := mustJID(t, "romeo@example.com")

	a := model.NewList("a", []model.Item{{Order: 0, Action: model.Allow}}, true, false)
	b := model.NewList("b", []model.Item{{Order: 0, Action: model.Allow}}, false, false)
	if err := db.Store(bare, a); err != nil {
		t.Fatalf("Store a: %v", err)
	}
	if err := db.Store(bare, b); err != nil {
		t.Fatalf("Store b: %v", err)
	}

	promoted := model.NewList("b", b.Items, true, false)
	if err := db.Store(bare, promoted); err != nil {
		t.Fatalf("Store promoted b: %v", err)
	}

	def, found, err := db.LoadDefault(bare)
	if err != nil || !found {
		t.Fatalf("LoadDefault: found=%v err=%v", found, err)
	}
	if def.Name != "b" {
		t.Fatalf("expected 'b' to be the new default, got %q", def.Name)
	}

	stillA, found, err := db.Load(bare, "a")
	if err != nil || !found {
		t.Fatalf("Load a: found=%v err=%v", found, err)
	}
	if stillA.Default {
		t.Fatalf("expected list 'a' to no longer be marked default")
	}
}

func TestStoreEmptyListDeletes(t *testing.T) {
	db := openTestDB(t)
	bare := mustJID(t, "romeo@example.com")

	list := model.NewList("work", []model.Item{{Order: 0, Action: model.Allow}}, false, false)
	if err := db.Store(bare, list); err != nil {
		t.Fatalf("Store: %v", err)
	}

	empty := model.NewList("work", nil, false, false)
	if err := db.Store(bare, empty); err != nil {
		t.Fatalf("Store empty: %v", err)
	}

	if _, found, err := db.Load(bare, "work"); err != nil || found {
		t.Fatalf("expected list to be deleted, found=%v err=%v", found, err)
	}
}

func TestLoadDefaultNoneFound(t *testing.T) {
	db := openTestDB(t)
	bare := mustJID(t, "romeo@example.com")
	if _, found, err := db.LoadDefault(bare); err != nil || found {
		t.Fatalf("expected no default list, found=%v err=%v", found, err)
	}
}
