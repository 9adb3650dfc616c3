// Package sqlite is the default persistent internal/store.ListStore,
// adapted from the teacher's internal/storage/sqlite: same
// sql.Open("sqlite3", ...)+migration-list+ad-hoc parameterized
// Exec/Query idiom, narrowed to the one table a privacy list needs.
// Items are serialized as a JSON array in one column, the same
// groups_json idiom the teacher uses for a roster contact's group
// list.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
)

// DB is a sqlite-backed store.ListStore.
type DB struct {
	db *sql.DB
}

// Open opens (creating if necessary) the database at path and runs
// migrations. dataDir is used when path is empty, matching the
// teacher's New(dataDir) convention.
func Open(path, dataDir string) (*DB, error) {
	if path == "" {
		path = filepath.Join(dataDir, "privacy.db")
	}
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store := &DB{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

func (d *DB) Close() error {
	return d.db.Close()
}

func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS privacy_lists (
			account TEXT NOT NULL,
			name TEXT NOT NULL,
			is_default INTEGER DEFAULT 0,
			items_json TEXT NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (account, name)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_privacy_lists_account ON privacy_lists(account)`,
		`CREATE INDEX IF NOT EXISTS idx_privacy_lists_default ON privacy_lists(account, is_default)`,
	}
	for _, migration := range migrations {
		if _, err := d.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// itemRow is the JSON wire shape stored in items_json — deliberately
// separate from model.Item so a column rename/format change doesn't
// ripple into the rule model.
type itemRow struct {
	Order          uint32 `json:"order"`
	Action         string `json:"action"`
	PredicateKind  string `json:"predicate_kind,omitempty"`
	PredicateValue string `json:"predicate_value,omitempty"`
	StanzaMask     uint8  `json:"stanza_mask,omitempty"`
	ProbeFlag      bool   `json:"probe_flag,omitempty"`
}

func toRows(items []model.Item) []itemRow {
	rows := make([]itemRow, 0, len(items))
	for _, it := range items {
		action := "allow"
		if it.Action == model.Deny {
			action = "deny"
		}
		rows = append(rows, itemRow{
			Order:          it.Order,
			Action:         action,
			PredicateKind:  it.PredicateKind.String(),
			PredicateValue: it.PredicateValue,
			StanzaMask:     uint8(it.StanzaMask),
			ProbeFlag:      it.ProbeFlag,
		})
	}
	return rows
}

func fromRows(rows []itemRow) []model.Item {
	items := make([]model.Item, 0, len(rows))
	for _, r := range rows {
		action := model.Allow
		if r.Action == "deny" {
			action = model.Deny
		}
		kind, _ := model.ParsePredicateKind(r.PredicateKind)
		items = append(items, model.Item{
			Order:          r.Order,
			Action:         action,
			PredicateKind:  kind,
			PredicateValue: r.PredicateValue,
			StanzaMask:     model.StanzaMask(r.StanzaMask),
			ProbeFlag:      r.ProbeFlag,
		})
	}
	return items
}

// ListAll implements store.ListStore.
func (d *DB) ListAll(bare jid.JID) ([]*model.List, error) {
	rows, err := d.db.Query(`SELECT name, is_default, items_json FROM privacy_lists WHERE account = ?`, bare.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*model.List
	for rows.Next() {
		var name, itemsJSON string
		var isDefault int
		if err := rows.Scan(&name, &isDefault, &itemsJSON); err != nil {
			return nil, err
		}
		var raw []itemRow
		if err := json.Unmarshal([]byte(itemsJSON), &raw); err != nil {
			return nil, fmt.Errorf("corrupt items for list %q: %w", name, err)
		}
		out = append(out, model.NewList(name, fromRows(raw), isDefault != 0, false))
	}
	return out, rows.Err()
}

// Load implements store.ListStore.
func (d *DB) Load(bare jid.JID, name string) (*model.List, bool, error) {
	return d.loadWhere(`account = ? AND name = ?`, bare.String(), name)
}

// LoadDefault implements store.ListStore.
func (d *DB) LoadDefault(bare jid.JID) (*model.List, bool, error) {
	return d.loadWhere(`account = ? AND is_default = 1`, bare.String())
}

func (d *DB) loadWhere(where string, args ...any) (*model.List, bool, error) {
	row := d.db.QueryRow(`SELECT name, is_default, items_json FROM privacy_lists WHERE `+where, args...)
	var name, itemsJSON string
	var isDefault int
	switch err := row.Scan(&name, &isDefault, &itemsJSON); err {
	case nil:
	case sql.ErrNoRows:
		return nil, false, nil
	default:
		return nil, false, err
	}
	var raw []itemRow
	if err := json.Unmarshal([]byte(itemsJSON), &raw); err != nil {
		return nil, false, fmt.Errorf("corrupt items for list %q: %w", name, err)
	}
	return model.NewList(name, fromRows(raw), isDefault != 0, false), true, nil
}

// Store implements store.ListStore. An empty-items list removes the
// row (§3 lifecycle: empty items means deleted). When list.Default is
// true, every other list on the account has its is_default flag
// cleared first, since only one list may be the account default at a
// time (§3 EffectiveListBinding).
func (d *DB) Store(bare jid.JID, list *model.List) error {
	if list.Empty() {
		_, err := d.db.Exec(`DELETE FROM privacy_lists WHERE account = ? AND name = ?`, bare.String(), list.Name)
		return err
	}
	buf, err := json.Marshal(toRows(list.Items))
	if err != nil {
		return fmt.Errorf("failed to encode items: %w", err)
	}
	isDefault := 0
	if list.Default {
		isDefault = 1
	}

	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if list.Default {
		if _, err := tx.Exec(`UPDATE privacy_lists SET is_default = 0 WHERE account = ? AND name != ?`, bare.String(), list.Name); err != nil {
			return err
		}
	}
	if _, err := tx.Exec(`
		INSERT INTO privacy_lists (account, name, is_default, items_json, updated_at)
		VALUES (?, ?, ?, ?, strftime('%s','now'))
		ON CONFLICT(account, name) DO UPDATE SET
			is_default = excluded.is_default,
			items_json = excluded.items_json,
			updated_at = excluded.updated_at
	`, bare.String(), list.Name, isDefault, string(buf)); err != nil {
		return err
	}
	return tx.Commit()
}
