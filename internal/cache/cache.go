// Package cache implements the session- and bare-JID-indexed active
// and default list bindings (spec §3 EffectiveListBinding, §4.4).
// Its shape — a single sync.RWMutex guarding map[string]*T, full value
// replace on write, no in-place mutation — mirrors the teacher's
// xmpp/roster.Manager and xmpp/presence.Manager: one mutex, read locks
// on lookup, write locks on mutation, pointer values swapped wholesale.
package cache

import (
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
)

// negative marks a cached miss for a bare JID (§4.4). GetDefault
// reports it exactly like an absent entry (ok=false), so a caller
// cannot tell a cached miss from a cold cache; internal/pipeline and
// internal/command consult the backing store again in both cases.
var negative = &model.List{}

// Cache is a process-wide (or, per §9, one-per-virtual-host) mapping
// from full-JID strings to active lists and bare-JID strings to
// default lists, plus the set of full JIDs subscribed to
// Blocking-shaped notifications (spec §3 BlockListUserSet).
type Cache struct {
	mu        sync.RWMutex
	active    map[string]*model.List // full JID -> active list
	def       map[string]*model.List // bare JID -> default list (or negative)
	blockSubs map[string]struct{}    // full JID -> member of BlockListUserSet
}

// New returns an empty Cache.
func New() *Cache {
	return &Cache{
		active:    make(map[string]*model.List),
		def:       make(map[string]*model.List),
		blockSubs: make(map[string]struct{}),
	}
}

// GetActive returns the active list bound to full, if any.
func (c *Cache) GetActive(full jid.JID) (*model.List, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.active[full.String()]
	return l, ok
}

// SetActive installs list as the active binding for full. Passing a
// nil list removes the binding (§3: "removed by set active with no
// name... or connection teardown").
func (c *Cache) SetActive(full jid.JID, list *model.List) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if list == nil {
		delete(c.active, full.String())
		return
	}
	c.active[full.String()] = list
}

// GetDefault returns the default list for bare. A cached negative
// lookup reports ok=false without reaching the backing store.
func (c *Cache) GetDefault(bare jid.JID) (*model.List, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.def[bare.String()]
	if !ok || l == negative {
		return nil, false
	}
	return l, true
}

// SetDefault installs list as bare's default binding. Passing nil
// installs the negative sentinel (§4.4); callers that want to forget
// the binding outright (rather than cache a miss) should use
// EvictDefault.
func (c *Cache) SetDefault(bare jid.JID, list *model.List) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if list == nil {
		c.def[bare.String()] = negative
		return
	}
	c.def[bare.String()] = list
}

// EvictDefault forgets bare's default binding entirely, including any
// cached negative lookup.
func (c *Cache) EvictDefault(bare jid.JID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.def, bare.String())
}

// IsCachedWithName reports whether the active binding for full is
// installed and carries the given list name.
func (c *Cache) IsCachedWithName(full jid.JID, name string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	l, ok := c.active[full.String()]
	return ok && l != nil && l.Name == name
}

// Effective returns a session's effective list per §3: active if
// present, else default, else nil.
func (c *Cache) Effective(full jid.JID) *model.List {
	if l, ok := c.GetActive(full); ok {
		return l
	}
	if l, ok := c.GetDefault(full.Bare()); ok {
		return l
	}
	return nil
}

// MarkBlockListUser records that full queried the block list and
// should receive Blocking-shaped notifications on future mutations
// (§4.5.3).
func (c *Cache) MarkBlockListUser(full jid.JID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockSubs[full.String()] = struct{}{}
}

// IsBlockListUser reports membership in BlockListUserSet.
func (c *Cache) IsBlockListUser(full jid.JID) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.blockSubs[full.String()]
	return ok
}

// EvictSession removes full's active binding and block-list-user
// membership on connection teardown (§4.4, §4.6). Default bindings
// are untouched — they live until process exit or explicit eviction.
func (c *Cache) EvictSession(full jid.JID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.active, full.String())
	delete(c.blockSubs, full.String())
}
