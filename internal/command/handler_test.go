package command

import (
	"sync"

	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/sideeffect"
	"github.com/meszmate/privacy/internal/store"
)

// fakeStore is an in-memory store.ListStore for command tests.
type fakeStore struct {
	mu    sync.Mutex
	lists map[string]map[string]*model.List
}

func newFakeStore() *fakeStore {
	return &fakeStore{lists: make(map[string]map[string]*model.List)}
}

func (f *fakeStore) ListAll(bare jid.JID) ([]*model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*model.List
	for _, l := range f.lists[bare.String()] {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeStore) Load(bare jid.JID, name string) (*model.List, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[bare.String()][name]
	return l, ok, nil
}

func (f *fakeStore) LoadDefault(bare jid.JID) (*model.List, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, l := range f.lists[bare.String()] {
		if l.Default {
			return l, true, nil
		}
	}
	return nil, false, nil
}

func (f *fakeStore) Store(bare jid.JID, list *model.List) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := bare.String()
	if f.lists[key] == nil {
		f.lists[key] = make(map[string]*model.List)
	}
	if list.Empty() {
		delete(f.lists[key], list.Name)
		return nil
	}
	if list.Default {
		for name, l := range f.lists[key] {
			if name != list.Name && l.Default {
				clone := *l
				clone.Default = false
				f.lists[key][name] = &clone
			}
		}
	}
	f.lists[key][list.Name] = list
	return nil
}

// fakeRoster is a no-op store.RosterStore for command tests that never
// exercise group/subscription predicates directly.
type fakeRoster struct{}

func (fakeRoster) Lookup(owner, other jid.JID) (store.RosterRecord, bool) { return store.RosterRecord{}, false }
func (fakeRoster) GroupQuery(owner jid.JID, toOnly bool) []store.RosterEntry { return nil }

// fakeSessions is an in-memory store.SessionDirectory for command
// tests.
type fakeSessions struct {
	byBare map[string][]jid.JID
}

func newFakeSessions(bare jid.JID, fulls ...jid.JID) *fakeSessions {
	return &fakeSessions{byBare: map[string][]jid.JID{bare.String(): fulls}}
}

func (f *fakeSessions) SessionsOf(bare jid.JID) []store.Target {
	var out []store.Target
	for _, full := range f.byBare[bare.String()] {
		out = append(out, store.Target{Full: full})
	}
	return out
}

// fakeRouter records every send for assertions.
type fakeRouter struct {
	mu   sync.Mutex
	sent []store.Target
}

func (r *fakeRouter) Send(target store.Target, stanza any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, target)
	return nil
}

func newTestHandler(sessions store.SessionDirectory, router store.Router) (*Handler, *fakeStore) {
	fs := newFakeStore()
	h := &Handler{
		Cache: cache.New(),
		Store: fs,
		Emitter: &sideeffect.Emitter{
			Router:   router,
			Sessions: sessions,
			Roster:   fakeRoster{},
			Cache:    nil, // set below once Cache exists
		},
	}
	h.Emitter.Cache = h.Cache
	return h, fs
}
