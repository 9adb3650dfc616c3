// Package pipeline implements C6: the three host hook points this
// core registers against (spec §4.6) and the connection-close
// eviction callback. Routing an admin IQ (no `to` attribute) to
// internal/command is the host's job — once it has parsed an IQ body
// into a command.QueryRequest/SetRequest/etc it calls the Handler
// directly; this package only covers the match-engine evaluation path
// a stanza with a `to` takes.
package pipeline

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/engine"
	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/store"
)

// Hooks bundles the collaborators the three evaluation hooks need.
type Hooks struct {
	Cache  *cache.Cache
	Store  store.ListStore
	Roster engine.RosterSource
}

// effective returns full's effective list per §3, falling back to the
// persistent store on a cold cache the same way internal/command's
// block-list helpers do: a default bound before this process started
// (or before this account's first admin IQ in this process's
// lifetime) must still be enforced on the routing hot path, not just
// on Privacy/Blocking queries (§4.4).
func (h *Hooks) effective(full jid.JID) *model.List {
	if l, ok := h.Cache.GetActive(full); ok {
		return l
	}
	bare := full.Bare()
	if l, ok := h.Cache.GetDefault(bare); ok {
		return l
	}
	if h.Store == nil {
		return nil
	}
	list, found, err := h.Store.LoadDefault(bare)
	if err != nil || !found {
		h.Cache.SetDefault(bare, nil)
		return nil
	}
	h.Cache.SetDefault(bare, list)
	return list
}

// Verdict is the outcome of one evaluation hook: the action, which
// owner's list produced it (so the error emitter can tag the reply
// correctly per §4.6), and a pending Suspension when a roster fetch
// could not complete synchronously.
type Verdict struct {
	Action     model.Action
	Owner      jid.JID
	Suspension *engine.Suspension
}

func allow() Verdict { return Verdict{Action: model.Allow} }

// Ingress implements hook 1 (switch_incoming_client) for a stanza
// addressed to a local recipient: evaluate the recipient's effective
// list inbound. A deny here causes the host to drop the stanza at
// this hook (§4.6 point 1).
func (h *Hooks) Ingress(s engine.Stanza, recipient jid.JID) Verdict {
	list := h.effective(recipient)
	if list.Empty() {
		return allow()
	}
	action, susp := engine.Evaluate(list, s, model.DirectionIn, recipient, s.From(), h.Roster)
	return Verdict{Action: action, Owner: recipient, Suspension: susp}
}

// Egress implements hook 2 (pre_stanza_write): evaluate the sender's
// effective list outbound. Only called for stanzas originating on a
// client connection with a defined `from` (§4.6 point 2).
func (h *Hooks) Egress(s engine.Stanza, sender jid.JID) Verdict {
	list := h.effective(sender)
	if list.Empty() {
		return allow()
	}
	action, susp := engine.Evaluate(list, s, model.DirectionOut, sender, s.To(), h.Roster)
	return Verdict{Action: action, Owner: sender, Suspension: susp}
}

// Deliver implements hook 3: evaluate in both directions as needed,
// recipient first (§4.6 point 3). recipientLocal/senderLocal gate
// which evaluations actually run — an endpoint off this host has no
// effective list here. The first deny found short-circuits: a
// recipient-side deny (or a pending Suspension) is returned without
// evaluating the sender's list; otherwise the sender's list, when the
// sender is local, decides the verdict.
func (h *Hooks) Deliver(s engine.Stanza, recipientLocal, senderLocal bool) Verdict {
	if recipientLocal {
		if v := h.Ingress(s, s.To()); v.Action == model.Deny || v.Suspension != nil {
			return v
		}
	}
	if senderLocal {
		return h.Egress(s, s.From())
	}
	return allow()
}

// Close implements the connection-closing hook: evict the departing
// session's active binding and block-list-user membership (§4.6
// closing paragraph, §4.4).
func (h *Hooks) Close(full jid.JID) {
	h.Cache.EvictSession(full)
}
