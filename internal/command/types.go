// Package command implements C5: the five admin operations the
// Privacy, Blocking, and Invisible protocols expose (spec §4.5). Every
// handler receives an already-parsed request value — turning wire XML
// into these types, and these types back into a reply IQ, is the
// host's job, consistent with the parser being an external contract.
package command

import (
	"mellium.im/xmpp/jid"
	"mellium.im/xmpp/stanza"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/sideeffect"
	"github.com/meszmate/privacy/internal/store"
)

// blockListName is the auto-created default list block/unblock
// operate against when the account has none yet (§4.5.4).
const blockListName = "block"

// Session is the minimal view of the requesting connection a handler
// needs: its full JID and whether it has already sent initial
// presence (§4.5.5 uses this to decide whether to regenerate presence
// on becoming invisible).
type Session struct {
	Full                jid.JID
	PastInitialPresence bool
}

// Denial is a stanza error a handler returns instead of applying a
// request; Blocked is set only for the not-acceptable/blocked-marker
// case, which none of the admin operations actually produce (that
// combination is C7's mid-flight denial path) but is kept alongside
// Err for symmetry with sideeffect.Emitter.ErrorReply.
type Denial struct {
	Err     stanza.Error
	Blocked *sideeffect.BlockedMarker
}

func denyCondition(cond stanza.Condition, typ stanza.ErrorType) *Denial {
	return &Denial{Err: stanza.Error{Type: typ, Condition: cond}}
}

func badRequest(typ stanza.ErrorType) *Denial   { return denyCondition(stanza.BadRequest, typ) }
func itemNotFound() *Denial                     { return denyCondition(stanza.ItemNotFound, stanza.Cancel) }
func conflict() *Denial                         { return denyCondition(stanza.Conflict, stanza.Cancel) }
func jidMalformed() *Denial                     { return denyCondition(stanza.JIDMalformed, stanza.Modify) }
func serviceUnavailable() *Denial               { return denyCondition(stanza.ServiceUnavailable, stanza.Cancel) }

// Handler dispatches the five admin operations. It owns no state of
// its own beyond what Cache, Store, and Emitter already own.
type Handler struct {
	Cache   *cache.Cache
	Store   store.ListStore
	Emitter *sideeffect.Emitter
}

// otherSessions returns bare's bound sessions excluding originator.
func (h *Handler) otherSessions(bare, originator jid.JID) []store.Target {
	if h.Emitter == nil || h.Emitter.Sessions == nil {
		return nil
	}
	all := h.Emitter.Sessions.SessionsOf(bare)
	out := make([]store.Target, 0, len(all))
	for _, t := range all {
		if t.Full.Equal(originator) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// relyingOnDefault reports whether any of bare's other sessions has no
// active binding of its own and therefore depends on the account
// default (§4.5.2 conflict check, §4.5.2 delete conflict check).
func (h *Handler) relyingOnDefault(bare, originator jid.JID) bool {
	for _, t := range h.otherSessions(bare, originator) {
		if _, ok := h.Cache.GetActive(t.Full); !ok {
			return true
		}
	}
	return false
}

// anyOtherSessionHasActive reports whether any of bare's other
// sessions has name installed as its active list.
func (h *Handler) anyOtherSessionHasActive(bare, originator jid.JID, name string) bool {
	for _, t := range h.otherSessions(bare, originator) {
		if h.Cache.IsCachedWithName(t.Full, name) {
			return true
		}
	}
	return false
}
