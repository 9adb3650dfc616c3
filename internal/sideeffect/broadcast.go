package sideeffect

import "mellium.im/xmpp/jid"

// ListNameNotice is the Privacy-shaped multi-session notification:
// just the name of the list that changed, per §4.5.2 and §4.7.
type ListNameNotice struct {
	ListName string
}

// Broadcast notifies every other session of owner's account after a
// list mutation (§4.7 Multi-session broadcast). originator is the
// full JID that made the change and is excluded from the broadcast.
// blockingIQ, when non-nil, is the original Blocking-namespace IQ
// payload to forward verbatim to sessions in BlockListUserSet; other
// sessions always receive a ListNameNotice regardless of blockingIQ.
func (e *Emitter) Broadcast(owner, originator jid.JID, listName string, blockingIQ any) {
	if e.Sessions == nil || e.Router == nil {
		return
	}
	for _, target := range e.Sessions.SessionsOf(owner.Bare()) {
		if target.Full.Equal(originator) {
			continue
		}
		if blockingIQ != nil && e.Cache != nil && e.Cache.IsBlockListUser(target.Full) {
			_ = e.Router.Send(target, blockingIQ)
			continue
		}
		_ = e.Router.Send(target, ListNameNotice{ListName: listName})
	}
}
