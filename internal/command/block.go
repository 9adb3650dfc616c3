package command

import (
	"mellium.im/xmpp/jid"
	"mellium.im/xmpp/stanza"

	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/sideeffect"
)

// BlockListReply is the response to a {urn:xmpp:blocking} blocklist
// query: the JIDs carried by every Blocking-shape item of the current
// default list (§4.5.3).
type BlockListReply struct {
	JIDs []jid.JID
}

// QueryBlockList implements §4.5.3: enumerate the default list's
// Blocking-shape items and mark sess as a block-list user so it
// receives Blocking-shaped broadcasts instead of Privacy-shaped ones.
func (h *Handler) QueryBlockList(sess Session) BlockListReply {
	bare := sess.Full.Bare()
	h.Cache.MarkBlockListUser(sess.Full)

	list, ok := h.Cache.GetDefault(bare)
	if !ok {
		var err error
		list, ok, err = h.Store.LoadDefault(bare)
		if err != nil || !ok {
			return BlockListReply{}
		}
		h.Cache.SetDefault(bare, list)
	}

	var reply BlockListReply
	for _, it := range list.Items {
		if !it.IsBlockingShape() {
			continue
		}
		if j, err := jid.Parse(it.PredicateValue); err == nil {
			reply.JIDs = append(reply.JIDs, j)
		}
	}
	return reply
}

// loadOrCreateBlockList fetches bare's default list, falling back to
// the store, and auto-creates the empty "block" list per §4.5.4 if no
// default exists at all.
func (h *Handler) loadOrCreateBlockList(bare jid.JID) (*model.List, error) {
	if list, ok := h.Cache.GetDefault(bare); ok {
		return list, nil
	}
	list, found, err := h.Store.LoadDefault(bare)
	if err != nil {
		return nil, err
	}
	if found && !list.Empty() {
		return list, nil
	}
	return model.NewList(blockListName, nil, true, false), nil
}

// Block implements the block half of §4.5.4. jids holds the entries
// the caller parsed successfully and malformedCount the number that
// failed to parse; any failure answers jid-malformed before any
// mutation, and an empty jids answers bad-request. New items get
// Orders strictly below every existing item, renumbering the existing
// items upward when there is no room below them.
// origIQ is the raw incoming IQ payload, forwarded verbatim to
// BlockListUserSet members on broadcast (§4.5.4).
func (h *Handler) Block(sess Session, jids []jid.JID, malformedCount int, origIQ any) *Denial {
	if malformedCount > 0 {
		return jidMalformed()
	}
	if len(jids) == 0 {
		return badRequest(stanza.Cancel)
	}

	bare := sess.Full.Bare()
	list, err := h.loadOrCreateBlockList(bare)
	if err != nil {
		return serviceUnavailable()
	}

	n := uint32(len(jids))
	base, shift := uint32(0), uint32(0)
	if lowest, hasItems := list.LowestOrder(); hasItems {
		if lowest >= n {
			base = lowest - n
		} else {
			shift = n - lowest
		}
	}

	items := make([]model.Item, 0, len(list.Items)+len(jids))
	for i, j := range jids {
		items = append(items, model.Item{
			Order:          base + uint32(i),
			Action:         model.Deny,
			PredicateKind:  model.PredicateJID,
			PredicateValue: j.String(),
		})
	}
	for _, it := range list.Items {
		it.Order += shift
		items = append(items, it)
	}

	newList := model.NewList(list.Name, items, true, false)
	return h.commitBlockMutation(sess, newList, jids, true, origIQ)
}

// Unblock implements the unblock half of §4.5.4. An empty jids slice
// strips every Blocking-shape item and keeps the rest; a non-empty
// slice removes only items whose value matches one of jids. origIQ is
// forwarded the same way as in Block.
func (h *Handler) Unblock(sess Session, jids []jid.JID, malformedCount int, origIQ any) *Denial {
	if malformedCount > 0 {
		return jidMalformed()
	}

	bare := sess.Full.Bare()
	list, ok := h.Cache.GetDefault(bare)
	if !ok {
		var err error
		list, ok, err = h.Store.LoadDefault(bare)
		if err != nil {
			return serviceUnavailable()
		}
	}
	if !ok || list.Empty() {
		if len(jids) > 0 {
			return badRequest(stanza.Cancel)
		}
		return nil
	}

	var removed []jid.JID
	keep := func(it model.Item) bool {
		if !it.IsBlockingShape() {
			return true
		}
		if len(jids) == 0 {
			removed = append(removed, mustParse(it.PredicateValue))
			return false
		}
		for _, j := range jids {
			if it.PredicateValue == j.String() {
				removed = append(removed, j)
				return false
			}
		}
		return true
	}
	newList := list.Filter(keep)
	if len(jids) > 0 && len(removed) == 0 {
		return badRequest(stanza.Cancel)
	}
	return h.commitBlockMutation(sess, newList, removed, false, origIQ)
}

func mustParse(s string) jid.JID {
	j, err := jid.Parse(s)
	if err != nil {
		return jid.JID{}
	}
	return j
}

// commitBlockMutation persists newList, updates the cache, synthesises
// presence for the affected counterparties (unavailable for a fresh
// block, available for an unblock), and broadcasts to other sessions
// (§4.5.4 closing paragraph).
func (h *Handler) commitBlockMutation(sess Session, newList *model.List, affected []jid.JID, blocking bool, origIQ any) *Denial {
	bare := sess.Full.Bare()
	if err := h.Store.Store(bare, newList); err != nil {
		return serviceUnavailable()
	}
	h.Cache.SetDefault(bare, newList)

	events := make([]sideeffect.PresenceEvent, 0, len(affected))
	for _, j := range affected {
		events = append(events, sideeffect.PresenceEvent{From: sess.Full, To: j, Unavailable: blocking})
	}
	h.Emitter.Deliver(events)

	h.Emitter.Broadcast(bare, sess.Full, newList.Name, origIQ)
	return nil
}
