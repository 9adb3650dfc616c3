package command

import (
	"mellium.im/xmpp/stanza"

	"github.com/meszmate/privacy/internal/model"
)

// QueryRequest is the parsed body of a {jabber:iq:privacy} get query
// (§4.5.1, §6). Names holds the <list name="X"/> children present in
// the request; an empty request enumerates instead of fetching.
type QueryRequest struct {
	Names []string
}

// QueryReply is either the enumeration form (Names/HasActive/HasDefault
// populated, Items nil) or the single-list form (Items populated).
type QueryReply struct {
	ActiveName  string
	HasActive   bool
	DefaultName string
	HasDefault  bool
	Names       []string

	ListName string
	Items    []model.Item
}

// Query implements §4.5.1 for sess; the account queried is the bare
// form of sess.Full.
func (h *Handler) Query(sess Session, req QueryRequest) (QueryReply, *Denial) {
	bare := sess.Full.Bare()

	if len(req.Names) == 0 {
		reply := QueryReply{}
		if l, ok := h.Cache.GetActive(sess.Full); ok {
			reply.ActiveName, reply.HasActive = l.Name, true
		}
		if l, ok := h.Cache.GetDefault(bare); ok {
			reply.DefaultName, reply.HasDefault = l.Name, true
		}
		names, err := h.Store.ListAll(bare)
		if err != nil {
			return QueryReply{}, serviceUnavailable()
		}
		for _, l := range names {
			reply.Names = append(reply.Names, l.Name)
		}
		return reply, nil
	}

	if len(req.Names) > 1 {
		return QueryReply{}, badRequest(stanza.Modify)
	}

	name := req.Names[0]
	list, found, err := h.Store.Load(bare, name)
	if err != nil {
		return QueryReply{}, serviceUnavailable()
	}
	if !found || list.Empty() {
		return QueryReply{}, itemNotFound()
	}
	return QueryReply{ListName: name, Items: list.Items}, nil
}
