package command

import (
	"mellium.im/xmpp/stanza"

	"github.com/meszmate/privacy/internal/model"
)

// SetRequest is the parsed body of a {jabber:iq:privacy} set query
// (§4.5.2). Exactly one of Active, Default, List is non-nil; the host
// is responsible for rejecting a body with zero or more than one
// child before calling Set (that validation is a structural XML
// concern, not a rule-engine one).
type SetRequest struct {
	Active  *ActiveRef
	Default *DefaultRef
	List    *ListPayload
}

// ActiveRef is <active name="X"/>; an empty Name deactivates.
type ActiveRef struct {
	Name string
}

// DefaultRef is <default name="X"/>; an empty Name detaches.
type DefaultRef struct {
	Name string
}

// ListPayload is <list name="X">...items...</list>. An empty Items
// slice requests delete semantics (§3 lifecycle).
type ListPayload struct {
	Name  string
	Items []ItemPayload
}

// ItemPayload is one unvalidated <item/> child. HasOrder/HasType
// distinguish "absent" from "present with zero value" where that
// distinction is part of the validation rule (§4.5.2).
type ItemPayload struct {
	HasOrder  bool
	Order     uint32
	Action    string
	HasType   bool
	Type      string
	Value     string
	MaskNames []string
}

func parseMask(names []string) (model.StanzaMask, bool) {
	var mask model.StanzaMask
	for _, n := range names {
		switch n {
		case "iq":
			mask |= model.MaskIQ
		case "message":
			mask |= model.MaskMessage
		case "presence-in":
			mask |= model.MaskPresenceIn
		case "presence-out":
			mask |= model.MaskPresenceOut
		default:
			return 0, false
		}
	}
	return mask, true
}

func parseAction(s string) (model.Action, bool) {
	switch s {
	case "allow":
		return model.Allow, true
	case "deny":
		return model.Deny, true
	default:
		return 0, false
	}
}

// validateItems implements §4.5.2's per-item validation: order
// present, action recognised, type (if present) one of the three
// predicate kinds with a non-empty value, and mask names restricted to
// the four stanza kinds. Any violation rejects the whole list — no
// partial updates.
func validateItems(items []ItemPayload) ([]model.Item, bool) {
	out := make([]model.Item, 0, len(items))
	for _, ip := range items {
		if !ip.HasOrder {
			return nil, false
		}
		action, ok := parseAction(ip.Action)
		if !ok {
			return nil, false
		}
		var kind model.PredicateKind
		if ip.HasType {
			kind, ok = model.ParsePredicateKind(ip.Type)
			if !ok || ip.Value == "" {
				return nil, false
			}
		}
		mask, ok := parseMask(ip.MaskNames)
		if !ok {
			return nil, false
		}
		out = append(out, model.Item{
			Order:          ip.Order,
			Action:         action,
			PredicateKind:  kind,
			PredicateValue: ip.Value,
			StanzaMask:     mask,
		})
	}
	return out, true
}

// Set implements §4.5.2: activate/deactivate, set/detach default, or
// create/replace/delete a named list.
func (h *Handler) Set(sess Session, req SetRequest) *Denial {
	switch {
	case req.Active != nil:
		return h.setActive(sess, req.Active)
	case req.Default != nil:
		return h.setDefault(sess, req.Default)
	case req.List != nil:
		return h.setList(sess, req.List)
	default:
		return badRequest(stanza.Modify)
	}
}

func (h *Handler) setActive(sess Session, ref *ActiveRef) *Denial {
	bare := sess.Full.Bare()
	if ref.Name == "" {
		h.Cache.SetActive(sess.Full, nil)
		return nil
	}
	list, found, err := h.Store.Load(bare, ref.Name)
	if err != nil {
		return serviceUnavailable()
	}
	if !found || list.Empty() {
		return itemNotFound()
	}
	h.Cache.SetActive(sess.Full, list)
	return nil
}

func (h *Handler) setDefault(sess Session, ref *DefaultRef) *Denial {
	bare := sess.Full.Bare()
	if ref.Name == "" {
		cur, ok := h.Cache.GetDefault(bare)
		if !ok {
			loaded, found, err := h.Store.LoadDefault(bare)
			if err != nil {
				return serviceUnavailable()
			}
			cur, ok = loaded, found
		}
		if ok {
			cleared := model.NewList(cur.Name, cur.Items, false, cur.Transient)
			if err := h.Store.Store(bare, cleared); err != nil {
				return serviceUnavailable()
			}
		}
		h.Cache.EvictDefault(bare)
		return nil
	}
	list, found, err := h.Store.Load(bare, ref.Name)
	if err != nil {
		return serviceUnavailable()
	}
	if !found || list.Empty() {
		return itemNotFound()
	}
	cur, ok := h.Cache.GetDefault(bare)
	if !ok {
		loaded, found, err := h.Store.LoadDefault(bare)
		if err != nil {
			return serviceUnavailable()
		}
		cur, ok = loaded, found
	}
	if ok && cur.Name != ref.Name {
		if h.relyingOnDefault(bare, sess.Full) {
			return conflict()
		}
	}
	list = model.NewList(list.Name, list.Items, true, list.Transient)
	if err := h.Store.Store(bare, list); err != nil {
		return serviceUnavailable()
	}
	h.Cache.SetDefault(bare, list)
	h.Emitter.Broadcast(bare, sess.Full, list.Name, nil)
	return nil
}

func (h *Handler) setList(sess Session, payload *ListPayload) *Denial {
	bare := sess.Full.Bare()

	if len(payload.Items) == 0 {
		cur, ok := h.Cache.GetDefault(bare)
		isCurrentDefault := ok && cur.Name == payload.Name
		if isCurrentDefault {
			if h.relyingOnDefault(bare, sess.Full) {
				return conflict()
			}
		}
		if h.anyOtherSessionHasActive(bare, sess.Full, payload.Name) {
			return conflict()
		}
		empty := model.NewList(payload.Name, nil, false, false)
		if err := h.Store.Store(bare, empty); err != nil {
			return serviceUnavailable()
		}
		if isCurrentDefault {
			h.Cache.EvictDefault(bare)
		}
		if h.Cache.IsCachedWithName(sess.Full, payload.Name) {
			h.Cache.SetActive(sess.Full, nil)
		}
		h.Emitter.Broadcast(bare, sess.Full, payload.Name, nil)
		return nil
	}

	items, ok := validateItems(payload.Items)
	if !ok {
		return badRequest(stanza.Cancel)
	}

	list := model.NewList(payload.Name, items, false, false)
	if err := h.Store.Store(bare, list); err != nil {
		return serviceUnavailable()
	}

	isDefault := false
	if cur, ok := h.Cache.GetDefault(bare); ok && cur.Name == payload.Name {
		h.Cache.SetDefault(bare, list)
		isDefault = true
	}
	isActive := false
	if h.Cache.IsCachedWithName(sess.Full, payload.Name) {
		h.Cache.SetActive(sess.Full, list)
		isActive = true
	}

	h.Emitter.Broadcast(bare, sess.Full, payload.Name, nil)

	if isDefault {
		h.Emitter.Deliver(h.Emitter.Regenerate(bare, list))
	}
	if isActive {
		h.Emitter.Deliver(h.Emitter.Regenerate(sess.Full, list))
	}
	return nil
}
