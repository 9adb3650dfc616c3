package command

import "github.com/meszmate/privacy/internal/model"

// invisibleListName names the active list auto-created by the
// invisible command when the session has no active list of its own
// (§4.5.5). It is transient unless the session already had a named
// active list, in which case the existing list is reused in place.
const invisibleListName = "invisible"

// Invisible implements the invisible half of §4.5.5. probe restricts
// the synthesised deny to presence probes when true.
func (h *Handler) Invisible(sess Session, probe bool) *Denial {
	active, hasActive := h.Cache.GetActive(sess.Full)

	if hasActive {
		for i, it := range active.Items {
			if it.IsInvisibilityShape() {
				if it.ProbeFlag == probe {
					return nil
				}
				items := append([]model.Item(nil), active.Items...)
				items[i].ProbeFlag = probe
				newList := active.WithItems(items)
				h.Cache.SetActive(sess.Full, newList)
				if !newList.Transient {
					_ = h.Store.Store(sess.Full.Bare(), newList)
				}
				return nil
			}
		}
	}

	item := model.Item{
		Action:     model.Deny,
		StanzaMask: model.MaskPresenceOut,
		ProbeFlag:  probe,
	}

	var newList *model.List
	if hasActive {
		base := active
		if lowest, ok := active.LowestOrder(); ok {
			if lowest > 0 {
				item.Order = lowest - 1
			} else {
				items := append([]model.Item(nil), active.Items...)
				for i := range items {
					items[i].Order++
				}
				base = active.WithItems(items)
			}
		}
		newList = base.Prepend(item)
	} else {
		newList = model.NewList(invisibleListName, []model.Item{item}, false, true)
	}
	h.Cache.SetActive(sess.Full, newList)
	if !newList.Transient {
		_ = h.Store.Store(sess.Full.Bare(), newList)
	}

	if sess.PastInitialPresence {
		h.Emitter.Deliver(h.Emitter.Regenerate(sess.Full, newList))
	}
	return nil
}

// Visible implements the visible half of §4.5.5: strip
// Invisibility-shape items from the active list, discarding the
// active binding entirely if the session had none of its own to begin
// with (the result is empty or the list was transient).
func (h *Handler) Visible(sess Session) *Denial {
	active, ok := h.Cache.GetActive(sess.Full)
	if !ok {
		return nil
	}

	wasTransient := active.Transient
	newList := active.Filter(func(it model.Item) bool { return !it.IsInvisibilityShape() })

	if newList.Empty() || wasTransient {
		h.Cache.SetActive(sess.Full, nil)
		return nil
	}

	h.Cache.SetActive(sess.Full, newList)
	_ = h.Store.Store(sess.Full.Bare(), newList)
	h.Emitter.Deliver(h.Emitter.Regenerate(sess.Full, newList))
	return nil
}
