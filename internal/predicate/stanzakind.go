package predicate

import "github.com/meszmate/privacy/internal/model"

// StanzaKindGate implements §4.2's stanza-kind gate: an item applies
// to a stanza when its mask is empty, or when the mask names the
// stanza's kind and (for presence) the stanza's subtype is one this
// item's mask/probe flag covers.
//
//   - iq: always gated purely on kind.
//   - message: always gated purely on kind.
//   - presence-in: matches an inbound presence of type absent or
//     unavailable.
//   - presence-out: matches an outbound presence of type absent or
//     unavailable, and additionally type probe when probeFlag is set.
func StanzaKindGate(mask model.StanzaMask, kind model.StanzaKind, subtype model.PresenceSubtype, probeFlag bool) bool {
	if mask == 0 {
		return true
	}
	if !mask.Has(kind) {
		return false
	}
	switch kind {
	case model.KindPresenceIn:
		return subtype == model.PresenceNone || subtype == model.PresenceUnavailable
	case model.KindPresenceOut:
		switch subtype {
		case model.PresenceNone, model.PresenceUnavailable:
			return true
		case model.PresenceProbe:
			return probeFlag
		default:
			return false
		}
	default:
		return true
	}
}
