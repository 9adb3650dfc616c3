// Package engine implements the ordered match engine (spec §4.3): it
// evaluates a model.List against a stanza, in a direction, against an
// owner/other JID pair, consulting predicate.MatchJID/MatchSubscription/
// MatchGroup and predicate.StanzaKindGate per item until one matches
// or the list is exhausted.
package engine

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/model"
)

// Stanza is the minimal view of a stanza the engine needs. Parsing the
// wire element into this shape is the host/adapter's job — the
// parser and stanza objects themselves are external per spec §1.
type Stanza interface {
	WireType() model.WireType
	PresenceSubtype() model.PresenceSubtype
	From() jid.JID
	To() jid.JID

	// Directed reports whether this is a directed presence: addressed
	// to a specific recipient from the owner's own bound connection,
	// as opposed to a broadcast presence to the roster. Only consulted
	// for outbound presence stanzas (§4.3 step 2).
	Directed() bool
}
