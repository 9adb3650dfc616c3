// Package sideeffect implements C7: the error replies, presence
// regeneration, and multi-session broadcast a denied stanza or a list
// mutation triggers (spec §4.7).
package sideeffect

import (
	"encoding/xml"

	"mellium.im/xmpp/jid"
	"mellium.im/xmpp/stanza"

	"github.com/meszmate/privacy/internal/cache"
	"github.com/meszmate/privacy/internal/model"
	"github.com/meszmate/privacy/internal/store"
)

// Emitter bundles the external collaborators C7 needs: the network
// write path, session discovery, the roster, and the cache's
// BlockListUserSet membership.
type Emitter struct {
	Router   store.Router
	Sessions store.SessionDirectory
	Roster   store.RosterStore
	Cache    *cache.Cache
}

// DeniedStanza is the minimal view of a denied stanza C7 needs to
// decide between an error reply and a silent drop.
type DeniedStanza struct {
	Kind        model.WireType
	MessageType string // meaningful only when Kind == model.WireMessage
	IQType      string // "get" or "set"; meaningful only when Kind == model.WireIQ
	From        jid.JID
	To          jid.JID
	ID          string
}

// DenialSide records which side's list produced the deny verdict.
type DenialSide int

const (
	DeniedByRecipient DenialSide = iota
	DeniedBySender
)

// BlockedMarker is the urn:xmpp:blocking:errors <blocked/> element
// appended to a not-acceptable error when the sender's own list caused
// the denial of a message (§4.7, §6).
type BlockedMarker struct {
	XMLName xml.Name `xml:"urn:xmpp:blocking:errors blocked"`
}

// ErrorReply builds the stanza error for a denied stanza per §4.7 and
// §7's taxonomy. ok is false when the stanza must be dropped silently
// rather than answered: presence stanzas, groupchat messages, and IQs
// of type neither get nor set.
func (e *Emitter) ErrorReply(d DeniedStanza, side DenialSide) (errStanza stanza.Error, blocked *BlockedMarker, ok bool) {
	switch d.Kind {
	case model.WirePresence:
		return stanza.Error{}, nil, false

	case model.WireMessage:
		if d.MessageType == "groupchat" {
			return stanza.Error{}, nil, false
		}
		if side == DeniedBySender {
			return stanza.Error{Type: stanza.Cancel, Condition: stanza.NotAcceptable}, &BlockedMarker{}, true
		}
		return stanza.Error{Type: stanza.Cancel, Condition: stanza.ServiceUnavailable}, nil, true

	case model.WireIQ:
		if d.IQType != "get" && d.IQType != "set" {
			return stanza.Error{}, nil, false
		}
		return stanza.Error{Type: stanza.Cancel, Condition: stanza.ServiceUnavailable}, nil, true

	default:
		return stanza.Error{}, nil, false
	}
}

// StorageFailure builds the service-unavailable error an admin command
// reply uses when a persistent write fails (§7: storage failures never
// corrupt the in-memory view, but the submitter is told the write did
// not make it to disk).
func StorageFailure() stanza.Error {
	return stanza.Error{Type: stanza.Cancel, Condition: stanza.ServiceUnavailable}
}
