package engine

import (
	"mellium.im/xmpp/jid"

	"github.com/meszmate/privacy/internal/store"
)

// RosterFetch describes the outcome of asking a RosterSource for a
// roster record: either it is Ready immediately (the common case for
// an in-process roster cache), or the caller must Await completion —
// modeling the suspension point spec §5 requires for the roster
// fetch. Await must invoke fn exactly once, synchronously or from any
// goroutine; the engine does not assume which.
type RosterFetch struct {
	Ready  bool
	Record store.RosterRecord
	Found  bool
	Await  func(fn func(rec store.RosterRecord, found bool))
}

// ReadyFetch builds an already-resolved RosterFetch, the shape a
// synchronous in-memory RosterStore produces.
func ReadyFetch(rec store.RosterRecord, found bool) RosterFetch {
	return RosterFetch{Ready: true, Record: rec, Found: found}
}

// RosterSource is the roster-lookup collaborator the engine consults
// for group/subscription predicates. A host backed by a synchronous
// store.RosterStore can implement this trivially (see SyncSource
// below); a host whose roster lookup is genuinely asynchronous (a
// network round trip) returns a pending RosterFetch instead.
type RosterSource interface {
	Fetch(owner, other jid.JID) RosterFetch
}

// SyncSource adapts a synchronous store.RosterStore into a
// RosterSource whose fetches are always Ready. On a timeout or a
// failed fetch the host should call with found=false — per §5
// Cancellation/timeouts, "the match engine treats the roster as
// empty" on failure, which SyncSource's caller gets for free by
// reporting the lookup's own miss.
type SyncSource struct {
	Roster store.RosterStore
}

func (s SyncSource) Fetch(owner, other jid.JID) RosterFetch {
	rec, found := s.Roster.Lookup(owner, other)
	return ReadyFetch(rec, found)
}
