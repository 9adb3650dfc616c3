// Package predicate implements the JID, roster, and stanza-kind
// predicates the match engine (internal/engine) consults for each
// PrivacyItem, per spec §4.2.
package predicate

import "mellium.im/xmpp/jid"

// MatchJID reports whether candidate matches pattern under the
// ordering spec §4.2 fixes: full(j)=p, then bare(j)=p, then
// domain+"/"+resource=p (only when j carries a resource), then
// domain=p. The ordering is observable — it is what lets a
// same-domain-wildcard rule and a more specific full-JID rule coexist
// in one list without the engine needing to special-case priority.
func MatchJID(candidate jid.JID, pattern string) bool {
	if candidate.String() == pattern {
		return true
	}
	if candidate.Bare().String() == pattern {
		return true
	}
	if res := candidate.Resourcepart(); res != "" {
		if candidate.Domainpart()+"/"+res == pattern {
			return true
		}
	}
	return candidate.Domainpart() == pattern
}
