// Package disco names the four namespaces this core owns, the same
// small feature-registry role the teacher's xmpp/disco.Cache plays for
// its own chat features. A host's disco#info responder merges
// Features() into whatever else it advertises; this core tracks no
// per-remote-JID observations of its own, since it never originates a
// cross-server disco request (the corresponding operations all run
// between a client and its own server).
package disco

// Feature is one of the namespaces this core's operations implement.
type Feature string

const (
	FeaturePrivacy    Feature = "jabber:iq:privacy"
	FeatureBlocking   Feature = "urn:xmpp:blocking"
	FeatureInvisible0 Feature = "urn:xmpp:invisible:0"
	FeatureInvisible1 Feature = "urn:xmpp:invisible:1"
)

// Features returns every namespace this core owns.
func Features() []Feature {
	return []Feature{FeaturePrivacy, FeatureBlocking, FeatureInvisible0, FeatureInvisible1}
}
