// Package protocol layers typed Send/Receive and a request/response RPC
// call on top of the codec, frame, and transport packages: Send encodes a
// value and wraps it in a frame; Receive decodes a frame's payload against
// a schema, rejecting a mismatched schema identifier; Call correlates a
// request with its response through an in-flight table guarded by a
// timeout rather than a polling loop.
package protocol

import (
	"github.com/google/uuid"

	"github.com/benjamin-larsen/barewire/schema"
)

// dnsNamespace is the RFC 4122 DNS namespace UUID used as the v5 base for
// schema identifiers.
var dnsNamespace = uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

// SchemaID derives a stable identifier for a validated schema by hashing
// its canonical textual rendering into a UUID v5. Two schemas with
// identical canonical text always derive the same identifier.
func SchemaID(s *schema.Schema[schema.Validated]) uuid.UUID {
	return uuid.NewSHA1(dnsNamespace, []byte(s.CanonicalText()))
}
