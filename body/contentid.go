package body

import (
	"fmt"

	"github.com/google/uuid"
)

// ContentID is a message-unique "<left@right>" identifier used to
// reference an embedded resource from HTML via cid: (spec.md §3,
// glossary). left is dot-atom-text; right is dot-atom-text or a
// no-fold-literal ("[...]").
type ContentID string

// String renders the identifier in its "<left@right>" wire form.
func (c ContentID) String() string { return string(c) }

// NewContentID generates a fresh Content-ID scoped under domain (the
// "right" half, e.g. a sending host name), using a random UUIDv4 as
// the left half — simpler than hand-rolling a random dot-atom and,
// unlike a PRNG-drawn alphanumeric string, collision-resistant without
// the caller needing to manage a shared *rand.Rand across messages.
func NewContentID(domain string) ContentID {
	return ContentID(fmt.Sprintf("<%s@%s>", uuid.NewString(), domain))
}
