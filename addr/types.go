// Package addr implements the mail-address lexer → preparser → parser
// pipeline of spec.md §4.4, and the MailAddress/Person/Group value
// types of spec.md §3.
//
// It is grounded on the teacher's third_party/imf/addr.go (itself
// adapted from go/src/net/mail/message.go), restructured from that
// file's single recursive-descent parser into the three explicit
// stages the spec calls for, with tagged-enum tokens and nodes in
// place of ad hoc string slicing.
package addr

import "strings"

// DomainKind distinguishes a MailAddress's domain-part shape.
type DomainKind int

const (
	DomainName DomainKind = iota
	DomainIPv4
	DomainIPv6
)

// MailAddress is a parsed addr-spec: local-part "@" domain-part.
type MailAddress struct {
	LocalPart  string
	DomainPart string // dot-atom domain text, or "[...]"/"[IPv6:...]" for literals
	DomainKind DomainKind
}

// String renders the address in addr-spec surface form.
func (a MailAddress) String() string {
	return a.LocalPart + "@" + a.DomainPart
}

// Person is an optionally-named mailbox.
type Person struct {
	DisplayName string
	Address     MailAddress
}

// String renders the person as "addr" or "display <addr>".
func (p Person) String() string {
	if p.DisplayName == "" {
		return p.Address.String()
	}
	return quotePhrase(p.DisplayName) + " <" + p.Address.String() + ">"
}

func quotePhrase(s string) string {
	for _, r := range s {
		if !isAtomChar(r) {
			return quoteString(s)
		}
	}
	return s
}

// Group is an ordered, comma-joined sequence of Person.
type Group struct {
	Persons []Person
}

// String renders the group comma-joined, with no separating space,
// per spec.md §3.
func (g Group) String() string {
	parts := make([]string, len(g.Persons))
	for i, p := range g.Persons {
		parts[i] = p.String()
	}
	return strings.Join(parts, ",")
}

// TryParse is the best-effort constructor named in spec.md §7: it
// returns (addr, true) on success and (zero value, false) on any
// parse error, swallowing the Kind.
func TryParse(s string) (MailAddress, bool) {
	a, err := Parse(s)
	if err != nil {
		return MailAddress{}, false
	}
	return a, true
}
