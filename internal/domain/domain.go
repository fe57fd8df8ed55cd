// Package domain is the domain-part collaborator named in spec.md §6:
// given a dot-atom or internationalized domain string, it validates
// and renders a canonical Domain value.
//
// Grounded on golang.org/x/net/idna, the ecosystem-standard IDNA
// implementation for Go (an out-of-pack dependency; see DESIGN.md).
package domain

import (
	"strings"

	"golang.org/x/net/idna"
)

// Domain is a validated RFC 5321 domain-part.
type Domain struct {
	raw   string // original text, e.g. "例え.テスト"
	ascii string // IDNA ASCII (punycode) form
}

// String renders the domain in its original textual form.
func (d Domain) String() string { return d.raw }

// ASCII renders the domain's IDNA ASCII-compatible encoding, suitable
// for wire transmission.
func (d Domain) ASCII() string { return d.ascii }

var profile = idna.New(
	idna.ValidateLabels(true),
	idna.VerifyDNSLength(true),
	idna.StrictDomainName(false),
)

// Parse validates s as an RFC 5321 domain-part, a dot-separated
// sequence of labels, each ALPHA/DIGIT/hyphen with no leading or
// trailing hyphen and no empty label. Non-ASCII domains are accepted
// and converted via IDNA.
func Parse(s string) (Domain, bool) {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") || strings.Contains(s, "..") {
		return Domain{}, false
	}
	ascii, err := profile.ToASCII(s)
	if err != nil {
		return Domain{}, false
	}
	return Domain{raw: s, ascii: ascii}, true
}
