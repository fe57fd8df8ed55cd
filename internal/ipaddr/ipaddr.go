// Package ipaddr is the IP-address-literal collaborator named in
// spec.md §6: given the interior text of a "[...]" domain-literal, it
// parses and renders a v4 or v6 address.
//
// This is implemented directly on stdlib net/netip rather than a pack
// library: no example repo in the retrieved corpus ships an IP-literal
// parser distinct from net/netip (the teacher's third_party/imf
// delegates domain-literal parsing to a TODO, never implementing it),
// and netip is the canonical, allocation-free way to validate and
// round-trip address literals in modern Go — see DESIGN.md.
package ipaddr

import "net/netip"

// Kind distinguishes an IPAddress's family.
type Kind int

const (
	V4 Kind = iota
	V6
)

// IPAddress is a parsed IP-address literal.
type IPAddress struct {
	Kind Kind
	Addr netip.Addr
}

// String renders the address in its canonical textual form (no brackets).
func (a IPAddress) String() string {
	return a.Addr.String()
}

// Parse parses s (without brackets or the "IPv6:" tag) as an IPv4 or
// IPv6 address.
func Parse(s string) (IPAddress, bool) {
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return IPAddress{}, false
	}
	if addr.Is4() {
		return IPAddress{Kind: V4, Addr: addr}, true
	}
	return IPAddress{Kind: V6, Addr: addr}, true
}
