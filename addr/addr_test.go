package addr

import (
	"strings"
	"testing"
)

func TestParseValid(t *testing.T) {
	tests := []struct {
		in         string
		local      string
		domain     string
		domainKind DomainKind
	}{
		{"foo@example.com", "foo", "example.com", DomainName},
		{"foo.bar@example.com", "foo.bar", "example.com", DomainName},
		{`"foo bar"@example.com`, `"foo bar"`, "example.com", DomainName},
		{"foo@[192.168.1.1]", "foo", "[192.168.1.1]", DomainIPv4},
		{"foo(comment)@example.com", "foo", "example.com", DomainName},
		{"(comment)foo@example.com", "foo", "example.com", DomainName},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Errorf("Parse(%q) error: %v", tt.in, err)
			continue
		}
		if got.LocalPart != tt.local {
			t.Errorf("Parse(%q).LocalPart = %q, want %q", tt.in, got.LocalPart, tt.local)
		}
		if got.DomainPart != tt.domain {
			t.Errorf("Parse(%q).DomainPart = %q, want %q", tt.in, got.DomainPart, tt.domain)
		}
		if got.DomainKind != tt.domainKind {
			t.Errorf("Parse(%q).DomainKind = %v, want %v", tt.in, got.DomainKind, tt.domainKind)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		in   string
		kind Kind
	}{
		{"foo@bar@example.com", DuplicateAtSigns},
		{".foo@example.com", InvalidDotPosition},
		{`"foo""bar"@example.com`, InvalidQuotedStringPosition},
		{"a@" + strings.Repeat("foo.", 70) + "com", TooLong},
	}
	for _, tt := range tests {
		_, err := Parse(tt.in)
		if err == nil {
			t.Errorf("Parse(%q): expected error %v, got nil", tt.in, tt.kind)
			continue
		}
		ae, ok := err.(*Error)
		if !ok {
			t.Errorf("Parse(%q): error is not *Error: %v", tt.in, err)
			continue
		}
		if ae.Kind != tt.kind {
			t.Errorf("Parse(%q).Kind = %v, want %v", tt.in, ae.Kind, tt.kind)
		}
	}
}

func TestTryParse(t *testing.T) {
	if _, ok := TryParse("foo@example.com"); !ok {
		t.Error("TryParse(valid) = false, want true")
	}
	if _, ok := TryParse("not-an-address"); ok {
		t.Error("TryParse(invalid) = true, want false")
	}
}

func TestMailAddressString(t *testing.T) {
	a := MailAddress{LocalPart: "foo", DomainPart: "example.com"}
	if got, want := a.String(), "foo@example.com"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestPersonString(t *testing.T) {
	p := Person{DisplayName: "Jane Doe", Address: MailAddress{LocalPart: "jane", DomainPart: "example.com"}}
	if got, want := p.String(), `"Jane Doe" <jane@example.com>`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}

	p2 := Person{Address: MailAddress{LocalPart: "jane", DomainPart: "example.com"}}
	if got, want := p2.String(), "jane@example.com"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGroupString(t *testing.T) {
	g := Group{Persons: []Person{
		{Address: MailAddress{LocalPart: "a", DomainPart: "example.com"}},
		{Address: MailAddress{LocalPart: "b", DomainPart: "example.com"}},
	}}
	if got, want := g.String(), "a@example.com,b@example.com"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseConsecutiveDotsInDomain(t *testing.T) {
	_, err := Parse("foo@example..com")
	if err == nil {
		t.Fatal("expected error for consecutive dots in domain")
	}
}

func TestParseIPv6Literal(t *testing.T) {
	got, err := Parse("foo@[IPv6:2001:db8::1]")
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if got.DomainKind != DomainIPv6 {
		t.Errorf("DomainKind = %v, want DomainIPv6", got.DomainKind)
	}
}
