package header

import (
	"strings"
	"testing"

	"postcraft.dev/mail/charset"
)

func ascii(t *testing.T) charset.Charset {
	t.Helper()
	cs, ok := charset.Default().Lookup("us-ascii")
	if !ok {
		t.Fatal("us-ascii not found")
	}
	return cs
}

func iso2022jp(t *testing.T) charset.Charset {
	t.Helper()
	cs, ok := charset.Default().Lookup("iso-2022-jp")
	if !ok {
		t.Fatal("iso-2022-jp not found")
	}
	return cs
}

func TestEncodeASCIIPassesThrough(t *testing.T) {
	enc := &Encoder{Charset: ascii(t)}
	out, err := enc.Encode("Hello, World!", 0)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if string(out) != "Hello, World!" {
		t.Errorf("Encode() = %q, want %q", out, "Hello, World!")
	}
}

func TestEncodeNonASCIIProducesEncodedWord(t *testing.T) {
	enc := &Encoder{Charset: iso2022jp(t)}
	out, err := enc.Encode("こんにちは", 9)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(string(out), "=?iso-2022-jp?B?") {
		t.Errorf("expected an iso-2022-jp encoded-word, got %q", out)
	}
	for _, b := range out {
		if b > 0x7E {
			t.Fatalf("output contains a non-ASCII byte: %q", out)
		}
	}
}

func TestEncodeNoLineExceeds75Bytes(t *testing.T) {
	enc := &Encoder{Charset: iso2022jp(t)}
	long := strings.Repeat("世界", 50)
	out, err := enc.Encode(long, 9)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	for _, line := range strings.Split(string(out), "\r\n") {
		content := strings.TrimPrefix(line, " ")
		if len(content) > 75 {
			t.Errorf("line exceeds 75 bytes (%d): %q", len(content), content)
		}
	}
}

func TestEncodeFoldsWithCRLFSP(t *testing.T) {
	enc := &Encoder{Charset: iso2022jp(t)}
	long := strings.Repeat("こんにちは、世界！", 10)
	out, err := enc.Encode(long, 9)
	if err != nil {
		t.Fatalf("Encode error: %v", err)
	}
	if !strings.Contains(string(out), "\r\n ") {
		t.Fatal("expected at least one CRLF SP fold in a long encoded value")
	}
}

func TestTokenizeDeterministic(t *testing.T) {
	v := "plain ASCII and éè mixed"
	t1 := tokenize(v)
	t2 := tokenize(v)
	if len(t1) != len(t2) {
		t.Fatalf("tokenize not deterministic: %d vs %d tokens", len(t1), len(t2))
	}
	for i := range t1 {
		if t1[i].kind != t2[i].kind || string(t1[i].runs) != string(t2[i].runs) {
			t.Fatalf("tokenize not deterministic at token %d", i)
		}
	}
}

func TestHeaderAddForbidsDerivedFields(t *testing.T) {
	h := &Header{}
	if err := h.Add("Content-Type", "text/plain"); err == nil {
		t.Error("expected Add(Content-Type) to fail")
	}
	if err := h.Add("Content-Transfer-Encoding", "7bit"); err == nil {
		t.Error("expected Add(Content-Transfer-Encoding) to fail")
	}
}

func TestHeaderGetAndDel(t *testing.T) {
	h := &Header{}
	if err := h.Add("Subject", "hi"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	v, ok := h.Get("Subject")
	if !ok || v != "hi" {
		t.Fatalf("Get() = %q, %v", v, ok)
	}
	h.Del("Subject")
	if _, ok := h.Get("Subject"); ok {
		t.Error("expected Subject to be deleted")
	}
}

func TestCanonicalKey(t *testing.T) {
	tests := map[string]Key{
		"mime-version": "MIME-Version",
		"subject":      "Subject",
		"x-mailer":     "X-Mailer",
		"from":         "From",
	}
	for in, want := range tests {
		if got := CanonicalKey(in); got != want {
			t.Errorf("CanonicalKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestHeaderEncodeEndsWithBlankLine(t *testing.T) {
	h := &Header{}
	h.Add("Subject", "hi")
	var buf strings.Builder
	if _, err := h.Encode(&buf, ascii(t)); err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.HasSuffix(buf.String(), "\r\n\r\n") {
		t.Errorf("Encode() missing trailing blank line: %q", buf.String())
	}
}
