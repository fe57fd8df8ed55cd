package mimetype

import "testing"

func TestParseAndFormat(t *testing.T) {
	ct, err := Parse(`text/plain; charset=utf-8; name="foo bar.txt"`)
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if ct.Type != "text" || ct.Subtype != "plain" {
		t.Fatalf("Type/Subtype = %s/%s", ct.Type, ct.Subtype)
	}
	if ct.Params["charset"] != "utf-8" {
		t.Errorf("charset = %q", ct.Params["charset"])
	}
	if ct.Params["name"] != "foo bar.txt" {
		t.Errorf("name = %q", ct.Params["name"])
	}
}

func TestFull(t *testing.T) {
	ct := ContentType{Type: "multipart", Subtype: "mixed"}
	if got, want := ct.Full(), "multipart/mixed"; got != want {
		t.Errorf("Full() = %q, want %q", got, want)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	ct := ContentType{Type: "text", Subtype: "html", Params: map[string]string{"charset": "utf-8"}}
	s := ct.Format()
	back, err := Parse(s)
	if err != nil {
		t.Fatalf("Parse(Format()) error: %v", err)
	}
	if back.Full() != ct.Full() || back.Params["charset"] != "utf-8" {
		t.Errorf("round trip mismatch: %+v", back)
	}
}
