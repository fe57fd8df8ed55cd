package body

import (
	"bytes"
	"math/rand"
	"strings"
	"testing"

	"postcraft.dev/mail/charset"
	"postcraft.dev/mail/cte"
	"postcraft.dev/mail/internal/mimetype"
)

func render(t *testing.T, b Body) string {
	t.Helper()
	it, err := openPart(b)
	if err != nil {
		t.Fatalf("openPart: %v", err)
	}
	var buf bytes.Buffer
	if err := drainAll(&buf, it); err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	return buf.String()
}

func TestPlainTextRender(t *testing.T) {
	p := PlainText{Text: "hello", Charset: asciiCS(t), CTE: cte.SevenBit}
	out := render(t, p)
	if !strings.Contains(out, "Content-Type: text/plain; charset=us-ascii\r\n") {
		t.Errorf("missing content-type: %q", out)
	}
	if !strings.Contains(out, "Content-Transfer-Encoding: 7bit\r\n") {
		t.Errorf("missing cte: %q", out)
	}
	if !strings.HasSuffix(out, "\r\n\r\nhello") {
		t.Errorf("missing content: %q", out)
	}
}

func TestRichTextBoundaryFraming(t *testing.T) {
	r := RichText{
		PlainText:   PlainText{Text: "plain", Charset: asciiCS(t), CTE: cte.SevenBit},
		HTMLContent: HtmlContent{HTMLString: "<p>html</p>", Charset: asciiCS(t), CTE: cte.SevenBit},
		Boundary:    "test-boundary",
	}
	out := render(t, r)
	if !strings.Contains(out, "Content-Type: multipart/alternative; boundary=test-boundary\r\n") {
		t.Fatalf("missing outer content-type: %q", out)
	}
	if !strings.Contains(out, "--test-boundary\r\n") {
		t.Errorf("missing opening boundary: %q", out)
	}
	if !strings.HasSuffix(out, "--test-boundary--\r\n") {
		t.Errorf("missing closing boundary: %q", out)
	}
	if strings.Count(out, "--test-boundary\r\n") != 2 {
		t.Errorf("expected 2 part boundaries, got body: %q", out)
	}
}

func TestHtmlContentWithResources(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	boundary := NewBoundary(rng)
	resource := File{
		Filename:    "logo.png",
		ContentType: mimetype.ContentType{Type: "image", Subtype: "png"},
		ContentID:   "<logo@example.com>",
		Stream:      strings.NewReader("fake-png-bytes"),
	}
	h := HtmlContent{
		HTMLString: `<img src="cid:logo@example.com">`,
		Resources:  []File{resource},
		Charset:    asciiCS(t),
		CTE:        cte.SevenBit,
		Boundary:   boundary,
	}
	out := render(t, h)
	if !strings.Contains(out, `multipart/related; boundary=`+boundary+`; type="text/html"`) {
		t.Fatalf("missing outer content-type: %q", out)
	}
	if !strings.Contains(out, "Content-ID: <logo@example.com>") {
		t.Errorf("missing resource content-id: %q", out)
	}
	if !strings.Contains(out, "Content-Disposition: inline") {
		t.Errorf("expected inline disposition for resource: %q", out)
	}
}

func TestHtmlContentSanitizesUnsafeMarkup(t *testing.T) {
	h := HtmlContent{
		HTMLString: `<p onclick="evil()">hi</p><script>alert(1)</script>`,
		Charset:    asciiCS(t),
		CTE:        cte.SevenBit,
	}
	out := render(t, h)
	if strings.Contains(out, "<script>") {
		t.Errorf("sanitizer did not strip <script>: %q", out)
	}
	if strings.Contains(out, "onclick") {
		t.Errorf("sanitizer did not strip a disallowed attribute: %q", out)
	}
	if !strings.Contains(out, "<p>hi</p>") {
		t.Errorf("sanitizer dropped allowed markup it should have kept: %q", out)
	}
	if !strings.Contains(out, "charset=utf-8") {
		t.Errorf("expected the part's charset to reflect the serializer's declared charset: %q", out)
	}
}

func TestFileAttachedPreambleAndBoundary(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	boundary := NewBoundary(rng)
	fa := FileAttached{
		MainBody: PlainText{Text: "body text", Charset: asciiCS(t), CTE: cte.SevenBit},
		Files: []File{{
			Filename:    "report.txt",
			ContentType: mimetype.ContentType{Type: "text", Subtype: "plain"},
			Stream:      strings.NewReader("report contents"),
		}},
		Boundary: boundary,
	}
	out := render(t, fa)
	if !strings.Contains(out, "\r\n\r\nThis is a multi-part message in MIME format.\r\n\r\n--"+boundary+"\r\n") {
		t.Fatalf("missing preamble/boundary ordering: %q", out)
	}
	if !strings.Contains(out, "Content-Disposition: attachment; filename=report.txt") {
		t.Errorf("missing attachment disposition: %q", out)
	}
	if !strings.HasSuffix(out, "--"+boundary+"--\r\n") {
		t.Errorf("missing closing boundary: %q", out)
	}
}

func TestBoundariesDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	a := NewBoundary(rng)
	b := NewBoundary(rng)
	if a == b {
		t.Errorf("expected distinct boundaries, got %q twice", a)
	}
}

func TestConcatFragmentIterator(t *testing.T) {
	a := literal("abc")
	b := literal("def")
	c := NewConcat(a, b)
	var buf bytes.Buffer
	if err := drainAll(&buf, c); err != nil {
		t.Fatalf("drainAll: %v", err)
	}
	if got, want := buf.String(), "abcdef"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestLazyDefersFactory(t *testing.T) {
	called := false
	l := NewLazy(func() (FragmentIterator, error) {
		called = true
		return literal("x"), nil
	})
	if called {
		t.Fatal("factory called before Next")
	}
	if _, err := l.Next(); err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !called {
		t.Error("factory never called")
	}
}

func asciiCS(t *testing.T) charset.Charset {
	t.Helper()
	cs, ok := charset.Default().Lookup("us-ascii")
	if !ok {
		t.Fatal("us-ascii charset not found")
	}
	return cs
}
