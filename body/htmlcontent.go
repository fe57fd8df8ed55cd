package body

import (
	"fmt"

	"postcraft.dev/mail/charset"
	"postcraft.dev/mail/cte"
	"postcraft.dev/mail/internal/xhtmlout"
)

// HtmlContent is a text/html body, optionally with embedded resources
// referenced via "cid:" (spec.md §3). HTMLString is run through the
// xhtmlout serializer collaborator (spec.md §6) before emission, which
// sanitizes it down to the email-safe tag/attribute/style subset.
type HtmlContent struct {
	HTMLString string
	Resources  []File
	Charset    charset.Charset
	CTE        cte.Encoding
	Boundary   string // used only when Resources is non-empty
}

// htmlLeaf is the bare text/html part, reused both standalone (no
// resources) and as the first child of the multipart/related frame.
type htmlLeaf struct {
	html string
	cs   charset.Charset
	cte  cte.Encoding
}

func (h htmlLeaf) ContentHeaders() ([]HeaderField, error) {
	if h.cs.Name() == "" {
		return nil, &Error{Kind: NoCharacterSetName}
	}
	return []HeaderField{
		{Name: "Content-Type", Value: fmt.Sprintf(`text/html; charset=%s`, quoteIfNeeded(h.cs.Name()))},
		{Name: "Content-Transfer-Encoding", Value: string(h.cte)},
	}, nil
}

func (h htmlLeaf) Content() (FragmentIterator, error) {
	return PlainText{Text: h.html, Charset: h.cs, CTE: h.cte}.Content()
}

// leaf sanitizes and serializes HTMLString via xhtmlout.SerializeString,
// then reports the part header's charset as whatever the serializer
// declared (falling back to c.Charset if the declared label isn't in
// the registry, which in practice only happens for a bogus registry).
func (c HtmlContent) leaf() (htmlLeaf, error) {
	sanitized, declared, err := xhtmlout.SerializeString(c.HTMLString, nil)
	if err != nil {
		return htmlLeaf{}, &Error{Kind: DataConversionFailure, Err: err}
	}
	cs := c.Charset
	if found, ok := charset.Default().Lookup(declared); ok {
		cs = found
	}
	return htmlLeaf{html: sanitized, cs: cs, cte: c.CTE}, nil
}

func (c HtmlContent) ContentHeaders() ([]HeaderField, error) {
	if len(c.Resources) == 0 {
		leaf, err := c.leaf()
		if err != nil {
			return nil, err
		}
		return leaf.ContentHeaders()
	}
	return []HeaderField{
		{Name: "Content-Type", Value: fmt.Sprintf(`multipart/related; boundary=%s; type="text/html"`, c.Boundary)},
	}, nil
}

func (c HtmlContent) Content() (FragmentIterator, error) {
	leaf, err := c.leaf()
	if err != nil {
		return nil, err
	}
	if len(c.Resources) == 0 {
		return leaf.Content()
	}
	kids := make([]Body, 0, len(c.Resources)+1)
	kids = append(kids, leaf)
	for _, r := range c.Resources {
		kids = append(kids, r)
	}
	return boundaryFrame(c.Boundary, kids)
}
