package body

import "fmt"

// RichText is a multipart/alternative body pairing a plain-text and an
// HTML rendering of the same content (spec.md §3).
type RichText struct {
	PlainText   PlainText
	HTMLContent HtmlContent
	Boundary    string
}

func (r RichText) ContentHeaders() ([]HeaderField, error) {
	return []HeaderField{
		{Name: "Content-Type", Value: fmt.Sprintf("multipart/alternative; boundary=%s", r.Boundary)},
	}, nil
}

func (r RichText) Content() (FragmentIterator, error) {
	return boundaryFrame(r.Boundary, []Body{r.PlainText, r.HTMLContent})
}
