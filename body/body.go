package body

import (
	"fmt"

	"postcraft.dev/mail/sevenbit"
)

// HeaderField is one "Name: value" pair a Body variant contributes to
// its own part header block (Content-Type, Content-Transfer-Encoding,
// Content-Disposition, Content-ID). Unlike header.Entry, Value here is
// already a fully-encoded ASCII header value (RFC 2231 parameters are
// self-folding; these fields never carry free-form Unicode text), so
// it is written verbatim rather than run through the RFC 2047
// tokenizer.
type HeaderField struct {
	Name  string
	Value string
}

// Body is a MIME body value: it knows its own part headers and can
// stream its encoded content.
type Body interface {
	// ContentHeaders returns this body's Content-Type and any other
	// part-level header fields it owns, in emission order.
	ContentHeaders() ([]HeaderField, error)

	// Content streams this body's encoded content: everything that
	// follows the blank line after ContentHeaders.
	Content() (FragmentIterator, error)
}

// openPart renders b as a complete, self-framed MIME part: its header
// fields, a blank line, then its content — the shape spec.md §4.5
// describes for every body variant embedded as a multipart child.
func openPart(b Body) (FragmentIterator, error) {
	fields, err := b.ContentHeaders()
	if err != nil {
		return nil, err
	}
	buf := sevenbit.NewBuffer(256)
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		if !buf.AppendString(fmt.Sprintf("%s: %s\r\n", f.Name, f.Value)) {
			return nil, &Error{Kind: DataConversionFailure, Err: fmt.Errorf("header field %s contains a non-7bit byte", f.Name)}
		}
	}
	buf.AppendString("\r\n")

	content, err := b.Content()
	if err != nil {
		return nil, err
	}
	return NewConcat(NewConstBuf(buf), content), nil
}

// boundaryFrame wraps a sequence of child bodies in RFC 2046 boundary
// delimiters: "--B\r\n" + part + "\r\n" for each child, then "--B--\r\n".
func boundaryFrame(boundary string, kids []Body) (FragmentIterator, error) {
	var frags []FragmentIterator
	for _, k := range kids {
		part, err := openPart(k)
		if err != nil {
			return nil, err
		}
		frags = append(frags, literal("--"+boundary+"\r\n"), part, literal("\r\n"))
	}
	frags = append(frags, literal("--"+boundary+"--\r\n"))
	return NewConcat(frags...), nil
}
