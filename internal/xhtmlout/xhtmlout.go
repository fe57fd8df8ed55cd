// Package xhtmlout is the XHTML serializer collaborator named in
// spec.md §6: given an HTML document, it returns a sanitized XHTML
// rendering plus the charset it was serialized in.
//
// Grounded on the teacher's html/htmlembed.Embedder and
// html/htmlsafe.Sanitizer, stripped of Embedder's network-fetch half
// (out of scope: a caller who wants remote-resource embedding resolves
// and reads those bytes itself and supplies them as body.File values;
// this package only rewrites the URLs a caller tells it to rewrite).
package xhtmlout

import (
	"io"
	"net/url"
	"strings"

	"postcraft.dev/mail/html/htmlsafe"
)

// Charset is the fixed declared charset of every document this
// package serializes: output is always valid UTF-8.
const Charset = "utf-8"

// RewriteFunc decides the replacement URL for an href/src attribute.
// Returning "" drops the attribute entirely.
type RewriteFunc func(attr, url string) string

// Serialize sanitizes and re-serializes an HTML document to the safe
// XHTML-like subset emailed clients accept, rewriting each cid, http or
// https href/src URL through rewrite (with nil, those URLs are kept as
// parsed and re-serialized). URLs with any other scheme, or with no
// scheme, are dropped either way.
func Serialize(r io.Reader, rewrite RewriteFunc) (xhtmlString string, charset string, err error) {
	var rewriteFn func(attr string, u *url.URL) string
	if rewrite != nil {
		rewriteFn = func(attr string, u *url.URL) string {
			return rewrite(attr, u.String())
		}
	}

	var buf strings.Builder
	s := &htmlsafe.Sanitizer{
		RewriteURL: rewriteFn,
		Options:    htmlsafe.Safe,
		MaxBuf:     1 << 20,
	}
	if _, err := s.Sanitize(&buf, r); err != nil {
		return "", "", err
	}
	return buf.String(), Charset, nil
}

// SerializeString is Serialize for an in-memory document.
func SerializeString(html string, rewrite RewriteFunc) (string, string, error) {
	return Serialize(strings.NewReader(html), rewrite)
}
