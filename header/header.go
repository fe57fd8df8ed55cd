// Package header implements the header-value tokenizer, RFC 2047
// encoded-word encoder, and the Header/Key model used to store and
// emit RFC 5322 header fields.
//
// It generalizes the teacher's email.Header/email.Key (a flat,
// MIME-focused, ASCII-byte-valued header store) into a Unicode-valued
// store whose Encode path runs every field through the RFC 2047
// tokenizer, rather than the teacher's plain word-break folder.
package header

import (
	"errors"
	"fmt"
	"io"

	"postcraft.dev/mail/charset"
)

// Key is a canonical header field name.
type Key string

// Entry is one stored header field.
type Entry struct {
	Key   Key
	Value string
}

// ErrForbiddenField is returned by Add for Content-Type and
// Content-Transfer-Encoding: those fields are derived from the body
// (spec.md §3) and may not be stored directly.
var ErrForbiddenField = errors.New("header: field is derived from the body, not storable")

// Header is an ordered MIME-style header. Keys are compared
// byte-for-byte: Get, Del and Add's Content-Type/Content-Transfer-Encoding
// check do not fold case, so differently-cased spellings of one field
// name are distinct keys (see CanonicalKey).
type Header struct {
	Entries []Entry
	index   map[Key][]int
}

func (h *Header) reindex() {
	h.index = make(map[Key][]int, len(h.Entries))
	for i, e := range h.Entries {
		h.index[e.Key] = append(h.index[e.Key], i)
	}
}

// Add appends a header field under its canonical key. It is the
// caller's responsibility to canonicalize k first (see CanonicalKey).
func (h *Header) Add(k Key, v string) error {
	if k == "Content-Type" || k == "Content-Transfer-Encoding" {
		return fmt.Errorf("%w: %s", ErrForbiddenField, k)
	}
	h.Entries = append(h.Entries, Entry{Key: k, Value: v})
	if h.index == nil {
		h.reindex()
	} else {
		h.index[k] = append(h.index[k], len(h.Entries)-1)
	}
	return nil
}

// Get returns the first stored value for k.
func (h *Header) Get(k Key) (string, bool) {
	if h.index == nil {
		h.reindex()
	}
	idxs := h.index[k]
	if len(idxs) == 0 {
		return "", false
	}
	return h.Entries[idxs[0]].Value, true
}

// Del removes every entry stored under k.
func (h *Header) Del(k Key) {
	var kept []Entry
	for _, e := range h.Entries {
		if e.Key != k {
			kept = append(kept, e)
		}
	}
	h.Entries = kept
	h.reindex()
}

// ForEach calls fn for every stored entry, in storage order.
func (h *Header) ForEach(fn func(k Key, v string)) {
	for _, e := range h.Entries {
		fn(e.Key, e.Value)
	}
}

// Encode writes every stored field as "Key: <folded value>\r\n",
// folding non-ASCII runs into RFC 2047 encoded-words via cs, and
// terminates the header block with a blank line.
func (h *Header) Encode(w io.Writer, cs charset.Charset) (int64, error) {
	n, err := h.EncodeFields(w, cs)
	if err != nil {
		return n, err
	}
	m, err := io.WriteString(w, "\r\n")
	return n + int64(m), err
}

// EncodeFields writes every stored field as "Key: <folded value>\r\n",
// folding non-ASCII runs into RFC 2047 encoded-words via cs, without
// the terminating blank line — callers that still need to append more
// (derived, already-ASCII-safe) fields before the body use this
// instead of Encode.
func (h *Header) EncodeFields(w io.Writer, cs charset.Charset) (int64, error) {
	var n int64
	for _, e := range h.Entries {
		m, err := encodeEntry(w, e, cs)
		n += m
		if err != nil {
			return n, err
		}
	}
	return n, nil
}

func encodeEntry(w io.Writer, e Entry, cs charset.Charset) (int64, error) {
	if e.Value == "" {
		m, err := fmt.Fprintf(w, "%s:\r\n", e.Key)
		return int64(m), err
	}

	prefix := string(e.Key) + ": "
	enc := &Encoder{Charset: cs}
	folded, err := enc.Encode(e.Value, len(prefix))
	if err != nil {
		return 0, fmt.Errorf("header: field %s: %w", e.Key, err)
	}

	var n int64
	m, err := io.WriteString(w, prefix)
	n += int64(m)
	if err != nil {
		return n, err
	}
	m, err = w.Write(folded)
	n += int64(m)
	if err != nil {
		return n, err
	}
	m, err = io.WriteString(w, "\r\n")
	n += int64(m)
	return n, err
}

// canonicalOverrides holds the canonical spelling of the header names
// this module emits. Only mime-version, content-id and message-id differ
// from what the default capitalize-after-hyphen rule produces; the other
// entries agree with it. Unlike the teacher's header.go (which hardcodes the
// capitalization of every header name ever seen crossing its
// mailboxes), this module only ever emits a small, fixed set of
// fields, so the override table is equally small.
var canonicalOverrides = map[string]Key{
	"mime-version":              "MIME-Version",
	"content-id":                "Content-ID",
	"x-mailer":                  "X-Mailer",
	"in-reply-to":               "In-Reply-To",
	"reply-to":                  "Reply-To",
	"message-id":                "Message-ID",
	"content-transfer-encoding": "Content-Transfer-Encoding",
}

// CanonicalKey canonicalizes a header field name: lower-cased lookup
// against the known-header table, falling back to capitalizing the
// first letter of each hyphen-separated word.
func CanonicalKey(name string) Key {
	lower := make([]byte, len(name))
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= 'A' && c <= 'Z' {
			c += 'a' - 'A'
		}
		lower[i] = c
	}
	if k, ok := canonicalOverrides[string(lower)]; ok {
		return k
	}
	b := []byte(name)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	for i := range b {
		if i == 0 || b[i-1] == '-' {
			if b[i] >= 'a' && b[i] <= 'z' {
				b[i] -= 'a' - 'A'
			}
		}
	}
	return Key(b)
}
