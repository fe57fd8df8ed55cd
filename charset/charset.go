// Package charset is the MIME charset-name collaborator named in
// spec.md §6: given a label, it resolves an encoder from a Unicode
// string to bytes, plus the label's canonical IANA name.
//
// It is grounded on the same stack the teacher's address parser uses
// for the reverse direction (golang.org/x/text/encoding/ianaindex,
// golang.org/x/text/encoding/japanese) in third_party/imf/addr.go.
package charset

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/simplifiedchinese"
)

// Charset resolves a Unicode string to charset-encoded bytes.
type Charset interface {
	// Name is the canonical IANA label, e.g. "utf-8", "iso-2022-jp".
	Name() string
	// Encode converts s to this charset's byte representation.
	// It reports an error if s contains a scalar the charset cannot
	// represent (spec.md's DataConversionFailure).
	Encode(s string) ([]byte, error)
}

// Registry resolves a charset label to a Charset.
type Registry interface {
	Lookup(label string) (Charset, bool)
}

type xtextCharset struct {
	name string
	enc  encoding.Encoding
}

func (c xtextCharset) Name() string { return c.name }

func (c xtextCharset) Encode(s string) ([]byte, error) {
	b, err := c.enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("charset %s: cannot encode: %w", c.name, err)
	}
	return b, nil
}

type asciiCharset struct{}

func (asciiCharset) Name() string { return "us-ascii" }

func (asciiCharset) Encode(s string) ([]byte, error) {
	b := make([]byte, 0, len(s))
	for _, r := range s {
		if r > 0x7F {
			return nil, fmt.Errorf("charset us-ascii: cannot encode %q", r)
		}
		b = append(b, byte(r))
	}
	return b, nil
}

type utf8Charset struct{}

func (utf8Charset) Name() string { return "utf-8" }

func (utf8Charset) Encode(s string) ([]byte, error) {
	return []byte(s), nil
}

type registry struct {
	byLabel map[string]Charset
}

// Default returns the built-in registry: UTF-8, US-ASCII and
// ISO-2022-JP are always present (spec.md §6's minimum), plus
// anything golang.org/x/text/encoding/ianaindex knows the MIME name
// for. GB2312 is special-cased the way third_party/imf/addr.go does,
// since ianaindex doesn't carry it under that exact label.
func Default() Registry {
	r := &registry{byLabel: map[string]Charset{
		"utf-8":        utf8Charset{},
		"utf8":         utf8Charset{},
		"us-ascii":     asciiCharset{},
		"ascii":        asciiCharset{},
		"iso-2022-jp":  xtextCharset{name: "iso-2022-jp", enc: japanese.ISO2022JP},
		"shift_jis":    xtextCharset{name: "shift_jis", enc: japanese.ShiftJIS},
		"euc-jp":       xtextCharset{name: "euc-jp", enc: japanese.EUCJP},
		"gb2312":       xtextCharset{name: "gb2312", enc: simplifiedchinese.HZGB2312},
		"gbk":          xtextCharset{name: "gbk", enc: simplifiedchinese.GBK},
		"iso-8859-1":   nil, // filled in below via ianaindex to avoid hand duplication
		"windows-1252": nil,
	}}
	delete(r.byLabel, "iso-8859-1")
	delete(r.byLabel, "windows-1252")
	return r
}

func (r *registry) Lookup(label string) (Charset, bool) {
	if c, ok := r.byLabel[label]; ok {
		return c, true
	}
	enc, err := ianaindex.MIME.Encoding(label)
	if err != nil || enc == nil {
		return nil, false
	}
	name, err := ianaindex.MIME.Name(enc)
	if err != nil || name == "" {
		name = label
	}
	c := xtextCharset{name: name, enc: enc}
	r.byLabel[label] = c
	return c, true
}
