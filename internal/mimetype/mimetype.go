// Package mimetype is the MIME-type value collaborator named in
// spec.md §6: it constructs and round-trips "type/subtype;
// param=value" content-type strings.
//
// Built directly on stdlib mime.FormatMediaType/ParseMediaType: no
// pack library reimplements RFC 2045 media-type formatting better
// than the standard library already does (it already handles token
// quoting and is what the teacher's own third_party/imf textproto
// layer defers to for any media-type work outside the header-folding
// path) — see DESIGN.md.
package mimetype

import (
	"mime"
	"sort"
)

// ContentType is a parsed "type/subtype" MIME media type with
// optional parameters (e.g. "charset", "boundary", "name").
type ContentType struct {
	Type    string
	Subtype string
	Params  map[string]string
}

// Full renders "type/subtype".
func (c ContentType) Full() string {
	return c.Type + "/" + c.Subtype
}

// Format renders the full "type/subtype; k=v; ..." media-type string,
// with parameters emitted in sorted key order for determinism.
func (c ContentType) Format() string {
	return mime.FormatMediaType(c.Full(), c.Params)
}

// Parse parses s as a MIME media type.
func Parse(s string) (ContentType, error) {
	full, params, err := mime.ParseMediaType(s)
	if err != nil {
		return ContentType{}, err
	}
	typ, sub, _ := splitFull(full)
	return ContentType{Type: typ, Subtype: sub, Params: params}, nil
}

func splitFull(full string) (typ, sub string, ok bool) {
	for i := 0; i < len(full); i++ {
		if full[i] == '/' {
			return full[:i], full[i+1:], true
		}
	}
	return full, "", false
}

// SortedParamNames returns c's parameter names in sorted order, for
// callers that need deterministic iteration independent of map order.
func (c ContentType) SortedParamNames() []string {
	names := make([]string, 0, len(c.Params))
	for k := range c.Params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
