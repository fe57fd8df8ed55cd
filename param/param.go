// Package param implements the RFC 2231 parameter-value encoder used
// for long or non-ASCII header parameters (e.g. attachment filenames)
// per spec.md §4.2.
package param

import (
	"fmt"
	"strings"

	"postcraft.dev/mail/charset"
)

const maxLineBytes = 75

// Encoder renders a single "name=value" header parameter, choosing the
// short form, the quoted form, or RFC 2231 percent-encoded
// continuations, in that order of preference.
type Encoder struct {
	Charset  charset.Charset // used only if continuation form is needed
	Language string          // RFC 2231 language tag; may be empty
}

// EncodeParam returns the parameter fragment to append to a header
// value, including its own leading "; " and any internal "\r\n "
// folds between continuation segments. It never returns a trailing
// ";" — the caller joins parameters itself.
func (e *Encoder) EncodeParam(name, value string) (string, error) {
	if isMIMEToken(value) && len(name)+1+len(value) < maxLineBytes {
		return fmt.Sprintf("; %s=%s", name, value), nil
	}

	if isQuotable(value) {
		q := quote(value)
		if len(q) < maxLineBytes-len(name)-1 {
			return fmt.Sprintf("; %s=%s", name, q), nil
		}
	}

	return e.encodeContinuations(name, value)
}

func isMIMEToken(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > 0x7E || r <= 0x20 || isTSpecial(r) {
			return false
		}
	}
	return true
}

func isTSpecial(r rune) bool {
	switch r {
	case '(', ')', '<', '>', '@', ',', ';', ':', '\\', '"', '/', '[', ']', '?', '=':
		return true
	}
	return false
}

func isQuotable(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			return false
		}
	}
	return true
}

func quote(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '"' || c == '\\' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	b.WriteByte('"')
	return b.String()
}

// percentSafe are the bytes RFC 2231 §7 leaves unescaped: attribute-char
// minus the bytes the grammar reserves ("*", "'", "%", space and
// tspecials), per spec.md §4.2's explicit reserved set.
func percentSafe(b byte) bool {
	switch {
	case b >= '0' && b <= '9', b >= 'A' && b <= 'Z', b >= 'a' && b <= 'z':
		return true
	case b == '$', b == '-', b == '.', b == '@', b == '_', b == '~':
		return true
	}
	return false
}

func percentEncode(b []byte) string {
	var out strings.Builder
	for _, c := range b {
		if percentSafe(c) {
			out.WriteByte(c)
		} else {
			fmt.Fprintf(&out, "%%%02X", c)
		}
	}
	return out.String()
}

// encodeContinuations implements spec.md §4.2's continuation form:
// numbered name*N[*]=value segments, charset/language tagged only on
// segment 0, each segment capped at maxLineBytes.
func (e *Encoder) encodeContinuations(name, value string) (string, error) {
	cs := e.Charset
	if cs == nil {
		return "", fmt.Errorf("param: %s requires RFC 2231 continuations but no charset was supplied", name)
	}
	encoded, err := cs.Encode(value)
	if err != nil {
		return "", fmt.Errorf("param: encoding %s: %w", name, err)
	}

	needsStar := cs.Name() != "us-ascii"

	var segs []string
	seg := 0
	pos := 0
	for pos < len(encoded) || seg == 0 {
		var prefix string
		var overhead int
		if seg == 0 {
			prefix = fmt.Sprintf("%s*0%s=", name, starSuffix(needsStar))
			if needsStar {
				overhead = len(cs.Name()) + 1 + len(e.Language) + 1
			}
		} else {
			prefix = fmt.Sprintf("%s*%d%s=", name, seg, starSuffix(needsStar))
		}

		budget := maxLineBytes - len(prefix) - overhead - 1 // trailing ';'
		if budget < 1 {
			budget = 1
		}

		n := percentBudgetSplit(encoded[pos:], budget)
		if n == 0 {
			n = 1
		}
		chunk := percentEncode(encoded[pos : pos+n])
		if seg == 0 && needsStar {
			chunk = cs.Name() + "'" + e.Language + "'" + chunk
		}
		segs = append(segs, prefix+chunk)
		pos += n
		seg++
		if pos >= len(encoded) {
			break
		}
	}

	return "; " + strings.Join(segs, ";\r\n "), nil
}

func starSuffix(needsStar bool) string {
	if needsStar {
		return "*"
	}
	return ""
}

// percentBudgetSplit finds, via binary search, the largest prefix of
// b whose percent-encoded form is at most budget bytes.
func percentBudgetSplit(b []byte, budget int) int {
	lo, hi, best := 0, len(b), 0
	cache := map[int]int{0: 0}
	encLen := func(k int) int {
		if v, ok := cache[k]; ok {
			return v
		}
		v := len(percentEncode(b[:k]))
		cache[k] = v
		return v
	}
	for lo <= hi {
		mid := (lo + hi) / 2
		if encLen(mid) <= budget {
			best = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	return best
}
