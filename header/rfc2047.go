package header

import (
	"bytes"
	"encoding/base64"
	"fmt"

	"postcraft.dev/mail/charset"
)

// maxLineBytes is the RFC 5322 §2.1.1 conservative line target this
// encoder holds every folded line to (content bytes, CRLF excluded).
const maxLineBytes = 75

type scalarClass int

const (
	classLWS scalarClass = iota
	classVIS
	classOTH
)

func classify(r rune) scalarClass {
	switch r {
	case '\t', ' ':
		return classLWS
	}
	if r >= '!' && r <= '~' {
		return classVIS
	}
	return classOTH
}

type tokenKind int

const (
	tokenRaw tokenKind = iota
	tokenEncoded
)

type token struct {
	kind tokenKind
	runs []rune
}

func allLWS(runs []rune) bool {
	for _, r := range runs {
		if classify(r) != classLWS {
			return false
		}
	}
	return len(runs) > 0
}

func endsWithLWS(runs []rune) bool {
	return len(runs) > 0 && classify(runs[len(runs)-1]) == classLWS
}

// lastInteriorLWS returns the index of the last LWS scalar strictly
// between the first and last position of runs, or -1 if there is none.
func lastInteriorLWS(runs []rune) int {
	for i := len(runs) - 2; i >= 1; i-- {
		if classify(runs[i]) == classLWS {
			return i
		}
	}
	return -1
}

// tokenize partitions value into Raw/Encoded runs per spec.md §4.1's
// tokenization pass.
func tokenize(value string) []token {
	runes := []rune(value)
	if len(runes) == 0 {
		return nil
	}

	var tokens []token
	if classify(runes[0]) == classOTH {
		tokens = append(tokens, token{kind: tokenEncoded, runs: runes[:1]})
	} else {
		tokens = append(tokens, token{kind: tokenRaw, runs: runes[:1]})
	}

	for i := 1; i < len(runes); i++ {
		r := runes[i]
		c := classify(r)
		last := &tokens[len(tokens)-1]

		switch {
		case (c == classLWS || c == classVIS) && last.kind == tokenRaw:
			last.runs = append(last.runs, r)

		case c == classVIS && last.kind == tokenEncoded:
			last.runs = append(last.runs, r)

		case c == classLWS && last.kind == tokenEncoded:
			tokens = append(tokens, token{kind: tokenRaw, runs: []rune{r}})

		case c == classOTH && last.kind == tokenEncoded:
			last.runs = append(last.runs, r)

		case c == classOTH && last.kind == tokenRaw:
			switch {
			case allLWS(last.runs) && len(tokens) >= 2 && tokens[len(tokens)-2].kind == tokenEncoded:
				prev := &tokens[len(tokens)-2]
				prev.runs = append(prev.runs, last.runs...)
				prev.runs = append(prev.runs, r)
				tokens = tokens[:len(tokens)-1]

			case len(tokens) == 1 && lastInteriorLWS(last.runs) >= 0:
				idx := lastInteriorLWS(last.runs)
				prefix := append([]rune{}, last.runs[:idx+1]...)
				suffix := append([]rune{}, last.runs[idx+1:]...)
				last.runs = prefix
				tokens = append(tokens, token{kind: tokenEncoded, runs: append(suffix, r)})

			case endsWithLWS(last.runs):
				tokens = append(tokens, token{kind: tokenEncoded, runs: []rune{r}})

			default:
				last.kind = tokenEncoded
				last.runs = append(last.runs, r)
			}
		}
	}
	return tokens
}

// finalizeTokens is spec.md §4.1's finalization pass: merge adjacent
// same-kind tokens, then fold a trailing all-LWS Raw token into a
// preceding Encoded token.
func finalizeTokens(tokens []token) []token {
	var out []token
	for _, t := range tokens {
		if n := len(out); n > 0 && out[n-1].kind == t.kind {
			out[n-1].runs = append(out[n-1].runs, t.runs...)
		} else {
			out = append(out, t)
		}
	}
	if n := len(out); n >= 2 {
		last := &out[n-1]
		prev := &out[n-2]
		if last.kind == tokenRaw && allLWS(last.runs) && prev.kind == tokenEncoded {
			prev.runs = append(prev.runs, last.runs...)
			out = out[:n-1]
		}
	}
	return out
}

// Encoder emits RFC 2047-encoded, RFC 5322-folded header values.
type Encoder struct {
	Charset charset.Charset
}

// Encode folds and encodes value, assuming startColumn bytes are
// already spent on the current line (e.g. "Subject: ").
func (e *Encoder) Encode(value string, startColumn int) ([]byte, error) {
	tokens := finalizeTokens(tokenize(value))

	lw := &lineWriter{L: startColumn}
	for _, tok := range tokens {
		switch tok.kind {
		case tokenRaw:
			lw.writeRaw(tok.runs)
		case tokenEncoded:
			if err := lw.writeEncoded(e.Charset, tok.runs); err != nil {
				return nil, err
			}
		}
	}
	return lw.buf.Bytes(), nil
}

type lineWriter struct {
	buf bytes.Buffer
	L   int
}

func (lw *lineWriter) fold() {
	lw.buf.WriteString("\r\n ")
	lw.L = 0
}

func (lw *lineWriter) writeRaw(runs []rune) {
	remaining := runs
	for len(remaining) > 0 {
		avail := maxLineBytes - lw.L
		if avail <= 0 {
			lw.fold()
			avail = maxLineBytes
		}
		n := avail
		if n > len(remaining) {
			n = len(remaining)
		}
		for _, r := range remaining[:n] {
			lw.buf.WriteByte(byte(r))
		}
		lw.L += n
		remaining = remaining[n:]
	}
}

// writeEncoded emits runs as one or more RFC 2047 encoded-words,
// binary-searching the largest rune prefix whose charset-encoded byte
// length fits the per-line budget (spec.md §4.1's Emission rule).
func (lw *lineWriter) writeEncoded(cs charset.Charset, runs []rune) error {
	csName := cs.Name()
	remaining := runs
	for len(remaining) > 0 {
		avail := maxLineBytes - lw.L
		budget := avail - 7 - len(csName)
		if budget <= 0 {
			lw.fold()
			avail = maxLineBytes
			budget = avail - 7 - len(csName)
		}
		maxPre := (budget / 4) * 3
		if maxPre < 1 {
			maxPre = 1
		}

		cache := map[int]int{0: 0}
		encLen := func(k int) (int, error) {
			if v, ok := cache[k]; ok {
				return v, nil
			}
			b, err := cs.Encode(string(remaining[:k]))
			if err != nil {
				return 0, err
			}
			cache[k] = len(b)
			return len(b), nil
		}

		lo, hi, best := 0, len(remaining), 0
		for lo <= hi {
			mid := (lo + hi) / 2
			n, err := encLen(mid)
			if err != nil {
				return fmt.Errorf("header: encoding %q in %s: %w", string(remaining[:mid]), csName, err)
			}
			if n <= maxPre {
				best = mid
				lo = mid + 1
			} else {
				hi = mid - 1
			}
		}
		if best == 0 {
			// Budget too tight for even one scalar; force progress
			// rather than loop forever on a pathological charset name.
			best = 1
		}
		if best > len(remaining) {
			best = len(remaining)
		}

		encoded, err := cs.Encode(string(remaining[:best]))
		if err != nil {
			return fmt.Errorf("header: encoding %q in %s: %w", string(remaining[:best]), csName, err)
		}
		b64 := base64.StdEncoding.EncodeToString(encoded)

		lw.buf.WriteString("=?")
		lw.buf.WriteString(csName)
		lw.buf.WriteString("?B?")
		lw.buf.WriteString(b64)
		lw.buf.WriteString("?=")
		lw.L += len(csName) + 7 + len(b64)

		remaining = remaining[best:]
		if len(remaining) > 0 {
			lw.fold()
		}
	}
	return nil
}
