package body

import (
	"fmt"

	"postcraft.dev/mail/charset"
	"postcraft.dev/mail/cte"
	"postcraft.dev/mail/sevenbit"
)

// PlainText is a text/plain body (spec.md §3).
type PlainText struct {
	Text    string
	Charset charset.Charset
	CTE     cte.Encoding
}

func (p PlainText) ContentHeaders() ([]HeaderField, error) {
	if p.Charset.Name() == "" {
		return nil, &Error{Kind: NoCharacterSetName}
	}
	return []HeaderField{
		{Name: "Content-Type", Value: fmt.Sprintf(`text/plain; charset=%s`, quoteIfNeeded(p.Charset.Name()))},
		{Name: "Content-Transfer-Encoding", Value: string(p.CTE)},
	}, nil
}

func (p PlainText) Content() (FragmentIterator, error) {
	raw, err := p.Charset.Encode(p.Text)
	if err != nil {
		return nil, &Error{Kind: DataConversionFailure, Err: err}
	}
	encoded, err := cte.EncodeAll(p.CTE, raw)
	if err != nil {
		return nil, err
	}
	buf, ok := sevenbit.FromBytes(encoded)
	if !ok {
		return nil, &Error{Kind: DataConversionFailure, Err: fmt.Errorf("cte %s produced a non-7bit byte", p.CTE)}
	}
	return NewConstBuf(buf), nil
}

// quoteIfNeeded quotes a Content-Type parameter value if it isn't a
// bare MIME token (charset names are always tokens in practice, but
// this guards against a registry returning something unusual).
func quoteIfNeeded(s string) string {
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			continue
		case r == '-', r == '_', r == '.':
			continue
		}
		return `"` + s + `"`
	}
	return s
}
