package addr

import (
	"strings"

	"postcraft.dev/mail/internal/domain"
)

// Parse runs the full lexer → preparser → parser pipeline of spec.md
// §4.4 and returns a Kind-tagged *Error on failure.
func Parse(s string) (MailAddress, error) {
	if len([]rune(s)) >= 255 {
		return MailAddress{}, errKind(TooLong)
	}

	toks, err := lex(s)
	if err != nil {
		return MailAddress{}, err
	}
	nodes, err := preparse(toks)
	if err != nil {
		return MailAddress{}, err
	}
	return parseNodes(nodes)
}

func parseNodes(nodes []node) (MailAddress, error) {
	atIdx := -1
	for i, n := range nodes {
		if n.kind == nAtSign {
			if atIdx >= 0 {
				return MailAddress{}, errKind(DuplicateAtSigns)
			}
			atIdx = i
		}
	}
	if atIdx < 0 {
		return MailAddress{}, errKind(MissingAtSign)
	}

	local := nodes[:atIdx]
	dom := nodes[atIdx+1:]

	local = stripComments(local)
	dom = stripComments(dom)

	if len(local) == 0 {
		return MailAddress{}, errKind(MissingLocalPart)
	}
	if len(dom) == 0 {
		return MailAddress{}, errKind(MissingDomain)
	}
	if err := rejectMidComments(local); err != nil {
		return MailAddress{}, err
	}
	if err := rejectMidComments(dom); err != nil {
		return MailAddress{}, err
	}

	domainText, domainKind, err := parseDomainSide(dom)
	if err != nil {
		return MailAddress{}, err
	}

	localText, err := parseLocalSide(local)
	if err != nil {
		return MailAddress{}, err
	}

	if len([]rune(localText)) >= 65 {
		return MailAddress{}, errKind(TooLongLocalPart)
	}
	if len([]rune(localText))+1+len([]rune(domainText)) >= 255 {
		return MailAddress{}, errKind(TooLong)
	}

	return MailAddress{LocalPart: localText, DomainPart: domainText, DomainKind: domainKind}, nil
}

// stripComments removes leading and trailing Comment nodes.
func stripComments(nodes []node) []node {
	i, j := 0, len(nodes)
	for i < j && nodes[i].kind == nComment {
		i++
	}
	for j > i && nodes[j-1].kind == nComment {
		j--
	}
	return nodes[i:j]
}

func rejectMidComments(nodes []node) error {
	for _, n := range nodes {
		if n.kind == nComment {
			return errKind(InvalidCommentPosition)
		}
	}
	return nil
}

func parseDomainSide(nodes []node) (string, DomainKind, error) {
	if len(nodes) == 1 {
		switch nodes[0].kind {
		case nIPAddress:
			n := nodes[0]
			if n.isV6 {
				return "[IPv6:" + n.ip.String() + "]", DomainIPv6, nil
			}
			return "[" + n.ip.String() + "]", DomainIPv4, nil
		case nPlainText:
			d, ok := domain.Parse(nodes[0].text)
			if !ok {
				return "", 0, errKind(InvalidDomain)
			}
			return d.String(), DomainName, nil
		}
	}

	var b strings.Builder
	prevWasDot := false
	for i, n := range nodes {
		switch n.kind {
		case nPlainText:
			b.WriteString(n.text)
			prevWasDot = false
		case nDot:
			if i == 0 || i == len(nodes)-1 || prevWasDot {
				return "", 0, errKind(ConsecutiveDots)
			}
			b.WriteByte('.')
			prevWasDot = true
		default:
			return "", 0, errKind(InvalidDomain)
		}
	}
	d, ok := domain.Parse(b.String())
	if !ok {
		return "", 0, errKind(InvalidDomain)
	}
	return d.String(), DomainName, nil
}

func parseLocalSide(nodes []node) (string, error) {
	if nodes[0].kind == nDot || nodes[len(nodes)-1].kind == nDot {
		return "", errKind(InvalidDotPosition)
	}

	var b strings.Builder
	for i, n := range nodes {
		switch n.kind {
		case nDot:
			if i+1 < len(nodes) && nodes[i+1].kind == nDot {
				return "", errKind(ConsecutiveDots)
			}
			b.WriteByte('.')

		case nIPAddress:
			return "", errKind(InvalidScalarInLocalPart)

		case nPlainText:
			for _, r := range n.text {
				if !isAtomChar(r) {
					return "", errKind(InvalidScalarInLocalPart)
				}
			}
			b.WriteString(n.text)

		case nQuotedText:
			prevOK := i == 0 || nodes[i-1].kind == nDot
			nextOK := i == len(nodes)-1 || nodes[i+1].kind == nDot
			if !prevOK || !nextOK {
				return "", errKind(InvalidQuotedStringPosition)
			}
			if allAtomSafe(n.text) {
				b.WriteString(n.text)
			} else {
				b.WriteString(quoteString(n.text))
			}

		default:
			return "", errKind(InvalidCommentPosition)
		}
	}
	return b.String(), nil
}

func allAtomSafe(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !isAtomChar(r) {
			return false
		}
	}
	return true
}

// quoteString renders s as an RFC 5322 quoted-string, escaping '"' and '\'.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		if r == '"' || r == '\\' {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('"')
	return b.String()
}
