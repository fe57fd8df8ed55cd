package addr

import "postcraft.dev/mail/internal/ipaddr"

type nodeKind int

const (
	nPlainText nodeKind = iota
	nQuotedText
	nIPAddress
	nDot
	nAtSign
	nComment
)

type node struct {
	kind nodeKind
	text string // PlainText / QuotedText content
	ip   ipaddr.IPAddress
	isV6 bool
	kids []node // nComment's nested content
}

// preparse runs spec.md §4.4 Stage 2: it nests comment tokens into a
// tree, leaving every other token as a leaf node at its enclosing
// level. Unbalanced parentheses fail.
func preparse(toks []lexToken) ([]node, error) {
	nodes, rest, err := preparseLevel(toks, false)
	if err != nil {
		return nil, err
	}
	if len(rest) != 0 {
		// Only reachable if a CloseComment survived to the top level.
		return nil, errKind(UnbalancedParenthesis)
	}
	return nodes, nil
}

// preparseLevel consumes toks until a CloseComment (if inComment) or
// end of input, returning the nodes built at this level and whatever
// tokens remain unconsumed.
func preparseLevel(toks []lexToken, inComment bool) (nodes []node, rest []lexToken, err error) {
	for len(toks) > 0 {
		t := toks[0]

		if t.kind == tkCloseComment {
			if inComment {
				return nodes, toks[1:], nil
			}
			return nil, nil, errKind(UnbalancedParenthesis)
		}

		if t.kind == tkOpenComment {
			kids, remainder, err := preparseLevel(toks[1:], true)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, node{kind: nComment, kids: kids})
			toks = remainder
			continue
		}

		if inComment {
			nodes = append(nodes, node{kind: nPlainText, text: surfaceForm(t)})
		} else {
			nodes = append(nodes, tokenToNode(t))
		}
		toks = toks[1:]
	}
	if inComment {
		return nil, nil, errKind(UnbalancedParenthesis)
	}
	return nodes, nil, nil
}

func tokenToNode(t lexToken) node {
	switch t.kind {
	case tkDot:
		return node{kind: nDot}
	case tkAtSign:
		return node{kind: nAtSign}
	case tkIPAddress:
		return node{kind: nIPAddress, ip: t.ip, isV6: t.isV6}
	case tkQuotedText:
		return node{kind: nQuotedText, text: t.text}
	default:
		return node{kind: nPlainText, text: t.text}
	}
}

// surfaceForm renders a token's mail-address syntax surface form, for
// use as plain text inside a comment.
func surfaceForm(t lexToken) string {
	switch t.kind {
	case tkDot:
		return "."
	case tkAtSign:
		return "@"
	case tkIPAddress:
		if t.isV6 {
			return "[IPv6:" + t.ip.String() + "]"
		}
		return "[" + t.ip.String() + "]"
	case tkQuotedText:
		return quoteString(t.text)
	default:
		return t.text
	}
}
