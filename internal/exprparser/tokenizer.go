package exprparser

import (
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/jscan"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokString
	tokPunct
)

type token struct {
	kind tokenKind
	text string
}

var multiCharPunct = []string{
	"=>", "===", "!==", "==", "!=", "<=", ">=", "&&", "||", "?.",
}

var singleCharPunct = "+-*/%<>!=?:.,()[]"

func tokenize(text string) []token {
	var tokens []token
	i := 0
	n := len(text)
	// Comment/whitespace skipping is shared with internal/sourceparse via
	// jscan.Scanner rather than reimplemented here, so a `/* note */` or
	// `// trailing` inside an expression container's raw text doesn't
	// mis-tokenize the following `/` as a division/regex punctuator.
	sc := jscan.New([]byte(text))
	for i < n {
		sc.Pos = i
		if sc.SkipCommentsAndWhitespace() == 0 {
			break
		}
		i = sc.Pos
		c := text[i]
		switch {
		case isIdentStart(c):
			start := i
			for i < n && isIdentPart(text[i]) {
				i++
			}
			tokens = append(tokens, token{tokIdent, text[start:i]})
		case c >= '0' && c <= '9':
			start := i
			for i < n && (text[i] >= '0' && text[i] <= '9' || text[i] == '.') {
				i++
			}
			tokens = append(tokens, token{tokNumber, text[start:i]})
		case c == '\'' || c == '"':
			quote := c
			start := i
			i++
			for i < n && text[i] != quote {
				if text[i] == '\\' {
					i++
				}
				i++
			}
			i++ // consume closing quote
			tokens = append(tokens, token{tokString, text[start:min(i, n)]})
		default:
			matched := false
			for _, p := range multiCharPunct {
				if strings.HasPrefix(text[i:], p) {
					tokens = append(tokens, token{tokPunct, p})
					i += len(p)
					matched = true
					break
				}
			}
			if matched {
				continue
			}
			if strings.IndexByte(singleCharPunct, c) >= 0 {
				tokens = append(tokens, token{tokPunct, string(c)})
				i++
				continue
			}
			// Unrecognized byte: bail by emitting the remainder as a single
			// opaque token, which will fail to parse and fall back to
			// KindUnrecognized.
			tokens = append(tokens, token{tokPunct, text[i:]})
			i = n
		}
	}
	return tokens
}

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
