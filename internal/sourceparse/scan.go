// Package sourceparse is a minimal conforming implementation of the source
// parser spec §9 treats as an external collaborator: "produces a tree with
// syntactic kinds for function declarations, variable declarations,
// array/object destructuring patterns, call expressions, property accesses,
// binary/logical/unary/conditional expressions, arrow functions, markup
// elements/fragments/text/expressions... Any conforming parser suffices."
// It understands exactly the component shapes the rest of this module
// consumes and nothing more: single-file components whose bodies are a
// flat list of const/function/if/return statements and whose markup is
// JSX-like. It assumes type-stripped input (see internal/typestrip) — it
// does not itself understand TypeScript syntax.
package sourceparse

import "github.com/kfly8/barefootjs-sub004/internal/jscan"

// skipWS advances past whitespace and comments starting at i, reusing the
// expression sub-parser's own comment-skipping rules.
func skipWS(src string, i int) int {
	s := jscan.New([]byte(src))
	s.Pos = i
	s.SkipCommentsAndWhitespace()
	return s.Pos
}

// findMatching returns the index (relative to src) of the byte that closes
// the bracket opened at openIdx (src[openIdx] must be one of ([{<), honoring
// string/template literal and comment nesting.
func findMatching(src string, openIdx int) int {
	open := src[openIdx]
	var close byte
	switch open {
	case '(':
		close = ')'
	case '[':
		close = ']'
	case '{':
		close = '}'
	case '<':
		close = '>'
	default:
		return -1
	}
	depth := 0
	i := openIdx
	for i < len(src) {
		c := src[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipStringLit(src, i)
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			for i < len(src) && src[i] != '\n' {
				i++
			}
			continue
		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			i += 2
			for i+1 < len(src) && !(src[i] == '*' && src[i+1] == '/') {
				i++
			}
			i += 2
			continue
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return i
			}
		}
		i++
	}
	return -1
}

func skipStringLit(src string, i int) int {
	q := src[i]
	i++
	for i < len(src) {
		if src[i] == '\\' {
			i += 2
			continue
		}
		if src[i] == q {
			return i + 1
		}
		i++
	}
	return i
}

// splitTopLevel splits text on sep bytes that occur outside any bracket
// nesting or string literal.
func splitTopLevel(text string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	i := 0
	for i < len(text) {
		c := text[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipStringLit(text, i)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == sep && depth == 0:
			parts = append(parts, text[start:i])
			start = i + 1
		}
		i++
	}
	parts = append(parts, text[start:])
	return parts
}
