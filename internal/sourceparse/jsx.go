package sourceparse

import (
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/ast"
)

// parseJSX parses one markup expression — an element, a fragment, or (when
// called recursively from parseJSXChildren) text/expression content — from
// text, which must start with '<' after trimming. It returns the top-level
// node and whether parsing succeeded; a failure here is treated by its
// caller (parseReturnArgument) as a MalformedComponentShape candidate rather
// than a fatal parse error, matching this package's "degrade to RawExpr"
// philosophy for anything outside its shallow grammar.
func parseJSX(text string) (ast.JSXNode, bool) {
	text = strings.TrimSpace(text)
	if text == "" || text[0] != '<' {
		return nil, false
	}
	node, _, ok := parseJSXElement(text, 0)
	return node, ok
}

// ParseJSX is parseJSX's exported form, for collaborators outside this
// package (the IR lowering pass's ternary/loop-body branch handling) that
// need the same markup grammar rather than duplicating a cruder one.
func ParseJSX(text string) (ast.JSXNode, bool) {
	return parseJSX(text)
}

// parseJSXElement parses a single element or fragment starting at s[i] ==
// '<', returning the node and the index immediately past its closing tag.
func parseJSXElement(s string, i int) (ast.JSXNode, int, bool) {
	n := len(s)
	if i >= n || s[i] != '<' {
		return nil, i, false
	}
	j := skipJSXWS(s, i+1)

	// Bare fragment: <>...</>
	if j < n && s[j] == '>' {
		children, end, ok := parseJSXChildren(s, j+1, "")
		if !ok {
			return nil, i, false
		}
		return &ast.JSXFragment{Children: children}, end, true
	}

	start := j
	for j < n && isTagNameByte(s[j]) {
		j++
	}
	if j == start {
		return nil, i, false
	}
	tag := s[start:j]

	attrs, selfClosing, end, ok := parseJSXAttrs(s, j)
	if !ok {
		return nil, i, false
	}
	j = end

	if selfClosing {
		return &ast.JSXElement{Tag: tag, Attrs: attrs, SelfClosing: true}, j, true
	}

	children, afterChildren, ok := parseJSXChildren(s, j, tag)
	if !ok {
		return nil, i, false
	}
	return &ast.JSXElement{Tag: tag, Attrs: attrs, Children: children}, afterChildren, true
}

func isTagNameByte(c byte) bool {
	return isIdentByte(c) || c == '.' || c == '-'
}

func isAttrNameByte(c byte) bool {
	return isIdentByte(c) || c == '-' || c == ':'
}

func skipJSXWS(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
			i++
		default:
			return i
		}
	}
	return i
}

// parseJSXAttrs parses attributes starting right after the tag name, through
// and including the closing '>' or self-closing '/>'.
func parseJSXAttrs(s string, i int) (attrs []ast.JSXAttr, selfClosing bool, end int, ok bool) {
	n := len(s)
	for {
		i = skipJSXWS(s, i)
		if i >= n {
			return nil, false, i, false
		}
		if s[i] == '/' && i+1 < n && s[i+1] == '>' {
			return attrs, true, i + 2, true
		}
		if s[i] == '>' {
			return attrs, false, i + 1, true
		}
		if s[i] == '{' {
			closeIdx := findMatching(s, i)
			if closeIdx == -1 {
				return nil, false, i, false
			}
			inner := strings.TrimSpace(s[i+1 : closeIdx])
			if strings.HasPrefix(inner, "...") {
				attrs = append(attrs, ast.JSXAttr{
					IsSpread: true,
					Value:    strings.TrimSpace(strings.TrimPrefix(inner, "...")),
				})
			}
			i = closeIdx + 1
			continue
		}
		start := i
		for i < n && isAttrNameByte(s[i]) {
			i++
		}
		if i == start {
			return nil, false, i, false
		}
		attr := ast.JSXAttr{Name: s[start:i]}
		i = skipJSXWS(s, i)
		if i < n && s[i] == '=' {
			i = skipJSXWS(s, i+1)
			switch {
			case i < n && s[i] == '{':
				closeIdx := findMatching(s, i)
				if closeIdx == -1 {
					return nil, false, i, false
				}
				attr.IsExpr = true
				attr.Value = strings.TrimSpace(s[i+1 : closeIdx])
				i = closeIdx + 1
			case i < n && (s[i] == '"' || s[i] == '\''):
				q := s[i]
				valEnd := i + 1
				for valEnd < n && s[valEnd] != q {
					valEnd++
				}
				attr.Value = s[i+1 : valEnd]
				i = valEnd + 1
			default:
				return nil, false, i, false
			}
		}
		attrs = append(attrs, attr)
	}
}

// parseJSXChildren parses child nodes starting at i until the closing tag
// matching tag is found ("" means a fragment's "</>"), consuming the
// closing tag. Text runs, `{expr}` containers and nested elements/fragments
// interleave freely, matching the dialect's JSX-like markup grammar.
func parseJSXChildren(s string, i int, tag string) ([]ast.JSXNode, int, bool) {
	var out []ast.JSXNode
	n := len(s)
	closeTag := "</" + tag + ">"
	textStart := i

	flushText := func(end int) {
		if end <= textStart {
			return
		}
		raw := s[textStart:end]
		if strings.TrimSpace(raw) != "" {
			out = append(out, &ast.JSXText{Value: normalizeJSXText(raw)})
		}
	}

	for i < n {
		if tag == "" && strings.HasPrefix(s[i:], "</>") {
			flushText(i)
			return out, i + 3, true
		}
		if tag != "" && strings.HasPrefix(s[i:], closeTag) {
			flushText(i)
			return out, i + len(closeTag), true
		}
		switch s[i] {
		case '{':
			flushText(i)
			closeIdx := findMatching(s, i)
			if closeIdx == -1 {
				return nil, i, false
			}
			inner := strings.TrimSpace(s[i+1 : closeIdx])
			if inner != "" {
				out = append(out, &ast.JSXExprContainer{Expr: &ast.RawExpr{Text: inner}})
			}
			i = closeIdx + 1
			textStart = i
		case '<':
			flushText(i)
			node, end, ok := parseJSXElement(s, i)
			if !ok {
				return nil, i, false
			}
			out = append(out, node)
			i = end
			textStart = i
		default:
			i++
		}
	}
	return nil, i, false
}

// normalizeJSXText collapses runs of whitespace, matching the
// whitespace-normalization spec §3.2 requires of IR Text nodes (the analyzer
// side does it early so later passes see already-clean literal content).
func normalizeJSXText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
