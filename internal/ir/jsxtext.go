package ir

import (
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/sourceparse"
)

// splitTernary finds a top-level `cond ? then : else` split in text,
// tracking paren/bracket/brace/quote depth so it doesn't split inside a
// nested call or string. Returns ok=false if no top-level `?`/`:` pair is
// found (the expression isn't a ternary).
func splitTernary(text string) (cond, then, els string, ok bool) {
	depth := 0
	qMark := -1
	var quote byte
	for i := 0; i < len(text); i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '?':
			if depth == 0 && qMark == -1 && !isOptionalChain(text, i) {
				qMark = i
			}
		case ':':
			if depth == 0 && qMark != -1 {
				return strings.TrimSpace(text[:qMark]), strings.TrimSpace(text[qMark+1 : i]), strings.TrimSpace(text[i+1:]), true
			}
		}
	}
	return "", "", "", false
}

// isOptionalChain reports whether the `?` at index i is part of `?.` or
// `??`, neither of which introduces a ternary.
func isOptionalChain(text string, i int) bool {
	if i+1 < len(text) && (text[i+1] == '.' || text[i+1] == '?') {
		return true
	}
	return false
}

// splitLogicalAnd finds a top-level `cond && then` split.
func splitLogicalAnd(text string) (cond, then string, ok bool) {
	depth := 0
	var quote byte
	for i := 0; i < len(text)-1; i++ {
		c := text[i]
		if quote != 0 {
			if c == '\\' {
				i++
				continue
			}
			if c == quote {
				quote = 0
			}
			continue
		}
		switch c {
		case '\'', '"', '`':
			quote = c
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case '&':
			if depth == 0 && text[i+1] == '&' {
				return strings.TrimSpace(text[:i]), strings.TrimSpace(text[i+2:]), true
			}
		}
	}
	return "", "", false
}

// literalOrExprNode turns a ternary/logical-AND branch's (or a loop body's)
// raw text into a Node: a quoted string becomes Text, markup becomes an
// Element/Component/Fragment tree (attributes and events included, via the
// real markup grammar in internal/sourceparse rather than a duplicated
// one), anything else is kept as an opaque Expression. Unlike a full
// component's returned markup, these nodes never mint slot ids here: a
// ternary branch is addressed through its own Conditional slot id (its
// template/bindEvents pair, spec §4.6.k) and a loop body through its Loop's
// slot id (spec §4.6.l) — minting independent slot ids for elements nested
// inside either would make writeAnchorLookups look for a `find(__scope,
// ...)` anchor that only exists transiently inside dynamically-rendered
// content, never once under the component's own scope.
func literalOrExprNode(text string) Node {
	text = strings.TrimSpace(text)
	if text == "null" || text == "undefined" {
		return nil
	}
	if len(text) >= 2 && (text[0] == '\'' || text[0] == '"') && text[len(text)-1] == text[0] {
		return &Text{Value: text[1 : len(text)-1]}
	}
	if strings.HasPrefix(text, "<") {
		if n, ok := sourceparse.ParseJSX(text); ok {
			if node := nodeFromJSX(n); node != nil {
				return node
			}
		}
		if el, ok := parseSimpleInlineElement(text); ok {
			return el
		}
	}
	return &Expression{Expr: text}
}

// nodeFromJSX converts a parsed markup node into the same unanchored IR
// shape literalOrExprNode produces for simple cases, but by walking real
// parsed structure instead of sniffing raw text — so nested attributes,
// events, and child components come through intact. Event-attribute
// detection mirrors lowerer.lowerAttr; expression-valued attributes are
// marked Dynamic without a reactivity check, and no slot ids are minted
// (see literalOrExprNode's doc comment).
func nodeFromJSX(n ast.JSXNode) Node {
	switch v := n.(type) {
	case *ast.JSXText:
		return &Text{Value: normalizeWhitespace(v.Value)}
	case *ast.JSXExprContainer:
		return &Expression{Expr: strings.TrimSpace(v.Expr.Text)}
	case *ast.JSXFragment:
		return &Fragment{Children: childNodesFromJSX(v.Children)}
	case *ast.JSXElement:
		if isComponentTag(v.Tag) {
			out := &Component{Name: v.Tag, Children: childNodesFromJSX(v.Children)}
			for _, a := range v.Attrs {
				out.Props = append(out.Props, componentPropFromAttr(a))
			}
			return out
		}
		out := &Element{Tag: v.Tag}
		for _, a := range v.Attrs {
			if name, handler, ok := eventAttr(a); ok {
				out.Events = append(out.Events, Event{Name: name, Handler: handler})
				continue
			}
			if a.Name == "ref" {
				out.Ref = a.Value
				continue
			}
			out.Attrs = append(out.Attrs, Attr{Name: a.Name, Value: a.Value, Dynamic: a.IsExpr, IsLiteral: !a.IsExpr})
		}
		out.Children = childNodesFromJSX(v.Children)
		return out
	default:
		return nil
	}
}

func childNodesFromJSX(nodes []ast.JSXNode) []Node {
	var out []Node
	for _, c := range nodes {
		if t, ok := c.(*ast.JSXText); ok && strings.TrimSpace(t.Value) == "" {
			continue
		}
		if node := nodeFromJSX(c); node != nil {
			out = append(out, node)
		}
	}
	return out
}

// eventAttr reports whether a is an `onX` event attribute, mirroring
// lowerer.lowerAttr's naming convention (`onClick` → `click`).
func eventAttr(a ast.JSXAttr) (name, handler string, ok bool) {
	if strings.HasPrefix(a.Name, "on") && len(a.Name) > 2 && a.Name[2] >= 'A' && a.Name[2] <= 'Z' {
		return strings.ToLower(a.Name[2:]), a.Value, true
	}
	return "", "", false
}

func componentPropFromAttr(a ast.JSXAttr) ComponentProp {
	if _, handler, ok := eventAttr(a); ok {
		return ComponentProp{Name: a.Name, Value: handler, IsEventHandler: true}
	}
	return ComponentProp{Name: a.Name, Value: a.Value, Dynamic: a.IsExpr, IsLiteral: !a.IsExpr}
}

// parseSimpleInlineElement handles the common `<tag>text or {expr}</tag>`
// and self-closing `<tag/>` shapes that appear as ternary branches in
// practice. Anything nested more deeply stays an opaque Expression instead
// (ternary branches carrying rich markup are not this sub-language's
// common case; full recursive JSX-in-a-string parsing is out of scope for
// a single-pass textual lowering).
func parseSimpleInlineElement(text string) (*Element, bool) {
	if !strings.HasPrefix(text, "<") {
		return nil, false
	}
	end := strings.Index(text, ">")
	if end < 0 {
		return nil, false
	}
	open := text[1:end]
	if strings.HasSuffix(open, "/") {
		tag := strings.TrimSpace(strings.TrimSuffix(open, "/"))
		return &Element{Tag: tag}, true
	}
	tag := strings.TrimSpace(open)
	closeTag := "</" + tag + ">"
	if !strings.HasSuffix(text, closeTag) {
		return nil, false
	}
	inner := text[end+1 : len(text)-len(closeTag)]
	var children []Node
	if strings.HasPrefix(inner, "{") && strings.HasSuffix(inner, "}") {
		children = []Node{&Expression{Expr: inner[1 : len(inner)-1]}}
	} else if inner != "" {
		children = []Node{&Text{Value: inner}}
	}
	return &Element{Tag: tag, Children: children}, true
}
