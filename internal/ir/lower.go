package ir

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"github.com/kfly8/barefootjs-sub004/internal/loc"
)

var booleanAttrs = map[string]bool{
	"checked": true, "disabled": true, "readonly": true, "selected": true,
	"required": true, "hidden": true, "autofocus": true, "autoplay": true,
	"controls": true, "loop": true, "multiple": true, "muted": true,
	"open": true, "novalidate": true,
}

// lowerer holds the per-component state for one Lower call: the monotonic
// slot-id counter (spec §5: "not shared across units") and the
// reactivity index built from the AnalyzerContext.
type lowerer struct {
	ctx       *analyzer.AnalyzerContext
	h         *handler.Handler
	reactive  *reactivityIndex
	slotCount int
}

// Lower implements spec §4.4: AnalyzerContext → IR root, accumulating
// errors into h in the same call as the analyzer (spec §5's shared,
// driver-owned error list).
func Lower(ctx *analyzer.AnalyzerContext, h *handler.Handler) *Root {
	lw := &lowerer{ctx: ctx, h: h, reactive: buildReactivityIndex(ctx)}

	var root Node
	if len(ctx.ConditionalReturns) > 0 {
		root = lw.lowerConditionalChain(ctx.ConditionalReturns, ctx.JSXReturn)
	} else if ctx.JSXReturn != nil {
		root = lw.lowerScopedRoot(ctx.JSXReturn)
	}

	if root != nil {
		propagateLoopSlots(root, "")
		markParentOwnedSlots(root)
	}

	return &Root{ComponentName: ctx.ComponentName, Node: root}
}

func (lw *lowerer) mintSlot() string {
	id := fmt.Sprintf("s%d", lw.slotCount)
	lw.slotCount++
	return id
}

func (lw *lowerer) lowerConditionalChain(crs []analyzer.ConditionalReturn, final ast.JSXNode) Node {
	if len(crs) == 0 {
		if final == nil {
			return nil
		}
		return lw.lowerScopedRoot(final)
	}
	cr := crs[0]
	return &IfStatement{
		Condition:      cr.Condition,
		Consequent:     lw.lowerScopedRoot(cr.JSXReturn),
		Alternate:      lw.lowerConditionalChain(crs[1:], final),
		ScopeVariables: cr.ScopeVariables,
	}
}

// lowerScopedRoot applies the scope-wrapper rules from spec §4.4 to a
// component's own returned markup (as opposed to a nested markup subtree,
// which lowerNode handles without any scope decisions).
func (lw *lowerer) lowerScopedRoot(jsx ast.JSXNode) Node {
	if frag, ok := jsx.(*ast.JSXFragment); ok {
		if transparent, child := transparentFragmentChild(frag); transparent {
			return &Fragment{Transparent: true, Children: []Node{lw.lowerNode(child)}}
		}
		allElements := true
		children := make([]Node, 0, len(frag.Children))
		for _, c := range frag.Children {
			if _, ok := c.(*ast.JSXElement); !ok {
				if t, ok := c.(*ast.JSXText); ok && strings.TrimSpace(t.Value) == "" {
					continue // whitespace-only text between siblings
				}
				allElements = false
			}
			children = append(children, lw.lowerNode(c))
		}
		if allElements && len(children) > 0 {
			for _, c := range children {
				if el, ok := c.(*Element); ok {
					el.NeedsScope = true
				}
			}
			return &Fragment{Children: children}
		}
		return &Fragment{Children: children, NeedsScopeComment: true}
	}

	node := lw.lowerNode(jsx)
	return lw.wrapRootScope(node)
}

// wrapRootScope marks the root element's needsScope, or — when the root
// lowers to a bare Provider with no native element anywhere above it —
// auto-wraps it in a synthetic `display:contents` div per spec §4.4.
func (lw *lowerer) wrapRootScope(node Node) Node {
	switch n := node.(type) {
	case *Element:
		n.NeedsScope = true
		return n
	case *Provider:
		return &Element{
			Tag:        "div",
			Attrs:      []Attr{{Name: "style", Value: "display:contents", IsLiteral: true}},
			Children:   []Node{n},
			NeedsScope: true,
		}
	default:
		return node
	}
}

func transparentFragmentChild(frag *ast.JSXFragment) (bool, ast.JSXNode) {
	var nonText []ast.JSXNode
	for _, c := range frag.Children {
		if t, ok := c.(*ast.JSXText); ok && strings.TrimSpace(t.Value) == "" {
			continue
		}
		nonText = append(nonText, c)
	}
	if len(nonText) != 1 {
		return false, nil
	}
	container, ok := nonText[0].(*ast.JSXExprContainer)
	if !ok {
		return false, nil
	}
	text := strings.TrimSpace(container.Expr.Text)
	if text == "children" || strings.HasSuffix(text, ".children") {
		return true, nonText[0]
	}
	return false, nil
}

// lowerNode lowers any markup subtree without making scope decisions;
// those belong solely to the component's own root (lowerScopedRoot).
func (lw *lowerer) lowerNode(n ast.JSXNode) Node {
	switch v := n.(type) {
	case *ast.JSXText:
		return &Text{Value: normalizeWhitespace(v.Value)}
	case *ast.JSXFragment:
		children := lw.lowerChildren(v.Children)
		return &Fragment{Children: children}
	case *ast.JSXExprContainer:
		return lw.lowerExprContainer(v)
	case *ast.JSXElement:
		return lw.lowerElement(v)
	default:
		return nil
	}
}

func (lw *lowerer) lowerChildren(nodes []ast.JSXNode) []Node {
	out := make([]Node, 0, len(nodes))
	for _, c := range nodes {
		if t, ok := c.(*ast.JSXText); ok && strings.TrimSpace(t.Value) == "" {
			continue
		}
		if lowered := lw.lowerNode(c); lowered != nil {
			out = append(out, lowered)
		}
	}
	return out
}

var clientDirective = regexp.MustCompile(`/\*\s*@client\s*\*/`)

func (lw *lowerer) lowerExprContainer(c *ast.JSXExprContainer) Node {
	raw := c.Expr.Text
	clientOnly := clientDirective.MatchString(raw)
	text := strings.TrimSpace(clientDirective.ReplaceAllString(raw, ""))

	if cond, then, els, ok := splitTernary(text); ok {
		return lw.lowerConditional(cond, then, els, clientOnly)
	}
	if cond, then, ok := splitLogicalAnd(text); ok {
		return lw.lowerConditional(cond, then, "null", clientOnly)
	}
	if mm, ok := matchMapCall(text); ok {
		return lw.lowerLoop(mm, clientOnly)
	}

	reactive := lw.reactive.isReactiveText(text)
	expr := &Expression{Expr: text, Reactive: reactive, ClientOnly: clientOnly, PropRefs: lw.reactive.propRefs(text)}
	if reactive || clientOnly {
		expr.SlotID = lw.mintSlot()
	}
	return expr
}

func (lw *lowerer) lowerConditional(cond, then, els string, clientOnly bool) Node {
	reactive := lw.reactive.isReactiveText(cond)
	c := &Conditional{
		Condition:  cond,
		WhenTrue:   literalOrExprNode(then),
		WhenFalse:  literalOrExprNode(els),
		Reactive:   reactive,
		ClientOnly: clientOnly,
	}
	if reactive || clientOnly {
		c.SlotID = lw.mintSlot()
	}
	return c
}

func (lw *lowerer) lowerLoop(mm mapMatch, clientOnly bool) Node {
	array, pred, comp, order, extracted := peelChain(mm.Source)
	if !extracted {
		array = mm.Source
		hadChain := filterOnly.MatchString(mm.Source) || sortOnly.MatchString(mm.Source) ||
			filterThenSort.MatchString(mm.Source) || sortThenFilter.MatchString(mm.Source)
		if hadChain && !clientOnly {
			lw.h.AppendError(loc.NewErrorWithSuggestion(loc.UnsupportedJsxPattern,
				"filter/sort chain in loop source could not be lowered to a structured predicate/comparator",
				"add /* @client */ to render this loop entirely on the client",
				loc.Loc{}, 0))
		}
	}

	isStatic := !lw.reactive.isReactiveText(array)
	body := literalOrExprNode(mm.Body)
	var children []Node
	var childComponent string
	if el, ok := body.(*Element); ok && len(el.Children) == 1 {
		if comp, ok := el.Children[0].(*Component); ok {
			childComponent = comp.Name
		}
	}
	if comp, ok := body.(*Component); ok {
		childComponent = comp.Name
	}
	if body != nil {
		children = []Node{body}
	}

	loop := &Loop{
		Array:           array,
		Param:           mm.Param,
		Index:           mm.Index,
		Children:        children,
		IsStaticArray:   isStatic,
		ChildComponent:  childComponent,
		FilterPredicate: pred,
		SortComparator:  comp,
		ChainOrder:      order,
		ClientOnly:      clientOnly,
	}
	return loop
}

var providerTag = regexp.MustCompile(`^(` + identPattern + `)\.Provider$`)

func (lw *lowerer) lowerElement(el *ast.JSXElement) Node {
	if m := providerTag.FindStringSubmatch(el.Tag); m != nil {
		valueProp := ""
		for _, a := range el.Attrs {
			if a.Name == "value" {
				valueProp = a.Value
			}
		}
		if valueProp == "" {
			lw.h.AppendError(loc.NewError(loc.MissingRequiredProp,
				el.Tag+" is missing its required value prop", loc.Loc{}, 0))
		}
		return &Provider{ContextName: m[1], ValueProp: valueProp, Children: lw.lowerChildren(el.Children)}
	}

	if isComponentTag(el.Tag) {
		return lw.lowerComponent(el)
	}

	out := &Element{Tag: el.Tag}
	hasEvent := false
	hasReactiveAttr := false
	for _, a := range el.Attrs {
		attr, isEvent, reactive := lw.lowerAttr(a)
		if isEvent {
			out.Events = append(out.Events, Event{Name: attr.Name, Handler: attr.Value})
			hasEvent = true
			continue
		}
		if a.Name == "ref" {
			out.Ref = a.Value
			continue
		}
		out.Attrs = append(out.Attrs, attr)
		if reactive {
			hasReactiveAttr = true
		}
	}

	out.Children = lw.lowerChildren(el.Children)
	dynamicChild := false
	for _, c := range out.Children {
		switch c.(type) {
		case *Expression, *Conditional, *Loop, *Component:
			dynamicChild = true
		}
	}

	if hasEvent || out.Ref != "" || hasReactiveAttr || dynamicChild {
		out.SlotID = lw.mintSlot()
	}
	return out
}

func isComponentTag(tag string) bool {
	return len(tag) > 0 && tag[0] >= 'A' && tag[0] <= 'Z'
}

var presenceOrUndefined = regexp.MustCompile(`^(.*)\|\|\s*undefined$`)

func (lw *lowerer) lowerAttr(a ast.JSXAttr) (Attr, bool, bool) {
	name := a.Name
	if strings.HasPrefix(name, "on") && len(name) > 2 && name[2] >= 'A' && name[2] <= 'Z' {
		eventName := strings.ToLower(name[2:])
		return Attr{Name: eventName, Value: a.Value}, true, false
	}
	if !a.IsExpr {
		return Attr{Name: name, Value: a.Value, IsLiteral: true}, false, false
	}
	text := strings.TrimSpace(a.Value)
	reactive := lw.reactive.isReactiveText(text)
	if m := presenceOrUndefined.FindStringSubmatch(text); m != nil {
		return Attr{Name: name, Value: strings.TrimSpace(m[1]), Dynamic: true, PresenceOrUndefined: true}, false, reactive
	}
	return Attr{Name: name, Value: text, Dynamic: true}, false, reactive
}

func (lw *lowerer) lowerComponent(el *ast.JSXElement) Node {
	comp := &Component{Name: el.Tag, SlotID: lw.mintSlot()}
	for _, a := range el.Attrs {
		if a.IsSpread {
			continue
		}
		isEvent := strings.HasPrefix(a.Name, "on") && len(a.Name) > 2 && a.Name[2] >= 'A' && a.Name[2] <= 'Z'
		comp.Props = append(comp.Props, ComponentProp{
			Name:           a.Name,
			Value:          a.Value,
			Dynamic:        a.IsExpr && !isEvent,
			IsLiteral:      !a.IsExpr,
			IsEventHandler: isEvent,
		})
	}
	comp.Children = lw.lowerChildren(el.Children)
	return comp
}

var wsRun = regexp.MustCompile(`\s+`)

func normalizeWhitespace(s string) string {
	return wsRun.ReplaceAllString(s, " ")
}
