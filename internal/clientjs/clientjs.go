// Package clientjs implements spec §4.6: generating the single ES-module
// client hydration script for a component from its AnalyzerContext and
// lowered IR. Emission order is fixed and deterministic — two runs over
// identical input produce byte-identical output — because it follows the
// IR's own walk order for slot ids, which is source-appearance order.
package clientjs

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"golang.org/x/net/html/atom"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"github.com/kfly8/barefootjs-sub004/internal/typestrip"
)

var booleanAttrNames = map[string]bool{
	"checked": true, "disabled": true, "readonly": true, "selected": true,
	"required": true, "hidden": true, "autofocus": true, "autoplay": true,
	"controls": true, "loop": true, "muted": true, "open": true,
	"multiple": true, "novalidate": true,
}

// IsBooleanAttr reports whether name is one of the boolean attributes
// spec §4.6.j lists, using golang.org/x/net/html/atom for the canonical
// tag/attribute vocabulary the runtime already shares with the parser.
func IsBooleanAttr(name string) bool {
	if booleanAttrNames[name] {
		return true
	}
	return atom.Lookup([]byte(name)) != 0 && booleanAttrNames[strings.ToLower(name)]
}

// Generate returns the client script for root, or "" if the component has
// no client need at all (spec §4.6's client-need predicate).
func Generate(ctx *analyzer.AnalyzerContext, root *ir.Root) string {
	if root == nil || root.Node == nil {
		return ""
	}
	if !hasClientNeed(ctx, root.Node) {
		return ""
	}

	g := &generator{ctx: ctx, root: root}
	g.anchors = collectAnchors(root.Node)

	var body strings.Builder
	g.writeScopeLookup(&body)
	g.writePropCaptures(&body)
	g.writeLocalConstants(&body)
	g.writeSignals(&body)
	g.writeMemos(&body)
	g.writeLocalFunctions(&body)
	g.writePropHandlerCaptures(&body)
	g.writeAnchorLookups(&body)
	g.writeProviders(&body)
	g.writeDynamicTextEffects(&body)
	g.writeAttributeEffects(&body)
	g.writeConditionals(&body)
	g.writeLoops(&body)
	g.writeEventHandlers(&body)
	g.writeRefs(&body)
	g.writeChildInits(&body)
	g.writeUserEffects(&body)

	var out strings.Builder
	g.writeImports(&out)
	out.WriteString("\nfunction init")
	out.WriteString(ctx.ComponentName)
	out.WriteString("(__instanceIndex, __parentScope, props = {}) {\n")
	out.WriteString(indent(body.String()))
	out.WriteString("}\n\n")
	fmt.Fprintf(&out, "registerComponent('%s', init%s);\n", ctx.ComponentName, ctx.ComponentName)
	if isStaticallyTemplatable(root.Node) {
		fmt.Fprintf(&out, "registerTemplate('%s', (props) => %s);\n", ctx.ComponentName, renderStaticTemplate(ctx, root.Node))
	}
	fmt.Fprintf(&out, "hydrate('%s', (props, idx, scope) => init%s(idx, scope, props));\n", ctx.ComponentName, ctx.ComponentName)

	return out.String()
}

type generator struct {
	ctx     *analyzer.AnalyzerContext
	root    *ir.Root
	anchors []anchor
	used    map[string]bool
}

func indent(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		if l == "" {
			continue
		}
		lines[i] = "  " + l
	}
	return strings.Join(lines, "\n") + "\n"
}

func (g *generator) writeImports(out *strings.Builder) {
	used := map[string]bool{
		"findScope": true, "registerComponent": true, "hydrate": true,
	}
	if len(g.ctx.Signals) > 0 {
		used["createSignal"] = true
	}
	if len(g.ctx.Memos) > 0 {
		used["createMemo"] = true
	}
	if len(g.ctx.Effects) > 0 || hasControlledProp(g.ctx) {
		used["createEffect"] = true
	}
	for _, a := range g.anchors {
		switch a.Kind {
		case "element", "expression", "conditional":
			if !strings.HasPrefix(a.ID, "^") {
				used["find"] = true
			} else {
				used["$"] = true
			}
		case "component":
			used["find"] = true
		}
	}
	hasConditional := false
	hasLoop := false
	hasComponent := false
	walkIR(g.root.Node, func(n ir.Node) {
		switch v := n.(type) {
		case *ir.Conditional:
			hasConditional = true
		case *ir.Loop:
			if v.IsStaticArray {
				if v.ChildComponent != "" {
					used["initChild"] = true
				}
			} else {
				hasLoop = true
			}
		case *ir.Component:
			hasComponent = true
		case *ir.Provider:
			used["provideContext"] = true
		}
	})
	if hasConditional {
		used["insert"] = true
	}
	if hasLoop {
		used["reconcileList"] = true
		used["createComponent"] = true
	}
	if hasComponent {
		used["initChild"] = true
	}
	if isStaticallyTemplatable(g.root.Node) {
		used["registerTemplate"] = true
	}

	names := make([]string, 0, len(used))
	for n := range used {
		names = append(names, n)
	}
	sort.Strings(names)
	out.WriteString("import { " + strings.Join(names, ", ") + " } from 'barefootjs/runtime';\n")
}

func hasControlledProp(ctx *analyzer.AnalyzerContext) bool {
	for _, s := range ctx.Signals {
		if s.Controlled != nil {
			return true
		}
	}
	return false
}

func (g *generator) writeScopeLookup(b *strings.Builder) {
	fmt.Fprintf(b, "const __scope = findScope('%s', __instanceIndex, __parentScope);\n", g.ctx.ComponentName)
	b.WriteString("if (!__scope) return;\n")
}

func defaultForProp(p analyzer.PropParam, usedAsLoopArray, usedAsPropertyAccess, usedAsGuard bool) string {
	if p.HasDefault {
		return " ?? " + p.DefaultValue
	}
	if usedAsLoopArray {
		return " ?? []"
	}
	if usedAsPropertyAccess && !usedAsGuard {
		return " ?? {}"
	}
	return ""
}

func (g *generator) writePropCaptures(b *strings.Builder) {
	for _, p := range g.ctx.PropsParams {
		if p.Name == "children" {
			continue
		}
		usedAsLoopArray := false
		usedAsPropertyAccess := false
		usedAsGuard := false
		propAccessPattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(p.Name) + `\.`)
		walkIR(g.root.Node, func(n ir.Node) {
			switch v := n.(type) {
			case *ir.Loop:
				if strings.Contains(v.Array, p.Name) {
					usedAsLoopArray = true
				}
				if propAccessPattern.MatchString(v.Array) {
					usedAsPropertyAccess = true
				}
			case *ir.Expression:
				if propAccessPattern.MatchString(v.Expr) {
					usedAsPropertyAccess = true
				}
			case *ir.Conditional:
				cond := strings.TrimSpace(v.Condition)
				if cond == p.Name || cond == "!"+p.Name {
					usedAsGuard = true
				}
				if propAccessPattern.MatchString(v.Condition) {
					usedAsPropertyAccess = true
				}
			case *ir.Element:
				for _, a := range v.Attrs {
					if a.Dynamic && propAccessPattern.MatchString(a.Value) {
						usedAsPropertyAccess = true
					}
				}
			}
		})
		fmt.Fprintf(b, "const %s = props.%s%s;\n", p.Name, p.Name,
			defaultForProp(p, usedAsLoopArray, usedAsPropertyAccess, usedAsGuard))
	}
}

func (g *generator) writeLocalConstants(b *strings.Builder) {
	for _, c := range g.ctx.LocalConstants {
		fmt.Fprintf(b, "const %s = %s;\n", c.Name, typestrip.Strip(c.Value))
	}
}

func (g *generator) writeSignals(b *strings.Builder) {
	for _, s := range g.ctx.Signals {
		fmt.Fprintf(b, "const [%s, %s] = createSignal(%s);\n", s.Getter, s.Setter, typestrip.Strip(s.InitialValue))
		if s.Controlled != nil {
			fmt.Fprintf(b, "// sync controlled prop '%s'\n", s.Controlled.PropName)
			fmt.Fprintf(b, "createEffect(() => { %s(props.%s ?? %s); });\n", s.Setter, s.Controlled.PropName, s.Controlled.Default)
		}
	}
}

func (g *generator) writeMemos(b *strings.Builder) {
	for _, m := range g.ctx.Memos {
		fmt.Fprintf(b, "const %s = createMemo(() => %s);\n", m.Name, typestrip.Strip(m.Computation))
	}
}

// writeLocalFunctions implements spec §4.6.2 step f: a component's own
// top-level function declarations (candidates for event handlers that
// reference local signals/constants by name rather than through props) are
// re-emitted verbatim into the init function, the same way writeUserEffects
// re-emits effect/mount bodies it treats as opaque text.
func (g *generator) writeLocalFunctions(b *strings.Builder) {
	for _, fn := range g.ctx.LocalFunctions {
		fmt.Fprintf(b, "function %s(%s) {\n", fn.Name, strings.Join(fn.Params, ", "))
		if body := typestrip.Strip(fn.Body); body != "" {
			b.WriteString(indent(body))
		}
		b.WriteString("}\n")
	}
}

var propHandlerNameRe = regexp.MustCompile(`^on[A-Z][A-Za-z0-9_$]*$`)

// writePropHandlerCaptures implements spec §4.6.2 step g: an event binding
// that names a handler matching the `onFoo` convention but isn't resolved by
// a local function, local constant, signal, or an already-destructured prop
// is assumed to be an undeclared prop reference, so its value is captured
// once as `const onFoo = props.onFoo;` before anything downstream reads it.
func (g *generator) writePropHandlerCaptures(b *strings.Builder) {
	known := map[string]bool{}
	for _, fn := range g.ctx.LocalFunctions {
		known[fn.Name] = true
	}
	for _, c := range g.ctx.LocalConstants {
		known[c.Name] = true
	}
	for _, s := range g.ctx.Signals {
		known[s.Getter] = true
		known[s.Setter] = true
	}
	for _, p := range g.ctx.PropsParams {
		known[p.Name] = true
	}
	captured := map[string]bool{}
	walkIR(g.root.Node, func(n ir.Node) {
		el, ok := n.(*ir.Element)
		if !ok {
			return
		}
		for _, ev := range el.Events {
			name := strings.TrimSpace(ev.Handler)
			if !propHandlerNameRe.MatchString(name) || known[name] || captured[name] {
				continue
			}
			captured[name] = true
			fmt.Fprintf(b, "const %s = props.%s;\n", name, name)
		}
	})
}

func (g *generator) writeAnchorLookups(b *strings.Builder) {
	for _, a := range g.anchors {
		switch {
		case strings.HasPrefix(a.ID, "^"):
			fmt.Fprintf(b, "const _%s = $(__scope, '%s');\n", strings.TrimPrefix(a.ID, "^"), a.ID)
		case a.Kind == "component":
			fmt.Fprintf(b, "const _%s = find(__scope, '[data-bf-scope$=\"_%s\"]');\n", a.ID, a.ID)
		default:
			fmt.Fprintf(b, "const _%s = find(__scope, '[data-bf=\"%s\"]');\n", a.ID, a.ID)
		}
	}
}

func slotVar(id string) string {
	return "_" + strings.TrimPrefix(id, "^")
}

// writeProviders implements the provideContext half of spec §4.4/§8
// scenario 6: every Provider node supplies its value to descendants via
// the runtime's context mechanism, scoped to this component instance.
func (g *generator) writeProviders(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		p, ok := n.(*ir.Provider)
		if !ok {
			return
		}
		fmt.Fprintf(b, "provideContext(__scope, %s, %s);\n", p.ContextName, p.ValueProp)
	})
}

func (g *generator) writeDynamicTextEffects(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		e, ok := n.(*ir.Expression)
		if !ok || e.SlotID == "" {
			return
		}
		fmt.Fprintf(b, "createEffect(() => { %s.textContent = String(%s); });\n", slotVar(e.SlotID), e.Expr)
	})
}

func (g *generator) writeAttributeEffects(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		el, ok := n.(*ir.Element)
		if !ok || el.SlotID == "" {
			return
		}
		v := slotVar(el.SlotID)
		for _, a := range el.Attrs {
			if !a.Dynamic {
				continue
			}
			switch {
			case a.Name == "value":
				fmt.Fprintf(b, "createEffect(() => { const __v = String(%s); if (%s.value !== __v) %s.value = __v; });\n", a.Value, v, v)
			case IsBooleanAttr(a.Name):
				fmt.Fprintf(b, "createEffect(() => { %s.%s = !!(%s); });\n", v, a.Name, a.Value)
			case a.PresenceOrUndefined:
				fmt.Fprintf(b, "createEffect(() => { const __v = %s; if (__v !== undefined) %s.setAttribute('%s', String(__v)); else %s.removeAttribute('%s'); });\n", a.Value, v, a.Name, v, a.Name)
			default:
				fmt.Fprintf(b, "createEffect(() => { %s.setAttribute('%s', String(%s)); });\n", v, a.Name, a.Value)
			}
		}
	})
}

func (g *generator) writeConditionals(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		c, ok := n.(*ir.Conditional)
		if !ok || c.SlotID == "" {
			return
		}
		fmt.Fprintf(b, "insert(__scope, '%s', () => (%s), %s, %s);\n",
			c.SlotID, c.Condition,
			branchValue(c.SlotID, c.WhenTrue), branchValue(c.SlotID, c.WhenFalse))
	})
}

func (g *generator) writeLoops(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		l, ok := n.(*ir.Loop)
		if !ok || l.SlotID == "" {
			return
		}
		v := slotVar(l.SlotID)
		if l.IsStaticArray {
			if l.ChildComponent != "" {
				param := l.Param
				if param == "" {
					param = "item"
				}
				fmt.Fprintf(b, "for (const %s of %s) {\n", param, l.Array)
				fmt.Fprintf(b, "  const __scopeEl = %s.querySelector('[data-bf-scope-id=\"' + %s.scopeID + '\"]');\n", v, param)
				fmt.Fprintf(b, "  if (__scopeEl) initChild('%s', __scopeEl, %s);\n", l.ChildComponent, param)
				b.WriteString("}\n")
			}
			return
		}
		param := l.Param
		if param == "" {
			param = "item"
		}
		keyExpr := "i"
		if l.Key != "" {
			keyExpr = l.Key
		}
		keyFn := fmt.Sprintf("(%s, i) => %s", param, keyExpr)
		var renderer string
		if l.ChildComponent != "" {
			renderer = fmt.Sprintf("(%s, key) => createComponent('%s', %s, key)", param, l.ChildComponent, param)
		} else {
			renderer = fmt.Sprintf("(%s, key) => `%s`", param, renderLoopItemHTML(l.Children, l.SlotID))
		}
		fmt.Fprintf(b, "createEffect(() => { reconcileList(%s, %s, %s, %s); });\n", v, l.Array, keyFn, renderer)
		writeLoopEventDelegation(b, l, v, param, keyExpr)
	})
}

// writeLoopEventDelegation implements spec §4.6.l's delegated-listener rule:
// when the loop body has child elements with events, a single `addEventListener`
// on the loop's own slot element walks upward to the keyed list item,
// resolves the item in the source array by key (falling back to its index
// when the loop has no explicit key), and invokes the matching handler.
// One delegated listener is emitted per distinct event name found in the
// body; the first handler bound to that event name in source order is the
// one invoked (the common case of one event-bearing element per item).
func writeLoopEventDelegation(b *strings.Builder, l *ir.Loop, loopVar, param, keyExpr string) {
	seen := map[string]string{}
	var order []string
	for _, c := range l.Children {
		walkIR(c, func(n ir.Node) {
			if el, ok := n.(*ir.Element); !ok {
				return
			} else {
				for _, ev := range el.Events {
					if _, ok := seen[ev.Name]; !ok {
						seen[ev.Name] = ev.Handler
						order = append(order, ev.Name)
					}
				}
			}
		})
	}
	for _, name := range order {
		handler := seen[name]
		fmt.Fprintf(b, "%s.addEventListener('%s', (e) => {\n", loopVar, name)
		fmt.Fprintf(b, "  const __li = e.target.closest('[data-bf-key]');\n")
		fmt.Fprintf(b, "  if (!__li) return;\n")
		fmt.Fprintf(b, "  const __key = __li.getAttribute('data-bf-key');\n")
		fmt.Fprintf(b, "  const __idx = %s.findIndex((%s, i) => String(%s) === __key);\n", l.Array, param, keyExpr)
		fmt.Fprintf(b, "  if (__idx < 0) return;\n")
		fmt.Fprintf(b, "  const %s = %s[__idx];\n", param, l.Array)
		fmt.Fprintf(b, "  (%s)(e);\n", typestrip.Strip(handler))
		b.WriteString("});\n")
	}
}

// writeRefs implements the ref-callback half of spec §4.6.o: every element
// carrying a `ref={fn}` attribute gets its resolved DOM node handed to that
// callback once, right after the anchor's own lookup is in scope.
func (g *generator) writeRefs(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		el, ok := n.(*ir.Element)
		if !ok || el.Ref == "" {
			return
		}
		fmt.Fprintf(b, "(%s)(%s);\n", typestrip.Strip(el.Ref), slotVar(el.SlotID))
	})
}

// writeUserEffects implements the user-effect half of spec §4.6.o: the
// component's own top-level `createEffect(fn)` and `onMount(fn)` calls
// (collected into AnalyzerContext.Effects/OnMounts by the analyzer, spec
// §4.1, as the callback argument's own source text) are re-emitted rather
// than dropped. `createEffect` re-subscribes the callback as-is; `onMount`
// has no runtime import of its own (spec §5's import list omits it), and
// mount-time code only needs to run once, after hydration has already
// resolved every anchor above it, so its callback is simply invoked
// immediately rather than wrapped in a reactive subscription.
func (g *generator) writeUserEffects(b *strings.Builder) {
	for _, body := range g.ctx.Effects {
		fmt.Fprintf(b, "createEffect(%s);\n", typestrip.Strip(body))
	}
	for _, body := range g.ctx.OnMounts {
		fmt.Fprintf(b, "(%s)();\n", typestrip.Strip(body))
	}
}

func (g *generator) writeEventHandlers(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		el, ok := n.(*ir.Element)
		if !ok || len(el.Events) == 0 {
			return
		}
		v := slotVar(el.SlotID)
		for _, ev := range el.Events {
			handler := ev.Handler
			if strings.Contains(handler, "=>") && !strings.Contains(handler, "{") {
				parts := strings.SplitN(handler, "=>", 2)
				handler = strings.TrimSpace(parts[0]) + " => { " + strings.TrimSpace(parts[1]) + "; }"
			}
			fmt.Fprintf(b, "%s.addEventListener('%s', %s);\n", v, ev.Name, typestrip.Strip(handler))
		}
	})
}

func (g *generator) writeChildInits(b *strings.Builder) {
	walkIR(g.root.Node, func(n ir.Node) {
		c, ok := n.(*ir.Component)
		if !ok {
			return
		}
		var props strings.Builder
		props.WriteString("{ ")
		for i, p := range c.Props {
			if i > 0 {
				props.WriteString(", ")
			}
			switch {
			case p.IsEventHandler:
				fmt.Fprintf(&props, "%s: %s", p.Name, p.Value)
			case p.Dynamic:
				fmt.Fprintf(&props, "get %s() { return %s; }", p.Name, p.Value)
			case p.IsLiteral:
				fmt.Fprintf(&props, "%s: %q", p.Name, p.Value)
			default:
				fmt.Fprintf(&props, "%s: %s", p.Name, p.Value)
			}
		}
		props.WriteString(" }")
		fmt.Fprintf(b, "initChild('%s', %s, %s);\n", c.Name, slotVar(c.SlotID), props.String())
	})
}

// isStaticallyTemplatable implements spec §4.6.4: no loops, no child
// components, and no interpolated Expression marked reactive. Reactivity
// covers prop references as well as signal and memo calls, so an
// interpolated prop reference also makes the root non-templatable.
func isStaticallyTemplatable(root ir.Node) bool {
	static := true
	walkIR(root, func(n ir.Node) {
		switch v := n.(type) {
		case *ir.Loop, *ir.Component:
			static = false
		case *ir.Expression:
			if v.Reactive {
				static = false
			}
		}
	})
	return static
}

func hasClientNeed(ctx *analyzer.AnalyzerContext, root ir.Node) bool {
	if len(ctx.Signals) > 0 || len(ctx.Memos) > 0 || len(ctx.Effects) > 0 || len(ctx.OnMounts) > 0 {
		return true
	}
	need := false
	walkIR(root, func(n ir.Node) {
		switch v := n.(type) {
		case *ir.Element:
			if len(v.Events) > 0 || v.Ref != "" {
				need = true
			}
			for _, a := range v.Attrs {
				if a.Dynamic {
					need = true
				}
			}
		case *ir.Expression:
			if v.Reactive || v.ClientOnly {
				need = true
			}
		case *ir.Conditional:
			if v.Reactive || v.ClientOnly {
				need = true
			}
		case *ir.Loop:
			need = true
		case *ir.Component:
			need = true
		case *ir.Provider:
			need = true
		}
	})
	return need
}

type anchor struct {
	ID   string
	Kind string
}

// collectAnchors walks the IR in source order and records, for each node
// that mints or adopts its own slot id, the var it needs declared in
// section h. Loops are intentionally excluded: they either adopt a parent
// element's already-declared slot var, or mint none at all (spec §4.4).
func collectAnchors(root ir.Node) []anchor {
	var out []anchor
	seen := map[string]bool{}
	walkIR(root, func(n ir.Node) {
		var id, kind string
		switch v := n.(type) {
		case *ir.Element:
			id, kind = v.SlotID, "element"
		case *ir.Expression:
			id, kind = v.SlotID, "expression"
		case *ir.Conditional:
			id, kind = v.SlotID, "conditional"
		case *ir.Component:
			id, kind = v.SlotID, "component"
		}
		if id == "" || seen[id] {
			return
		}
		seen[id] = true
		out = append(out, anchor{ID: id, Kind: kind})
	})
	return out
}

// walkIR visits every node in root in deterministic source order.
func walkIR(n ir.Node, visit func(ir.Node)) {
	if n == nil {
		return
	}
	visit(n)
	switch v := n.(type) {
	case *ir.Element:
		for _, c := range v.Children {
			walkIR(c, visit)
		}
	case *ir.Fragment:
		for _, c := range v.Children {
			walkIR(c, visit)
		}
	case *ir.Conditional:
		walkIR(v.WhenTrue, visit)
		walkIR(v.WhenFalse, visit)
	case *ir.Loop:
		for _, c := range v.Children {
			walkIR(c, visit)
		}
	case *ir.Component:
		for _, c := range v.Children {
			walkIR(c, visit)
		}
	case *ir.Provider:
		for _, c := range v.Children {
			walkIR(c, visit)
		}
	case *ir.IfStatement:
		walkIR(v.Consequent, visit)
		walkIR(v.Alternate, visit)
	}
}
