package clientjs

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"github.com/kfly8/barefootjs-sub004/internal/typestrip"
)

// branchValue renders one side of a Conditional (spec §4.6.k): a JS object
// literal carrying an HTML-literal `template` for the branch's IR and a
// `bindEvents(branchScope)` routine that resolves event-bearing elements
// inside the swapped subtree by data-anchor and attaches their handlers.
// A nil branch (the synthetic "no else" side of a logical-AND) renders the
// insert runtime's null marker instead.
func branchValue(condSlotID string, n ir.Node) string {
	if n == nil {
		return "null"
	}
	var html strings.Builder
	renderBranchHTML(&html, n, condSlotID)

	var bind strings.Builder
	counter := 0
	writeBranchBindEvents(&bind, n, &counter)

	return fmt.Sprintf("{ template: `%s`, bindEvents: (branchScope) => {\n%s} }", html.String(), indent(bind.String()))
}

// renderBranchHTML renders n as a client-side HTML template literal. Every
// event-bearing element gets a `data-bf-cond="<condSlotID>"`
// anchor so bindEvents (and the runtime's own re-lookup after a swap) can
// find it inside the freshly-inserted branch subtree.
func renderBranchHTML(b *strings.Builder, n ir.Node, condSlotID string) {
	switch v := n.(type) {
	case *ir.Element:
		b.WriteString("<")
		b.WriteString(v.Tag)
		for _, a := range v.Attrs {
			writeBranchAttr(b, a)
		}
		if len(v.Events) > 0 {
			fmt.Fprintf(b, ` data-bf-cond="%s"`, condSlotID)
		}
		b.WriteString(">")
		for _, c := range v.Children {
			renderBranchHTML(b, c, condSlotID)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteString(">")
	case *ir.Text:
		b.WriteString(v.Value)
	case *ir.Expression:
		fmt.Fprintf(b, "${String(%s)}", v.Expr)
	case *ir.Fragment:
		for _, c := range v.Children {
			renderBranchHTML(b, c, condSlotID)
		}
	default:
		// Nested conditionals/loops/components inside a branch are rare in
		// practice (spec §4.6 does not define deep nesting here); fall back
		// to an empty placeholder rather than guessing at markup.
	}
}

// renderLoopItemHTML renders one loop-body instance as an HTML template
// literal carrying a `data-bf-key` anchor on its root element — the key
// the delegated event listener (spec §4.6.l) and the reconciler's own
// keyed diffing both rely on to find this item's DOM node later. When the
// body is exactly one element, the attribute is injected onto it directly;
// a body with multiple top-level siblings (rare in practice) is wrapped in
// a single tracking element instead, since reconcileList needs one root
// node per keyed item.
func renderLoopItemHTML(children []ir.Node, slotID string) string {
	if len(children) == 1 {
		if el, ok := children[0].(*ir.Element); ok {
			var b strings.Builder
			renderBranchHTMLWithKey(&b, el, slotID, "${key}")
			return b.String()
		}
	}
	var b strings.Builder
	b.WriteString(`<div data-bf-key="${key}">`)
	for _, c := range children {
		renderBranchHTML(&b, c, slotID)
	}
	b.WriteString("</div>")
	return b.String()
}

// renderBranchHTMLWithKey is renderBranchHTML for a single root element,
// with an extra `data-bf-key` attribute spliced in alongside its other
// attributes and anchors.
func renderBranchHTMLWithKey(b *strings.Builder, el *ir.Element, slotID, key string) {
	b.WriteString("<")
	b.WriteString(el.Tag)
	fmt.Fprintf(b, ` data-bf-key="%s"`, key)
	for _, a := range el.Attrs {
		writeBranchAttr(b, a)
	}
	if len(el.Events) > 0 {
		fmt.Fprintf(b, ` data-bf-cond="%s"`, slotID)
	}
	b.WriteString(">")
	for _, c := range el.Children {
		renderBranchHTML(b, c, slotID)
	}
	b.WriteString("</")
	b.WriteString(el.Tag)
	b.WriteString(">")
}

func writeBranchAttr(b *strings.Builder, a ir.Attr) {
	if a.Value == "" && !a.Dynamic {
		return
	}
	if a.Dynamic {
		fmt.Fprintf(b, ` %s="${String(%s)}"`, a.Name, a.Value)
		return
	}
	fmt.Fprintf(b, ` %s="%s"`, a.Name, a.Value)
}

// renderStaticTemplate renders root as a prop-driven HTML template-literal
// body for spec §4.6.4's `registerTemplate('<Name>', (props) => <htmlTemplate>)`.
// Only called when isStaticallyTemplatable(root) holds: no loops, no child
// components, no reactive expressions (a prop reference counts as reactive,
// like a signal or memo call) — so no interpolation reads a signal, memo or
// prop, and the result never needs a slot anchor at all.
func renderStaticTemplate(ctx *analyzer.AnalyzerContext, root ir.Node) string {
	var b strings.Builder
	renderStaticHTML(&b, root)
	out := b.String()
	if ctx.PropsObjectName == "" {
		// Destructured form: source expressions use bare identifiers
		// (`open`), but this closure only binds `props` — rewrite each
		// destructured prop name to `props.<name>` (object-form components
		// already read `props.<name>` directly, so skip rewriting for those).
		for _, p := range ctx.PropsParams {
			if p.Name == "" || p.Name == "children" {
				continue
			}
			out = regexp.MustCompile(`\b`+regexp.QuoteMeta(p.Name)+`\b`).ReplaceAllString(out, "props."+p.Name)
		}
	}
	return "`" + out + "`"
}

// renderStaticHTML is renderBranchHTML without the data-bf-cond anchoring:
// a statically-templatable component (by construction) has no events worth
// re-binding from this path, since registerTemplate's output feeds a plain
// props-only render rather than a hydration anchor.
func renderStaticHTML(b *strings.Builder, n ir.Node) {
	switch v := n.(type) {
	case *ir.Element:
		b.WriteString("<")
		b.WriteString(v.Tag)
		for _, a := range v.Attrs {
			writeBranchAttr(b, a)
		}
		b.WriteString(">")
		for _, c := range v.Children {
			renderStaticHTML(b, c)
		}
		b.WriteString("</")
		b.WriteString(v.Tag)
		b.WriteString(">")
	case *ir.Text:
		b.WriteString(v.Value)
	case *ir.Expression:
		fmt.Fprintf(b, "${String(%s)}", v.Expr)
	case *ir.Fragment:
		for _, c := range v.Children {
			renderStaticHTML(b, c)
		}
	}
}

// writeBranchBindEvents emits, for every event-bearing element in n, a
// lookup of that element inside branchScope by its data-bf-cond anchor and
// an addEventListener call for each of its events. counter numbers the
// event-bearing elements in traversal order so the emitted variable names
// are stable across runs (spec §4.6's determinism requirement), never
// derived from pointer identity.
func writeBranchBindEvents(b *strings.Builder, n ir.Node, counter *int) {
	switch v := n.(type) {
	case *ir.Element:
		if len(v.Events) > 0 {
			ref := fmt.Sprintf("__el%d", *counter)
			*counter++
			fmt.Fprintf(b, "const %s = branchScope.querySelectorAll('[data-bf-cond]')[%s];\n", ref, ref[len("__el"):])
			for _, ev := range v.Events {
				handler := ev.Handler
				if strings.Contains(handler, "=>") && !strings.Contains(handler, "{") {
					parts := strings.SplitN(handler, "=>", 2)
					handler = strings.TrimSpace(parts[0]) + " => { " + strings.TrimSpace(parts[1]) + "; }"
				}
				fmt.Fprintf(b, "if (%s) %s.addEventListener('%s', %s);\n", ref, ref, ev.Name, typestrip.Strip(handler))
			}
		}
		for _, c := range v.Children {
			writeBranchBindEvents(b, c, counter)
		}
	case *ir.Fragment:
		for _, c := range v.Children {
			writeBranchBindEvents(b, c, counter)
		}
	}
}
