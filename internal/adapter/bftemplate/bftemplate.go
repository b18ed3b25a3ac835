// Package bftemplate is the reference TemplateAdapter (spec §6.2): it turns
// a component's IR into Go html/template source text meant to be parsed
// with the real BarefootJS runtime's FuncMap (see the bf package this
// adapter is grounded on) and executed against a props struct at request
// time. The core compiler treats TemplateAdapter as an opaque collaborator;
// this package is one concrete, swappable implementation of it, not a core
// concern, so it leans on html/template the same way the runtime itself
// does rather than introducing a heavier templating stack. It only ever
// emits references to helpers that the grounding runtime's FuncMap (bf_add,
// bf_sub, bf_at, …) or Go's own template builtins (if, range, eq, not, …)
// already provide — never an invented function name the runtime wouldn't
// recognize.
package bftemplate

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/compiler"
	"github.com/kfly8/barefootjs-sub004/internal/exprparser"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
)

// Adapter is the reference TemplateAdapter. It has no configuration of its
// own; the zero value is ready to use.
type Adapter struct{}

// Extension implements compiler.TemplateAdapter. Go template definitions
// conventionally live in ".tmpl" files parsed with template.ParseFiles.
func (Adapter) Extension() string { return "tmpl" }

// Generate implements compiler.TemplateAdapter. The emitted body is a
// single `{{define "<Name>"}}...{{end}}` block, the same unit the runtime's
// Renderer.Render executes by name via ExecuteTemplate.
func (Adapter) Generate(root *ir.Root, ctx *analyzer.AnalyzerContext) (compiler.TemplateAdapterResult, error) {
	g := &generator{ctx: ctx}
	body := g.renderRoot(root.Node)

	var out strings.Builder
	fmt.Fprintf(&out, "{{define %q}}\n", root.ComponentName)
	out.WriteString(body)
	out.WriteString("\n{{end}}\n")

	return compiler.TemplateAdapterResult{
		Template: out.String(),
		Types:    ctx.TypeDefinitions,
	}, nil
}

// generator walks one component's IR tree into Go template source text.
type generator struct {
	ctx *analyzer.AnalyzerContext
}

func (g *generator) componentName() string { return g.ctx.ComponentName }

// renderRoot renders the component's root node, attaching the
// data-bf-scope anchor spec §6.3 requires on a component instance's root
// element, or the comment-based marker for fragment roots.
func (g *generator) renderRoot(n ir.Node) string {
	switch v := n.(type) {
	case *ir.Element:
		return g.renderElement(v, true)
	case *ir.Fragment:
		return g.renderFragment(v, true)
	default:
		return g.renderNode(n)
	}
}

func (g *generator) renderNode(n ir.Node) string {
	switch v := n.(type) {
	case *ir.Element:
		return g.renderElement(v, false)
	case *ir.Text:
		return template.HTMLEscapeString(v.Value)
	case *ir.Expression:
		return g.renderExpression(v)
	case *ir.Conditional:
		return g.renderConditional(v)
	case *ir.Loop:
		return g.renderLoop(v)
	case *ir.Component:
		return g.renderComponent(v)
	case *ir.Fragment:
		return g.renderFragment(v, false)
	case *ir.Provider:
		return g.renderChildren(v.Children)
	case *ir.IfStatement:
		return g.renderIfStatement(v)
	default:
		return ""
	}
}

func (g *generator) renderChildren(children []ir.Node) string {
	var b strings.Builder
	for _, c := range children {
		b.WriteString(g.renderNode(c))
	}
	return b.String()
}

func (g *generator) renderElement(e *ir.Element, isRoot bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<%s", e.Tag)

	for _, a := range e.Attrs {
		g.renderAttr(&b, a)
	}
	if e.SlotID != "" {
		fmt.Fprintf(&b, ` data-bf=%q`, e.SlotID)
	}
	if isRoot || e.NeedsScope {
		fmt.Fprintf(&b, ` data-bf-scope="%s_{{.ScopeID}}"`, g.componentName())
	}

	if e.SelfClosing {
		b.WriteString(" />")
		return b.String()
	}
	b.WriteString(">")
	for _, c := range e.Children {
		b.WriteString(g.renderNode(c))
	}
	fmt.Fprintf(&b, "</%s>", e.Tag)
	return b.String()
}

func (g *generator) renderAttr(b *strings.Builder, a ir.Attr) {
	switch {
	case a.Template != nil:
		fmt.Fprintf(b, ` %s="%s"`, a.Name, g.renderTemplateLiteral(a.Template))
	case a.PresenceOrUndefined:
		cond, _ := g.bareExpr(a.Value, "false")
		fmt.Fprintf(b, "{{if %s}} %s{{end}}", cond, a.Name)
	case a.Dynamic:
		fmt.Fprintf(b, ` %s="%s"`, a.Name, g.exprValue(a.Value))
	default:
		fmt.Fprintf(b, ` %s=%q`, a.Name, a.Value)
	}
}

// renderTemplateLiteral renders an IRTemplateLiteral (spec §4.4). Ternary
// parts are guaranteed string-literal branches, so they translate directly
// to a Go template if/else over literal text — no expression evaluation
// needed in either branch.
func (g *generator) renderTemplateLiteral(t *ir.TemplateLiteral) string {
	var b strings.Builder
	for _, p := range t.Parts {
		switch part := p.(type) {
		case ir.StringPart:
			b.WriteString(part.Value)
		case ir.TernaryPart:
			cond, _ := g.bareExpr(part.Condition, "false")
			fmt.Fprintf(&b, "{{if %s}}%s{{else}}%s{{end}}", cond, part.WhenTrue, part.WhenFalse)
		}
	}
	return b.String()
}

// renderExpression renders an Expression node. A reactive expression with a
// slot id is wrapped in the <span data-bf="sN"> anchor spec §6.3 names for
// "reactive text expressions"; the client generator's dynamic-text effect
// (§4.6.i) overwrites its textContent after hydration, so what's emitted
// here is only the SSR-time snapshot.
func (g *generator) renderExpression(e *ir.Expression) string {
	val := g.exprValue(e.Expr)
	if e.Reactive && e.SlotID != "" {
		return fmt.Sprintf(`<span data-bf=%q>%s</span>`, e.SlotID, val)
	}
	return val
}

// renderConditional emits an {{if}}/{{else}} block. Spec §6.3 calls for
// data-bf-cond anchors on conditional-branch templates; an element branch
// carries it as an attribute spliced into its own opening tag, a
// non-element branch gets the comment-based marker instead.
func (g *generator) renderConditional(c *ir.Conditional) string {
	var b strings.Builder
	cond, _ := g.bareExpr(c.Condition, "false")
	fmt.Fprintf(&b, "{{if %s}}", cond)
	b.WriteString(g.renderCondBranch(c.WhenTrue, c.SlotID))
	if c.WhenFalse != nil {
		b.WriteString("{{else}}")
		b.WriteString(g.renderCondBranch(c.WhenFalse, c.SlotID))
	}
	b.WriteString("{{end}}")
	return b.String()
}

func (g *generator) renderCondBranch(n ir.Node, slotID string) string {
	if slotID == "" {
		return g.renderNode(n)
	}
	if el, ok := n.(*ir.Element); ok {
		rendered := g.renderElement(el, false)
		return injectAttr(rendered, fmt.Sprintf(`data-bf-cond=%q`, slotID))
	}
	return fmt.Sprintf("<!--bf-cond-start:%s-->%s<!--bf-cond-end:%s-->", slotID, g.renderNode(n), slotID)
}

// injectAttr splices attr into the opening tag of rendered right before its
// first '>' (or '/>' in the self-closing case), which is always the
// opening tag's own close since rendered is a single top-level element.
func injectAttr(rendered, attr string) string {
	idx := strings.IndexByte(rendered, '>')
	if idx == -1 {
		return rendered
	}
	if idx > 0 && rendered[idx-1] == '/' {
		return rendered[:idx-1] + " " + attr + " />" + rendered[idx+1:]
	}
	return rendered[:idx] + " " + attr + ">" + rendered[idx+1:]
}

// renderLoop emits a {{range}} block. Child-component hydration by
// scopeID (spec §4.6.l, static-array case) and keyed reconciliation both
// happen client-side only; the SSR template's job is just to emit one
// rendering per item in source order.
func (g *generator) renderLoop(l *ir.Loop) string {
	var b strings.Builder
	array, _ := g.bareExpr(l.Array, "nil")
	param := l.Param
	if param == "" {
		param = "_"
	}
	fmt.Fprintf(&b, "{{range $%s := %s}}", param, array)
	if l.SlotID != "" {
		fmt.Fprintf(&b, `<!--bf-loop-item:%s-->`, l.SlotID)
	}
	b.WriteString(g.renderChildren(l.Children))
	b.WriteString("{{end}}")
	return b.String()
}

// renderComponent renders a child component instance as an anchor plus a
// template invocation. The child's own {{define}} block is assumed to live
// in the same template set (the driver merges per-component adapter output
// the way Go's template.ParseFiles collects multiple named templates).
func (g *generator) renderComponent(c *ir.Component) string {
	field := childFieldName(c)
	return fmt.Sprintf(`<span data-bf=%q>{{template %q .%s}}</span>`, c.SlotID, c.Name, field)
}

func childFieldName(c *ir.Component) string {
	if c.SlotID != "" {
		return capitalizeIdent(strings.TrimPrefix(c.SlotID, "^"))
	}
	return capitalizeIdent(c.Name)
}

func (g *generator) renderFragment(f *ir.Fragment, isRoot bool) string {
	children := g.renderChildren(f.Children)
	if f.Transparent {
		return children
	}
	if isRoot && f.NeedsScopeComment {
		return fmt.Sprintf("<!--bf-scope-start:%s_{{.ScopeID}}-->%s<!--bf-scope-end:%s_{{.ScopeID}}-->",
			g.componentName(), children, g.componentName())
	}
	return children
}

func (g *generator) renderIfStatement(s *ir.IfStatement) string {
	var b strings.Builder
	cond, _ := g.bareExpr(s.Condition, "false")
	fmt.Fprintf(&b, "{{if %s}}", cond)
	b.WriteString(g.renderNode(s.Consequent))
	if s.Alternate != nil {
		b.WriteString("{{else}}")
		b.WriteString(g.renderNode(s.Alternate))
	}
	b.WriteString("{{end}}")
	return b.String()
}

// bareExpr parses raw with the expression sub-parser (spec §4.1) and
// renders it as a bare Go template pipeline — no surrounding "{{ }}", safe
// to splice into an {{if}}/{{range}} header or as a bf_* call argument.
// Anything the sub-language doesn't recognize as server-template-compatible
// (exprparser.IsSupported) falls back to fallback, matching this
// codebase's "keep going, flag it" posture rather than aborting the
// compile; ok reports whether the real translation was used.
func (g *generator) bareExpr(raw, fallback string) (expr string, ok bool) {
	e := exprparser.Parse(raw)
	if !exprparser.IsSupported(e).Supported {
		return fallback, false
	}
	return g.translateExpr(e), true
}

// exprValue renders raw as a standalone value position (attribute value,
// text interpolation): a "{{ }}" action, with a trailing comment action
// carrying the original source when the sub-language couldn't translate it.
func (g *generator) exprValue(raw string) string {
	expr, ok := g.bareExpr(raw, `""`)
	if !ok {
		return fmt.Sprintf(`{{%s}}{{/* unsupported for server template: %s */}}`, expr, raw)
	}
	return fmt.Sprintf("{{%s}}", expr)
}

// translateExpr renders a parsed expression as a bare Go template pipeline.
// It is only ever invoked on an expression exprparser.IsSupported has
// already accepted. A supported higher-order filter/every/some expression
// has no case here and renders as the empty-string pipeline `""`, as does
// a call whose callee is not a plain identifier (see callToTemplate).
func (g *generator) translateExpr(e *exprparser.Expr) string {
	switch e.Kind {
	case exprparser.KindLiteral:
		return literalToTemplate(e.Raw)
	case exprparser.KindIdentifier:
		return g.identToTemplate(e.Name)
	case exprparser.KindCall:
		return g.callToTemplate(e)
	case exprparser.KindMember:
		return g.memberToTemplate(e)
	case exprparser.KindUnary:
		return fmt.Sprintf("(not %s)", g.translateExpr(e.Operand))
	case exprparser.KindBinary:
		return g.binaryToTemplate(e)
	case exprparser.KindLogical:
		fn := "and"
		if e.Op == "||" {
			fn = "or"
		}
		return fmt.Sprintf("(%s %s %s)", fn, g.translateExpr(e.Left), g.translateExpr(e.Right))
	default:
		return `""`
	}
}

func literalToTemplate(raw string) string {
	trimmed := strings.TrimSpace(raw)
	switch trimmed {
	case "null", "undefined":
		return "nil"
	}
	if len(trimmed) >= 2 && trimmed[0] == '\'' && trimmed[len(trimmed)-1] == '\'' {
		return fmt.Sprintf("%q", strings.ReplaceAll(trimmed[1:len(trimmed)-1], `"`, `\"`))
	}
	return trimmed
}

// identToTemplate maps a bare identifier to a template field. Destructured
// props and local constants both surface as capitalized struct fields on
// the props value passed to ExecuteTemplate, the same convention
// bf.ScopeAttr and friends assume for fields like ScopeID and BfIsRoot.
func (g *generator) identToTemplate(name string) string {
	if name == "children" || name == "props" {
		return ".Children"
	}
	return "." + capitalizeIdent(name)
}

// callToTemplate handles nullary calls. The only nullary calls this
// sub-language's grammar reaches in component bodies are signal/memo
// getters; their SSR-time value is the signal's initial expression, so the
// template reads the same capitalized field a destructured prop would use.
// A call through a non-identifier callee (e.g. a member-call) has no
// server-template rendering and renders as an empty pipeline.
func (g *generator) callToTemplate(e *exprparser.Expr) string {
	if e.Callee != nil && e.Callee.Kind == exprparser.KindIdentifier {
		return g.identToTemplate(e.Callee.Name)
	}
	return `""`
}

func (g *generator) memberToTemplate(e *exprparser.Expr) string {
	if e.Object != nil && e.Object.Kind == exprparser.KindIdentifier && e.Object.Name == "props" {
		return "." + capitalizeIdent(e.Property)
	}
	if e.Computed {
		return fmt.Sprintf("(bf_at %s %q)", g.translateExpr(e.Object), e.Property)
	}
	return fmt.Sprintf("%s.%s", g.translateExpr(e.Object), capitalizeIdent(e.Property))
}

func (g *generator) binaryToTemplate(e *exprparser.Expr) string {
	left, right := g.translateExpr(e.Left), g.translateExpr(e.Right)
	switch e.Op {
	case "+":
		return fmt.Sprintf("(bf_add %s %s)", left, right)
	case "-":
		return fmt.Sprintf("(bf_sub %s %s)", left, right)
	case "*":
		return fmt.Sprintf("(bf_mul %s %s)", left, right)
	case "/":
		return fmt.Sprintf("(bf_div %s %s)", left, right)
	case "%":
		return fmt.Sprintf("(bf_mod %s %s)", left, right)
	case "==", "===":
		return fmt.Sprintf("(eq %s %s)", left, right)
	case "!=", "!==":
		return fmt.Sprintf("(ne %s %s)", left, right)
	case "<":
		return fmt.Sprintf("(lt %s %s)", left, right)
	case "<=":
		return fmt.Sprintf("(le %s %s)", left, right)
	case ">":
		return fmt.Sprintf("(gt %s %s)", left, right)
	case ">=":
		return fmt.Sprintf("(ge %s %s)", left, right)
	default:
		return `""`
	}
}

func capitalizeIdent(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
