// Package analyzer implements spec §4.3: walking a parsed component AST
// (internal/ast) into the per-component AnalyzerContext (spec §3.1) that
// IR lowering (internal/ir) and the client-JS generator (internal/clientjs)
// consume. It only looks at the component function's top level; nested
// function bodies are left as opaque text in internal/ast.RawExpr and are
// not scanned for signals/memos/effects, matching spec §4.3's explicit
// scoping rule.
package analyzer

import (
	"regexp"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"github.com/kfly8/barefootjs-sub004/internal/loc"
)

// PropParam is one entry of PropsParams, covering both destructured props
// and object-form props uniformly.
type PropParam struct {
	Name         string
	Type         string
	Optional     bool
	HasDefault   bool
	DefaultValue string
}

// ControlledProp marks a signal initialized from `props.X ?? default` where
// X does not start with "default" (spec §4.3's controlled-prop detection).
type ControlledProp struct {
	PropName string
	Default  string
}

type Signal struct {
	Getter       string
	Setter       string
	InitialValue string
	Type         string
	Controlled   *ControlledProp
}

type Memo struct {
	Name        string
	Computation string
	Type        string
}

type LocalFunction struct {
	Name   string
	Params []string
	Body   string
}

type LocalConstant struct {
	Name  string
	Value string
	Type  string
}

// ConditionalReturn is an early `if (cond) return <jsx>` inside the
// component's top-level block, along with whatever local bindings the
// block introduced since the previous return.
type ConditionalReturn struct {
	Condition      string
	JSXReturn      ast.JSXNode
	IfStatement    *ast.IfStmt
	ScopeVariables []string
}

// AnalyzerContext is the record described in spec §3.1.
type AnalyzerContext struct {
	ComponentName         string
	FilePath              string
	HasUseClientDirective bool
	HasDefaultExport      bool
	PropsObjectName       string
	PropsParams           []PropParam
	RestPropsName         string
	RestPropsExpandedKeys []string
	TypeDefinitions       []string
	Signals               []Signal
	Memos                 []Memo
	Effects               []string
	OnMounts              []string
	LocalFunctions        []LocalFunction
	LocalConstants        []LocalConstant
	Imports               []*ast.ImportDecl
	JSXReturn             ast.JSXNode
	ConditionalReturns    []ConditionalReturn
}

var controlledPropPattern = regexp.MustCompile(`^props\.([A-Za-z_$][\w$]*)\s*\?\?\s*(.+)$`)

// Analyze produces an AnalyzerContext for prog, appending any diagnostics
// to h. The errors list itself is owned by the compile driver (spec §5);
// analyzer only appends to it, in call order, ahead of IR lowering.
func Analyze(prog *ast.Program, filePath string, h *handler.Handler) *AnalyzerContext {
	ctx := &AnalyzerContext{
		FilePath: filePath,
		Imports:  prog.Imports,
	}

	ctx.HasUseClientDirective = hasUseClientDirective(prog)

	fn := findComponentFunction(prog)
	if fn == nil {
		h.AppendError(loc.NewError(loc.MalformedComponentShape,
			"no exported component function found", loc.Loc{}, 0))
		return ctx
	}
	ctx.ComponentName = fn.Name
	ctx.HasDefaultExport = fn.IsDefaultExport

	resolvePropsShape(ctx, fn, h)

	seenSignalGetters := map[string]bool{}
	var pendingScope []string

	for _, stmt := range fn.Body {
		switch s := stmt.(type) {
		case *ast.VarDeclStmt:
			for _, d := range s.Declarations {
				name := analyzeDeclarator(ctx, d, seenSignalGetters, h)
				if name != "" {
					pendingScope = append(pendingScope, name)
				}
			}
		case *ast.ExprStmt:
			analyzeTopLevelCall(ctx, s.Expr)
		case *ast.FunctionDecl:
			ctx.LocalFunctions = append(ctx.LocalFunctions, LocalFunction{
				Name:   s.Name,
				Params: paramNames(s.Params),
				Body:   s.BodyText,
			})
		case *ast.IfStmt:
			if ret := singleJSXReturn(s.Consequent); ret != nil {
				ctx.ConditionalReturns = append(ctx.ConditionalReturns, ConditionalReturn{
					Condition:      exprText(s.Test),
					JSXReturn:      ret,
					IfStatement:    s,
					ScopeVariables: pendingScope,
				})
				pendingScope = nil
			}
		case *ast.ReturnStmt:
			if jsx, ok := s.Argument.(ast.JSXNode); ok && jsx != nil {
				ctx.JSXReturn = jsx
			} else if s.Argument != nil {
				h.AppendError(loc.NewError(loc.MalformedComponentShape,
					"component return value is not markup", s.Range.Loc, s.Range.Len))
			}
		}
	}

	if ctx.JSXReturn == nil && len(ctx.ConditionalReturns) == 0 {
		h.AppendError(loc.NewError(loc.MalformedComponentShape,
			"component "+fn.Name+" has no returned markup", fn.Range.Loc, fn.Range.Len))
	}

	return ctx
}

func hasUseClientDirective(prog *ast.Program) bool {
	if len(prog.Body) == 0 {
		return false
	}
	stmt, ok := prog.Body[0].(*ast.ExprStmt)
	if !ok {
		return false
	}
	raw, ok := stmt.Expr.(*ast.RawExpr)
	if !ok {
		return false
	}
	text := strings.Trim(strings.TrimSpace(raw.Text), `"'`)
	return text == "use client"
}

func findComponentFunction(prog *ast.Program) *ast.FunctionDecl {
	var fallback *ast.FunctionDecl
	for _, stmt := range prog.Body {
		fn, ok := stmt.(*ast.FunctionDecl)
		if !ok {
			continue
		}
		if fn.IsDefaultExport {
			return fn
		}
		if fn.IsNamedExport && isComponentName(fn.Name) {
			return fn
		}
		if fallback == nil && isComponentName(fn.Name) {
			fallback = fn
		}
	}
	return fallback
}

func isComponentName(name string) bool {
	return len(name) > 0 && name[0] >= 'A' && name[0] <= 'Z'
}

func resolvePropsShape(ctx *AnalyzerContext, fn *ast.FunctionDecl, h *handler.Handler) {
	if len(fn.Params) == 0 {
		return
	}
	if len(fn.Params) > 1 {
		h.AppendError(loc.NewError(loc.UnresolvedPropsShape,
			"component function must take at most one props parameter", fn.Range.Loc, fn.Range.Len))
		return
	}
	switch p := fn.Params[0].(type) {
	case *ast.IdentifierPattern:
		ctx.PropsObjectName = p.Name
	case *ast.ObjectPattern:
		for _, prop := range p.Props {
			ctx.PropsParams = append(ctx.PropsParams, PropParam{
				Name:         prop.LocalName,
				Optional:     prop.HasDefault,
				HasDefault:   prop.HasDefault,
				DefaultValue: prop.DefaultText,
			})
		}
		if len(p.Props) > 0 {
			// Destructuring the props parameter copies each value out at
			// call time rather than reading through a live `props.<name>`
			// accessor, which is the same reactivity foot-gun SolidJS warns
			// about for this exact pattern (spec §7's DestructuredPropsAdvisory,
			// spec §8 scenario 3). Non-fatal: the client-JS generator still
			// produces a correct `const name = props.name` capture either way.
			h.AppendWarning(loc.NewError(loc.DestructuredPropsAdvisory,
				"destructuring the props parameter limits fine-grained reactivity tracking; prefer props.<name> inside reactive expressions",
				fn.Range.Loc, fn.Range.Len))
		}
		if p.HasRest {
			ctx.RestPropsName = p.Rest
			keys := make([]string, 0, len(p.Props))
			for _, prop := range p.Props {
				keys = append(keys, prop.Key)
			}
			ctx.RestPropsExpandedKeys = keys
		}
	default:
		h.AppendError(loc.NewError(loc.UnresolvedPropsShape,
			"unsupported props parameter shape", fn.Range.Loc, fn.Range.Len))
	}
}

// analyzeDeclarator classifies one `const X = ...` binding into a signal,
// memo, or plain local constant, returning the bound name (for
// ConditionalReturn scope tracking) or "" if it couldn't be classified.
func analyzeDeclarator(ctx *AnalyzerContext, d *ast.Declarator, seenSignalGetters map[string]bool, h *handler.Handler) string {
	call, isCall := d.Init.(*ast.CallExpr)

	if arr, ok := d.ID.(*ast.ArrayPattern); ok && isCall && call.Callee == "createSignal" && len(arr.Elements) == 2 {
		getter := identName(arr.Elements[0])
		setter := identName(arr.Elements[1])
		if seenSignalGetters[getter] {
			h.AppendError(loc.NewError(loc.DuplicateSignalGetter,
				"duplicate signal getter "+getter, d.Range.Loc, d.Range.Len))
		}
		seenSignalGetters[getter] = true

		init := ""
		if len(call.Args) > 0 {
			init = exprText(call.Args[0])
		}
		sig := Signal{Getter: getter, Setter: setter, InitialValue: init}
		if m := controlledPropPattern.FindStringSubmatch(init); m != nil && !strings.HasPrefix(strings.ToLower(m[1]), "default") {
			sig.Controlled = &ControlledProp{PropName: m[1], Default: m[2]}
		}
		ctx.Signals = append(ctx.Signals, sig)
		return getter
	}

	if ident, ok := d.ID.(*ast.IdentifierPattern); ok && isCall && call.Callee == "createMemo" {
		computation := ""
		if len(call.Args) > 0 {
			computation = exprText(call.Args[0])
		}
		ctx.Memos = append(ctx.Memos, Memo{Name: ident.Name, Computation: computation})
		return ident.Name
	}

	if ident, ok := d.ID.(*ast.IdentifierPattern); ok {
		value := ""
		if d.Init != nil {
			value = exprText(d.Init)
		}
		ctx.LocalConstants = append(ctx.LocalConstants, LocalConstant{Name: ident.Name, Value: value})
		return ident.Name
	}

	return ""
}

func analyzeTopLevelCall(ctx *AnalyzerContext, expr ast.Expression) {
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		return
	}
	var body string
	if len(call.Args) > 0 {
		body = exprText(call.Args[0])
	}
	switch call.Callee {
	case "createEffect":
		ctx.Effects = append(ctx.Effects, body)
	case "onMount":
		ctx.OnMounts = append(ctx.OnMounts, body)
	}
}

func singleJSXReturn(body []ast.Statement) ast.JSXNode {
	for _, stmt := range body {
		ret, ok := stmt.(*ast.ReturnStmt)
		if !ok {
			continue
		}
		if jsx, ok := ret.Argument.(ast.JSXNode); ok {
			return jsx
		}
	}
	return nil
}

func identName(p ast.Pattern) string {
	if id, ok := p.(*ast.IdentifierPattern); ok {
		return id.Name
	}
	return ""
}

func paramNames(params []ast.Pattern) []string {
	names := make([]string, 0, len(params))
	for _, p := range params {
		if id, ok := p.(*ast.IdentifierPattern); ok {
			names = append(names, id.Name)
		}
	}
	return names
}

func exprText(e ast.Expression) string {
	switch v := e.(type) {
	case *ast.RawExpr:
		return v.Text
	case *ast.CallExpr:
		args := make([]string, 0, len(v.Args))
		for _, a := range v.Args {
			args = append(args, exprText(a))
		}
		return v.Callee + "(" + strings.Join(args, ", ") + ")"
	default:
		return ""
	}
}

var (
	interfaceDeclRe = regexp.MustCompile(`(?m)^(?:export\s+)?interface\s+\w[^{]*\{`)
	typeAliasDeclRe = regexp.MustCompile(`(?m)^(?:export\s+)?type\s+\w[\w<>,\s]*=[^;]*;`)
)

// ExtractTypeDefinitions implements the `typeDefinitions` field of spec
// §3.1: nominal type declarations (`interface`/`type` aliases) retained
// verbatim for the template adapter. It runs over the original,
// pre-type-strip source text — by the time internal/typestrip has erased
// annotations for client-JS emission, the declarations it exists to capture
// are already gone — so internal/compiler must call this before stripping,
// not after.
func ExtractTypeDefinitions(sourceText string) []string {
	var defs []string
	for _, m := range interfaceDeclRe.FindAllStringIndex(sourceText, -1) {
		defs = append(defs, extractBraceBlock(sourceText, m[0]))
	}
	for _, m := range typeAliasDeclRe.FindAllString(sourceText, -1) {
		defs = append(defs, strings.TrimSpace(m))
	}
	return defs
}

// extractBraceBlock returns the text from start through the matching close
// brace of the first `{` found at or after start, inclusive.
func extractBraceBlock(s string, start int) string {
	open := strings.IndexByte(s[start:], '{')
	if open == -1 {
		return strings.TrimSpace(s[start:])
	}
	open += start
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[start : i+1])
			}
		}
	}
	return strings.TrimSpace(s[start:])
}
