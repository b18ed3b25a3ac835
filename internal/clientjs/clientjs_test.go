package clientjs

import (
	"strings"
	"testing"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"github.com/kfly8/barefootjs-sub004/internal/test_utils"
	"gotest.tools/v3/assert"
)

func analyzeAndLower(t *testing.T, name string, fn *ast.FunctionDecl) (*analyzer.AnalyzerContext, *ir.Root) {
	t.Helper()
	h := handler.New("", name+".bf")
	ctx := analyzer.Analyze(&ast.Program{Body: []ast.Statement{fn}}, name+".bf", h)
	root := ir.Lower(ctx, h)
	assert.Assert(t, !h.HasErrors())
	return ctx, root
}

func TestGeneratePureStaticComponentIsEmpty(t *testing.T) {
	jsx := &ast.JSXElement{Tag: "div", Children: []ast.JSXNode{&ast.JSXText{Value: "hello"}}}
	fn := &ast.FunctionDecl{Name: "Static", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx, root := analyzeAndLower(t, "Static", fn)
	out := Generate(ctx, root)
	assert.Equal(t, out, "")
}

func TestGenerateCounterEmitsSignalAndTextEffect(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "() => setCount(n => n+1)", IsExpr: true},
		},
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "count()"}},
		},
	}
	fn := &ast.FunctionDecl{
		Name: "Counter",
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "count"},
					&ast.IdentifierPattern{Name: "setCount"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "Counter", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "createSignal(0)"))
	assert.Assert(t, strings.Contains(out, "registerComponent('Counter', initCounter)"))
	assert.Assert(t, strings.Contains(out, "hydrate('Counter'"))
	assert.Assert(t, strings.Contains(out, ".textContent = String(count())"))
	assert.Assert(t, strings.Contains(out, "addEventListener('click'"))
}

func TestGenerateIsDeterministic(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "() => setCount(n => n+1)", IsExpr: true},
		},
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "count()"}},
		},
	}
	fn := &ast.FunctionDecl{
		Name: "Counter",
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "count"},
					&ast.IdentifierPattern{Name: "setCount"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx1, root1 := analyzeAndLower(t, "Counter", fn)
	out1 := Generate(ctx1, root1)
	ctx2, root2 := analyzeAndLower(t, "Counter", fn)
	out2 := Generate(ctx2, root2)
	assert.Equal(t, out1, out2)
}

func TestGenerateReactiveLoopUsesReconcileList(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "ul",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{
				Text: "items().map(t => <li>{t.text}</li>)",
			}},
		},
	}
	fn := &ast.FunctionDecl{
		Name: "List",
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "items"},
					&ast.IdentifierPattern{Name: "setItems"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "[]"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "List", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, !strings.Contains(out, "registerTemplate"))
	assert.Assert(t, strings.Contains(out, "reconcileList"))
}

// TestGenerateLoopWithEventsDelegatesListener covers spec §4.6.l: a loop
// body with an event-bearing child element gets one delegated listener on
// the loop's slot element instead of one per rendered item.
func TestGenerateLoopWithEventsDelegatesListener(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "ul",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{
				Text: "items().map(t => <li onClick={removeItem}>{t.text}</li>)",
			}},
		},
	}
	fn := &ast.FunctionDecl{
		Name: "List",
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "items"},
					&ast.IdentifierPattern{Name: "setItems"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "[]"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "List", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "reconcileList"))
	assert.Assert(t, strings.Contains(out, "data-bf-key"))
	assert.Assert(t, strings.Contains(out, "addEventListener('click'"))
	assert.Assert(t, strings.Contains(out, "closest('[data-bf-key]')"))
}

// TestGenerateRefCallbackInvokedWithResolvedElement covers spec §4.6.o's
// ref-callback half: a `ref={fn}` element hands its resolved DOM node to fn.
func TestGenerateRefCallbackInvokedWithResolvedElement(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "input",
		Attrs: []ast.JSXAttr{
			{Name: "ref", Value: "inputRef", IsExpr: true},
		},
	}
	fn := &ast.FunctionDecl{Name: "Field", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx, root := analyzeAndLower(t, "Field", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "(inputRef)(_"))
}

// TestGenerateUserEffectAndOnMountAreEmitted covers spec §4.6.o's
// user-effect half: top-level createEffect/onMount calls reach the script.
func TestGenerateUserEffectAndOnMountAreEmitted(t *testing.T) {
	jsx := &ast.JSXElement{Tag: "div", Children: []ast.JSXNode{&ast.JSXText{Value: "hi"}}}
	fn := &ast.FunctionDecl{
		Name: "Widget",
		Body: []ast.Statement{
			&ast.ExprStmt{Expr: &ast.CallExpr{
				Callee: "createEffect",
				Args:   []ast.Expression{&ast.RawExpr{Text: "() => { logView(); }"}},
			}},
			&ast.ExprStmt{Expr: &ast.CallExpr{
				Callee: "onMount",
				Args:   []ast.Expression{&ast.RawExpr{Text: "() => { focusFirst(); }"}},
			}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "Widget", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "createEffect(() => { logView(); });"))
	assert.Assert(t, strings.Contains(out, "(() => { focusFirst(); })();"))
}

// TestGenerateStaticLoopHydratesChildrenByScopeID covers spec §4.6.l's
// static-array convention (spec §12 open question): a loop over a plain
// array whose body is a single child component re-links each server-
// rendered instance to its array item by a `scopeID` field instead of
// calling reconcileList.
func TestGenerateStaticLoopHydratesChildrenByScopeID(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "ul",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{
				Text: "rows.map(row => <Row row={row} />)",
			}},
		},
	}
	fn := &ast.FunctionDecl{Name: "Table", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx, root := analyzeAndLower(t, "Table", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, !strings.Contains(out, "reconcileList"))
	assert.Assert(t, strings.Contains(out, "for (const row of rows)"))
	assert.Assert(t, strings.Contains(out, `data-bf-scope-id="' + row.scopeID + '"`))
	assert.Assert(t, strings.Contains(out, "initChild('Row', __scopeEl, row)"))
}

func TestIsBooleanAttrRecognizesKnownNames(t *testing.T) {
	assert.Assert(t, IsBooleanAttr("disabled"))
	assert.Assert(t, IsBooleanAttr("checked"))
	assert.Assert(t, !IsBooleanAttr("href"))
}

func TestGenerateCounterSnapshot(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "() => setCount(n => n+1)", IsExpr: true},
		},
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "count()"}},
		},
	}
	fn := &ast.FunctionDecl{
		Name: "Counter",
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "count"},
					&ast.IdentifierPattern{Name: "setCount"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "Counter", fn)
	out := Generate(ctx, root)
	test_utils.MakeSnapshot(&test_utils.SnapshotOptions{
		Testing:      t,
		TestCaseName: "Counter client script",
		Input:        "<button onClick={() => setCount(n => n+1)}>{count()}</button>",
		Output:       out,
		Kind:         test_utils.JsOutput,
	})
}

// TestGenerateProviderOnlyRootEmitsProvideContext covers spec §8 scenario
// 6: a provider-only root is auto-wrapped in a synthetic scope element and
// its client script calls findScope and provideContext.
func TestGenerateProviderOnlyRootEmitsProvideContext(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag:   "Ctx.Provider",
		Attrs: []ast.JSXAttr{{Name: "value", Value: "contextValue", IsExpr: true}},
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "children"}},
		},
	}
	fn := &ast.FunctionDecl{Name: "Root", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx, root := analyzeAndLower(t, "Root", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "findScope"))
	assert.Assert(t, strings.Contains(out, "provideContext(__scope, Ctx, contextValue)"))
}

// TestGenerateLocalFunctionHandlerIsEmitted covers spec §4.6.2 step f: a
// top-level local function used as an event handler must survive into the
// client script, not just the anchor that binds it.
func TestGenerateLocalFunctionHandlerIsEmitted(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "handleClick", IsExpr: true},
		},
		Children: []ast.JSXNode{&ast.JSXText{Value: "go"}},
	}
	fn := &ast.FunctionDecl{
		Name: "Widget",
		Body: []ast.Statement{
			&ast.FunctionDecl{
				Name:     "handleClick",
				BodyText: "setCount(c => c + 1);",
			},
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "count"},
					&ast.IdentifierPattern{Name: "setCount"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
			}}},
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	ctx, root := analyzeAndLower(t, "Widget", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "function handleClick() {"))
	assert.Assert(t, strings.Contains(out, "setCount(c => c + 1);"))
	assert.Assert(t, strings.Contains(out, "addEventListener('click', handleClick)"))
}

// TestGeneratePropHandlerCaptureForUndeclaredOnProp covers spec §4.6.2 step
// g: an `onFoo`-shaped handler that isn't a local function, signal, or
// destructured prop is assumed to be an undeclared prop and captured once
// as `const onFoo = props.onFoo;`.
func TestGeneratePropHandlerCaptureForUndeclaredOnProp(t *testing.T) {
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "onSave", IsExpr: true},
		},
		Children: []ast.JSXNode{&ast.JSXText{Value: "save"}},
	}
	fn := &ast.FunctionDecl{
		Name:   "SaveButton",
		Params: []ast.Pattern{&ast.ObjectPattern{}},
		Body:   []ast.Statement{&ast.ReturnStmt{Argument: jsx}},
	}
	ctx, root := analyzeAndLower(t, "SaveButton", fn)
	out := Generate(ctx, root)
	assert.Assert(t, out != "")
	assert.Assert(t, strings.Contains(out, "const onSave = props.onSave;"))
	assert.Assert(t, strings.Contains(out, "addEventListener('click', onSave)"))
}
