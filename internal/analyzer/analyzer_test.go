package analyzer

import (
	"testing"

	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"gotest.tools/v3/assert"
)

func newHandler() *handler.Handler {
	return handler.New("", "test.bf")
}

func counterProgram() *ast.Program {
	jsx := &ast.JSXElement{
		Tag: "button",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "count()"}},
		},
	}
	signalDecl := &ast.VarDeclStmt{
		Kind: "const",
		Declarations: []*ast.Declarator{{
			ID: &ast.ArrayPattern{Elements: []ast.Pattern{
				&ast.IdentifierPattern{Name: "count"},
				&ast.IdentifierPattern{Name: "setCount"},
			}},
			Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
		}},
	}
	fn := &ast.FunctionDecl{
		Name: "Counter",
		Body: []ast.Statement{
			signalDecl,
			&ast.ReturnStmt{Argument: jsx},
		},
	}
	return &ast.Program{Body: []ast.Statement{fn}}
}

func TestAnalyzeCollectsSignalsAndJSXReturn(t *testing.T) {
	h := newHandler()
	ctx := Analyze(counterProgram(), "Counter.bf", h)
	assert.Assert(t, !h.HasErrors())
	assert.Equal(t, ctx.ComponentName, "Counter")
	assert.Equal(t, len(ctx.Signals), 1)
	assert.Equal(t, ctx.Signals[0].Getter, "count")
	assert.Equal(t, ctx.Signals[0].Setter, "setCount")
	assert.Assert(t, ctx.JSXReturn != nil)
}

func TestAnalyzeDetectsControlledProp(t *testing.T) {
	h := newHandler()
	fn := &ast.FunctionDecl{
		Name:   "Toggle",
		Params: []ast.Pattern{&ast.IdentifierPattern{Name: "props"}},
		Body: []ast.Statement{
			&ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
				ID: &ast.ArrayPattern{Elements: []ast.Pattern{
					&ast.IdentifierPattern{Name: "value"},
					&ast.IdentifierPattern{Name: "setValue"},
				}},
				Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "props.initial ?? 0"}}},
			}}},
			&ast.ReturnStmt{Argument: &ast.JSXElement{Tag: "div"}},
		},
	}
	prog := &ast.Program{Body: []ast.Statement{fn}}
	ctx := Analyze(prog, "Toggle.bf", h)
	assert.Assert(t, !h.HasErrors())
	assert.Assert(t, ctx.Signals[0].Controlled != nil)
	assert.Equal(t, ctx.Signals[0].Controlled.PropName, "initial")
	assert.Equal(t, ctx.Signals[0].Controlled.Default, "0")
	assert.Equal(t, ctx.PropsObjectName, "props")
}

func TestAnalyzeFlagsDuplicateSignalGetter(t *testing.T) {
	h := newHandler()
	mkSignal := func(name string) *ast.VarDeclStmt {
		return &ast.VarDeclStmt{Kind: "const", Declarations: []*ast.Declarator{{
			ID: &ast.ArrayPattern{Elements: []ast.Pattern{
				&ast.IdentifierPattern{Name: name},
				&ast.IdentifierPattern{Name: "set" + name},
			}},
			Init: &ast.CallExpr{Callee: "createSignal", Args: []ast.Expression{&ast.RawExpr{Text: "0"}}},
		}}}
	}
	fn := &ast.FunctionDecl{
		Name: "Dup",
		Body: []ast.Statement{
			mkSignal("count"),
			mkSignal("count"),
			&ast.ReturnStmt{Argument: &ast.JSXElement{Tag: "div"}},
		},
	}
	Analyze(&ast.Program{Body: []ast.Statement{fn}}, "Dup.bf", h)
	assert.Assert(t, h.HasErrors())
}

func TestAnalyzeFlagsMissingReturn(t *testing.T) {
	h := newHandler()
	fn := &ast.FunctionDecl{Name: "Empty", Body: nil}
	Analyze(&ast.Program{Body: []ast.Statement{fn}}, "Empty.bf", h)
	assert.Assert(t, h.HasErrors())
}
