package ir

import (
	"testing"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"gotest.tools/v3/assert"
)

func TestLowerCounterMintsSlotsForReactiveParts(t *testing.T) {
	h := handler.New("", "Counter.bf")
	jsx := &ast.JSXElement{
		Tag: "button",
		Attrs: []ast.JSXAttr{
			{Name: "onClick", Value: "() => setCount(n => n+1)", IsExpr: true},
		},
		Children: []ast.JSXNode{
			&ast.JSXText{Value: "Count: "},
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
	ctx := analyzer.Analyze(&ast.Program{Body: []ast.Statement{fn}}, "Counter.bf", h)
	root := Lower(ctx, h)
	assert.Assert(t, !h.HasErrors())

	el, ok := root.Node.(*Element)
	assert.Assert(t, ok)
	assert.Assert(t, el.NeedsScope)
	assert.Assert(t, el.SlotID != "")
	assert.Equal(t, len(el.Events), 1)
	assert.Equal(t, el.Events[0].Name, "click")

	var exprNode *Expression
	for _, c := range el.Children {
		if e, ok := c.(*Expression); ok {
			exprNode = e
		}
	}
	assert.Assert(t, exprNode != nil)
	assert.Assert(t, exprNode.Reactive)
	assert.Assert(t, exprNode.SlotID != "")
}

func TestLowerTernaryProducesConditional(t *testing.T) {
	h := handler.New("", "Dialog.bf")
	jsx := &ast.JSXElement{
		Tag: "div",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "props.open ? 'yes' : 'no'"}},
		},
	}
	fn := &ast.FunctionDecl{
		Name:   "Dialog",
		Params: []ast.Pattern{&ast.IdentifierPattern{Name: "props"}},
		Body:   []ast.Statement{&ast.ReturnStmt{Argument: jsx}},
	}
	ctx := analyzer.Analyze(&ast.Program{Body: []ast.Statement{fn}}, "Dialog.bf", h)
	root := Lower(ctx, h)
	el := root.Node.(*Element)
	cond, ok := el.Children[0].(*Conditional)
	assert.Assert(t, ok)
	assert.Equal(t, cond.Condition, "props.open")
	assert.Assert(t, cond.Reactive)
}

func TestLowerFilterSortChainExtraction(t *testing.T) {
	h := handler.New("", "List.bf")
	jsx := &ast.JSXElement{
		Tag: "ul",
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{
				Text: "items().filter(t=>!t.done).sort((a,b)=>a.priority-b.priority).map(t=><li>{t.text}</li>)",
			}},
		},
	}
	fn := &ast.FunctionDecl{Name: "List", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx := analyzer.Analyze(&ast.Program{Body: []ast.Statement{fn}}, "List.bf", h)
	root := Lower(ctx, h)
	assert.Assert(t, !h.HasErrors())
	el := root.Node.(*Element)
	loop, ok := el.Children[0].(*Loop)
	assert.Assert(t, ok)
	assert.Equal(t, loop.Array, "items()")
	assert.Equal(t, loop.FilterPredicate, "t=>!t.done")
	assert.Assert(t, loop.SortComparator != nil)
	assert.Equal(t, loop.SortComparator.Field, "priority")
	assert.Equal(t, loop.SortComparator.Direction, "asc")
	assert.Equal(t, loop.ChainOrder, "filter-sort")
}

func TestLowerProviderOnlyRootSyntheticWrapper(t *testing.T) {
	h := handler.New("", "Root.bf")
	jsx := &ast.JSXElement{
		Tag:   "Ctx.Provider",
		Attrs: []ast.JSXAttr{{Name: "value", Value: "contextValue", IsExpr: true}},
		Children: []ast.JSXNode{
			&ast.JSXExprContainer{Expr: &ast.RawExpr{Text: "children"}},
		},
	}
	fn := &ast.FunctionDecl{Name: "Root", Body: []ast.Statement{&ast.ReturnStmt{Argument: jsx}}}
	ctx := analyzer.Analyze(&ast.Program{Body: []ast.Statement{fn}}, "Root.bf", h)
	root := Lower(ctx, h)
	assert.Assert(t, !h.HasErrors())
	el, ok := root.Node.(*Element)
	assert.Assert(t, ok)
	assert.Equal(t, el.Tag, "div")
	assert.Assert(t, el.NeedsScope)
	assert.Equal(t, el.Attrs[0].Value, "display:contents")
	_, ok = el.Children[0].(*Provider)
	assert.Assert(t, ok)
}
