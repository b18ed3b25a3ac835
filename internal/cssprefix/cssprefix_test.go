package cssprefix

import (
	"testing"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"gotest.tools/v3/assert"
)

func TestApplyPrefixesStaticClassLiteral(t *testing.T) {
	root := &ir.Element{Tag: "div", Attrs: []ir.Attr{{Name: "class", Value: "card active", IsLiteral: true}}}
	ctx := &analyzer.AnalyzerContext{}
	Apply(root, ctx, "todo-list")
	assert.Equal(t, root.Attrs[0].Value, "layer-todo-list:card layer-todo-list:active")
}

func TestApplyIsIdempotent(t *testing.T) {
	root := &ir.Element{Tag: "div", Attrs: []ir.Attr{{Name: "class", Value: "card", IsLiteral: true}}}
	ctx := &analyzer.AnalyzerContext{}
	Apply(root, ctx, "x")
	once := root.Attrs[0].Value
	Apply(root, ctx, "x")
	assert.Equal(t, root.Attrs[0].Value, once)
}

func TestApplyRewritesReferencedConstant(t *testing.T) {
	root := &ir.Element{Tag: "div", Attrs: []ir.Attr{{Name: "class", Value: "baseClasses", Dynamic: true}}}
	ctx := &analyzer.AnalyzerContext{
		LocalConstants: []analyzer.LocalConstant{{Name: "baseClasses", Value: "'card active'"}},
	}
	Apply(root, ctx, "x")
	assert.Equal(t, ctx.LocalConstants[0].Value, "'layer-x:card layer-x:active'")
}

func TestApplyLeavesNonClassValuesAlone(t *testing.T) {
	root := &ir.Element{Tag: "div", Attrs: []ir.Attr{{Name: "class", Value: "count", Dynamic: true}}}
	ctx := &analyzer.AnalyzerContext{
		LocalConstants: []analyzer.LocalConstant{{Name: "count", Value: "42"}},
	}
	Apply(root, ctx, "x")
	assert.Equal(t, ctx.LocalConstants[0].Value, "42")
}
