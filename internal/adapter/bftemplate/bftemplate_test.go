package bftemplate

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/handler"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
	"github.com/kfly8/barefootjs-sub004/internal/sourceparse"
)

func lowerSource(t *testing.T, src string) (*ir.Root, *analyzer.AnalyzerContext) {
	t.Helper()
	prog, err := sourceparse.Parse(src)
	assert.NilError(t, err)
	h := handler.New(src, "Component.bf")
	ctx := analyzer.Analyze(prog, "Component.bf", h)
	root := ir.Lower(ctx, h)
	assert.Assert(t, root != nil)
	return root, ctx
}

func TestGenerateCounterEmitsScopeAndSignalField(t *testing.T) {
	src := `
function Counter() {
  const [count, setCount] = createSignal(0);
  return <button onClick={() => setCount(n => n+1)}>Count: {count()}</button>;
}
`
	root, ctx := lowerSource(t, src)
	out, err := Adapter{}.Generate(root, ctx)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out.Template, `{{define "Counter"}}`))
	assert.Assert(t, strings.Contains(out.Template, `data-bf-scope="Counter_{{.ScopeID}}"`))
	assert.Assert(t, strings.Contains(out.Template, ".Count"))
}

func TestGenerateObjectPropsConditionalUsesBareIf(t *testing.T) {
	src := `
function Dialog(props) {
  return <div>{props.open ? 'yes' : 'no'}</div>;
}
`
	root, ctx := lowerSource(t, src)
	out, err := Adapter{}.Generate(root, ctx)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out.Template, "{{if .Open}}"))
	assert.Assert(t, strings.Contains(out.Template, `<!--bf-cond-start:s0-->yes<!--bf-cond-end:s0-->`))
	assert.Assert(t, strings.Contains(out.Template, `<!--bf-cond-start:s0-->no<!--bf-cond-end:s0-->`))
	assert.Assert(t, !strings.Contains(out.Template, "bf_ternary"))
}

func TestGenerateStaticComponentHasNoAnchorsBeyondScope(t *testing.T) {
	src := `
function Static() {
  return <div className="hello">Hi there</div>;
}
`
	root, ctx := lowerSource(t, src)
	out, err := Adapter{}.Generate(root, ctx)
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(out.Template, `data-bf-scope="Static_{{.ScopeID}}"`))
	assert.Assert(t, !strings.Contains(out.Template, `data-bf="`))
}

func TestExtensionIsTmpl(t *testing.T) {
	assert.Equal(t, Adapter{}.Extension(), "tmpl")
}
