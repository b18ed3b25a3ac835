package compiler

import (
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func compileSource(t *testing.T, source string) Result {
	t.Helper()
	return Compile(source, "Component.bf", Options{})
}

// TestCompileCounterEmitsReactiveTextEffect is spec §8 scenario 1.
func TestCompileCounterEmitsReactiveTextEffect(t *testing.T) {
	source := `
function Counter() {
  const [count, setCount] = createSignal(0);
  return <button onClick={() => setCount(n => n+1)}>Count: {count()}</button>;
}
`
	res := compileSource(t, source)
	assert.Equal(t, len(res.Errors), 0)
	assert.Assert(t, len(res.Files) > 0)
	var js string
	for _, f := range res.Files {
		if f.Type == ClientJS {
			js = f.Content
		}
	}
	assert.Assert(t, js != "")
	assert.Assert(t, strings.Contains(js, "initCounter"))
	assert.Assert(t, strings.Contains(js, "createSignal"))
	assert.Assert(t, strings.Contains(js, "createEffect"))
}

// TestCompileObjectPropsDialog is spec §8 scenario 2.
func TestCompileObjectPropsDialog(t *testing.T) {
	source := `
function Dialog(props) {
  return <div>{props.open ? 'yes' : 'no'}</div>;
}
`
	res := compileSource(t, source)
	assert.Equal(t, len(res.Errors), 0)
	var js string
	for _, f := range res.Files {
		if f.Type == ClientJS {
			js = f.Content
		}
	}
	assert.Assert(t, strings.Contains(js, "props.open"))
	assert.Assert(t, !strings.Contains(js, "props.props"))
}

// TestCompileDestructuredPropsDialog is spec §8 scenario 3.
func TestCompileDestructuredPropsDialog(t *testing.T) {
	source := `
function Dialog({ open }) {
  return <div>{open ? 'yes' : 'no'}</div>;
}
`
	res := compileSource(t, source)
	var js string
	for _, f := range res.Files {
		if f.Type == ClientJS {
			js = f.Content
		}
	}
	assert.Assert(t, strings.Contains(js, "const open = props.open"))
	assert.Assert(t, !strings.Contains(js, "props.open ?"))
}

// TestCompileControlledSignalPreservesFallback is spec §8 scenario 4.
func TestCompileControlledSignalPreservesFallback(t *testing.T) {
	source := `
function Toggle(props) {
  const [v, setV] = createSignal(props.initial ?? 0);
  return <div>{v()}</div>;
}
`
	res := compileSource(t, source)
	var js string
	for _, f := range res.Files {
		if f.Type == ClientJS {
			js = f.Content
		}
	}
	assert.Assert(t, strings.Contains(js, "sync controlled prop 'initial'"))
	assert.Assert(t, strings.Contains(js, "?? 0"))
}

// TestCompileNoClientNeedEmitsNoFiles exercises the client-need predicate
// end to end through the driver (spec §4.6/§8): markup with no signals,
// memos, effects, or dynamic content produces zero client files.
func TestCompileNoClientNeedEmitsNoFiles(t *testing.T) {
	source := `
function Static() {
  return <div className="hello">Hi there</div>;
}
`
	res := compileSource(t, source)
	assert.Equal(t, len(res.Errors), 0)
	for _, f := range res.Files {
		assert.Assert(t, f.Type != ClientJS)
	}
}

// TestCompileFilterSortMapChainExtractsLoopIR is spec §8 scenario 5.
func TestCompileFilterSortMapChainExtractsLoopIR(t *testing.T) {
	source := `
function TodoList() {
  const [items, setItems] = createSignal([]);
  return <ul>{items().filter(t => !t.done).sort((a, b) => a.priority - b.priority).map(t => <li>{t.text}</li>)}</ul>;
}
`
	res := compileSource(t, source)
	assert.Equal(t, len(res.Errors), 0)
	var dump string
	res2 := Compile(source, "TodoList.bf", Options{OutputIR: true})
	for _, f := range res2.Files {
		if f.Type == IRDump {
			dump = f.Content
		}
	}
	assert.Assert(t, strings.Contains(dump, `"array": "items()"`))
	assert.Assert(t, strings.Contains(dump, `"chainOrder": "filter-sort"`))
	assert.Assert(t, strings.Contains(dump, `"direction": "asc"`))
	assert.Assert(t, !strings.Contains(dump, `"array": "items().filter`))
}

// TestCompileProviderOnlyRootWrapsAndHydrates is spec §8 scenario 6.
func TestCompileProviderOnlyRootWrapsAndHydrates(t *testing.T) {
	source := `
function Root(props) {
  return <Ctx.Provider value={props.value}>{props.children}</Ctx.Provider>;
}
`
	res := compileSource(t, source)
	assert.Equal(t, len(res.Errors), 0)
	var js string
	for _, f := range res.Files {
		if f.Type == ClientJS {
			js = f.Content
		}
	}
	assert.Assert(t, js != "")
	assert.Assert(t, strings.Contains(js, "findScope"))
	assert.Assert(t, strings.Contains(js, "provideContext"))
}

func TestCompileIRDumpIncludesVersion(t *testing.T) {
	source := `
function Counter() {
  const [count, setCount] = createSignal(0);
  return <button onClick={() => setCount(n => n+1)}>{count()}</button>;
}
`
	res := Compile(source, "Counter.bf", Options{OutputIR: true})
	var dump string
	for _, f := range res.Files {
		if f.Type == IRDump {
			dump = f.Content
		}
	}
	assert.Assert(t, dump != "")
	assert.Assert(t, strings.Contains(dump, `"version": "0.1"`))
}
