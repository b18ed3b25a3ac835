package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gotest.tools/v3/assert"
)

func writeTempComponent(t *testing.T, dir, name, src string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	assert.NilError(t, os.WriteFile(p, []byte(src), 0o644))
	return p
}

func TestRunCompileWritesTemplateAndClientJS(t *testing.T) {
	dir := t.TempDir()
	src := `
function Counter() {
  const [count, setCount] = createSignal(0);
  return <button onClick={() => setCount(n => n+1)}>Count: {count()}</button>;
}
`
	p := writeTempComponent(t, dir, "Counter.bf", src)

	err := runCompile(p, "", "", false, false)
	assert.NilError(t, err)

	tmpl, err := os.ReadFile(filepath.Join(dir, "Counter.tmpl"))
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(tmpl), `{{define "Counter"}}`))

	js, err := os.ReadFile(filepath.Join(dir, "Counter.client.js"))
	assert.NilError(t, err)
	assert.Assert(t, strings.Contains(string(js), "initCounter"))
}

func TestRunCompileOutDirRedirectsOutput(t *testing.T) {
	srcDir := t.TempDir()
	outDir := t.TempDir()
	src := `
function Static() {
  return <div className="hello">Hi there</div>;
}
`
	p := writeTempComponent(t, srcDir, "Static.bf", src)

	err := runCompile(p, outDir, "", false, false)
	assert.NilError(t, err)

	_, err = os.Stat(filepath.Join(outDir, "Static.tmpl"))
	assert.NilError(t, err)
	_, err = os.Stat(filepath.Join(srcDir, "Static.tmpl"))
	assert.Assert(t, os.IsNotExist(err))
}

func TestNewRootCmdRegistersCompile(t *testing.T) {
	root := newRootCmd()
	cmd, _, err := root.Find([]string{"compile"})
	assert.NilError(t, err)
	assert.Equal(t, cmd.Name(), "compile")
}
