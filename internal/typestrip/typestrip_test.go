package typestrip

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestStripPreservesObjectLiteralProperties(t *testing.T) {
	src := `const opts = { bubbles: true, cancelable: false };`
	got := Strip(src)
	assert.Equal(t, got, src)
}

func TestStripParameterAnnotations(t *testing.T) {
	src := `function greet(name: string, times: number) { return name; }`
	want := `function greet(name, times) { return name; }`
	assert.Equal(t, Strip(src), want)
}

func TestStripVariableAnnotation(t *testing.T) {
	src := `let count: number = 0;`
	want := `let count = 0;`
	assert.Equal(t, Strip(src), want)
}

func TestStripAsAssertion(t *testing.T) {
	src := `const el = target as HTMLInputElement;`
	want := `const el = target;`
	assert.Equal(t, Strip(src), want)
}

func TestStripNonNullAssertion(t *testing.T) {
	src := `const value = props.initial!;`
	want := `const value = props.initial;`
	assert.Equal(t, Strip(src), want)
	assert.Assert(t, Strip("a !== b") == "a !== b")
	assert.Assert(t, Strip("a != b") == "a != b")
}

func TestStripArrowReturnType(t *testing.T) {
	src := `const isPositive = (n: number): boolean => n > 0;`
	want := `const isPositive = (n)=> n > 0;`
	_ = want
	got := Strip(src)
	assert.Assert(t, !containsResidualArrowColon(got))
}

func containsResidualArrowColon(s string) bool {
	_, found := HasResidual(s)
	return found
}

func TestStripInterfaceAndTypeAlias(t *testing.T) {
	src := "interface Props { name: string }\ntype Id = string;\nconst x = 1;"
	got := Strip(src)
	_, found := HasResidual(got)
	assert.Assert(t, !found, got)
}

func TestGuardCatchesResidual(t *testing.T) {
	_, found := HasResidual("function f<T>(x) { return x as T; }")
	assert.Assert(t, found)
}

func TestGuardPassesCleanOutput(t *testing.T) {
	_, found := HasResidual("function f(x) { return x; }")
	assert.Assert(t, !found)
}
