package exprparser

import (
	"testing"

	"gotest.tools/v3/assert"
)

func TestParseRoundTrip(t *testing.T) {
	cases := []string{
		"count",
		"props.count",
		"count()",
		"count() > 0",
		"count() === 0",
		"!done()",
		"done() && count() > 0",
		"done() || count() === 0",
		"count() > 0 ? 'a' : 'b'",
		"todos().filter(t => !t.done)",
		"todos().every(t => t.done)",
		"items().some(i => i.active === true)",
	}
	for _, src := range cases {
		e := Parse(src)
		assert.Assert(t, e.Kind != KindUnrecognized, "expected %q to parse", src)
		assert.Equal(t, ExprToString(e), src)
	}
}

func TestParseUnrecognizedFallsBack(t *testing.T) {
	cases := []string{
		"a, b",
		"foo(1, 2)",
		"() => {}",
		"a +",
	}
	for _, src := range cases {
		e := Parse(src)
		assert.Equal(t, e.Kind, KindUnrecognized)
		assert.Equal(t, e.Raw, src)
	}
}

func TestLevelClassification(t *testing.T) {
	cases := []struct {
		src  string
		lvl  Level
		supp bool
	}{
		{"count", L1, true},
		{"count()", L1, true},
		{"props.count", L2, true},
		{"items().length", L2, true},
		{"count() > 0", L3, true},
		{"count() === 0", L3, true},
		{"!done()", L4, true},
		{"done() && count() > 0", L4, true},
		{"todos().filter(t => !t.done)", L5, true},
		{"todos().every(t => t.done)", L5, true},
		{"count() > 0 ? 'a' : 'b'", L5Unsupported, false},
		{"x => x + 1", L5Unsupported, false},
	}
	for _, tc := range cases {
		e := Parse(tc.src)
		support := IsSupported(e)
		assert.Equal(t, support.Level, tc.lvl, tc.src)
		assert.Equal(t, support.Supported, tc.supp, tc.src)
	}
}

func TestHigherOrderRejectsUnsupportedMethod(t *testing.T) {
	e := Parse("todos().map(t => t.id)")
	assert.Equal(t, e.Kind, KindUnrecognized)
}

// TestTokenizeSkipsComments guards against a `/* ... */` or `// ...` inside
// an expression container's raw text being misread as a division/regex
// punctuator by the tokenizer's comment-skipping.
func TestTokenizeSkipsComments(t *testing.T) {
	e := Parse("count() /* current */ > 0")
	assert.Equal(t, e.Kind, KindBinary)

	e = Parse("count() > 0 // trailing")
	assert.Equal(t, e.Kind, KindBinary)
}
