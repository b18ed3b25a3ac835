// Package typestrip implements spec §4.2: erasing TypeScript-only syntax
// from a source-like string so the result parses as plain script code.
// This is a textual, regex-class rewrite rather than a full-AST strip (see
// spec §9's design note on why that tradeoff is intentional here); it trades
// completeness for being simple enough to reason about byte-for-byte, which
// matters for the determinism property in §8.
package typestrip

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
)

// valueLikeTypeNames are identifiers that can legally follow a `:` as a
// plain JS value rather than a type annotation — stripping these would
// mangle object-literal properties like `bubbles: true`.
var valueLikeTypeNames = map[string]bool{
	"true": true, "false": true, "null": true, "undefined": true,
}

var (
	// Generic type arguments immediately before a call's opening paren:
	// `foo<T>(...)`, `new Map<string, number>()`.
	genericCallArgs = regexp2.MustCompile(`<[A-Za-z_$][\w$\s,.\[\]|&<>]*>(?=\()`, regexp2.None)

	// `as <Type>` assertions, including unions/arrays/generics, up to the
	// next statement/expression boundary.
	asAssertion = regexp2.MustCompile(`\s+as\s+(?!const\b)[A-Za-z_$][\w$.]*(?:<[^<>]*>)?(?:\[\])*(?:\s*\|\s*[A-Za-z_$][\w$.]*(?:<[^<>]*>)?(?:\[\])*)*`, regexp2.None)

	// Non-null postfix `!`, never `!=`/`!==`. Requires a preceding
	// identifier/`)`/`]` char and must not be followed by `=`.
	nonNullPostfix = regexp2.MustCompile(`(?<=[\w)\]])!(?!=)`, regexp2.None)

	// `): T =>` / `): x is T =>` return-type annotations (including type
	// predicates) on arrow functions.
	arrowReturnType = regexp2.MustCompile(`\)\s*:\s*[A-Za-z_$][\w$]*\s+is\s+[A-Za-z_$][\w$.\[\]<>|& ]*\s*=>|\)\s*:\s*[A-Za-z_$][\w$.\[\]<>|& ]*\s*=>`, regexp2.None)

	// `interface Name { ... }` blocks, brace-depth naive (no nested
	// interfaces inside interfaces in this sub-language).
	interfaceBlock = regexp2.MustCompile(`interface\s+[A-Za-z_$][\w$]*(?:<[^{]*>)?\s*\{[^{}]*\}\s*`, regexp2.None)

	// `type Alias<T> = ...;` declarations, terminated by `;` or newline.
	typeAlias = regexp2.MustCompile(`type\s+[A-Za-z_$][\w$]*(?:<[^=]*>)?\s*=\s*[^;\n]*;?\s*`, regexp2.None)

	// Parameter/variable type annotations: `: Type` before `,`, `)`, `=`,
	// or `;`. The matched type text is checked against valueLikeTypeNames
	// (see keepsAsValue) before being accepted as erasable.
	annotation = regexp2.MustCompile(`:\s*[A-Za-z_$][\w$.]*(?:<[^<>,;=)]*>)?(?:\[\])*(?:\s*\|\s*[A-Za-z_$][\w$.]*(?:<[^<>,;=)]*>)?(?:\[\])*)*(?=\s*[,)=;])`, regexp2.None)
)

// Strip erases TypeScript-only annotations from src, returning script-only
// text. The result parses as valid script code when src was a valid
// annotated expression or statement; all other bytes are preserved
// verbatim.
func Strip(src string) string {
	out := src
	out = mustReplace(interfaceBlock, out, "")
	out = mustReplace(typeAlias, out, "")
	out = mustReplace(arrowReturnType, out, ")=>")
	out = mustReplace(genericCallArgs, out, "")
	out = mustReplace(asAssertion, out, "")
	out = stripAnnotations(out)
	out = mustReplace(nonNullPostfix, out, "")
	return out
}

// stripAnnotations walks all `annotation` matches and only deletes the ones
// whose captured type text is not a plain JS value, leaving object-literal
// properties such as `bubbles: true` untouched.
func stripAnnotations(src string) string {
	var b strings.Builder
	pos := 0
	m, _ := annotation.FindStringMatch(src)
	for m != nil {
		start := m.Index
		end := m.Index + m.Length
		text := strings.TrimSpace(strings.TrimPrefix(m.String(), ":"))
		if keepsAsValue(text) {
			b.WriteString(src[pos:end])
		} else {
			b.WriteString(src[pos:start])
		}
		pos = end
		m, _ = annotation.FindNextMatch(m)
	}
	b.WriteString(src[pos:])
	return b.String()
}

var numericLiteral = regexp.MustCompile(`^-?\d`)
var stringLiteral = regexp.MustCompile(`^['"` + "`" + `]`)

func keepsAsValue(typeText string) bool {
	if valueLikeTypeNames[typeText] {
		return true
	}
	if numericLiteral.MatchString(typeText) || stringLiteral.MatchString(typeText) {
		return true
	}
	return false
}

func mustReplace(re *regexp2.Regexp, input, repl string) string {
	out, err := re.Replace(input, repl, -1, -1)
	if err != nil {
		return input
	}
	return out
}
