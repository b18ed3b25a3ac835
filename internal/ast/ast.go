// Package ast defines the external-collaborator AST that the analyzer and
// IR lowering passes traverse (spec §9: "the source parser is an external
// collaborator... any conforming parser suffices"). It is deliberately
// shallow: most expression bodies are carried as opaque raw text, since
// spec §4.3 only needs real structure for top-level statement shape
// (function/variable declarations, destructuring patterns, conditional
// returns, imports) and for the JSX-like markup tree. Anything deeper — the
// inside of a signal initializer, an effect body, an event handler — is a
// string that later passes treat as already-valid script text (after
// internal/typestrip) rather than something they need to walk.
package ast

import "github.com/kfly8/barefootjs-sub004/internal/loc"

// Statement, Expression, Pattern and JSXNode are marker interfaces so the
// tree is a tagged sum via interface + type switch, not an inheritance
// hierarchy (spec §9's design note on the IR applies equally here).
type Statement interface{ statementNode() }
type Expression interface{ expressionNode() }
type Pattern interface{ patternNode() }
type JSXNode interface{ jsxNode() }

// Program is the root of a parsed source file: its import declarations and
// its top-level statements, in source order.
type Program struct {
	Imports []*ImportDecl
	Body    []Statement
	Range   loc.Range
}

// ImportDecl captures only what the analyzer needs to merge import sets
// across components in a multi-component file (spec §6.2): the default
// import (if any), the named bindings, and the module specifier.
type ImportDecl struct {
	Default string
	Named   []string
	Source  string
	Range   loc.Range
}

// FunctionDecl is a `function Name(params) { body }` declaration, optionally
// preceded by `export` or `export default`; an arrow function assigned to a
// const is not represented as a FunctionDecl. IsDefaultExport
// distinguishes `export default function X()` from a named export, which
// matters for MalformedComponentShape (spec §7: "non-function export").
type FunctionDecl struct {
	Name            string
	Params          []Pattern
	Body            []Statement
	BodyText        string // raw source between the braces, for nested functions the analyzer re-serializes verbatim rather than re-walking
	IsDefaultExport bool
	IsNamedExport   bool
	Range           loc.Range
}

func (*FunctionDecl) statementNode() {}

// VarDeclStmt is a top-level `const|let a = expr, b = expr2` declaration.
// Each Declarator's Init is a CallExpr when the initializer is a plain
// `name(args)` call and a RawExpr otherwise; the analyzer's recognizers
// (see internal/analyzer) read CallExpr.Callee to find createSignal,
// createMemo, etc. This package does not special-case those names: any
// call of that shape becomes a CallExpr, and the recognition is the
// analyzer's job, not the parser's.
type VarDeclStmt struct {
	Kind         string // "const" | "let" | "var"
	Declarations []*Declarator
	Range        loc.Range
}

func (*VarDeclStmt) statementNode() {}

type Declarator struct {
	ID    Pattern
	Init  Expression // nil if uninitialized
	Range loc.Range
}

// ExprStmt wraps a bare expression statement, e.g. `createEffect(() => {...})`.
type ExprStmt struct {
	Expr  Expression
	Range loc.Range
}

func (*ExprStmt) statementNode() {}

// ReturnStmt's Argument is either a JSXNode (the component's markup) or a
// RawExpr for a non-JSX return, which the analyzer reports as
// MalformedComponentShape. Conditional markup returns are written as
// `if (cond) return <A/>;` (see IfStmt and ConditionalReturn handling); a
// ternary expression as the return argument is not JSX and is reported.
type ReturnStmt struct {
	Argument interface{} // JSXNode | Expression | nil
	Range    loc.Range
}

func (*ReturnStmt) statementNode() {}

// IfStmt supports the "conditional return" shape §3.1/§4.3 calls out:
// `if (cond) return <A/>; return <B/>;` Consequent/Alternate hold nested
// statement lists rather than a single statement, so a block body and a
// bare single-statement body are represented the same way.
type IfStmt struct {
	Test       Expression
	Consequent []Statement
	Alternate  []Statement // nil if no else
	Range      loc.Range
}

func (*IfStmt) statementNode() {}

// RawExpr is an opaque expression: its Text is valid (post type-strip)
// script source, not further parsed by this package. Most call arguments,
// effect/handler bodies, and JSX expression-container contents end up as
// RawExpr; internal/exprparser is invoked directly on the Text by passes
// that need to classify or transform it.
type RawExpr struct {
	Text  string
	Range loc.Range
}

func (*RawExpr) expressionNode() {}

// CallExpr is used only where the analyzer needs the callee name
// structurally separated from its arguments without re-parsing the whole
// expression text — notably `createSignal(...)`, `createMemo(...)`,
// `createEffect(...)`, `onMount(...)`, and `props.X ?? D` recognition sites.
type CallExpr struct {
	Callee string
	Args   []Expression // each typically a *RawExpr
	Range  loc.Range
}

func (*CallExpr) expressionNode() {}

// IdentifierPattern is a bare binding name: `const count = ...`.
type IdentifierPattern struct {
	Name  string
	Range loc.Range
}

func (*IdentifierPattern) patternNode() {}

// ArrayPattern covers `const [value, setValue] = createSignal(...)`.
type ArrayPattern struct {
	Elements []Pattern
	Range    loc.Range
}

func (*ArrayPattern) patternNode() {}

// ObjectPattern covers `function Dialog({ open, onClose, ...rest })`.
type ObjectPattern struct {
	Props   []ObjectPatternProp
	Rest    string // name of a `...rest` binding, if present
	HasRest bool
	Range   loc.Range
}

func (*ObjectPattern) patternNode() {}

// ObjectPatternProp is one destructured key, its local binding name (equal
// to Key unless renamed `key: local`), and its default value's raw text, if
// any (`open = false`).
type ObjectPatternProp struct {
	Key          string
	LocalName    string
	HasDefault   bool
	DefaultText  string
	Range        loc.Range
}

// --- JSX-like markup ---

// JSXElement is `<Tag attr={expr} ...>children</Tag>` or its self-closing
// form. Tag's first letter distinguishes host elements from components (an
// uppercase first letter means component, per the dialect's JSX convention,
// mirrored from the input language rather than invented here); tag names
// are not checked against a list of known HTML tags.
type JSXElement struct {
	Tag         string
	Attrs       []JSXAttr
	Children    []JSXNode
	SelfClosing bool
	Range       loc.Range
}

func (*JSXElement) jsxNode() {}

// JSXFragment is a bare `<>...</>` with no tag of its own.
type JSXFragment struct {
	Children []JSXNode
	Range    loc.Range
}

func (*JSXFragment) jsxNode() {}

// JSXText is literal text content between tags.
type JSXText struct {
	Value string
	Range loc.Range
}

func (*JSXText) jsxNode() {}

// JSXExprContainer is `{expr}` markup content. Expr's Text is the raw
// source between the braces; internal/exprparser classifies it when the IR
// lowering pass needs to know its reactivity level.
type JSXExprContainer struct {
	Expr  *RawExpr
	Range loc.Range
}

func (*JSXExprContainer) jsxNode() {}

// JSXAttr is one attribute on a JSXElement. A string-literal value has
// IsExpr false and Value holds the literal text (unquoted); an
// expression-valued attribute (`checked={done()}`) has IsExpr true and
// Value holds the raw expression text. IsSpread marks `{...rest}`.
type JSXAttr struct {
	Name     string
	Value    string
	IsExpr   bool
	IsSpread bool
	Range    loc.Range
}
