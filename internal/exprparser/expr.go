// Package exprparser implements the closed expression sub-language from
// spec §4.1: identifiers, calls, member access, unary/binary/logical/
// conditional operators, single-parameter arrows, and the filter/every/some
// higher-order forms used by loop predicates and sort comparators. It is
// deliberately not a general JavaScript expression parser — anything outside
// this grammar comes back as an Unrecognized node rather than an error,
// matching the teacher's "keep the output, flag it" posture throughout
// (compare internal/handler's non-aborting diagnostics).
package exprparser

import "strings"

// Kind discriminates the Expr sum type.
type Kind int

const (
	KindUnrecognized Kind = iota
	KindIdentifier
	KindLiteral
	KindCall
	KindMember
	KindUnary
	KindBinary
	KindLogical
	KindConditional
	KindArrow
	KindHigherOrder
)

// Expr is a tagged-union node. Only the fields relevant to Kind are
// populated; see the Kind-specific constructors below for the contract.
type Expr struct {
	Kind Kind
	Raw  string // original source text; set on identifier, literal and unrecognized nodes

	// KindIdentifier
	Name string

	// KindLiteral
	LiteralKind string // "string" | "number" | "boolean" | "null"

	// KindCall (nullary call, e.g. `foo()`)
	Callee *Expr

	// KindMember
	Object   *Expr
	Property string
	Computed bool // bracket access with a string literal key

	// KindUnary
	UnaryOp string // "!" | "-"
	Operand *Expr

	// KindBinary / KindLogical
	Op          string // "+","-","*","/","%","<","<=",">",">=","==","===","!=","!==","&&","||"
	Left, Right *Expr

	// KindConditional
	Test, Then, Else *Expr

	// KindArrow (single identifier parameter, expression body)
	Param string
	Body  *Expr

	// KindHigherOrder: `<receiver>.<Method>(<Predicate>)`, where Predicate
	// is the `param => body` arrow argument
	Method    string // "filter" | "every" | "some"
	Receiver  *Expr
	Predicate *Expr
}

// Level is the server-template-compatibility tier of a parsed expression,
// from the table in spec §4.1.
type Level int

const (
	L1 Level = iota + 1
	L2
	L3
	L4
	L5
	L5Unsupported
)

func (l Level) String() string {
	switch l {
	case L1:
		return "L1"
	case L2:
		return "L2"
	case L3:
		return "L3"
	case L4:
		return "L4"
	case L5:
		return "L5"
	case L5Unsupported:
		return "L5_UNSUPPORTED"
	default:
		return "unknown"
	}
}

// Support is the result of IsSupported.
type Support struct {
	Supported bool
	Level     Level
	Reason    string
}

// Parse is deterministic and total over syntactically well-formed input
// from the sub-language. Inputs outside the grammar come back as a single
// Unrecognized node carrying the original text in Raw, rather than an error.
func Parse(text string) *Expr {
	p := &parser{tokens: tokenize(text), raw: text}
	expr, ok := p.parseConditional()
	if !ok || p.pos < len(p.tokens) {
		return &Expr{Kind: KindUnrecognized, Raw: strings.TrimSpace(text)}
	}
	return expr
}

// IsSupported classifies a parsed expression into the L1..L5_UNSUPPORTED
// tiers from spec §4.1.
func IsSupported(e *Expr) Support {
	if e == nil || e.Kind == KindUnrecognized {
		return Support{Supported: false, Level: L5Unsupported, Reason: "expression was not recognized by the sub-language grammar"}
	}
	lvl, reason := levelOf(e)
	if lvl == L5Unsupported {
		return Support{Supported: false, Level: lvl, Reason: reason}
	}
	return Support{Supported: true, Level: lvl}
}

func levelOf(e *Expr) (Level, string) {
	switch e.Kind {
	case KindIdentifier:
		return L1, ""
	case KindCall:
		if e.Callee != nil && e.Callee.Kind == KindIdentifier {
			return L1, ""
		}
		return L2, ""
	case KindMember:
		objLvl, reason := levelOf(e.Object)
		if objLvl == L5Unsupported {
			return L5Unsupported, reason
		}
		return max(objLvl, L2), ""
	case KindLiteral:
		return L1, ""
	case KindBinary:
		leftLvl, r := levelOf(e.Left)
		if leftLvl == L5Unsupported {
			return L5Unsupported, r
		}
		rightLvl, r := levelOf(e.Right)
		if rightLvl == L5Unsupported {
			return L5Unsupported, r
		}
		return max(L3, max(leftLvl, rightLvl)), ""
	case KindUnary:
		if e.UnaryOp != "!" {
			return L5Unsupported, "unary operator " + e.UnaryOp + " is not server-template-compatible"
		}
		operandLvl, r := levelOf(e.Operand)
		if operandLvl == L5Unsupported {
			return L5Unsupported, r
		}
		return max(L4, operandLvl), ""
	case KindLogical:
		leftLvl, r := levelOf(e.Left)
		if leftLvl == L5Unsupported {
			return L5Unsupported, r
		}
		rightLvl, r := levelOf(e.Right)
		if rightLvl == L5Unsupported {
			return L5Unsupported, r
		}
		return max(L4, max(leftLvl, rightLvl)), ""
	case KindHigherOrder:
		if e.Method != "filter" && e.Method != "every" && e.Method != "some" {
			return L5Unsupported, "unsupported higher-order method " + e.Method
		}
		pred := e.Predicate
		if pred != nil && pred.Kind == KindArrow {
			pred = pred.Body
		}
		predLvl, r := levelOf(pred)
		if predLvl == L5Unsupported {
			return L5Unsupported, "predicate body: " + r
		}
		return L5, ""
	case KindArrow:
		return L5Unsupported, "a standalone arrow function is not server-template-compatible"
	case KindConditional:
		return L5Unsupported, "conditional (ternary) expressions are not part of the predicate/comparator sub-grammar"
	default:
		return L5Unsupported, "unrecognized expression"
	}
}

func max(a, b Level) Level {
	if a > b {
		return a
	}
	return b
}

// ExprToString is a left-inverse of Parse for supported inputs: parsing its
// output reproduces an equivalent tree, and it renders as the same text as
// the original modulo whitespace.
func ExprToString(e *Expr) string {
	if e == nil {
		return ""
	}
	switch e.Kind {
	case KindUnrecognized:
		return e.Raw
	case KindIdentifier:
		return e.Name
	case KindLiteral:
		return e.Raw
	case KindCall:
		return ExprToString(e.Callee) + "()"
	case KindMember:
		if e.Computed {
			return ExprToString(e.Object) + "['" + e.Property + "']"
		}
		return ExprToString(e.Object) + "." + e.Property
	case KindUnary:
		return e.UnaryOp + ExprToString(e.Operand)
	case KindBinary, KindLogical:
		return ExprToString(e.Left) + " " + e.Op + " " + ExprToString(e.Right)
	case KindConditional:
		return ExprToString(e.Test) + " ? " + ExprToString(e.Then) + " : " + ExprToString(e.Else)
	case KindArrow:
		return e.Param + " => " + ExprToString(e.Body)
	case KindHigherOrder:
		return ExprToString(e.Receiver) + "." + e.Method + "(" + ExprToString(e.Predicate) + ")"
	default:
		return e.Raw
	}
}
