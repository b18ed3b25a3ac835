package exprparser

// parser is a straightforward recursive-descent parser over the token
// stream produced by tokenize. Each parse method returns (nil, false) on
// any input it doesn't recognize; Parse (in expr.go) turns that into a
// single KindUnrecognized node rather than propagating an error, since the
// sub-language is explicitly closed and "didn't match" is an expected
// outcome, not a bug.
type parser struct {
	tokens []token
	pos    int
	raw    string
}

func (p *parser) peek() token {
	if p.pos < len(p.tokens) {
		return p.tokens[p.pos]
	}
	return token{kind: tokEOF}
}

func (p *parser) next() token {
	t := p.peek()
	p.pos++
	return t
}

func (p *parser) isPunct(s string) bool {
	t := p.peek()
	return t.kind == tokPunct && t.text == s
}

func (p *parser) consumePunct(s string) bool {
	if p.isPunct(s) {
		p.pos++
		return true
	}
	return false
}

// parseConditional is the grammar's entry point:
//
//	conditional := arrow | logicalOr ( '?' conditional ':' conditional )?
//	arrow       := IDENT '=>' conditional
func (p *parser) parseConditional() (*Expr, bool) {
	if p.peek().kind == tokIdent {
		save := p.pos
		param := p.next()
		if p.consumePunct("=>") {
			body, ok := p.parseConditional()
			if !ok {
				return nil, false
			}
			return &Expr{Kind: KindArrow, Param: param.text, Body: body}, true
		}
		p.pos = save
	}

	test, ok := p.parseLogicalOr()
	if !ok {
		return nil, false
	}
	if p.consumePunct("?") {
		then, ok := p.parseConditional()
		if !ok {
			return nil, false
		}
		if !p.consumePunct(":") {
			return nil, false
		}
		els, ok := p.parseConditional()
		if !ok {
			return nil, false
		}
		return &Expr{Kind: KindConditional, Test: test, Then: then, Else: els}, true
	}
	return test, true
}

func (p *parser) parseLogicalOr() (*Expr, bool) {
	left, ok := p.parseLogicalAnd()
	if !ok {
		return nil, false
	}
	for p.isPunct("||") {
		p.next()
		right, ok := p.parseLogicalAnd()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindLogical, Op: "||", Left: left, Right: right}
	}
	return left, true
}

func (p *parser) parseLogicalAnd() (*Expr, bool) {
	left, ok := p.parseEquality()
	if !ok {
		return nil, false
	}
	for p.isPunct("&&") {
		p.next()
		right, ok := p.parseEquality()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindLogical, Op: "&&", Left: left, Right: right}
	}
	return left, true
}

var equalityOps = []string{"===", "!==", "==", "!="}

func (p *parser) parseEquality() (*Expr, bool) {
	left, ok := p.parseComparison()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAny(equalityOps)
		if !matched {
			return left, true
		}
		right, ok := p.parseComparison()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindBinary, Op: op, Left: left, Right: right}
	}
}

var comparisonOps = []string{"<=", ">=", "<", ">"}

func (p *parser) parseComparison() (*Expr, bool) {
	left, ok := p.parseAdditive()
	if !ok {
		return nil, false
	}
	for {
		op, matched := p.matchAny(comparisonOps)
		if !matched {
			return left, true
		}
		right, ok := p.parseAdditive()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindBinary, Op: op, Left: left, Right: right}
	}
}

func (p *parser) parseAdditive() (*Expr, bool) {
	left, ok := p.parseMultiplicative()
	if !ok {
		return nil, false
	}
	for p.isPunct("+") || p.isPunct("-") {
		op := p.next().text
		right, ok := p.parseMultiplicative()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindBinary, Op: op, Left: left, Right: right}
	}
	return left, true
}

func (p *parser) parseMultiplicative() (*Expr, bool) {
	left, ok := p.parseUnary()
	if !ok {
		return nil, false
	}
	for p.isPunct("*") || p.isPunct("/") || p.isPunct("%") {
		op := p.next().text
		right, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		left = &Expr{Kind: KindBinary, Op: op, Left: left, Right: right}
	}
	return left, true
}

func (p *parser) parseUnary() (*Expr, bool) {
	if p.isPunct("!") || p.isPunct("-") {
		op := p.next().text
		operand, ok := p.parseUnary()
		if !ok {
			return nil, false
		}
		return &Expr{Kind: KindUnary, UnaryOp: op, Operand: operand}, true
	}
	return p.parsePostfix()
}

// parsePostfix handles member access, bracket access, and calls. A call
// only ever carries zero or one argument in this grammar: zero for a plain
// nullary call, one for a higher-order filter/every/some predicate.
func (p *parser) parsePostfix() (*Expr, bool) {
	expr, ok := p.parsePrimary()
	if !ok {
		return nil, false
	}
	for {
		switch {
		case p.consumePunct("."):
			if p.peek().kind != tokIdent {
				return nil, false
			}
			name := p.next().text
			expr = &Expr{Kind: KindMember, Object: expr, Property: name}
		case p.consumePunct("["):
			if p.peek().kind != tokString {
				return nil, false
			}
			key := unquote(p.next().text)
			if !p.consumePunct("]") {
				return nil, false
			}
			expr = &Expr{Kind: KindMember, Object: expr, Property: key, Computed: true}
		case p.consumePunct("("):
			args, ok := p.parseArgs()
			if !ok {
				return nil, false
			}
			call, ok := buildCall(expr, args)
			if !ok {
				return nil, false
			}
			expr = call
		default:
			return expr, true
		}
	}
}

// parseArgs accepts an empty argument list or a single argument; a second
// argument (reached via a trailing comma) falls outside the grammar.
func (p *parser) parseArgs() ([]*Expr, bool) {
	if p.consumePunct(")") {
		return nil, true
	}
	arg, ok := p.parseConditional()
	if !ok {
		return nil, false
	}
	if p.isPunct(",") {
		return nil, false
	}
	if !p.consumePunct(")") {
		return nil, false
	}
	return []*Expr{arg}, true
}

func (p *parser) parsePrimary() (*Expr, bool) {
	t := p.peek()
	switch t.kind {
	case tokIdent:
		p.next()
		switch t.text {
		case "true", "false":
			return &Expr{Kind: KindLiteral, LiteralKind: "boolean", Raw: t.text}, true
		case "null", "undefined":
			return &Expr{Kind: KindLiteral, LiteralKind: "null", Raw: t.text}, true
		default:
			return &Expr{Kind: KindIdentifier, Name: t.text, Raw: t.text}, true
		}
	case tokNumber:
		p.next()
		return &Expr{Kind: KindLiteral, LiteralKind: "number", Raw: t.text}, true
	case tokString:
		p.next()
		return &Expr{Kind: KindLiteral, LiteralKind: "string", Raw: t.text}, true
	case tokPunct:
		if t.text == "(" {
			p.next()
			inner, ok := p.parseConditional()
			if !ok {
				return nil, false
			}
			if !p.consumePunct(")") {
				return nil, false
			}
			return inner, true
		}
		return nil, false
	default:
		return nil, false
	}
}

func (p *parser) matchAny(ops []string) (string, bool) {
	for _, op := range ops {
		if p.isPunct(op) {
			p.next()
			return op, true
		}
	}
	return "", false
}

// buildCall turns a parsed callee/argument pair into either a plain
// nullary KindCall or, when the callee is a `.filter`/`.every`/`.some`
// member access applied to a single arrow argument, a KindHigherOrder node.
// Any other single-argument call falls outside the grammar.
func buildCall(callee *Expr, args []*Expr) (*Expr, bool) {
	if len(args) == 0 {
		return &Expr{Kind: KindCall, Callee: callee}, true
	}
	if callee.Kind == KindMember && isHigherOrderMethod(callee.Property) && args[0].Kind == KindArrow {
		return &Expr{Kind: KindHigherOrder, Method: callee.Property, Receiver: callee.Object, Predicate: args[0]}, true
	}
	return nil, false
}

func isHigherOrderMethod(name string) bool {
	return name == "filter" || name == "every" || name == "some"
}

// unquote strips the surrounding quote characters from a tokString's text.
func unquote(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
