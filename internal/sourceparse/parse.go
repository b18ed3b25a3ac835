package sourceparse

import (
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/ast"
	"github.com/kfly8/barefootjs-sub004/internal/jscan"
)

// Parse turns type-stripped component source text into a Program. It
// recognizes: an optional leading "use client" directive, import
// declarations, top-level function declarations (with or without
// export/export default), and, inside a function body, const/let/var
// declarations, bare call-expression statements, nested function
// declarations, if/return statements and a trailing return. Anything it
// cannot classify is preserved as an opaque RawExpr so later passes still
// see the text even when this parser's shallow grammar doesn't model it.
func Parse(src string) (*ast.Program, error) {
	prog := &ast.Program{}
	stmts := splitTopLevelStatements(src)
	for idx, raw := range stmts {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		if idx == 0 {
			if d, ok := directiveStatement(text); ok {
				prog.Body = append(prog.Body, d)
				continue
			}
		}
		if imp, ok := parseImport(text); ok {
			prog.Imports = append(prog.Imports, imp)
			continue
		}
		if fn, ok := parseFunctionDecl(text); ok {
			prog.Body = append(prog.Body, fn)
			continue
		}
		prog.Body = append(prog.Body, &ast.ExprStmt{Expr: &ast.RawExpr{Text: text}})
	}
	return prog, nil
}

func directiveStatement(text string) (*ast.ExprStmt, bool) {
	t := strings.TrimSuffix(strings.TrimSpace(text), ";")
	if (strings.HasPrefix(t, `"`) && strings.HasSuffix(t, `"`)) ||
		(strings.HasPrefix(t, "'") && strings.HasSuffix(t, "'")) {
		inner := strings.Trim(t, `"'`)
		if inner == "use client" {
			return &ast.ExprStmt{Expr: &ast.RawExpr{Text: t}}, true
		}
	}
	return nil, false
}

// splitTopLevelStatements splits a program into its top-level constructs:
// import lines, and function declarations kept whole (braces balanced) so
// their bodies can be recursively split the same way.
func splitTopLevelStatements(src string) []string {
	var out []string
	i := 0
	n := len(src)
	start := 0
	for i < n {
		j := skipWS(src, i)
		if j >= n {
			break
		}
		if src[j] == '\n' {
			i = j + 1
			continue
		}
		// function declarations (possibly preceded by export/export default)
		if kw, ok := matchFunctionKeyword(src, j); ok {
			braceStart := strings.IndexByte(src[kw:], '{')
			if braceStart == -1 {
				i = n
				break
			}
			braceStart += kw
			end := findMatching(src, braceStart)
			if end == -1 {
				end = n - 1
			}
			out = append(out, src[j:end+1])
			i = end + 1
			start = i
			continue
		}
		if strings.HasPrefix(src[j:], "import ") {
			semi := strings.IndexByte(src[j:], ';')
			if semi == -1 {
				semi = strings.IndexByte(src[j:], '\n')
			}
			if semi == -1 {
				out = append(out, src[j:])
				i = n
				break
			}
			out = append(out, src[j:j+semi])
			i = j + semi + 1
			start = i
			continue
		}
		i = j + 1
	}
	if start < n && strings.TrimSpace(src[start:]) != "" {
		out = append(out, src[start:])
	}
	return out
}

func matchFunctionKeyword(src string, at int) (int, bool) {
	rest := src[at:]
	for _, prefix := range []string{"export default function", "export function", "function"} {
		if strings.HasPrefix(rest, prefix) {
			return at + len(prefix), true
		}
	}
	return 0, false
}

func parseImport(text string) (*ast.ImportDecl, bool) {
	if !strings.HasPrefix(text, "import ") {
		return nil, false
	}
	rest := strings.TrimSpace(strings.TrimPrefix(text, "import "))
	fromIdx := strings.LastIndex(rest, " from ")
	if fromIdx == -1 {
		return nil, false
	}
	spec := strings.TrimSpace(rest[:fromIdx])
	source := strings.Trim(strings.TrimSpace(rest[fromIdx+len(" from "):]), `'";`)
	imp := &ast.ImportDecl{Source: source}
	if strings.Contains(spec, "{") {
		open := strings.IndexByte(spec, '{')
		close := strings.IndexByte(spec, '}')
		before := strings.TrimSuffix(strings.TrimSpace(spec[:open]), ",")
		if before != "" {
			imp.Default = strings.TrimSpace(before)
		}
		if close > open {
			for _, n := range strings.Split(spec[open+1:close], ",") {
				n = strings.TrimSpace(n)
				if n != "" {
					imp.Named = append(imp.Named, n)
				}
			}
		}
	} else {
		imp.Default = spec
	}
	return imp, true
}

func parseFunctionDecl(text string) (*ast.FunctionDecl, bool) {
	isDefault := false
	isNamed := false
	rest := text
	switch {
	case strings.HasPrefix(rest, "export default function"):
		isDefault = true
		rest = strings.TrimPrefix(rest, "export default function")
	case strings.HasPrefix(rest, "export function"):
		isNamed = true
		rest = strings.TrimPrefix(rest, "export function")
	case strings.HasPrefix(rest, "function"):
		rest = strings.TrimPrefix(rest, "function")
	default:
		return nil, false
	}
	rest = strings.TrimSpace(rest)
	parenIdx := strings.IndexByte(rest, '(')
	if parenIdx == -1 {
		return nil, false
	}
	name := strings.TrimSpace(rest[:parenIdx])
	parenEnd := findMatching(rest, parenIdx)
	if parenEnd == -1 {
		return nil, false
	}
	paramsText := rest[parenIdx+1 : parenEnd]
	braceStart := strings.IndexByte(rest[parenEnd:], '{')
	if braceStart == -1 {
		return nil, false
	}
	braceStart += parenEnd
	braceEnd := findMatching(rest, braceStart)
	if braceEnd == -1 {
		braceEnd = len(rest) - 1
	}
	bodyText := rest[braceStart+1 : braceEnd]

	fn := &ast.FunctionDecl{
		Name:            name,
		IsDefaultExport: isDefault,
		IsNamedExport:   isNamed,
		BodyText:        strings.TrimSpace(bodyText),
	}
	for _, p := range splitTopLevel(paramsText, ',') {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		fn.Params = append(fn.Params, parsePattern(p))
	}
	fn.Body = parseStatements(bodyText)
	return fn, true
}

func parseStatements(body string) []ast.Statement {
	var out []ast.Statement
	for _, raw := range splitStatements(body) {
		text := strings.TrimSpace(raw)
		if text == "" {
			continue
		}
		out = append(out, parseStatement(text))
	}
	return out
}

// splitStatements splits a function body into top-level statements on `;`
// outside brackets, but keeps brace-delimited constructs (if, nested
// function, object literal across lines) intact by special-casing
// `if (...) { ... }` and `function ... { ... }` prefixes.
func splitStatements(body string) []string {
	var out []string
	i := 0
	n := len(body)
	for i < n {
		j := skipWS(body, i)
		if j >= n {
			break
		}
		ifScan := jscan.New([]byte(body))
		ifScan.Pos = j
		if ifScan.HasKeywordAt("if") {
			parenStart := strings.IndexByte(body[j:], '(')
			if parenStart == -1 {
				i = j + 1
				continue
			}
			parenStart += j
			parenEnd := findMatching(body, parenStart)
			braceStart := strings.IndexByte(body[parenEnd:], '{')
			if braceStart == -1 {
				i = parenEnd + 1
				continue
			}
			braceStart += parenEnd
			braceEnd := findMatching(body, braceStart)
			if braceEnd == -1 {
				braceEnd = n - 1
			}
			end := braceEnd + 1
			// optional else
			k := skipWS(body, end)
			if strings.HasPrefix(body[k:], "else") {
				elseRest := k + len("else")
				eb := strings.IndexByte(body[elseRest:], '{')
				if eb != -1 {
					eb += elseRest
					ee := findMatching(body, eb)
					if ee != -1 {
						end = ee + 1
					}
				}
			}
			out = append(out, body[j:end])
			i = end
			continue
		}
		if kw, ok := matchFunctionKeyword(body, j); ok {
			braceStart := strings.IndexByte(body[kw:], '{')
			if braceStart != -1 {
				braceStart += kw
				end := findMatching(body, braceStart)
				if end == -1 {
					end = n - 1
				}
				out = append(out, body[j:end+1])
				i = end + 1
				continue
			}
		}
		semi := indexTopLevelSemi(body, j)
		if semi == -1 {
			out = append(out, body[j:])
			break
		}
		out = append(out, body[j:semi])
		i = semi + 1
	}
	return out
}

func isIdentByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}

func indexTopLevelSemi(body string, from int) int {
	depth := 0
	i := from
	for i < len(body) {
		c := body[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipStringLit(body, i)
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == ';' && depth == 0:
			return i
		}
		i++
	}
	return -1
}

func parseStatement(text string) ast.Statement {
	switch {
	case strings.HasPrefix(text, "return"):
		argText := strings.TrimSpace(strings.TrimPrefix(text, "return"))
		argText = strings.TrimSuffix(argText, ";")
		argText = unwrapParens(argText)
		return &ast.ReturnStmt{Argument: parseReturnArgument(argText)}
	case strings.HasPrefix(text, "if"):
		return parseIfStmt(text)
	case strings.HasPrefix(text, "const ") || strings.HasPrefix(text, "let ") || strings.HasPrefix(text, "var "):
		return parseVarDecl(text)
	case strings.HasPrefix(text, "function"):
		fn, _ := parseFunctionDecl(text)
		return fn
	default:
		return &ast.ExprStmt{Expr: &ast.RawExpr{Text: strings.TrimSuffix(text, ";")}}
	}
}

func unwrapParens(s string) string {
	s = strings.TrimSpace(s)
	for len(s) >= 2 && s[0] == '(' {
		end := findMatching(s, 0)
		if end != len(s)-1 {
			break
		}
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}

func parseReturnArgument(text string) interface{} {
	if text == "" {
		return nil
	}
	if strings.HasPrefix(text, "<") {
		node, _ := parseJSX(text)
		return node
	}
	return &ast.RawExpr{Text: text}
}

func parseIfStmt(text string) *ast.IfStmt {
	parenStart := strings.IndexByte(text, '(')
	parenEnd := findMatching(text, parenStart)
	cond := text[parenStart+1 : parenEnd]
	braceStart := strings.IndexByte(text[parenEnd:], '{')
	braceStart += parenEnd
	braceEnd := findMatching(text, braceStart)
	if braceEnd == -1 {
		braceEnd = len(text) - 1
	}
	consequentText := text[braceStart+1 : braceEnd]
	stmt := &ast.IfStmt{
		Test:       &ast.RawExpr{Text: strings.TrimSpace(cond)},
		Consequent: parseStatements(consequentText),
	}
	rest := strings.TrimSpace(text[braceEnd+1:])
	if strings.HasPrefix(rest, "else") {
		elseBody := strings.TrimSpace(strings.TrimPrefix(rest, "else"))
		if strings.HasPrefix(elseBody, "{") {
			end := findMatching(elseBody, 0)
			if end == -1 {
				end = len(elseBody) - 1
			}
			stmt.Alternate = parseStatements(elseBody[1:end])
		} else {
			stmt.Alternate = []ast.Statement{parseStatement(elseBody)}
		}
	}
	return stmt
}

func parseVarDecl(text string) *ast.VarDeclStmt {
	kind := "const"
	rest := text
	for _, k := range []string{"const ", "let ", "var "} {
		if strings.HasPrefix(rest, k) {
			kind = strings.TrimSpace(k)
			rest = strings.TrimPrefix(rest, k)
			break
		}
	}
	rest = strings.TrimSuffix(strings.TrimSpace(rest), ";")
	decl := &ast.VarDeclStmt{Kind: kind}
	for _, one := range splitTopLevel(rest, ',') {
		one = strings.TrimSpace(one)
		if one == "" {
			continue
		}
		eq := indexTopLevelEquals(one)
		if eq == -1 {
			decl.Declarations = append(decl.Declarations, &ast.Declarator{ID: parsePattern(one)})
			continue
		}
		idText := strings.TrimSpace(one[:eq])
		initText := strings.TrimSpace(one[eq+1:])
		decl.Declarations = append(decl.Declarations, &ast.Declarator{
			ID:   parsePattern(idText),
			Init: parseExpr(initText),
		})
	}
	return decl
}

func indexTopLevelEquals(s string) int {
	depth := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '\'' || c == '"' || c == '`':
			i = skipStringLit(s, i) - 1
			continue
		case c == '(' || c == '[' || c == '{':
			depth++
		case c == ')' || c == ']' || c == '}':
			depth--
		case c == '=' && depth == 0:
			if i > 0 && (s[i-1] == '=' || s[i-1] == '!' || s[i-1] == '<' || s[i-1] == '>') {
				continue
			}
			if i+1 < len(s) && s[i+1] == '=' {
				continue
			}
			if i+1 < len(s) && s[i+1] == '>' {
				continue
			}
			return i
		}
	}
	return -1
}

func parsePattern(text string) ast.Pattern {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "["):
		end := findMatching(text, 0)
		if end == -1 {
			end = len(text) - 1
		}
		inner := text[1:end]
		pat := &ast.ArrayPattern{}
		for _, el := range splitTopLevel(inner, ',') {
			el = strings.TrimSpace(el)
			if el == "" {
				continue
			}
			pat.Elements = append(pat.Elements, parsePattern(el))
		}
		return pat
	case strings.HasPrefix(text, "{"):
		end := findMatching(text, 0)
		if end == -1 {
			end = len(text) - 1
		}
		inner := text[1:end]
		pat := &ast.ObjectPattern{}
		for _, p := range splitTopLevel(inner, ',') {
			p = strings.TrimSpace(p)
			if p == "" {
				continue
			}
			if strings.HasPrefix(p, "...") {
				pat.HasRest = true
				pat.Rest = strings.TrimSpace(strings.TrimPrefix(p, "..."))
				continue
			}
			prop := ast.ObjectPatternProp{}
			if eq := strings.Index(p, "="); eq != -1 && p[eq-1] != '!' {
				prop.HasDefault = true
				prop.DefaultText = strings.TrimSpace(p[eq+1:])
				p = strings.TrimSpace(p[:eq])
			}
			if colon := strings.Index(p, ":"); colon != -1 {
				prop.Key = strings.TrimSpace(p[:colon])
				prop.LocalName = strings.TrimSpace(p[colon+1:])
			} else {
				prop.Key = p
				prop.LocalName = p
			}
			pat.Props = append(pat.Props, prop)
		}
		return pat
	default:
		name := text
		if sp := strings.IndexAny(name, ":"); sp != -1 {
			name = strings.TrimSpace(name[:sp])
		}
		return &ast.IdentifierPattern{Name: name}
	}
}

// parseExpr produces either a RawExpr or, for simple `name(args)` shapes, a
// CallExpr — enough structure for the analyzer's createSignal/createMemo
// classification without a full expression grammar (exprparser handles the
// deeper cases it needs to understand).
func parseExpr(text string) ast.Expression {
	text = strings.TrimSpace(text)
	parenIdx := strings.IndexByte(text, '(')
	if parenIdx > 0 && isIdentifier(text[:parenIdx]) {
		end := findMatching(text, parenIdx)
		if end == len(text)-1 {
			argsText := text[parenIdx+1 : end]
			call := &ast.CallExpr{Callee: text[:parenIdx]}
			for _, a := range splitTopLevel(argsText, ',') {
				a = strings.TrimSpace(a)
				if a == "" {
					continue
				}
				call.Args = append(call.Args, &ast.RawExpr{Text: a})
			}
			return call
		}
	}
	return &ast.RawExpr{Text: text}
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range []byte(s) {
		if i == 0 && !isIdentByte(c) || c >= '0' && c <= '9' && i == 0 {
			return false
		}
		if !isIdentByte(c) {
			return false
		}
	}
	return true
}
