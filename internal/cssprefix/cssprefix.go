// Package cssprefix implements spec §4.5: rewriting class-token strings in
// an IR tree (plus the local constants they transitively reference) with a
// `layer-<name>:` prefix. It is purely textual, mirroring the teacher's own
// approach to scoped-CSS rewriting, and is idempotent by construction:
// already-prefixed tokens are skipped rather than double-prefixed.
package cssprefix

import (
	"regexp"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/iancoleman/strcase"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
	"github.com/kfly8/barefootjs-sub004/internal/ir"
)

// LayerName derives the kebab-case layer token from a component name,
// e.g. "TodoList" → "todo-list", used when cssLayerPrefix isn't supplied
// explicitly by the caller (spec §6.1's Options.cssLayerPrefix).
func LayerName(componentName string) string {
	return strcase.ToKebab(componentName)
}

var classToken = regexp.MustCompile(`\S+`)

// Apply rewrites class/className attributes on every Element in root, and
// any local constants in ctx transitively referenced by a dynamic class
// expression, with the `layer-<name>:` prefix. Applying it twice with the
// same layer name is a no-op the second time.
func Apply(root ir.Node, ctx *analyzer.AnalyzerContext, layer string) {
	referenced := map[string]bool{}
	walk(root, layer, referenced)
	expandReferences(ctx, referenced)
	rewriteConstants(ctx, layer, referenced)
}

func walk(n ir.Node, layer string, referenced map[string]bool) {
	if n == nil {
		return
	}
	switch v := n.(type) {
	case *ir.Element:
		for i := range v.Attrs {
			a := &v.Attrs[i]
			if a.Name != "class" && a.Name != "className" {
				continue
			}
			if a.Template != nil {
				prefixTemplate(a.Template, layer)
				continue
			}
			if !a.Dynamic {
				a.Value = prefixTokens(a.Value, layer)
			} else {
				collectIdentRefs(a.Value, referenced)
			}
		}
		for _, c := range v.Children {
			walk(c, layer, referenced)
		}
	case *ir.Fragment:
		for _, c := range v.Children {
			walk(c, layer, referenced)
		}
	case *ir.Conditional:
		walk(v.WhenTrue, layer, referenced)
		walk(v.WhenFalse, layer, referenced)
	case *ir.Loop:
		for _, c := range v.Children {
			walk(c, layer, referenced)
		}
	case *ir.Component:
		for _, c := range v.Children {
			walk(c, layer, referenced)
		}
	case *ir.Provider:
		for _, c := range v.Children {
			walk(c, layer, referenced)
		}
	case *ir.IfStatement:
		walk(v.Consequent, layer, referenced)
		walk(v.Alternate, layer, referenced)
	}
}

func prefixTokens(value, layer string) string {
	return classToken.ReplaceAllStringFunc(value, func(tok string) string {
		if strings.HasPrefix(tok, "layer-") {
			return tok
		}
		return "layer-" + layer + ":" + tok
	})
}

func prefixTemplate(t *ir.TemplateLiteral, layer string) {
	for i, part := range t.Parts {
		switch p := part.(type) {
		case ir.StringPart:
			t.Parts[i] = ir.StringPart{Value: prefixTokens(p.Value, layer)}
		case ir.TernaryPart:
			t.Parts[i] = ir.TernaryPart{
				Condition: p.Condition,
				WhenTrue:  prefixTokens(p.WhenTrue, layer),
				WhenFalse: prefixTokens(p.WhenFalse, layer),
			}
		}
	}
}

var identRef = regexp2.MustCompile(`(?<![.\w$'"` + "`" + `])[A-Za-z_$][\w$]*`, regexp2.None)

// collectIdentRefs extracts bare identifier references from a dynamic
// class expression, skipping property accesses (preceded by `.`) and
// anything inside string literals, and records each as referenced.
func collectIdentRefs(expr string, referenced map[string]bool) {
	clean := stripStringLiterals(expr)
	m, _ := identRef.FindStringMatch(clean)
	for m != nil {
		referenced[m.String()] = true
		m, _ = identRef.FindNextMatch(m)
	}
}

var stringLit = regexp.MustCompile(`'[^']*'|"[^"]*"|` + "`" + `[^` + "`" + `]*` + "`")

func stripStringLiterals(s string) string {
	return stringLit.ReplaceAllStringFunc(s, func(m string) string {
		return strings.Repeat(" ", len(m))
	})
}

// expandReferences transitively expands the referenced set through other
// referenced constants' initializers: if A is referenced and A's
// initializer mentions B, B becomes referenced too.
func expandReferences(ctx *analyzer.AnalyzerContext, referenced map[string]bool) {
	byName := map[string]string{}
	for _, c := range ctx.LocalConstants {
		byName[c.Name] = c.Value
	}
	changed := true
	for changed {
		changed = false
		for name := range referenced {
			init, ok := byName[name]
			if !ok {
				continue
			}
			before := len(referenced)
			collectIdentRefs(init, referenced)
			if len(referenced) != before {
				changed = true
			}
		}
	}
}

var objectEntry = regexp.MustCompile(`:\s*('[^']*'|"[^"]*")`)
var arrayElement = regexp.MustCompile(`('[^']*'|"[^"]*")`)
var bareString = regexp.MustCompile(`^\s*('[^']*'|"[^"]*")\s*$`)

// rewriteConstants rewrites class-token strings inside the initializer
// text of every referenced local constant, matching the three shapes spec
// §4.5 names: a bare top-level string, object-literal values, and
// array-literal elements. Function calls, numbers, booleans, and bare
// identifiers are left untouched.
func rewriteConstants(ctx *analyzer.AnalyzerContext, layer string, referenced map[string]bool) {
	for i := range ctx.LocalConstants {
		c := &ctx.LocalConstants[i]
		if !referenced[c.Name] {
			continue
		}
		if m := bareString.FindStringSubmatch(c.Value); m != nil {
			c.Value = strings.Replace(c.Value, m[1], prefixQuoted(m[1], layer), 1)
			continue
		}
		trimmed := strings.TrimSpace(c.Value)
		if strings.HasPrefix(trimmed, "{") && strings.HasSuffix(trimmed, "}") {
			c.Value = objectEntry.ReplaceAllStringFunc(c.Value, func(m string) string {
				sub := objectEntry.FindStringSubmatch(m)
				return ": " + prefixQuoted(sub[1], layer)
			})
			continue
		}
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			c.Value = arrayElement.ReplaceAllStringFunc(c.Value, func(m string) string {
				return prefixQuoted(m, layer)
			})
		}
	}
}

func prefixQuoted(lit, layer string) string {
	if len(lit) < 2 {
		return lit
	}
	q := lit[0]
	inner := lit[1 : len(lit)-1]
	return string(q) + prefixTokens(inner, layer) + string(q)
}
