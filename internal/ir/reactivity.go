package ir

import (
	"regexp"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/analyzer"
)

// reactivityIndex is precomputed once per component lowering and answers
// the reactivity test from spec §4.4: an expression is reactive if it
// mentions a signal getter by call form, a memo by call form, a non-
// `children` prop as a free identifier, or a local constant that is
// itself (transitively) reactive.
type reactivityIndex struct {
	getterCalls   map[string]bool // signal getters + memo names, called as name()
	propIdents    map[string]bool // destructured prop names (bare identifiers)
	propsObject   string          // object-form props parameter name, "" if destructured
	reactiveConst map[string]bool // local constants whose value is reactive
}

func buildReactivityIndex(ctx *analyzer.AnalyzerContext) *reactivityIndex {
	idx := &reactivityIndex{
		getterCalls: map[string]bool{},
		propIdents:  map[string]bool{},
		propsObject: ctx.PropsObjectName,
	}
	for _, s := range ctx.Signals {
		idx.getterCalls[s.Getter] = true
	}
	for _, m := range ctx.Memos {
		idx.getterCalls[m.Name] = true
	}
	for _, p := range ctx.PropsParams {
		if p.Name != "children" {
			idx.propIdents[p.Name] = true
		}
	}

	idx.reactiveConst = map[string]bool{}
	// Fixpoint over local constants: a constant is reactive if its
	// initializer is reactive given what's already known to be reactive.
	changed := true
	for changed {
		changed = false
		for _, c := range ctx.LocalConstants {
			if idx.reactiveConst[c.Name] {
				continue
			}
			if idx.isReactiveText(c.Value) {
				idx.reactiveConst[c.Name] = true
				changed = true
			}
		}
	}
	return idx
}

var identPattern = `[A-Za-z_$][\w$]*`

func (idx *reactivityIndex) isReactiveText(text string) bool {
	if text == "" {
		return false
	}
	for name := range idx.getterCalls {
		if regexp.MustCompile(`\b`+regexp.QuoteMeta(name)+`\s*\(\)`).MatchString(text) {
			return true
		}
	}
	for name := range idx.propIdents {
		if hasFreeIdent(text, name) {
			return true
		}
	}
	if idx.propsObject != "" {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(idx.propsObject) + `\.(?:` + identPattern + `)`)
		if m := re.FindString(text); m != "" && !strings.HasSuffix(m, ".children") {
			return true
		}
	}
	for name := range idx.reactiveConst {
		if hasFreeIdent(text, name) {
			return true
		}
	}
	return false
}

func hasFreeIdent(text, name string) bool {
	return regexp.MustCompile(`\b` + regexp.QuoteMeta(name) + `\b`).MatchString(text)
}

// propRefs collects which destructured prop names and (if present) which
// `props.X` accessors appear in text, used to populate Expression.PropRefs.
func (idx *reactivityIndex) propRefs(text string) []string {
	var refs []string
	for name := range idx.propIdents {
		if hasFreeIdent(text, name) {
			refs = append(refs, name)
		}
	}
	if idx.propsObject != "" {
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(idx.propsObject) + `\.(` + identPattern + `)`)
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			if m[1] != "children" {
				refs = append(refs, idx.propsObject+"."+m[1])
			}
		}
	}
	return refs
}
