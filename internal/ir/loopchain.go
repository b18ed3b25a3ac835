package ir

import (
	"regexp"
	"strings"

	"github.com/kfly8/barefootjs-sub004/internal/exprparser"
)

// mapCall recognizes `<source>.map(<param>[, <index>]?) => <body>`. The
// map argument is always an arrow in this dialect; destructuring the loop
// parameter itself is out of scope.
var mapCall = regexp.MustCompile(`(?s)^(.*)\.map\(\s*\(?\s*(` + identPattern + `)\s*(?:,\s*(` + identPattern + `)\s*)?\)?\s*=>\s*(.*)\)\s*$`)

type mapMatch struct {
	Source string
	Param  string
	Index  string
	Body   string
}

func matchMapCall(expr string) (mapMatch, bool) {
	m := mapCall.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return mapMatch{}, false
	}
	return mapMatch{Source: strings.TrimSpace(m[1]), Param: m[2], Index: m[3], Body: strings.TrimSpace(m[4])}, true
}

// These four regexes cover the five chain shapes spec §4.4 names (sortOnly
// covers both `sort` and `toSorted`); each captures the base array
// expression, and — when present — the filter predicate arrow and sort
// comparator arrow, in call order.
var (
	filterOnly     = regexp.MustCompile(`^(.*)\.filter\((.*)\)$`)
	sortOnly       = regexp.MustCompile(`^(.*)\.(?:sort|toSorted)\((.*)\)$`)
	filterThenSort = regexp.MustCompile(`^(.*)\.filter\((.*)\)\.(?:sort|toSorted)\((.*)\)$`)
	sortThenFilter = regexp.MustCompile(`^(.*)\.(?:sort|toSorted)\((.*)\)\.filter\((.*)\)$`)
)

var sortComparatorShape = regexp.MustCompile(
	`^\(?\s*(` + identPattern + `)\s*,\s*(` + identPattern + `)\s*\)?\s*=>\s*(` + identPattern + `)\.(` + identPattern + `)\s*-\s*(` + identPattern + `)\.(` + identPattern + `)\s*$`)

// peelChain attempts to split a loop's array source into its base array
// plus structured filter/sort, per spec §4.4. ok is false when the source
// has neither a recognized chain shape (meaning it's a plain array
// expression, not an error) or has a chain shape but extraction of the
// predicate/comparator failed (meaning the chain should be kept intact and
// an error raised by the caller, unless the node is client-only).
func peelChain(source string) (array string, filterPred string, comparator *SortComparator, chainOrder string, extracted bool) {
	src := strings.TrimSpace(source)

	if m := filterThenSort.FindStringSubmatch(src); m != nil {
		return tryExtract(m[1], m[2], m[3], "filter-sort")
	}
	if m := sortThenFilter.FindStringSubmatch(src); m != nil {
		return tryExtract(m[1], m[3], m[2], "sort-filter")
	}
	if m := filterOnly.FindStringSubmatch(src); m != nil {
		return tryExtract(m[1], m[2], "", "filter-sort")
	}
	if m := sortOnly.FindStringSubmatch(src); m != nil {
		return tryExtract(m[1], "", m[2], "filter-sort")
	}
	return src, "", nil, "", false
}

func tryExtract(base, filterArg, sortArg, order string) (string, string, *SortComparator, string, bool) {
	var pred string
	if filterArg != "" {
		p, ok := extractPredicate(filterArg)
		if !ok {
			return base, "", nil, "", false
		}
		pred = p
	}
	var comp *SortComparator
	if sortArg != "" {
		c, ok := extractComparator(sortArg)
		if !ok {
			return base, "", nil, "", false
		}
		comp = c
	}
	if filterArg == "" {
		order = ""
	} else if sortArg == "" {
		order = ""
	}
	return strings.TrimSpace(base), pred, comp, order, true
}

// extractPredicate splits `t => !t.done` into its body and checks the body
// classifies within the supported sub-language (spec §4.1).
func extractPredicate(arrow string) (string, bool) {
	parts := strings.SplitN(arrow, "=>", 2)
	if len(parts) != 2 {
		return "", false
	}
	body := strings.TrimSpace(parts[1])
	parsed := exprparser.Parse(body)
	if !exprparser.IsSupported(parsed).Supported {
		return "", false
	}
	return arrow, true
}

func extractComparator(arrow string) (*SortComparator, bool) {
	m := sortComparatorShape.FindStringSubmatch(strings.TrimSpace(arrow))
	if m == nil {
		return nil, false
	}
	a, b, recvA, fieldA, recvB, fieldB := m[1], m[2], m[3], m[4], m[5], m[6]
	if recvA == a && recvB == b && fieldA == fieldB {
		return &SortComparator{Field: fieldA, Direction: "asc"}, true
	}
	if recvA == b && recvB == a && fieldA == fieldB {
		return &SortComparator{Field: fieldA, Direction: "desc"}, true
	}
	return nil, false
}
