// Package ir defines the polymorphic intermediate representation described
// in spec §3.2, and implements the JSX→IR lowering pass from spec §4.4.
// Like internal/ast, the tree is a tagged sum via interface + type switch
// rather than an inheritance hierarchy (spec §9's design note).
package ir

import "github.com/kfly8/barefootjs-sub004/internal/loc"

// Node is the marker interface every IR variant implements.
type Node interface {
	nodeKind() string
	Location() loc.Range
}

// Attr is one attribute on an Element.
type Attr struct {
	Name                string
	Value               string // literal text, or opaque expr text when Dynamic
	Template            *TemplateLiteral
	Dynamic             bool
	IsLiteral           bool
	PresenceOrUndefined bool
}

// TemplateLiteral is the structured form spec §9 calls for: a template
// string whose only interpolations are ternaries over string-literal
// branches. Parts alternate freely between StringPart and TernaryPart.
type TemplateLiteral struct {
	Parts []TemplatePart
}

type TemplatePart interface{ templatePart() }

type StringPart struct{ Value string }

func (StringPart) templatePart() {}

type TernaryPart struct {
	Condition string
	WhenTrue  string
	WhenFalse string
}

func (TernaryPart) templatePart() {}

// Event is a DOM event binding, name lowercased and its `on` prefix
// stripped (`onClick` → `click`).
type Event struct {
	Name    string
	Handler string
	Loc     loc.Range
}

// Element is a host HTML tag.
type Element struct {
	Tag        string
	Attrs      []Attr
	Events     []Event
	Ref        string // raw ref-callback expr text, "" if none
	Children   []Node
	SlotID     string
	NeedsScope bool
	Range      loc.Range
}

func (*Element) nodeKind() string    { return "Element" }
func (e *Element) Location() loc.Range { return e.Range }

// Text is whitespace-normalized literal content.
type Text struct {
	Value string
	Range loc.Range
}

func (*Text) nodeKind() string      { return "Text" }
func (t *Text) Location() loc.Range { return t.Range }

// Expression is a `{expr}` interpolation.
type Expression struct {
	Expr       string
	Reactive   bool
	SlotID     string
	ClientOnly bool
	PropRefs   []string
	Range      loc.Range
}

func (*Expression) nodeKind() string      { return "Expression" }
func (e *Expression) Location() loc.Range { return e.Range }

// Conditional comes from a ternary or a logical-AND (synthetic null
// false-branch).
type Conditional struct {
	Condition  string
	WhenTrue   Node
	WhenFalse  Node // nil for a true "no else" branch
	Reactive   bool
	SlotID     string
	ClientOnly bool
	Range      loc.Range
}

func (*Conditional) nodeKind() string      { return "Conditional" }
func (c *Conditional) Location() loc.Range { return c.Range }

// SortComparator is the only comparator shape spec §4.4 recognizes:
// `(a,b) => a.Field - b.Field` (Direction "asc") or the mirrored
// subtraction (Direction "desc").
type SortComparator struct {
	Field     string
	Direction string // "asc" | "desc"
}

// Loop comes from an array `.map()` call, with any `sort`/`toSorted`/
// `filter` peeled from its source per spec §4.4.
type Loop struct {
	Array           string
	Param           string
	Index           string
	Key             string
	Children        []Node
	SlotID          string
	IsStaticArray   bool
	ChildComponent  string
	NestedComponents []string
	FilterPredicate string
	SortComparator  *SortComparator
	ChainOrder      string // "filter-sort" | "sort-filter" | ""
	ClientOnly      bool
	Range           loc.Range
}

func (*Loop) nodeKind() string      { return "Loop" }
func (l *Loop) Location() loc.Range { return l.Range }

// ComponentProp is one prop passed to a child Component.
type ComponentProp struct {
	Name          string
	Value         string
	Dynamic       bool
	IsLiteral     bool
	IsEventHandler bool
}

// Component is a child component instance. One lowered from the component's
// own markup always carries a slot id, even with no reactive props, since
// the child may hydrate its own state; one built inside a ternary branch or
// loop body (see literalOrExprNode) carries none.
type Component struct {
	Name     string
	Props    []ComponentProp
	Children []Node
	SlotID   string
	Template string // server-rendered template for this instance, filled by the adapter
	Range    loc.Range
}

func (*Component) nodeKind() string      { return "Component" }
func (c *Component) Location() loc.Range { return c.Range }

// Fragment is a bare `<>...</>`.
type Fragment struct {
	Children          []Node
	Transparent       bool
	NeedsScopeComment bool
	Range             loc.Range
}

func (*Fragment) nodeKind() string      { return "Fragment" }
func (f *Fragment) Location() loc.Range { return f.Range }

// Provider is derived from a tag of form `X.Provider`.
type Provider struct {
	ContextName string
	ValueProp   string
	Children    []Node
	Range       loc.Range
}

func (*Provider) nodeKind() string      { return "Provider" }
func (p *Provider) Location() loc.Range { return p.Range }

// IfStatement is the right-leaning chain built from AnalyzerContext's
// ConditionalReturns.
type IfStatement struct {
	Condition      string
	Consequent     Node
	Alternate      Node // nil, or another *IfStatement, or the final jsxReturn
	ScopeVariables []string
	Range          loc.Range
}

func (*IfStatement) nodeKind() string      { return "IfStatement" }
func (i *IfStatement) Location() loc.Range { return i.Range }

// Root is the top-level result of lowering one component.
type Root struct {
	ComponentName string
	Node          Node
}
