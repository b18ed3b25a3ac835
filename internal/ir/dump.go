package ir

import (
	"bytes"
	"encoding/json"

	jsonx "github.com/go-json-experiment/json"

	"github.com/kfly8/barefootjs-sub004/internal/loc"
)

// IRDocument is the §6.5 dump shape: `{ version, metadata, root, errors }`.
// version identifies the IR schema for downstream consumers independent of
// this repository's own release versioning.
type IRDocument struct {
	Version  string              `json:"version"`
	Metadata IRMetadata          `json:"metadata"`
	Root     *ASTNode            `json:"root"`
	Errors   []loc.DiagnosticMessage `json:"errors"`
}

type IRMetadata struct {
	ComponentName string `json:"componentName"`
	FilePath      string `json:"filePath"`
}

// ASTNode is a hand-built, explicitly ordered mirror of the IR tree: a
// struct with omitempty fields rather than a map, so key order in the
// dumped JSON is the field declaration order, never incidental map-key
// order (spec §9's determinism note).
type ASTNode struct {
	Kind       string     `json:"kind"`
	Tag        string     `json:"tag,omitempty"`
	Value      string     `json:"value,omitempty"`
	SlotID     string     `json:"slotId,omitempty"`
	NeedsScope bool       `json:"needsScope,omitempty"`
	Reactive   bool       `json:"reactive,omitempty"`
	ClientOnly bool       `json:"clientOnly,omitempty"`
	Attrs      []ASTAttr  `json:"attrs,omitempty"`
	Events     []ASTEvent `json:"events,omitempty"`
	Children   []*ASTNode `json:"children,omitempty"`
	Condition  string     `json:"condition,omitempty"`
	WhenTrue   *ASTNode   `json:"whenTrue,omitempty"`
	WhenFalse  *ASTNode   `json:"whenFalse,omitempty"`
	Array      string     `json:"array,omitempty"`
	Param      string     `json:"param,omitempty"`
	Index      string     `json:"index,omitempty"`
	Name       string     `json:"name,omitempty"`
	Transparent bool      `json:"transparent,omitempty"`
	IsStaticArray   bool            `json:"isStaticArray,omitempty"`
	FilterPredicate string          `json:"filterPredicate,omitempty"`
	SortComparator  *ASTSortComparator `json:"sortComparator,omitempty"`
	ChainOrder      string          `json:"chainOrder,omitempty"`
}

// ASTSortComparator mirrors ir.SortComparator for the §6.5 dump.
type ASTSortComparator struct {
	Field     string `json:"field"`
	Direction string `json:"direction"`
}

type ASTAttr struct {
	Name    string `json:"name"`
	Value   string `json:"value,omitempty"`
	Dynamic bool   `json:"dynamic,omitempty"`
}

type ASTEvent struct {
	Name    string `json:"name"`
	Handler string `json:"handler"`
}

// Dump renders an IRDocument for root, using the go-json-experiment codec
// for the actual encoding step; the ASTNode shape itself is built by hand
// first so key order is explicit.
func Dump(root *Root, filePath string, errors []loc.DiagnosticMessage) ([]byte, error) {
	doc := IRDocument{
		Version: "0.1",
		Metadata: IRMetadata{
			ComponentName: root.ComponentName,
			FilePath:      filePath,
		},
		Root:   toASTNode(root.Node),
		Errors: errors,
	}
	raw, err := jsonx.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return raw, nil
	}
	return buf.Bytes(), nil
}

func toASTNode(n Node) *ASTNode {
	if n == nil {
		return nil
	}
	switch v := n.(type) {
	case *Element:
		out := &ASTNode{Kind: "Element", Tag: v.Tag, SlotID: v.SlotID, NeedsScope: v.NeedsScope}
		for _, a := range v.Attrs {
			out.Attrs = append(out.Attrs, ASTAttr{Name: a.Name, Value: a.Value, Dynamic: a.Dynamic})
		}
		for _, e := range v.Events {
			out.Events = append(out.Events, ASTEvent{Name: e.Name, Handler: e.Handler})
		}
		for _, c := range v.Children {
			out.Children = append(out.Children, toASTNode(c))
		}
		return out
	case *Text:
		return &ASTNode{Kind: "Text", Value: v.Value}
	case *Expression:
		return &ASTNode{Kind: "Expression", Value: v.Expr, Reactive: v.Reactive, ClientOnly: v.ClientOnly, SlotID: v.SlotID}
	case *Conditional:
		return &ASTNode{
			Kind: "Conditional", Condition: v.Condition, Reactive: v.Reactive,
			ClientOnly: v.ClientOnly, SlotID: v.SlotID,
			WhenTrue: toASTNode(v.WhenTrue), WhenFalse: toASTNode(v.WhenFalse),
		}
	case *Loop:
		out := &ASTNode{
			Kind: "Loop", Array: v.Array, Param: v.Param, Index: v.Index,
			SlotID: v.SlotID, ClientOnly: v.ClientOnly,
			IsStaticArray: v.IsStaticArray, FilterPredicate: v.FilterPredicate,
			ChainOrder: v.ChainOrder,
		}
		if v.SortComparator != nil {
			out.SortComparator = &ASTSortComparator{
				Field: v.SortComparator.Field, Direction: v.SortComparator.Direction,
			}
		}
		for _, c := range v.Children {
			out.Children = append(out.Children, toASTNode(c))
		}
		return out
	case *Component:
		out := &ASTNode{Kind: "Component", Name: v.Name, SlotID: v.SlotID}
		for _, c := range v.Children {
			out.Children = append(out.Children, toASTNode(c))
		}
		return out
	case *Fragment:
		out := &ASTNode{Kind: "Fragment", Transparent: v.Transparent}
		for _, c := range v.Children {
			out.Children = append(out.Children, toASTNode(c))
		}
		return out
	case *Provider:
		out := &ASTNode{Kind: "Provider", Name: v.ContextName, Value: v.ValueProp}
		for _, c := range v.Children {
			out.Children = append(out.Children, toASTNode(c))
		}
		return out
	case *IfStatement:
		return &ASTNode{
			Kind: "IfStatement", Condition: v.Condition,
			WhenTrue: toASTNode(v.Consequent), WhenFalse: toASTNode(v.Alternate),
		}
	default:
		return nil
	}
}
